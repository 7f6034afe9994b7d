package config

import (
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDefaultBreakerConfig(t *testing.T) {
	cfg := DefaultBreakerConfig()

	if cfg.FailureThreshold != 5 {
		t.Errorf("Expected FailureThreshold to be 5, got %d", cfg.FailureThreshold)
	}
	if cfg.Timeout.Std() != 30*time.Second {
		t.Errorf("Expected Timeout to be 30s, got %v", cfg.Timeout)
	}
	if cfg.HalfOpenRequests != 1 {
		t.Errorf("Expected HalfOpenRequests to be 1, got %d", cfg.HalfOpenRequests)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default breaker config should validate, got %v", err)
	}

	circuit := cfg.Circuit()
	if circuit.FailureThreshold != 5 || circuit.Timeout != 30*time.Second || circuit.HalfOpenRequests != 1 {
		t.Errorf("Unexpected circuit config %+v", circuit)
	}
}

func TestBreakerConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BreakerConfig)
		wantErr string
	}{
		{"zero threshold", func(c *BreakerConfig) { c.FailureThreshold = 0 }, "failure_threshold"},
		{"negative timeout", func(c *BreakerConfig) { c.Timeout = Duration(-time.Second) }, "timeout"},
		{"zero half open", func(c *BreakerConfig) { c.HalfOpenRequests = 0 }, "half_open_requests"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultBreakerConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error to contain %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEnvParserCollectsErrors(t *testing.T) {
	t.Setenv("HLSORT_TEST_INT", "abc")
	t.Setenv("HLSORT_TEST_DURATION", "10")

	var n int
	var d Duration
	p := &envParser{}
	p.parseInt("HLSORT_TEST_INT", &n)
	p.parseDuration("HLSORT_TEST_DURATION", &d)

	err := p.err()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "HLSORT_TEST_INT") || !strings.Contains(err.Error(), "HLSORT_TEST_DURATION") {
		t.Errorf("Expected both variables in error, got %v", err)
	}
	if n != 0 || d != 0 {
		t.Error("Targets should be untouched on error")
	}
}

func TestEnvParserList(t *testing.T) {
	t.Setenv("HLSORT_TEST_LIST", " RESOLUTION ,, BANDWIDTH,")

	target := []string{"ID"}
	p := &envParser{}
	p.parseList("HLSORT_TEST_LIST", &target)

	if strings.Join(target, "|") != "RESOLUTION|BANDWIDTH" {
		t.Errorf("Unexpected list %q", target)
	}
	if p.err() != nil {
		t.Errorf("Unexpected error %v", p.err())
	}
}

func TestParseByteSize(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{"1024", 1024, false},
		{"1KB", 1024, false},
		{"2MB", 2 * 1024 * 1024, false},
		{"1GB", 1024 * 1024 * 1024, false},
		{"1.5MB", 1572864, false},
		{"512 kb", 512 * 1024, false},
		{"100B", 100, false},
		{"-1MB", 0, true},
		{"invalid", 0, true},
		{"MB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := parseByteSize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for input %q, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error for input %q: %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("Expected %d, got %d for input %q", tt.expected, result, tt.input)
			}
		})
	}
}

func TestByteSizeString(t *testing.T) {
	tests := []struct {
		size ByteSize
		want string
	}{
		{16 << 20, "16MB"},
		{2 << 30, "2GB"},
		{512 << 10, "512KB"},
		{1536, "1536"},
		{0, "0"},
	}

	for _, tt := range tests {
		if got := tt.size.String(); got != tt.want {
			t.Errorf("ByteSize(%d).String() = %q, want %q", int64(tt.size), got, tt.want)
		}
	}
}

func TestDurationYAML(t *testing.T) {
	var v struct {
		D Duration `yaml:"d"`
	}
	if err := yaml.Unmarshal([]byte("d: 1m30s\n"), &v); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if v.D.Std() != 90*time.Second {
		t.Errorf("Expected 90s, got %v", v.D)
	}

	if err := yaml.Unmarshal([]byte("d: [1s]\n"), &v); err == nil {
		t.Error("Expected error for sequence value")
	}

	text, err := v.D.MarshalText()
	if err != nil || string(text) != "1m30s" {
		t.Errorf("MarshalText() = %q, %v", text, err)
	}
}
