package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alorle/hls-sorter/circuitbreaker"
)

// BreakerConfig holds the per-host circuit breaker settings used by the fetcher
type BreakerConfig struct {
	FailureThreshold int      `yaml:"failure_threshold" toml:"failure_threshold"` // Number of failures before opening circuit
	Timeout          Duration `yaml:"timeout" toml:"timeout"`                     // Timeout before attempting to close circuit
	HalfOpenRequests int      `yaml:"half_open_requests" toml:"half_open_requests"` // Requests allowed in half-open state
}

// DefaultBreakerConfig returns a BreakerConfig with sensible defaults
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		Timeout:          Duration(30 * time.Second),
		HalfOpenRequests: 1,
	}
}

// Validate performs validation on the breaker settings
func (c BreakerConfig) Validate() error {
	var errors []string

	if c.FailureThreshold <= 0 {
		errors = append(errors, "failure_threshold must be positive")
	}
	if c.Timeout <= 0 {
		errors = append(errors, "timeout must be positive")
	}
	if c.HalfOpenRequests <= 0 {
		errors = append(errors, "half_open_requests must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("invalid breaker configuration: %s", strings.Join(errors, ", "))
	}
	return nil
}

// Circuit converts the settings into a circuitbreaker.Config
func (c BreakerConfig) Circuit() circuitbreaker.Config {
	return circuitbreaker.Config{
		FailureThreshold: c.FailureThreshold,
		Timeout:          c.Timeout.Std(),
		HalfOpenRequests: c.HalfOpenRequests,
	}
}

// envParser is a helper for parsing environment variables with validation
type envParser struct {
	errors []string
}

func (p *envParser) err() error {
	if len(p.errors) == 0 {
		return nil
	}
	return fmt.Errorf("invalid environment:\n  - %s", strings.Join(p.errors, "\n  - "))
}

// parseString copies a non-empty environment variable into target
func (p *envParser) parseString(envName string, target *string) {
	if val := strings.TrimSpace(os.Getenv(envName)); val != "" {
		*target = val
	}
}

// parseList splits a comma-separated environment variable
func (p *envParser) parseList(envName string, target *[]string) {
	val := os.Getenv(envName)
	if strings.TrimSpace(val) == "" {
		return
	}
	var items []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	*target = items
}

// parseDuration parses a duration environment variable, ensuring it's positive
func (p *envParser) parseDuration(envName string, target *Duration) {
	val := os.Getenv(envName)
	if val == "" {
		return
	}

	duration, err := time.ParseDuration(val)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("%s: invalid duration format (use '30s', '1m', etc.)", envName))
		return
	}

	if duration <= 0 {
		p.errors = append(p.errors, fmt.Sprintf("%s must be positive", envName))
		return
	}

	*target = Duration(duration)
}

// parseInt parses an integer environment variable, ensuring it's positive
func (p *envParser) parseInt(envName string, target *int) {
	val := os.Getenv(envName)
	if val == "" {
		return
	}

	intVal, err := strconv.Atoi(val)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("%s: must be a valid integer", envName))
		return
	}

	if intVal <= 0 {
		p.errors = append(p.errors, fmt.Sprintf("%s must be positive", envName))
		return
	}

	*target = intVal
}

// parseByteSize parses a byte size environment variable, ensuring it's positive
func (p *envParser) parseByteSize(envName string, target *ByteSize) {
	val := os.Getenv(envName)
	if val == "" {
		return
	}

	size, err := parseByteSize(val)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("%s: %v", envName, err))
		return
	}

	if size <= 0 {
		p.errors = append(p.errors, fmt.Sprintf("%s must be positive", envName))
		return
	}

	*target = ByteSize(size)
}

// parseEnum parses an enum environment variable from a set of valid values.
// Values are compared lowercased.
func (p *envParser) parseEnum(envName string, target *string, validValues ...string) {
	val := os.Getenv(envName)
	if val == "" {
		return
	}

	normalized := strings.ToLower(strings.TrimSpace(val))
	for _, v := range validValues {
		if v == normalized {
			*target = normalized
			return
		}
	}
	p.errors = append(p.errors, fmt.Sprintf("%s must be one of: %s", envName, strings.Join(validValues, ", ")))
}

// parseByteSize parses a byte size string (e.g., "2MB", "1024", "1.5GB")
// Supports: bytes (no suffix), KB, MB, GB
func parseByteSize(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))

	if val, err := strconv.ParseInt(s, 10, 64); err == nil {
		return val, nil
	}

	// Check longer suffixes first to avoid "B" matching "MB"
	suffixes := []struct {
		suffix     string
		multiplier int64
	}{
		{"GB", 1 << 30},
		{"MB", 1 << 20},
		{"KB", 1 << 10},
		{"B", 1},
	}

	for _, item := range suffixes {
		if !strings.HasSuffix(s, item.suffix) {
			continue
		}
		numStr := strings.TrimSpace(strings.TrimSuffix(s, item.suffix))

		if val, err := strconv.ParseInt(numStr, 10, 64); err == nil {
			if val < 0 {
				return 0, fmt.Errorf("negative values are not allowed")
			}
			return val * item.multiplier, nil
		}

		if val, err := strconv.ParseFloat(numStr, 64); err == nil {
			if val < 0 {
				return 0, fmt.Errorf("negative values are not allowed")
			}
			return int64(val * float64(item.multiplier)), nil
		}

		return 0, fmt.Errorf("invalid numeric value: %s", numStr)
	}

	return 0, fmt.Errorf("invalid byte size format (use '2MB', '1024', '1.5GB', etc.)")
}
