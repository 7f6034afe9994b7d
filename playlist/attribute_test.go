package playlist

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	const line = `#EXT-X-STREAM-INF:AVERAGE-BANDWIDTH=4500000,BANDWIDTH=5000000,CODECS="avc1.640028,mp4a.40.2",RESOLUTION=1920x1080,NAME="Main Feed"`

	tests := []struct {
		name string
		line string
		key  string
		want string
	}{
		{"bare value", line, "BANDWIDTH", "5000000"},
		{"key that is a suffix of another key", line, "AVERAGE-BANDWIDTH", "4500000"},
		{"quoted value with comma", line, "CODECS", "avc1.640028,mp4a.40.2"},
		{"quoted value with space", line, "NAME", "Main Feed"},
		{"resolution", line, "RESOLUTION", "1920x1080"},
		{"absent key", line, "FRAME-RATE", ""},
		{"empty key", line, "", ""},
		{"value ends at whitespace", "#TAG:A=1 B=2", "A", "1"},
		{"key after whitespace", "#TAG:A=1 B=2", "B", "2"},
		{"key at line start", "BANDWIDTH=7", "BANDWIDTH", "7"},
		{"key inside quoted span is ignored", `#TAG:URI="x,BANDWIDTH=1",BANDWIDTH=2`, "BANDWIDTH", "2"},
		{"key inside query string is ignored", `#TAG:URI=a?BANDWIDTH=1`, "BANDWIDTH", ""},
		{"unterminated quote", `#TAG:NAME="open`, "NAME", "open"},
		{"empty quoted value", `#TAG:NAME="",X=1`, "NAME", ""},
		{"trailing carriage return", "#TAG:X=1\r", "X", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.line, tt.key))
		})
	}
}

func TestParseAttribute(t *testing.T) {
	tests := []struct {
		input string
		want  Attribute
	}{
		{"BANDWIDTH", Bandwidth},
		{"bandwidth", Bandwidth},
		{"AVERAGE_BANDWIDTH", AverageBandwidth},
		{"average-bandwidth", AverageBandwidth},
		{"FRAME-RATE", FrameRate},
		{"VIDEO_RANGE", VideoRange},
		{"AUDIO", AudioGroup},
		{"CLOSED-CAPTIONS", ClosedCaptions},
		{"ID", ID},
		{"GROUP-ID", ID},
		{" language ", Language},
		{"DEFAULT", Default},
		{"CHANNELS", Channels},
		{"TYPE", Type},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAttribute(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseAttribute("HDCP-LEVEL")
	assert.Error(t, err)
}

func TestAttributeStringRoundTrip(t *testing.T) {
	for _, a := range Attributes() {
		got, err := ParseAttribute(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	assert.Equal(t, "Attribute(99)", Attribute(99).String())
}

func TestAttributeUnmarshalText(t *testing.T) {
	var a Attribute
	require.NoError(t, a.UnmarshalText([]byte("resolution")))
	assert.Equal(t, Resolution, a)
	assert.Error(t, a.UnmarshalText([]byte("nope")))
}

func TestLineAttrs(t *testing.T) {
	t.Run("channel count", func(t *testing.T) {
		tests := []struct {
			value string
			want  int
		}{
			{`"6/JOC"`, 6},
			{`"2"`, 2},
			{`"16/JOC/-"`, 16},
		}
		for _, tt := range tests {
			a := lineAttrs{tag: "EXT-X-MEDIA", text: "#EXT-X-MEDIA:CHANNELS=" + tt.value}
			assert.Equal(t, tt.want, a.channels("CHANNELS"), tt.value)
			assert.NoError(t, a.err)
		}
	})

	t.Run("absent channels is zero", func(t *testing.T) {
		a := lineAttrs{text: "#EXT-X-MEDIA:TYPE=AUDIO"}
		assert.Equal(t, 0, a.channels("CHANNELS"))
		assert.NoError(t, a.err)
	})

	t.Run("height", func(t *testing.T) {
		a := lineAttrs{text: "#X:RESOLUTION=1280x720"}
		assert.Equal(t, 720, a.height("RESOLUTION"))

		a = lineAttrs{text: "#X:BANDWIDTH=1"}
		assert.Equal(t, 0, a.height("RESOLUTION"))

		a = lineAttrs{text: "#X:RESOLUTION=1280"}
		assert.Equal(t, 0, a.height("RESOLUTION"))
		assert.NoError(t, a.err)
	})

	t.Run("malformed values fail with the first error", func(t *testing.T) {
		a := lineAttrs{tag: "EXT-X-STREAM-INF", text: "#X:BANDWIDTH=12k,RESOLUTION=1280xabc", num: 4}
		a.integer("BANDWIDTH", true)
		a.height("RESOLUTION")

		var attrErr *AttributeError
		require.True(t, errors.As(a.err, &attrErr))
		assert.Equal(t, "BANDWIDTH", attrErr.Key)
		assert.Equal(t, "12k", attrErr.Value)
		assert.Equal(t, 4, attrErr.Line)
		assert.ErrorIs(t, a.err, ErrMalformedAttribute)
	})

	t.Run("required integer missing", func(t *testing.T) {
		a := lineAttrs{text: "#X:CODECS=avc1"}
		assert.Equal(t, 0, a.integer("BANDWIDTH", true))
		assert.ErrorIs(t, a.err, ErrMalformedAttribute)
	})

	t.Run("optional integer missing", func(t *testing.T) {
		a := lineAttrs{text: "#X:BANDWIDTH=1"}
		assert.Equal(t, 0, a.integer("AVERAGE-BANDWIDTH", false))
		assert.NoError(t, a.err)
	})
}
