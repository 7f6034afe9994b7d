package playlist

import (
	"fmt"
	"strconv"
	"strings"
)

// Attribute names a sortable record attribute. One enumeration is shared by
// every section; each section decides which members it supports.
type Attribute int

// Sortable attributes. The stream attributes come first, then the media
// (audio) attributes.
const (
	Bandwidth Attribute = iota
	AverageBandwidth
	Codecs
	Resolution
	FrameRate
	VideoRange
	AudioGroup
	ClosedCaptions
	ID
	Name
	Language
	Default
	Autoselect
	Channels
	Type
)

var attributeNames = [...]string{
	Bandwidth:        "BANDWIDTH",
	AverageBandwidth: "AVERAGE_BANDWIDTH",
	Codecs:           "CODECS",
	Resolution:       "RESOLUTION",
	FrameRate:        "FRAME_RATE",
	VideoRange:       "VIDEO_RANGE",
	AudioGroup:       "AUDIO",
	ClosedCaptions:   "CLOSED_CAPTIONS",
	ID:               "ID",
	Name:             "NAME",
	Language:         "LANGUAGE",
	Default:          "DEFAULT",
	Autoselect:       "AUTOSELECT",
	Channels:         "CHANNELS",
	Type:             "TYPE",
}

// Attributes returns every member of the enumeration in declaration order.
func Attributes() []Attribute {
	all := make([]Attribute, len(attributeNames))
	for i := range attributeNames {
		all[i] = Attribute(i)
	}
	return all
}

func (a Attribute) String() string {
	if a < 0 || int(a) >= len(attributeNames) {
		return fmt.Sprintf("Attribute(%d)", int(a))
	}
	return attributeNames[a]
}

// ParseAttribute converts a name to an Attribute. Both the enumeration
// spelling (AVERAGE_BANDWIDTH) and the manifest spelling (AVERAGE-BANDWIDTH)
// are accepted, as is GROUP-ID for ID. Matching ignores case.
func ParseAttribute(s string) (Attribute, error) {
	name := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_")
	if name == "GROUP_ID" {
		return ID, nil
	}
	for i, n := range attributeNames {
		if n == name {
			return Attribute(i), nil
		}
	}
	return 0, fmt.Errorf("playlist: unknown attribute %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Attribute) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Attribute) UnmarshalText(text []byte) error {
	v, err := ParseAttribute(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Extract returns the value of key in a manifest attribute list. A quoted
// value is returned without its quotes and may contain commas and spaces;
// an unquoted value ends at the next comma or whitespace. The key must be a
// whole token: it starts the line or follows ':', ',' or whitespace, and it is
// never matched inside a quoted span. Extract returns "" when key is absent.
func Extract(line, key string) string {
	if key == "" {
		return ""
	}
	token := key + "="
	quoted := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '"' {
			quoted = !quoted
			continue
		}
		if quoted || !atTokenStart(line, i) || !strings.HasPrefix(line[i:], token) {
			continue
		}
		return valueAt(line[i+len(token):])
	}
	return ""
}

func atTokenStart(line string, i int) bool {
	if i == 0 {
		return true
	}
	switch line[i-1] {
	case ':', ',', ' ', '\t':
		return true
	}
	return false
}

func valueAt(rest string) string {
	if strings.HasPrefix(rest, `"`) {
		rest = rest[1:]
		if end := strings.IndexByte(rest, '"'); end >= 0 {
			return rest[:end]
		}
		return rest
	}
	if end := strings.IndexAny(rest, ", \t\r\n"); end >= 0 {
		return rest[:end]
	}
	return rest
}

// lineAttrs reads typed values out of one descriptor line and remembers
// the first failure, so a parser can extract every field and check once.
type lineAttrs struct {
	tag  string
	text string
	num  int
	err  error
}

func (l *lineAttrs) str(key string) string {
	return Extract(l.text, key)
}

// integer parses key as a decimal integer. An absent key yields 0 unless
// required is set.
func (l *lineAttrs) integer(key string, required bool) int {
	raw := Extract(l.text, key)
	if raw == "" {
		if required {
			l.fail(key, raw)
		}
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		l.fail(key, raw)
		return 0
	}
	return n
}

// height derives the vertical size from a WIDTHxHEIGHT value. The separator
// may be x or X. No value, or a value without the separator, yields 0.
func (l *lineAttrs) height(key string) int {
	raw := Extract(l.text, key)
	x := strings.IndexAny(raw, "xX")
	if x < 0 {
		return 0
	}
	n, err := strconv.Atoi(raw[x+1:])
	if err != nil {
		l.fail(key, raw)
		return 0
	}
	return n
}

// channels keeps the numeric prefix of a CHANNELS value such as "6/JOC".
func (l *lineAttrs) channels(key string) int {
	raw := Extract(l.text, key)
	if raw == "" {
		return 0
	}
	count := raw
	if slash := strings.IndexByte(raw, '/'); slash >= 0 {
		count = raw[:slash]
	}
	n, err := strconv.Atoi(count)
	if err != nil {
		l.fail(key, raw)
		return 0
	}
	return n
}

func (l *lineAttrs) fail(key, raw string) {
	if l.err != nil {
		return
	}
	l.err = &AttributeError{Tag: l.tag, Key: key, Value: raw, Line: l.num, Err: ErrMalformedAttribute}
}
