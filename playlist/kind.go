package playlist

import (
	"fmt"
	"strings"
)

// Kind identifies one section of a master playlist.
type Kind int

const (
	StreamSection Kind = iota
	AudioSection
	IFrameSection
)

// Kinds lists the sections in serialization order.
func Kinds() []Kind {
	return []Kind{StreamSection, AudioSection, IFrameSection}
}

func (k Kind) String() string {
	switch k {
	case StreamSection:
		return "stream"
	case AudioSection:
		return "audio"
	case IFrameSection:
		return "iframe"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts a section name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stream", "streams", "variant", "variants":
		return StreamSection, nil
	case "audio", "media":
		return AudioSection, nil
	case "iframe", "iframes", "i-frame", "i-frames":
		return IFrameSection, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSection, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
