package playlist

import (
	"cmp"
	"strings"
)

// StreamInfTag introduces a stream variant. The variant's URI is on the next line.
const StreamInfTag = "#EXT-X-STREAM-INF:"

// StreamVariant is one video rendition of a master playlist.
type StreamVariant struct {
	Bandwidth        int
	AverageBandwidth int
	Codecs           string
	ResolutionHeight int
	FrameRate        string
	VideoRange       string
	AudioGroup       string
	ClosedCaptions   string
	URI              string

	// Line is the descriptor line as it appeared in the input.
	Line       string
	LineNumber int
}

// StreamVariants parses and holds the #EXT-X-STREAM-INF section.
type StreamVariants struct {
	Variants []StreamVariant
}

func (s *StreamVariants) Kind() Kind { return StreamSection }

func (s *StreamVariants) Records() []StreamVariant { return s.Variants }

// Parse scans text for stream variants, replacing any previously parsed.
func (s *StreamVariants) Parse(text string) error {
	var (
		variants []StreamVariant
		pending  *StreamVariant
	)
	for i, line := range splitLines(text) {
		num := i + 1
		if strings.HasPrefix(line, StreamInfTag) {
			if pending != nil {
				return missingURI(pending)
			}
			v, err := parseStreamInf(line, num)
			if err != nil {
				return err
			}
			pending = &v
			continue
		}
		if pending == nil || line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pending.URI = line
		variants = append(variants, *pending)
		pending = nil
	}
	if pending != nil {
		return missingURI(pending)
	}
	if len(variants) == 0 {
		return ErrNoVariants
	}
	s.Variants = variants
	return nil
}

func parseStreamInf(line string, num int) (StreamVariant, error) {
	a := lineAttrs{tag: "EXT-X-STREAM-INF", text: line, num: num}
	v := StreamVariant{
		Bandwidth:        a.integer("BANDWIDTH", true),
		AverageBandwidth: a.integer("AVERAGE-BANDWIDTH", false),
		Codecs:           a.str("CODECS"),
		ResolutionHeight: a.height("RESOLUTION"),
		FrameRate:        a.str("FRAME-RATE"),
		VideoRange:       a.str("VIDEO-RANGE"),
		AudioGroup:       a.str("AUDIO"),
		ClosedCaptions:   a.str("CLOSED-CAPTIONS"),
		Line:             line,
		LineNumber:       num,
	}
	return v, a.err
}

func missingURI(v *StreamVariant) error {
	return &AttributeError{Tag: "EXT-X-STREAM-INF", Line: v.LineNumber, Err: ErrMissingURI}
}

var streamComparators = Comparators[StreamVariant]{
	Bandwidth: func(a, b *StreamVariant) int { return cmp.Compare(a.Bandwidth, b.Bandwidth) },
	AverageBandwidth: func(a, b *StreamVariant) int {
		return cmp.Compare(a.AverageBandwidth, b.AverageBandwidth)
	},
	Codecs: func(a, b *StreamVariant) int { return strings.Compare(a.Codecs, b.Codecs) },
	Resolution: func(a, b *StreamVariant) int {
		return cmp.Compare(a.ResolutionHeight, b.ResolutionHeight)
	},
	FrameRate:  func(a, b *StreamVariant) int { return strings.Compare(a.FrameRate, b.FrameRate) },
	VideoRange: func(a, b *StreamVariant) int { return strings.Compare(a.VideoRange, b.VideoRange) },
	AudioGroup: func(a, b *StreamVariant) int { return strings.Compare(a.AudioGroup, b.AudioGroup) },
	ClosedCaptions: func(a, b *StreamVariant) int {
		return strings.Compare(a.ClosedCaptions, b.ClosedCaptions)
	},
}

func (s *StreamVariants) Comparators() Comparators[StreamVariant] { return streamComparators }

// splitLines splits text on newlines and drops carriage returns and
// surrounding blanks from every line.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}
