package playlist

import (
	"cmp"
	"strings"
)

// IFrameStreamInfTag introduces a trick-play rendition. Its URI is an attribute.
const IFrameStreamInfTag = "#EXT-X-I-FRAME-STREAM-INF:"

// IFrameStream is a key-frame-only rendition.
type IFrameStream struct {
	Bandwidth        int
	Codecs           string
	ResolutionHeight int
	VideoRange       string
	URI              string

	Line       string
	LineNumber int
}

// IFrameStreams parses and holds the #EXT-X-I-FRAME-STREAM-INF section.
type IFrameStreams struct {
	Streams []IFrameStream
}

func (s *IFrameStreams) Kind() Kind { return IFrameSection }

func (s *IFrameStreams) Records() []IFrameStream { return s.Streams }

func (s *IFrameStreams) Parse(text string) error {
	var streams []IFrameStream
	for i, line := range splitLines(text) {
		if !strings.HasPrefix(line, IFrameStreamInfTag) {
			continue
		}
		a := lineAttrs{tag: "EXT-X-I-FRAME-STREAM-INF", text: line, num: i + 1}
		f := IFrameStream{
			Bandwidth:        a.integer("BANDWIDTH", true),
			URI:              a.str("URI"),
			VideoRange:       a.str("VIDEO-RANGE"),
			Codecs:           a.str("CODECS"),
			ResolutionHeight: a.height("RESOLUTION"),
			Line:             line,
			LineNumber:       i + 1,
		}
		if a.err != nil {
			return a.err
		}
		streams = append(streams, f)
	}
	s.Streams = streams
	return nil
}

var iframeComparators = Comparators[IFrameStream]{
	Bandwidth: func(a, b *IFrameStream) int { return cmp.Compare(a.Bandwidth, b.Bandwidth) },
	Codecs:    func(a, b *IFrameStream) int { return strings.Compare(a.Codecs, b.Codecs) },
	Resolution: func(a, b *IFrameStream) int {
		return cmp.Compare(a.ResolutionHeight, b.ResolutionHeight)
	},
	VideoRange: func(a, b *IFrameStream) int { return strings.Compare(a.VideoRange, b.VideoRange) },
}

func (s *IFrameStreams) Comparators() Comparators[IFrameStream] { return iframeComparators }
