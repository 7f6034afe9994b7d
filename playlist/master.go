// Package playlist decomposes an HLS master playlist into its stream
// variant, audio track and I-Frame sections, reorders each section by
// record attributes and serializes the result back to manifest text.
//
// Descriptor lines are kept verbatim, so attributes the records do not
// model survive a parse and serialize round trip untouched.
package playlist

import (
	"io"
	"slices"
	"strings"
)

// HeaderTag must appear on the first line of every playlist.
const HeaderTag = "#EXTM3U"

// IndependentSegmentsTag is the optional marker that may follow the header.
const IndependentSegmentsTag = "#EXT-X-INDEPENDENT-SEGMENTS"

// sessionTags are playlist-wide tags carried over as headers wherever they appear.
var sessionTags = []string{
	IndependentSegmentsTag,
	"#EXT-X-VERSION",
	"#EXT-X-START",
	"#EXT-X-SESSION-DATA",
	"#EXT-X-SESSION-KEY",
	"#EXT-X-CONTENT-STEERING",
	"#EXT-X-DEFINE",
}

var (
	_ Section[StreamVariant] = (*StreamVariants)(nil)
	_ Section[AudioTrack]    = (*AudioTracks)(nil)
	_ Section[IFrameStream]  = (*IFrameStreams)(nil)
)

// Master is a decomposed master playlist. A Master owns its records and is
// not safe for concurrent mutation.
type Master struct {
	Headers []string
	Streams StreamVariants
	Audio   AudioTracks
	IFrames IFrameStreams
}

// Parse decomposes text into a Master. Every section parser scans the full
// text on its own, so the order in which tags are interleaved in the input
// does not matter.
func Parse(text string) (*Master, error) {
	m := &Master{}
	if err := m.Parse(text); err != nil {
		return nil, err
	}
	return m, nil
}

// Parse replaces the contents of m with the playlist in text.
func (m *Master) Parse(text string) error {
	lines := splitLines(text)
	if !strings.Contains(lines[0], HeaderTag) {
		return ErrMissingHeader
	}
	headers := []string{lines[0]}
	for _, line := range lines[1:] {
		if isSessionTag(line) && !slices.Contains(headers, line) {
			headers = append(headers, line)
		}
	}

	var parsed Master
	if err := parsed.Streams.Parse(text); err != nil {
		return err
	}
	if err := parsed.Audio.Parse(text); err != nil {
		return err
	}
	if err := parsed.IFrames.Parse(text); err != nil {
		return err
	}
	parsed.Headers = headers
	*m = parsed
	return nil
}

func isSessionTag(line string) bool {
	for _, tag := range sessionTags {
		if line == tag || strings.HasPrefix(line, tag+":") {
			return true
		}
	}
	return false
}

// Len returns the number of records in the given section.
func (m *Master) Len(kind Kind) int {
	switch kind {
	case StreamSection:
		return len(m.Streams.Variants)
	case AudioSection:
		return len(m.Audio.Tracks)
	case IFrameSection:
		return len(m.IFrames.Streams)
	}
	return 0
}

// Handle is bound to one section of a Master and only accepts the sort
// attributes that section supports.
type Handle struct {
	kind  Kind
	attrs []Attribute
	size  func() int
	sort  func(keys ...Attribute) error
}

func newHandle[T any](s Section[T]) Handle {
	return Handle{
		kind:  s.Kind(),
		attrs: s.Comparators().Attributes(),
		size:  func() int { return len(s.Records()) },
		sort:  func(keys ...Attribute) error { return Sort(s, keys...) },
	}
}

// Select returns a handle for the section identified by kind.
func (m *Master) Select(kind Kind) (Handle, error) {
	switch kind {
	case StreamSection:
		return newHandle[StreamVariant](&m.Streams), nil
	case AudioSection:
		return newHandle[AudioTrack](&m.Audio), nil
	case IFrameSection:
		return newHandle[IFrameStream](&m.IFrames), nil
	}
	return Handle{}, ErrUnknownSection
}

// Kind returns the section the handle is bound to.
func (h Handle) Kind() Kind { return h.kind }

// Len returns the current number of records in the section.
func (h Handle) Len() int {
	if h.size == nil {
		return 0
	}
	return h.size()
}

// Attributes returns the attributes the section can be sorted by.
func (h Handle) Attributes() []Attribute {
	return append([]Attribute(nil), h.attrs...)
}

// Sort reorders the section by one or more attributes. See Sort.
func (h Handle) Sort(keys ...Attribute) error {
	if h.sort == nil {
		return ErrUnknownSection
	}
	return h.sort(keys...)
}

// Apply sorts several sections, visiting them in serialization order.
// Sections missing from plan, or with no keys, keep their order.
func (m *Master) Apply(plan map[Kind][]Attribute) error {
	for _, kind := range Kinds() {
		keys := plan[kind]
		if len(keys) == 0 {
			continue
		}
		h, err := m.Select(kind)
		if err != nil {
			return err
		}
		if err := h.Sort(keys...); err != nil {
			return err
		}
	}
	return nil
}

// Serialize renders the playlist: headers, stream variants with their URI
// lines, audio tracks, then I-Frame streams, each group followed by a blank
// line. The output reflects the current order of every section.
func (m *Master) Serialize() string {
	var b strings.Builder
	for _, h := range m.Headers {
		b.WriteString(h)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	for _, v := range m.Streams.Variants {
		b.WriteString(v.Line)
		b.WriteByte('\n')
		b.WriteString(v.URI)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	for _, t := range m.Audio.Tracks {
		b.WriteString(t.Line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	for _, f := range m.IFrames.Streams {
		b.WriteString(f.Line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.String()
}

// WriteTo writes the serialized playlist to w.
func (m *Master) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, m.Serialize())
	return int64(n), err
}
