package playlist

import (
	"cmp"
	"strings"
)

// MediaTag introduces an alternative rendition. Its URI is an attribute.
const MediaTag = "#EXT-X-MEDIA:"

// AudioTrack is one #EXT-X-MEDIA rendition. The boolean-looking attributes
// are kept as raw text because manifests vary in case and value.
type AudioTrack struct {
	Type         string
	GroupID      string
	Name         string
	Language     string
	Default      string
	Autoselect   string
	ChannelCount int
	URI          string

	Line       string
	LineNumber int
}

// AudioTracks parses and holds the #EXT-X-MEDIA section. An empty section is valid.
type AudioTracks struct {
	Tracks []AudioTrack
}

func (s *AudioTracks) Kind() Kind { return AudioSection }

func (s *AudioTracks) Records() []AudioTrack { return s.Tracks }

// Parse scans text for media renditions, replacing any previously parsed.
func (s *AudioTracks) Parse(text string) error {
	var tracks []AudioTrack
	for i, line := range splitLines(text) {
		if !strings.HasPrefix(line, MediaTag) {
			continue
		}
		a := lineAttrs{tag: "EXT-X-MEDIA", text: line, num: i + 1}
		t := AudioTrack{
			Type:         a.str("TYPE"),
			URI:          a.str("URI"),
			GroupID:      a.str("GROUP-ID"),
			Name:         a.str("NAME"),
			Autoselect:   a.str("AUTOSELECT"),
			ChannelCount: a.channels("CHANNELS"),
			Default:      a.str("DEFAULT"),
			Language:     a.str("LANGUAGE"),
			Line:         line,
			LineNumber:   i + 1,
		}
		if a.err != nil {
			return a.err
		}
		tracks = append(tracks, t)
	}
	s.Tracks = tracks
	return nil
}

var audioComparators = Comparators[AudioTrack]{
	ID:         func(a, b *AudioTrack) int { return strings.Compare(a.GroupID, b.GroupID) },
	Name:       func(a, b *AudioTrack) int { return strings.Compare(a.Name, b.Name) },
	Language:   func(a, b *AudioTrack) int { return strings.Compare(a.Language, b.Language) },
	Default:    func(a, b *AudioTrack) int { return strings.Compare(a.Default, b.Default) },
	Autoselect: func(a, b *AudioTrack) int { return strings.Compare(a.Autoselect, b.Autoselect) },
	Channels:   func(a, b *AudioTrack) int { return cmp.Compare(a.ChannelCount, b.ChannelCount) },
	Type:       func(a, b *AudioTrack) int { return strings.Compare(a.Type, b.Type) },
}

func (s *AudioTracks) Comparators() Comparators[AudioTrack] { return audioComparators }
