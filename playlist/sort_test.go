package playlist

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bandwidths(vs []StreamVariant) []int {
	out := make([]int, len(vs))
	for i, v := range vs {
		out[i] = v.Bandwidth
	}
	return out
}

func uris(vs []StreamVariant) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.URI
	}
	return out
}

func TestSortNumericNotLexicographic(t *testing.T) {
	s := &StreamVariants{Variants: []StreamVariant{
		{Bandwidth: 900000, URI: "a"},
		{Bandwidth: 80000, URI: "b"},
		{Bandwidth: 1200000, URI: "c"},
	}}

	require.NoError(t, Sort[StreamVariant](s, Bandwidth))
	assert.Equal(t, []int{80000, 900000, 1200000}, bandwidths(s.Variants))
}

func TestSortSecondaryKeyBreaksTies(t *testing.T) {
	s := &StreamVariants{Variants: []StreamVariant{
		{ResolutionHeight: 720, Bandwidth: 3000000, URI: "720_3000"},
		{ResolutionHeight: 1080, Bandwidth: 5000000, URI: "1080_5000"},
		{ResolutionHeight: 1080, Bandwidth: 3000000, URI: "1080_3000"},
	}}

	require.NoError(t, Sort[StreamVariant](s, Resolution, Bandwidth))
	assert.Equal(t, []string{"720_3000", "1080_3000", "1080_5000"}, uris(s.Variants))
}

func TestSortTwoKeysPreservesFullTies(t *testing.T) {
	s := &StreamVariants{Variants: []StreamVariant{
		{ResolutionHeight: 1080, Bandwidth: 3000000, URI: "a"},
		{ResolutionHeight: 720, Bandwidth: 1000000, URI: "x"},
		{ResolutionHeight: 1080, Bandwidth: 3000000, URI: "b"},
		{ResolutionHeight: 1080, Bandwidth: 3000000, URI: "c"},
	}}

	require.NoError(t, Sort[StreamVariant](s, Resolution, Bandwidth))
	assert.Equal(t, []string{"x", "a", "b", "c"}, uris(s.Variants))
}

func TestSortIsStable(t *testing.T) {
	s := &StreamVariants{Variants: []StreamVariant{
		{Bandwidth: 2, URI: "first"},
		{Bandwidth: 1, URI: "x"},
		{Bandwidth: 2, URI: "second"},
		{Bandwidth: 2, URI: "third"},
	}}

	require.NoError(t, Sort[StreamVariant](s, Bandwidth))
	assert.Equal(t, []string{"x", "first", "second", "third"}, uris(s.Variants))
}

func TestSortStringAttributesAreLexicographic(t *testing.T) {
	s := &AudioTracks{Tracks: []AudioTrack{
		{GroupID: "b", Name: "2"},
		{GroupID: "a", Name: "10"},
		{GroupID: "B", Name: "3"},
	}}

	require.NoError(t, Sort[AudioTrack](s, ID))
	got := []string{s.Tracks[0].GroupID, s.Tracks[1].GroupID, s.Tracks[2].GroupID}
	assert.Equal(t, []string{"B", "a", "b"}, got)

	require.NoError(t, Sort[AudioTrack](s, Name))
	got = []string{s.Tracks[0].Name, s.Tracks[1].Name, s.Tracks[2].Name}
	assert.Equal(t, []string{"10", "2", "3"}, got)
}

func TestSortRejectsUnsupportedAttribute(t *testing.T) {
	original := []AudioTrack{{GroupID: "b"}, {GroupID: "a"}}
	s := &AudioTracks{Tracks: append([]AudioTrack(nil), original...)}

	err := Sort[AudioTrack](s, ID, Bandwidth)

	var unknown *UnknownAttributeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, AudioSection, unknown.Section)
	assert.Equal(t, Bandwidth, unknown.Attribute)
	assert.ErrorIs(t, err, ErrUnknownAttribute)
	assert.Equal(t, original, s.Tracks, "records must not move when a key is rejected")
}

func TestSortWithoutKeys(t *testing.T) {
	s := &IFrameStreams{}
	assert.ErrorIs(t, Sort[IFrameStream](s), ErrNoSortKeys)
}

func TestSortEmptySection(t *testing.T) {
	s := &AudioTracks{}
	assert.NoError(t, Sort[AudioTrack](s, Language))
}

func TestComparatorTables(t *testing.T) {
	tests := []struct {
		name  string
		attrs []Attribute
		want  []Attribute
	}{
		{
			name:  "stream",
			attrs: (&StreamVariants{}).Comparators().Attributes(),
			want:  []Attribute{Bandwidth, AverageBandwidth, Codecs, Resolution, FrameRate, VideoRange, AudioGroup, ClosedCaptions},
		},
		{
			name:  "audio",
			attrs: (&AudioTracks{}).Comparators().Attributes(),
			want:  []Attribute{ID, Name, Language, Default, Autoselect, Channels, Type},
		},
		{
			name:  "iframe",
			attrs: (&IFrameStreams{}).Comparators().Attributes(),
			want:  []Attribute{Bandwidth, Codecs, Resolution, VideoRange},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.attrs)
		})
	}
}

func TestSortRecords(t *testing.T) {
	type pair struct{ k, v int }
	records := []pair{{3, 0}, {1, 1}, {2, 2}, {1, 3}}
	table := Comparators[pair]{
		Bandwidth: func(a, b *pair) int { return a.k - b.k },
	}

	require.NoError(t, SortRecords(StreamSection, records, table, Bandwidth))
	assert.Equal(t, []pair{{1, 1}, {1, 3}, {2, 2}, {3, 0}}, records)
}
