package rewriter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alorle/hls-sorter/playlist"
)

// Plan maps each section to the attributes it is sorted by, primary key
// first. Sections without keys keep their input order.
type Plan map[playlist.Kind][]playlist.Attribute

// DefaultPlan orders variants by resolution then bandwidth, audio by group
// and I-Frame streams by codecs.
func DefaultPlan() Plan {
	return Plan{
		playlist.StreamSection: {playlist.Resolution, playlist.Bandwidth},
		playlist.AudioSection:  {playlist.ID},
		playlist.IFrameSection: {playlist.Codecs},
	}
}

// ParsePlan builds a Plan from attribute names for each section and checks
// every name against the attributes that section can be sorted by.
func ParsePlan(stream, audio, iframe []string) (Plan, error) {
	plan := Plan{}
	for i, names := range [][]string{stream, audio, iframe} {
		kind := playlist.Kinds()[i]
		keys, err := ParseKeys(kind, names)
		if err != nil {
			return nil, err
		}
		if len(keys) > 0 {
			plan[kind] = keys
		}
	}
	return plan, nil
}

// ParseKeys converts names to attributes valid for kind. Blank names are skipped.
func ParseKeys(kind playlist.Kind, names []string) ([]playlist.Attribute, error) {
	supported := Supported(kind)
	var keys []playlist.Attribute
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		a, err := playlist.ParseAttribute(name)
		if err != nil {
			return nil, fmt.Errorf("%s section: %w", kind, err)
		}
		if !slices.Contains(supported, a) {
			return nil, &playlist.UnknownAttributeError{Section: kind, Attribute: a}
		}
		keys = append(keys, a)
	}
	return keys, nil
}

// Supported returns the attributes kind can be sorted by.
func Supported(kind playlist.Kind) []playlist.Attribute {
	var m playlist.Master
	h, err := m.Select(kind)
	if err != nil {
		return nil
	}
	return h.Attributes()
}

// Override returns a copy of p where every section that o sorts uses o's keys.
func (p Plan) Override(o Plan) Plan {
	merged := make(Plan, len(p)+len(o))
	for k, v := range p {
		merged[k] = v
	}
	for k, v := range o {
		if len(v) > 0 {
			merged[k] = v
		}
	}
	return merged
}

// String renders the plan as "stream=RESOLUTION,BANDWIDTH audio=ID".
func (p Plan) String() string {
	var parts []string
	for _, kind := range playlist.Kinds() {
		keys := p[kind]
		if len(keys) == 0 {
			continue
		}
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		parts = append(parts, kind.String()+"="+strings.Join(names, ","))
	}
	return strings.Join(parts, " ")
}
