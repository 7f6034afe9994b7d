package playlist

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingHeader is returned when the first line lacks the #EXTM3U marker
	ErrMissingHeader = errors.New("playlist: missing #EXTM3U header")
	// ErrNoVariants is returned when the playlist has no #EXT-X-STREAM-INF entries
	ErrNoVariants = errors.New("playlist: no stream variants found in master playlist")
	// ErrMalformedAttribute is returned when a numeric attribute is absent where required or unparseable
	ErrMalformedAttribute = errors.New("playlist: malformed attribute")
	// ErrMissingURI is returned when a stream descriptor is not followed by a URI line
	ErrMissingURI = errors.New("playlist: stream variant without URI line")
	// ErrUnknownAttribute is returned when a sort key is not valid for a section
	ErrUnknownAttribute = errors.New("playlist: attribute not sortable for section")
	// ErrUnknownSection is returned when a section kind is not recognized
	ErrUnknownSection = errors.New("playlist: unknown section")
	// ErrNoSortKeys is returned when a sort is requested without any attribute
	ErrNoSortKeys = errors.New("playlist: no sort attributes given")
)

// AttributeError describes an attribute on a specific manifest line that
// could not be turned into a record field.
type AttributeError struct {
	Tag   string
	Key   string
	Value string
	Line  int
	Err   error
}

func (e *AttributeError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%v: %s on line %d", e.Err, e.Tag, e.Line)
	}
	return fmt.Sprintf("%v: %s %s=%q on line %d", e.Err, e.Tag, e.Key, e.Value, e.Line)
}

func (e *AttributeError) Unwrap() error {
	return e.Err
}

// UnknownAttributeError reports a sort key that the section's comparator
// table does not contain.
type UnknownAttributeError struct {
	Section   Kind
	Attribute Attribute
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("%v: %s is not valid for %s", ErrUnknownAttribute, e.Attribute, e.Section)
}

func (e *UnknownAttributeError) Unwrap() error {
	return ErrUnknownAttribute
}
