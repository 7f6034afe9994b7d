package playlist

import (
	"slices"
)

// Compare orders two records by a single attribute, returning a negative
// number, zero or a positive number like cmp.Compare.
type Compare[T any] func(a, b *T) int

// Comparators maps the attributes a section supports to their orderings.
type Comparators[T any] map[Attribute]Compare[T]

// Attributes returns the attributes present in the table in enumeration order.
func (c Comparators[T]) Attributes() []Attribute {
	attrs := make([]Attribute, 0, len(c))
	for _, a := range Attributes() {
		if _, ok := c[a]; ok {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// Section is implemented by each typed section parser.
type Section[T any] interface {
	Kind() Kind
	Parse(text string) error
	Records() []T
	Comparators() Comparators[T]
}

// Sort orders the section's records in place by the given attributes.
// The first key is the primary ordering, and each later key only breaks ties
// left by the keys before it. Records that tie on every key keep their
// relative order.
func Sort[T any](s Section[T], keys ...Attribute) error {
	return SortRecords(s.Kind(), s.Records(), s.Comparators(), keys...)
}

// SortRecords is Sort for a bare slice and comparator table. kind is only
// used to report invalid keys. No record moves unless every key is valid.
func SortRecords[T any](kind Kind, records []T, table Comparators[T], keys ...Attribute) error {
	if len(keys) == 0 {
		return ErrNoSortKeys
	}
	chain := make([]Compare[T], 0, len(keys))
	for _, k := range keys {
		c, ok := table[k]
		if !ok {
			return &UnknownAttributeError{Section: kind, Attribute: k}
		}
		chain = append(chain, c)
	}
	slices.SortStableFunc(records, func(a, b T) int {
		for _, c := range chain {
			if n := c(&a, &b); n != 0 {
				return n
			}
		}
		return 0
	})
	return nil
}
