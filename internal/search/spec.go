package search

import "go.mongodb.org/mongo-driver/bson"

// Kind says how a query parameter is turned into a filter predicate.
type Kind int

const (
	// Text matches case-insensitive substrings.
	Text Kind = iota
	// Exact matches the raw string value.
	Exact
	// In splits a comma-separated value into an $in set.
	In
	// Bool parses "true"/"yes" (anything else is false) into an equality.
	Bool
	// TruthyBool applies an equality-with-true only when the value parses
	// true; otherwise the parameter is ignored.
	TruthyBool
	// Min and Max are numeric range halves; non-numeric input is ignored.
	Min
	Max
	// Enum matches one of the allowed values; an unrecognized value fails
	// closed and the whole query returns nothing.
	Enum
	// PriceType maps "fixed"/"negotiable" onto the fixed/negotiable flag
	// pair; any other value fails closed.
	PriceType
	// MinArraySize requires the array at Path to hold at least N elements.
	MinArraySize
	// NonEmptyArray requires a non-empty array when the value parses true.
	NonEmptyArray
	// RangePair parses "min-max" into a numeric range.
	RangePair
	// DateWindow matches availability arrays of dates against
	// "immediate"/"within_week"; unrecognized windows are ignored.
	DateWindow
	// SlotWindow matches availability arrays of {start,end} slots against
	// "immediate"/"within a week"; unrecognized windows are ignored.
	SlotWindow
)

// Field is one row of an entity's filter table.
type Field struct {
	Param   string
	Path    string
	Kind    Kind
	Allowed []string

	// PriceType flag paths.
	FixedPath      string
	NegotiablePath string
}

// Geo configures the leading $geoNear stage. Coordinates come either from a
// single "lat,lng" parameter or from a split parameter pair; the radius is in
// kilometers. The stage only applies when coordinates and a radius are all
// present.
type Geo struct {
	LocationParam string
	LatParam      string
	LngParam      string
	RadiusParams  []string
	// BaseQuery is pushed into the $geoNear query so the base match still
	// applies when the geo stage replaces the leading $match.
	BaseQuery bson.M
}

// Join is the lookup to the owning business (or, for the business search, the
// fan-out into services).
type Join struct {
	From       string
	LocalField string
	As         string
	// BaseMatch is applied right after the unwind, before parameter-driven
	// post-join filters.
	BaseMatch bson.M
}

// Keyword is the free-text stage: one OR of case-insensitive substring
// matches across the listed paths.
type Keyword struct {
	Param string
	Paths []string
}

// Spec is the declarative filter table for one searchable entity. The
// builder consumes it in the fixed stage order: geo, local match, join,
// post-join match, keyword, regroup, add-fields, post-group match, sort,
// paginate.
type Spec struct {
	BaseMatch bson.M
	Geo       *Geo
	Local     []Field
	Join      *Join
	PostJoin  []Field
	Keyword   *Keyword
	Regroup   bson.D
	AddFields bson.M
	PostGroup []Field

	SortParam   string
	Sorts       map[string]bson.D
	DefaultSort bson.D
}
