package listing

// FilterKind selects how a filter value becomes a restriction.
type FilterKind int

const (
	// ExactMatch restricts column = value.
	ExactMatch FilterKind = iota + 1
	// PartialMatch restricts column to contain value, ignoring case.
	PartialMatch
	// PredicateMatch hands the value to the filter's typed Predicate.
	PredicateMatch
)

func (k FilterKind) String() string {
	switch k {
	case ExactMatch:
		return "exact"
	case PartialMatch:
		return "partial"
	case PredicateMatch:
		return "predicate"
	default:
		return "unknown"
	}
}

// ValueType is the type an exact-match value is cast to before binding.
type ValueType int

const (
	TextValue ValueType = iota
	IntegerValue
)

// FilterSpec declares one accepted filter of a resource.
type FilterSpec struct {
	Field     string
	Kind      FilterKind
	Column    string
	Type      ValueType
	Predicate Predicate
}

// Exact declares a text equality filter.
func Exact(field, column string) FilterSpec {
	return FilterSpec{Field: field, Kind: ExactMatch, Column: column, Type: TextValue}
}

// ExactInt declares an integer equality filter.
func ExactInt(field, column string) FilterSpec {
	return FilterSpec{Field: field, Kind: ExactMatch, Column: column, Type: IntegerValue}
}

// Partial declares a case-insensitive substring filter.
func Partial(field, column string) FilterSpec {
	return FilterSpec{Field: field, Kind: PartialMatch, Column: column, Type: TextValue}
}

// Scoped declares a filter evaluated by a typed predicate.
func Scoped(field string, predicate Predicate) FilterSpec {
	return FilterSpec{Field: field, Kind: PredicateMatch, Predicate: predicate}
}
