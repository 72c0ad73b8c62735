package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// PageSize is the fixed number of records shown per page.
const PageSize = 8

// Direction selects the sort order.
type Direction string

const (
	// Ascending places smaller keys first.
	Ascending Direction = "ascending"
	// Descending places larger keys first.
	Descending Direction = "descending"
)

var (
	// ErrUnknownSortKey indicates the requested key is outside the entity's comparator table.
	ErrUnknownSortKey = errors.New("query: unknown sort key")
	// ErrUnknownDirection indicates an unsupported sort direction.
	ErrUnknownDirection = errors.New("query: unknown sort direction")
	// ErrInvalidPage indicates a page number below 1.
	ErrInvalidPage = errors.New("query: page must be positive")

	errMissingDefaultSortKey = errors.New("query: default sort key missing from comparator table")
)

// MonthBound is one side of an inclusive month-granular date range. A bound
// only takes effect when both Year and Month are set; a partially specified
// bound filters nothing.
type MonthBound struct {
	Year  int
	Month int
}

// Active reports whether both components of the bound are present.
func (b MonthBound) Active() bool {
	return b.Year > 0 && b.Month >= 1 && b.Month <= 12
}

func (b MonthBound) firstInstant() time.Time {
	return time.Date(b.Year, time.Month(b.Month), 1, 0, 0, 0, 0, time.UTC)
}

// lastInstant is the day-zero-of-next-month boundary: the last calendar day
// of the bound's month at midnight.
func (b MonthBound) lastInstant() time.Time {
	return time.Date(b.Year, time.Month(b.Month)+1, 0, 0, 0, 0, 0, time.UTC)
}

// Params captures one evaluation of the engine: free-text search, optional
// month range, sort key/direction and a 1-based page number.
type Params struct {
	Search    string
	From      MonthBound
	To        MonthBound
	SortKey   string
	Direction Direction
	Page      int
}

// Comparator orders two records by one field. Negative means a before b.
type Comparator[T any] func(a, b T) int

// Definition is the per-entity comparator table: the closed set of sortable
// fields, the string fields consulted by search, and the record date used by
// the month range.
type Definition[T any] struct {
	SearchFields   []func(T) string
	SortFields     map[string]Comparator[T]
	DateField      func(T) (time.Time, bool)
	DefaultSortKey string
}

// Engine derives filtered, sorted, paginated views from a record collection.
// Evaluate is a pure function: it never mutates its input and performs no I/O.
type Engine[T any] struct {
	def Definition[T]
}

// NewEngine validates the definition and returns an engine.
func NewEngine[T any](def Definition[T]) (*Engine[T], error) {
	if len(def.SortFields) == 0 {
		return nil, fmt.Errorf("query: at least one sort field required")
	}
	if _, ok := def.SortFields[def.DefaultSortKey]; !ok {
		return nil, errMissingDefaultSortKey
	}
	return &Engine[T]{def: def}, nil
}

// Page is one evaluated view over the filtered collection.
type Page[T any] struct {
	Records      []T
	Number       int
	TotalPages   int
	TotalRecords int
}

// Evaluate applies search and date filters, sorts with a stable order, and
// slices out the requested page.
func (e *Engine[T]) Evaluate(records []T, params Params) (Page[T], error) {
	sortKey := params.SortKey
	if sortKey == "" {
		sortKey = e.def.DefaultSortKey
	}
	compare, ok := e.def.SortFields[sortKey]
	if !ok {
		return Page[T]{}, fmt.Errorf("%w: %q", ErrUnknownSortKey, params.SortKey)
	}

	direction := params.Direction
	if direction == "" {
		direction = Ascending
	}
	if direction != Ascending && direction != Descending {
		return Page[T]{}, fmt.Errorf("%w: %q", ErrUnknownDirection, params.Direction)
	}

	page := params.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return Page[T]{}, fmt.Errorf("%w: %d", ErrInvalidPage, params.Page)
	}

	filtered := e.filter(records, params)

	sort.SliceStable(filtered, func(i, j int) bool {
		result := compare(filtered[i], filtered[j])
		if direction == Descending {
			return result > 0
		}
		return result < 0
	})

	totalPages := (len(filtered) + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return Page[T]{
		Records:      filtered[start:end],
		Number:       page,
		TotalPages:   totalPages,
		TotalRecords: len(filtered),
	}, nil
}

func (e *Engine[T]) filter(records []T, params Params) []T {
	search := strings.ToLower(strings.TrimSpace(params.Search))
	filtered := make([]T, 0, len(records))
	for _, record := range records {
		if search != "" && !e.matchesSearch(record, search) {
			continue
		}
		if !e.withinRange(record, params.From, params.To) {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered
}

func (e *Engine[T]) matchesSearch(record T, search string) bool {
	for _, field := range e.def.SearchFields {
		if strings.Contains(strings.ToLower(field(record)), search) {
			return true
		}
	}
	return false
}

func (e *Engine[T]) withinRange(record T, from, to MonthBound) bool {
	if !from.Active() && !to.Active() {
		return true
	}
	if e.def.DateField == nil {
		return true
	}
	date, ok := e.def.DateField(record)
	if !ok {
		return false
	}
	if from.Active() && date.Before(from.firstInstant()) {
		return false
	}
	if to.Active() && date.After(to.lastInstant()) {
		return false
	}
	return true
}

// CompareStrings orders case-insensitively; non-numeric sort keys coerce
// through this.
func CompareStrings(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// CompareInts orders numeric sort keys without string coercion.
func CompareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// CompareTimes orders chronological sort keys.
func CompareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}
