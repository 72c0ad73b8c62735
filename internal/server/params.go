package server

import (
	"fmt"
	"strconv"

	"github.com/galuhdigital/minutes/backend/internal/minutes"
	"github.com/galuhdigital/minutes/backend/internal/query"
	"github.com/galuhdigital/minutes/backend/internal/results"
	"github.com/gin-gonic/gin"
)

type (
	minutesQueryEngine = query.Engine[minutes.MeetingMinute]
	resultsQueryEngine = query.Engine[results.MeetingResult]
)

var listParamNames = []string{
	"search", "sort", "order", "page",
	"from_year", "from_month", "to_year", "to_month",
}

// hasListParams reports whether the request carries any list-view query
// parameter. Without them the endpoint returns the plain full collection,
// preserving the original no-parameter contract.
func hasListParams(c *gin.Context) bool {
	for _, name := range listParamNames {
		if _, ok := c.GetQuery(name); ok {
			return true
		}
	}
	return false
}

// parseListParams reads the list-view query parameters into engine params.
func parseListParams(c *gin.Context) (query.Params, error) {
	params := query.Params{
		Search:  c.Query("search"),
		SortKey: c.Query("sort"),
	}

	switch c.Query("order") {
	case "", "asc", "ascending":
		params.Direction = query.Ascending
	case "desc", "descending":
		params.Direction = query.Descending
	default:
		return query.Params{}, fmt.Errorf("invalid order %q", c.Query("order"))
	}

	var err error
	if params.Page, err = intParam(c, "page"); err != nil {
		return query.Params{}, err
	}
	if params.From.Year, err = intParam(c, "from_year"); err != nil {
		return query.Params{}, err
	}
	if params.From.Month, err = intParam(c, "from_month"); err != nil {
		return query.Params{}, err
	}
	if params.To.Year, err = intParam(c, "to_year"); err != nil {
		return query.Params{}, err
	}
	if params.To.Month, err = intParam(c, "to_month"); err != nil {
		return query.Params{}, err
	}
	return params, nil
}

func intParam(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return value, nil
}

func idParam(c *gin.Context, name string) (int64, error) {
	value, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return value, nil
}
