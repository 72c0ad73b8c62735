package results

import (
	"time"

	"github.com/galuhdigital/minutes/backend/internal/query"
)

// Sortable field identifiers accepted by the result list view.
const (
	SortKeyID             = "id"
	SortKeyTarget         = "target"
	SortKeyAchievement    = "achievement"
	SortKeyCompletionDate = "targetCompletionDate"
	SortKeyMinuteTitle    = "minute"
	SortKeyCreatedAt      = "createdAt"
)

// NewQueryEngine builds the result comparator table: search spans target,
// description and the linked minute's title; the date range applies to the
// target completion date.
func NewQueryEngine() (*query.Engine[MeetingResult], error) {
	return query.NewEngine(query.Definition[MeetingResult]{
		SearchFields: []func(MeetingResult) string{
			func(r MeetingResult) string { return r.Target },
			func(r MeetingResult) string { return r.Description },
			func(r MeetingResult) string { return r.Minute.Title },
		},
		SortFields: map[string]query.Comparator[MeetingResult]{
			SortKeyID: func(a, b MeetingResult) int {
				return query.CompareInts(int(a.ID), int(b.ID))
			},
			SortKeyTarget: func(a, b MeetingResult) int {
				return query.CompareStrings(a.Target, b.Target)
			},
			SortKeyAchievement: func(a, b MeetingResult) int {
				return query.CompareInts(a.Achievement, b.Achievement)
			},
			SortKeyCompletionDate: func(a, b MeetingResult) int {
				return query.CompareTimes(a.TargetCompletionDate, b.TargetCompletionDate)
			},
			SortKeyMinuteTitle: func(a, b MeetingResult) int {
				return query.CompareStrings(a.Minute.Title, b.Minute.Title)
			},
			SortKeyCreatedAt: func(a, b MeetingResult) int {
				return query.CompareTimes(a.CreatedAt, b.CreatedAt)
			},
		},
		DateField: func(r MeetingResult) (time.Time, bool) {
			if r.TargetCompletionDate.IsZero() {
				return time.Time{}, false
			}
			return r.TargetCompletionDate, true
		},
		DefaultSortKey: SortKeyID,
	})
}
