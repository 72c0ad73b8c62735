package minutes

import (
	"time"

	"github.com/galuhdigital/minutes/backend/internal/query"
)

// Sortable field identifiers accepted by the minute list view.
const (
	SortKeyID          = "id"
	SortKeyTitle       = "title"
	SortKeyDivision    = "division"
	SortKeySpeaker     = "speaker"
	SortKeyMeetingType = "meetingType"
	SortKeyMeetingDate = "meetingDate"
	SortKeyCreatedAt   = "createdAt"
)

// NewQueryEngine builds the minute comparator table: search spans title,
// division, speaker and meeting type; the date range applies to the meeting
// date.
func NewQueryEngine() (*query.Engine[MeetingMinute], error) {
	return query.NewEngine(query.Definition[MeetingMinute]{
		SearchFields: []func(MeetingMinute) string{
			func(m MeetingMinute) string { return m.Title },
			func(m MeetingMinute) string { return m.Division },
			func(m MeetingMinute) string { return m.Speaker },
			func(m MeetingMinute) string { return string(m.MeetingType) },
		},
		SortFields: map[string]query.Comparator[MeetingMinute]{
			SortKeyID: func(a, b MeetingMinute) int {
				return query.CompareInts(int(a.ID), int(b.ID))
			},
			SortKeyTitle: func(a, b MeetingMinute) int {
				return query.CompareStrings(a.Title, b.Title)
			},
			SortKeyDivision: func(a, b MeetingMinute) int {
				return query.CompareStrings(a.Division, b.Division)
			},
			SortKeySpeaker: func(a, b MeetingMinute) int {
				return query.CompareStrings(a.Speaker, b.Speaker)
			},
			SortKeyMeetingType: func(a, b MeetingMinute) int {
				return query.CompareStrings(string(a.MeetingType), string(b.MeetingType))
			},
			SortKeyMeetingDate: func(a, b MeetingMinute) int {
				return query.CompareTimes(timeOrZero(a.MeetingDate), timeOrZero(b.MeetingDate))
			},
			SortKeyCreatedAt: func(a, b MeetingMinute) int {
				return query.CompareTimes(a.CreatedAt, b.CreatedAt)
			},
		},
		DateField: func(m MeetingMinute) (time.Time, bool) {
			if m.MeetingDate == nil {
				return time.Time{}, false
			}
			return *m.MeetingDate, true
		},
		DefaultSortKey: SortKeyID,
	})
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
