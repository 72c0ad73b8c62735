package results

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/galuhdigital/minutes/backend/internal/minutes"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&minutes.MeetingMinute{}, &minutes.Member{}, &minutes.MinuteImage{}, &MeetingResult{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	service, err := NewService(ServiceConfig{
		Database: db,
		Clock:    func() time.Time { return time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	return service, db
}

func mustSeedMinute(t *testing.T, db *gorm.DB, title string) minutes.MeetingMinute {
	t.Helper()
	record := minutes.MeetingMinute{
		Division:             "Operations",
		Title:                title,
		Speaker:              "Budi Santoso",
		Notes:                "1. Opening",
		NumberOfParticipants: 3,
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("failed to seed minute: %v", err)
	}
	return record
}

func resultForm(minuteID int64) Form {
	return Form{
		MinuteID:             minuteID,
		Target:               "Increase coverage",
		Achievement:          60,
		TargetCompletionDate: "2026-06-30",
		Description:          "Coverage campaign",
	}
}

func TestCreateLinksMinuteAndParsesDate(t *testing.T) {
	service, db := newTestService(t)
	minute := mustSeedMinute(t, db, "Quarterly Review")

	record, err := service.Create(context.Background(), resultForm(minute.ID))
	if err != nil {
		t.Fatalf("failed to create result: %v", err)
	}
	if record.MinuteID != minute.ID {
		t.Fatalf("expected link to minute %d, got %d", minute.ID, record.MinuteID)
	}
	if record.Minute.Title != "Quarterly Review" {
		t.Fatalf("expected minute preloaded, got %+v", record.Minute)
	}
	expected := time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC)
	if !record.TargetCompletionDate.Equal(expected) {
		t.Fatalf("expected completion date %v, got %v", expected, record.TargetCompletionDate)
	}
}

func TestCreateRejectsMissingMinute(t *testing.T) {
	service, _ := newTestService(t)
	_, err := service.Create(context.Background(), resultForm(42))
	if !errors.Is(err, ErrMinuteNotFound) {
		t.Fatalf("expected minute not found, got %v", err)
	}
}

func TestGetReturnsNotFoundForMissingResult(t *testing.T) {
	service, _ := newTestService(t)
	_, err := service.Get(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateKeepsMinuteLink(t *testing.T) {
	service, db := newTestService(t)
	first := mustSeedMinute(t, db, "First")
	second := mustSeedMinute(t, db, "Second")

	record, err := service.Create(context.Background(), resultForm(first.ID))
	if err != nil {
		t.Fatalf("failed to create result: %v", err)
	}

	form := resultForm(second.ID)
	form.Target = "Revised target"
	form.Achievement = 90

	updated, err := service.Update(context.Background(), record.ID, form)
	if err != nil {
		t.Fatalf("failed to update result: %v", err)
	}
	if updated.Target != "Revised target" || updated.Achievement != 90 {
		t.Fatalf("unexpected updated record: %+v", updated)
	}
	if updated.MinuteID != first.ID {
		t.Fatalf("expected minute link unchanged, got %d", updated.MinuteID)
	}
}

func TestUpdateMissingResultReturnsNotFound(t *testing.T) {
	service, db := newTestService(t)
	minute := mustSeedMinute(t, db, "Quarterly Review")

	_, err := service.Update(context.Background(), 42, resultForm(minute.ID))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteSoftDeletesResult(t *testing.T) {
	service, db := newTestService(t)
	minute := mustSeedMinute(t, db, "Quarterly Review")

	record, err := service.Create(context.Background(), resultForm(minute.ID))
	if err != nil {
		t.Fatalf("failed to create result: %v", err)
	}
	if err := service.Delete(context.Background(), record.ID); err != nil {
		t.Fatalf("failed to delete result: %v", err)
	}
	if _, err := service.Get(context.Background(), record.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted result hidden, got %v", err)
	}
	if err := service.Delete(context.Background(), record.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected second delete to report not found, got %v", err)
	}
}

func TestListReturnsResultsOldestFirst(t *testing.T) {
	service, db := newTestService(t)
	minute := mustSeedMinute(t, db, "Quarterly Review")

	first, err := service.Create(context.Background(), resultForm(minute.ID))
	if err != nil {
		t.Fatalf("failed to create first result: %v", err)
	}
	second, err := service.Create(context.Background(), resultForm(minute.ID))
	if err != nil {
		t.Fatalf("failed to create second result: %v", err)
	}

	records, err := service.List(context.Background())
	if err != nil {
		t.Fatalf("failed to list results: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != first.ID || records[1].ID != second.ID {
		t.Fatalf("expected id order, got %d then %d", records[0].ID, records[1].ID)
	}
	if records[0].Minute.Title != "Quarterly Review" {
		t.Fatalf("expected minute preloaded on list, got %+v", records[0].Minute)
	}
}
