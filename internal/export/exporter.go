package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/galuhdigital/minutes/backend/internal/minutes"
	"github.com/galuhdigital/minutes/backend/internal/results"
	"go.uber.org/zap"
)

const (
	minuteDocumentTitle = "NOTULEN RAPAT"
	resultDocumentTitle = "MEETING RESULT REPORT"
	attachmentsHeading  = "Documentation / Attachments"
	fullDateLayout      = "02 Jan 2006, 15:04"
	shortDateLayout     = "02/01/2006"
)

var noOpLogger = zap.NewNop()

// Config bundles the exporter dependencies.
type Config struct {
	Letterhead Letterhead
	Fetcher    ImageFetcher
	Clock      func() time.Time
	Logger     *zap.Logger
}

// Exporter renders one fully-loaded record into a multi-page PDF using direct
// vector placement. An export always completes: a failed asset becomes a
// placeholder box, never an aborted document.
type Exporter struct {
	head    Letterhead
	fetcher ImageFetcher
	clock   func() time.Time
	logger  *zap.Logger
}

// NewExporter constructs an Exporter with sane defaults.
func NewExporter(cfg Config) *Exporter {
	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = NewHTTPFetcher(nil)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Exporter{head: cfg.Letterhead, fetcher: fetcher, clock: clock, logger: logger}
}

// MinuteFilename derives the download name for a minute report.
func MinuteFilename(id int64) string {
	return fmt.Sprintf("Minute_Report_%d.pdf", id)
}

// ResultFilename derives the download name for a result report.
func ResultFilename(id int64) string {
	return fmt.Sprintf("Result_Report_%d.pdf", id)
}

// ExportMinute writes the minute report PDF to w: letterhead, title, info
// table, summary and notes sections, signature block, then attached images in
// a two-column grid on fresh pages.
func (e *Exporter) ExportMinute(ctx context.Context, minute minutes.MeetingMinute, w io.Writer) error {
	doc := newDocument()
	doc.letterhead(e.head)
	doc.title(minuteDocumentTitle)

	memberNames := make([]string, 0, len(minute.Members))
	for _, member := range minute.Members {
		memberNames = append(memberNames, member.Name)
	}
	membersValue := strings.Join(memberNames, ", ")

	doc.infoRow("Title:", minute.Title)
	doc.infoRow("Meeting Date:", formatOptionalTime(minute.MeetingDate))
	doc.infoRow("Meeting Type:", string(minute.MeetingType))
	doc.infoRow("Division:", minute.Division)
	doc.infoRow("Speaker:", minute.Speaker)
	doc.infoRow("Participants:", fmt.Sprintf("%d", minute.NumberOfParticipants))
	doc.infoRow("Members:", membersValue)
	doc.divider()

	doc.section("Summary", minute.Summary)
	doc.section("Discussion Notes", minute.Notes)
	doc.signature(e.head, e.clock().Format(shortDateLayout))

	e.attachImages(ctx, doc, minute.Images)

	if err := doc.pdf.Output(w); err != nil {
		return fmt.Errorf("export: minute %d: %w", minute.ID, err)
	}
	return nil
}

// ExportResult writes the result report PDF to w.
func (e *Exporter) ExportResult(_ context.Context, result results.MeetingResult, w io.Writer) error {
	doc := newDocument()
	doc.letterhead(e.head)
	doc.title(resultDocumentTitle)

	doc.infoRow("Target Item:", result.Target)
	doc.infoRow("Result ID:", fmt.Sprintf("%d", result.ID))
	doc.infoRow("Achievement:", fmt.Sprintf("%d%%", result.Achievement))
	doc.infoRow("Completion Date:", result.TargetCompletionDate.Format(shortDateLayout))
	doc.infoRow("Related Minute:", result.Minute.Title)
	doc.infoRow("Report Created:", result.CreatedAt.Format(fullDateLayout))
	doc.divider()

	doc.section("Result Description & Outcome", result.Description)
	doc.signature(e.head, e.clock().Format(shortDateLayout))

	if err := doc.pdf.Output(w); err != nil {
		return fmt.Errorf("export: result %d: %w", result.ID, err)
	}
	return nil
}

// attachImages lays out the image grid: a fresh page with a heading, two
// columns per row, a page break whenever the next row would overflow. Images
// are fetched one at a time in list order so placement is deterministic.
func (e *Exporter) attachImages(ctx context.Context, doc *document, images []minutes.MinuteImage) {
	if len(images) == 0 {
		return
	}
	doc.newPage()
	doc.pdf.SetFont("Helvetica", "B", 14)
	doc.pdf.SetTextColor(0, 0, 0)
	doc.pdf.Text(marginX, doc.y, attachmentsHeading)
	doc.y += 30

	for i, image := range images {
		column := i % 2
		x := marginX + float64(column)*(imageCellWidth+imageCellGap)

		if doc.y+imageCellHeight > doc.pageHeight-bottomMargin {
			doc.newPage()
		}

		data, err := e.fetchImage(ctx, image.URL)
		if err != nil {
			e.logger.Warn("export image unavailable",
				zap.String("url", image.URL),
				zap.Error(err))
			data = nil
		}
		doc.imageCell(data, x)

		if column == 1 {
			doc.y += imageCellHeight + imageCellGap
		}
	}
}

func (e *Exporter) fetchImage(ctx context.Context, url string) ([]byte, error) {
	if e.fetcher == nil {
		return nil, errors.New("export: no image fetcher configured")
	}
	return e.fetcher.Fetch(ctx, url)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(fullDateLayout)
}
