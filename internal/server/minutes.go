package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/galuhdigital/minutes/backend/internal/export"
	"github.com/galuhdigital/minutes/backend/internal/minutes"
	"github.com/galuhdigital/minutes/backend/internal/textfmt"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type memberPayload struct {
	Name string `json:"name"`
}

type minuteImagePayload struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

type minutePayload struct {
	ID                   int64                `json:"id"`
	Division             string               `json:"division"`
	Title                string               `json:"title"`
	Speaker              string               `json:"speaker"`
	MeetingDate          *time.Time           `json:"meetingDate,omitempty"`
	MeetingType          string               `json:"meetingType,omitempty"`
	Summary              string               `json:"summary"`
	Notes                string               `json:"notes"`
	NotesSummary         string               `json:"notesSummary,omitempty"`
	NumberOfParticipants int                  `json:"numberOfParticipants"`
	Members              []memberPayload      `json:"members"`
	Images               []minuteImagePayload `json:"images"`
	CreatedAt            time.Time            `json:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt"`
}

type minuteRequestPayload struct {
	Division             string   `json:"division"`
	Title                string   `json:"title"`
	MeetingDate          *string  `json:"meetingDate"`
	MeetingType          string   `json:"meetingType"`
	Summary              string   `json:"summary"`
	Notes                string   `json:"notes"`
	Speaker              string   `json:"speaker"`
	NumberOfParticipants int      `json:"numberOfParticipants"`
	Members              []string `json:"members"`
	Images               []string `json:"images"`
}

type minuteListPayload struct {
	Records      []minutePayload `json:"records"`
	Page         int             `json:"page"`
	TotalPages   int             `json:"totalPages"`
	TotalRecords int             `json:"totalRecords"`
}

func minuteToPayload(record minutes.MeetingMinute, withSummary bool) minutePayload {
	members := make([]memberPayload, 0, len(record.Members))
	for _, member := range record.Members {
		members = append(members, memberPayload{Name: member.Name})
	}
	images := make([]minuteImagePayload, 0, len(record.Images))
	for _, image := range record.Images {
		images = append(images, minuteImagePayload{ID: image.ID, URL: image.URL})
	}
	payload := minutePayload{
		ID:                   record.ID,
		Division:             record.Division,
		Title:                record.Title,
		Speaker:              record.Speaker,
		MeetingDate:          record.MeetingDate,
		MeetingType:          string(record.MeetingType),
		Summary:              record.Summary,
		Notes:                record.Notes,
		NumberOfParticipants: record.NumberOfParticipants,
		Members:              members,
		Images:               images,
		CreatedAt:            record.CreatedAt,
		UpdatedAt:            record.UpdatedAt,
	}
	if withSummary {
		payload.NotesSummary = textfmt.Summarize(record.Notes, 0)
	}
	return payload
}

func (h *httpHandler) handleListMinutes(c *gin.Context) {
	refresh := h.minutesStore.Begin()
	records, err := h.minutesService.List(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	// A refresh that lost the race to a newer one serves the newer snapshot
	// instead of overwriting it.
	if !h.minutesStore.Complete(refresh, records) {
		records = h.minutesStore.Snapshot()
	}

	if !hasListParams(c) {
		payloads := make([]minutePayload, 0, len(records))
		for _, record := range records {
			payloads = append(payloads, minuteToPayload(record, true))
		}
		c.JSON(http.StatusOK, payloads)
		return
	}

	params, err := parseListParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page, err := h.minutesEngine.Evaluate(records, params)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payloads := make([]minutePayload, 0, len(page.Records))
	for _, record := range page.Records {
		payloads = append(payloads, minuteToPayload(record, true))
	}
	c.JSON(http.StatusOK, minuteListPayload{
		Records:      payloads,
		Page:         page.Number,
		TotalPages:   page.TotalPages,
		TotalRecords: page.TotalRecords,
	})
}

func (h *httpHandler) handleGetMinute(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return
	}
	record, err := h.minutesService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, minuteToPayload(record, false))
}

func (h *httpHandler) handleCreateMinute(c *gin.Context) {
	form, ok := h.bindMinuteForm(c)
	if !ok {
		return
	}
	if err := minutes.ValidateForm(form, h.requireImages); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record, err := h.minutesService.Create(c.Request.Context(), form)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, minuteToPayload(record, false))
}

func (h *httpHandler) handleUpdateMinute(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return
	}
	form, ok := h.bindMinuteForm(c)
	if !ok {
		return
	}
	// Images are managed through the image endpoints; an update never
	// re-checks the image rule.
	if err := minutes.ValidateForm(form, false); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record, err := h.minutesService.Update(c.Request.Context(), id, form)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, minuteToPayload(record, false))
}

func (h *httpHandler) handleDeleteMinute(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return
	}
	if err := h.minutesService.Delete(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleExportMinute(c *gin.Context) {
	if h.exporter == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export_unavailable"})
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return
	}
	record, err := h.minutesService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	var buffer bytes.Buffer
	if err := h.exporter.ExportMinute(c.Request.Context(), record, &buffer); err != nil {
		h.logger.Error("minute export failed", zap.Int64("minute_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export_failed"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.MinuteFilename(id)))
	c.Data(http.StatusOK, "application/pdf", buffer.Bytes())
}

type attachImagesPayload struct {
	URLs []string `json:"urls"`
}

func (h *httpHandler) handleAttachImages(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return
	}
	var request attachImagesPayload
	if err := c.ShouldBindJSON(&request); err != nil || len(request.URLs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	record, err := h.minutesService.AttachImages(c.Request.Context(), id, request.URLs)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, minuteToPayload(record, false))
}

type replaceImagePayload struct {
	URL string `json:"url"`
}

func (h *httpHandler) handleReplaceImage(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return
	}
	imageID, err := idParam(c, "imageId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_image_id"})
		return
	}
	var request replaceImagePayload
	if err := c.ShouldBindJSON(&request); err != nil || request.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	record, err := h.minutesService.ReplaceImage(c.Request.Context(), id, imageID, request.URL)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, minuteToPayload(record, false))
}

func (h *httpHandler) handleRemoveImage(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return
	}
	imageID, err := idParam(c, "imageId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_image_id"})
		return
	}
	if err := h.minutesService.RemoveImage(c.Request.Context(), id, imageID); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) bindMinuteForm(c *gin.Context) (minutes.Form, bool) {
	var request minuteRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return minutes.Form{}, false
	}

	meetingType, err := minutes.ParseMeetingType(request.MeetingType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_meeting_type"})
		return minutes.Form{}, false
	}

	var meetingDate *time.Time
	if request.MeetingDate != nil && *request.MeetingDate != "" {
		parsed, err := time.Parse(time.RFC3339, *request.MeetingDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_meeting_date"})
			return minutes.Form{}, false
		}
		utc := parsed.UTC()
		meetingDate = &utc
	}

	return minutes.Form{
		Division:             request.Division,
		Title:                request.Title,
		MeetingDate:          meetingDate,
		MeetingType:          meetingType,
		Summary:              request.Summary,
		Notes:                request.Notes,
		Speaker:              request.Speaker,
		NumberOfParticipants: request.NumberOfParticipants,
		Members:              request.Members,
		ImageURLs:            request.Images,
	}, true
}

func (h *httpHandler) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, minutes.ErrNotFound),
		errors.Is(err, minutes.ErrImageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}

	var serviceErr *minutes.ServiceError
	if errors.As(err, &serviceErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "request_failed", "code": serviceErr.Code()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "request_failed"})
}
