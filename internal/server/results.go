package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/galuhdigital/minutes/backend/internal/export"
	"github.com/galuhdigital/minutes/backend/internal/results"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type resultMinutePayload struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Division string `json:"division"`
}

type resultPayload struct {
	ID                   int64               `json:"id"`
	MinuteID             int64               `json:"minuteId"`
	Minute               resultMinutePayload `json:"minute"`
	Target               string              `json:"target"`
	Achievement          int                 `json:"achievement"`
	TargetCompletionDate string              `json:"targetCompletionDate"`
	Description          string              `json:"description"`
	CreatedAt            time.Time           `json:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt"`
}

type resultRequestPayload struct {
	MinuteID             int64  `json:"minuteId"`
	Target               string `json:"target"`
	Achievement          int    `json:"achievement"`
	TargetCompletionDate string `json:"targetCompletionDate"`
	Description          string `json:"description"`
}

type resultListPayload struct {
	Records      []resultPayload `json:"records"`
	Page         int             `json:"page"`
	TotalPages   int             `json:"totalPages"`
	TotalRecords int             `json:"totalRecords"`
}

func resultToPayload(record results.MeetingResult) resultPayload {
	return resultPayload{
		ID:       record.ID,
		MinuteID: record.MinuteID,
		Minute: resultMinutePayload{
			ID:       record.Minute.ID,
			Title:    record.Minute.Title,
			Division: record.Minute.Division,
		},
		Target:               record.Target,
		Achievement:          record.Achievement,
		TargetCompletionDate: record.TargetCompletionDate.Format("2006-01-02"),
		Description:          record.Description,
		CreatedAt:            record.CreatedAt,
		UpdatedAt:            record.UpdatedAt,
	}
}

func (h *httpHandler) handleListResults(c *gin.Context) {
	refresh := h.resultsStore.Begin()
	records, err := h.resultsService.List(c.Request.Context())
	if err != nil {
		h.respondResultError(c, err)
		return
	}
	if !h.resultsStore.Complete(refresh, records) {
		records = h.resultsStore.Snapshot()
	}

	if !hasListParams(c) {
		payloads := make([]resultPayload, 0, len(records))
		for _, record := range records {
			payloads = append(payloads, resultToPayload(record))
		}
		c.JSON(http.StatusOK, payloads)
		return
	}

	params, err := parseListParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page, err := h.resultsEngine.Evaluate(records, params)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payloads := make([]resultPayload, 0, len(page.Records))
	for _, record := range page.Records {
		payloads = append(payloads, resultToPayload(record))
	}
	c.JSON(http.StatusOK, resultListPayload{
		Records:      payloads,
		Page:         page.Number,
		TotalPages:   page.TotalPages,
		TotalRecords: page.TotalRecords,
	})
}

func (h *httpHandler) handleGetResult(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return
	}
	record, err := h.resultsService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondResultError(c, err)
		return
	}
	c.JSON(http.StatusOK, resultToPayload(record))
}

func (h *httpHandler) handleCreateResult(c *gin.Context) {
	var request resultRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	form := results.Form{
		MinuteID:             request.MinuteID,
		Target:               request.Target,
		Achievement:          request.Achievement,
		TargetCompletionDate: request.TargetCompletionDate,
		Description:          request.Description,
	}
	if err := results.ValidateForm(form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record, err := h.resultsService.Create(c.Request.Context(), form)
	if err != nil {
		h.respondResultError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resultToPayload(record))
}

func (h *httpHandler) handleUpdateResult(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return
	}
	var request resultRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	// The minute link is fixed at create time; carry the stored link through
	// validation so an update payload cannot move the result.
	existing, err := h.resultsService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondResultError(c, err)
		return
	}
	form := results.Form{
		MinuteID:             existing.MinuteID,
		Target:               request.Target,
		Achievement:          request.Achievement,
		TargetCompletionDate: request.TargetCompletionDate,
		Description:          request.Description,
	}
	if err := results.ValidateForm(form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record, err := h.resultsService.Update(c.Request.Context(), id, form)
	if err != nil {
		h.respondResultError(c, err)
		return
	}
	c.JSON(http.StatusOK, resultToPayload(record))
}

func (h *httpHandler) handleDeleteResult(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return
	}
	if err := h.resultsService.Delete(c.Request.Context(), id); err != nil {
		h.respondResultError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleExportResult(c *gin.Context) {
	if h.exporter == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export_unavailable"})
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return
	}
	record, err := h.resultsService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondResultError(c, err)
		return
	}

	var buffer bytes.Buffer
	if err := h.exporter.ExportResult(c.Request.Context(), record, &buffer); err != nil {
		h.logger.Error("result export failed", zap.Int64("result_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export_failed"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.ResultFilename(id)))
	c.Data(http.StatusOK, "application/pdf", buffer.Bytes())
}

func (h *httpHandler) respondResultError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, results.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	case errors.Is(err, results.ErrMinuteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "minute_not_found"})
		return
	}

	var serviceErr *results.ServiceError
	if errors.As(err, &serviceErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "request_failed", "code": serviceErr.Code()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "request_failed"})
}
