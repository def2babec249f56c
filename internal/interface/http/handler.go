package httpapi

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cpaptracker-service/internal/domain/entity"
	"cpaptracker-service/internal/domain/repository"
	"cpaptracker-service/internal/usecase"
	"cpaptracker-service/pkg/logger"
	"cpaptracker-service/pkg/utils"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler serves the part tracking API
type Handler struct {
	tracker     *usecase.PartTracker
	sweep       *usecase.ReminderSweep
	exporter    *usecase.InventoryExporter
	history     repository.NotificationRepository
	horizonDays int
	location    *time.Location
	now         func() time.Time
	logger      logger.Logger
}

// NewHandler creates a new API handler. history may be nil.
func NewHandler(
	tracker *usecase.PartTracker,
	sweep *usecase.ReminderSweep,
	exporter *usecase.InventoryExporter,
	history repository.NotificationRepository,
	horizonDays int,
	location *time.Location,
	logger logger.Logger,
) *Handler {
	if location == nil {
		location = time.Local
	}
	return &Handler{
		tracker:     tracker,
		sweep:       sweep,
		exporter:    exporter,
		history:     history,
		horizonDays: horizonDays,
		location:    location,
		now:         time.Now,
		logger:      logger,
	}
}

type partEventRequest struct {
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

type partRequest struct {
	Name                    string `json:"name" binding:"required"`
	Category                string `json:"category" binding:"required"`
	Manufacturer            string `json:"manufacturer"`
	CompatibleModel         string `json:"compatibleModel"`
	RecommendedIntervalDays int    `json:"recommendedIntervalDays"`
	Description             string `json:"description"`
}

func (r partRequest) toEntity() *entity.Part {
	return &entity.Part{
		Name:                    r.Name,
		Category:                entity.PartCategory(strings.ToUpper(r.Category)),
		Manufacturer:            r.Manufacturer,
		CompatibleModel:         r.CompatibleModel,
		RecommendedIntervalDays: r.RecommendedIntervalDays,
		Description:             r.Description,
	}
}

// today returns the date query parameter or the current date in the configured location
func (h *Handler) today(c *gin.Context) (time.Time, error) {
	return h.dateOrToday(c.Query("date"))
}

func (h *Handler) dateOrToday(s string) (time.Time, error) {
	if s == "" {
		return utils.Today(h.now(), h.location), nil
	}
	return utils.ParseDate(s)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, fmt.Sprintf("invalid id %q", c.Param("id")))
		return 0, false
	}
	return uint(id), true
}

// Health GET /health
func (h *Handler) Health(c *gin.Context) {
	c.String(200, "Healthy")
}

// Status GET /api/v1/status
func (h *Handler) Status(c *gin.Context) {
	today, err := h.today(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	views, err := h.tracker.AllWithStatus(c.Request.Context(), today)
	if err != nil {
		ErrorFrom(c, err)
		return
	}
	Success(c, gin.H{"today": utils.FormatDate(today), "items": views})
}

// Upcoming GET /api/v1/upcoming?days=30
func (h *Handler) Upcoming(c *gin.Context) {
	today, err := h.today(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	horizon := h.horizonDays
	if d := c.Query("days"); d != "" {
		v, err := strconv.Atoi(d)
		if err != nil {
			BadRequest(c, "days must be an integer")
			return
		}
		horizon = v
	}
	views, err := h.tracker.Upcoming(c.Request.Context(), today, horizon)
	if err != nil {
		ErrorFrom(c, err)
		return
	}
	Success(c, gin.H{"today": utils.FormatDate(today), "horizonDays": horizon, "items": views})
}

// ListParts GET /api/v1/parts
func (h *Handler) ListParts(c *gin.Context) {
	parts, err := h.tracker.ListParts(c.Request.Context())
	if err != nil {
		ErrorFrom(c, err)
		return
	}
	Success(c, gin.H{"items": parts})
}

// GetPart GET /api/v1/parts/:id
func (h *Handler) GetPart(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	today, err := h.today(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	view, err := h.tracker.PartStatus(c.Request.Context(), id, today)
	if err != nil {
		ErrorFrom(c, err)
		return
	}
	Success(c, view)
}

// CreatePart POST /api/v1/parts
func (h *Handler) CreatePart(c *gin.Context) {
	var req partRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	part := req.toEntity()
	if err := h.tracker.CreatePart(c.Request.Context(), part); err != nil {
		ErrorFrom(c, err)
		return
	}
	Created(c, part)
}

// UpdatePart PUT /api/v1/parts/:id
func (h *Handler) UpdatePart(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req partRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	part := req.toEntity()
	part.ID = id
	if err := h.tracker.UpdatePart(c.Request.Context(), part); err != nil {
		ErrorFrom(c, err)
		return
	}
	Success(c, part)
}

// DeletePart DELETE /api/v1/parts/:id
func (h *Handler) DeletePart(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.tracker.DeletePart(c.Request.Context(), id); err != nil {
		ErrorFrom(c, err)
		return
	}
	Success(c, nil)
}

// History GET /api/v1/parts/:id/history
func (h *Handler) History(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	events, err := h.tracker.History(c.Request.Context(), id)
	if err != nil {
		ErrorFrom(c, err)
		return
	}
	Success(c, gin.H{"items": events})
}

// MarkReplaced POST /api/v1/parts/:id/replaced
func (h *Handler) MarkReplaced(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req partEventRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		BadRequest(c, err.Error())
		return
	}
	date, err := h.dateOrToday(req.Date)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	event, err := h.tracker.MarkPartReplaced(c.Request.Context(), id, date, req.Notes)
	if err != nil {
		ErrorFrom(c, err)
		return
	}
	Created(c, event)
}

// MarkOrdered POST /api/v1/parts/:id/ordered
func (h *Handler) MarkOrdered(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req partEventRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		BadRequest(c, err.Error())
		return
	}
	date, err := h.dateOrToday(req.Date)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	event, err := h.tracker.MarkPartOrdered(c.Request.Context(), id, date, req.Notes)
	if err != nil {
		ErrorFrom(c, err)
		return
	}
	Success(c, event)
}

// InitializePart POST /api/v1/parts/:id/initialize
func (h *Handler) InitializePart(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	today, err := h.today(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	event, err := h.tracker.InitializePartSchedule(c.Request.Context(), id, today)
	if err != nil {
		ErrorFrom(c, err)
		return
	}
	Success(c, gin.H{"initialized": event != nil, "event": event})
}

// InitializeAll POST /api/v1/parts/initialize
func (h *Handler) InitializeAll(c *gin.Context) {
	today, err := h.today(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	result, err := h.tracker.InitializeAllParts(c.Request.Context(), today)
	if err != nil {
		ErrorFrom(c, err)
		return
	}
	Success(c, result)
}

// ListEquipment GET /api/v1/equipment
func (h *Handler) ListEquipment(c *gin.Context) {
	equipment, err := h.tracker.ListEquipment(c.Request.Context())
	if err != nil {
		ErrorFrom(c, err)
		return
	}
	Success(c, gin.H{"items": equipment})
}

// EquipmentParts GET /api/v1/equipment/:id/parts
func (h *Handler) EquipmentParts(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	parts, err := h.tracker.PartsForEquipment(c.Request.Context(), id)
	if err != nil {
		ErrorFrom(c, err)
		return
	}
	Success(c, gin.H{"items": parts})
}

// RunSweep POST /api/v1/sweep
func (h *Handler) RunSweep(c *gin.Context) {
	today, err := h.today(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	result, err := h.sweep.RunReminderSweep(c.Request.Context(), today)
	if err != nil {
		ErrorFrom(c, err)
		return
	}
	Success(c, result)
}

// Notifications GET /api/v1/notifications?runId=&limit=
func (h *Handler) Notifications(c *gin.Context) {
	if h.history == nil {
		Success(c, gin.H{"items": []*entity.NotificationRecord{}})
		return
	}

	var (
		records []*entity.NotificationRecord
		err     error
	)
	if runID := c.Query("runId"); runID != "" {
		records, err = h.history.FindByRunID(c.Request.Context(), runID)
	} else {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		records, err = h.history.FindRecent(c.Request.Context(), limit)
	}
	if err != nil {
		ErrorFrom(c, err)
		return
	}
	if records == nil {
		records = []*entity.NotificationRecord{}
	}
	Success(c, gin.H{"items": records})
}

// Export GET /api/v1/export?columns=name,status
func (h *Handler) Export(c *gin.Context) {
	today, err := h.today(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	var columns []string
	if cols := c.Query("columns"); cols != "" {
		columns = strings.Split(cols, ",")
	}

	// buffered so a failure can still be reported as JSON
	var buf bytes.Buffer
	if _, err := h.exporter.Export(c.Request.Context(), &buf, today, columns); err != nil {
		ErrorFrom(c, err)
		return
	}

	filename := fmt.Sprintf("cpap-parts-%s.xlsx", utils.FormatDate(today))
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Data(200, xlsxContentType, buf.Bytes())
}
