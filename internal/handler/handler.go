package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rollcall/internal/attendance"
	"rollcall/internal/metrics"
)

// HealthFunc reports whether a dependency is reachable.
type HealthFunc func(ctx context.Context) bool

type Handler struct {
	svc     *attendance.Service
	rec     *metrics.Recorder
	healthy HealthFunc
}

func New(svc *attendance.Service, rec *metrics.Recorder, healthy HealthFunc) *Handler {
	return &Handler{svc: svc, rec: rec, healthy: healthy}
}

// Register mounts the roster routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/healthz", h.Healthz)

	ev := r.Group("/v1/events/:eventId")
	ev.GET("/attendees", h.ListAttendees)
	ev.POST("/attendees", h.AddAttendee)
	ev.DELETE("/attendees", h.ResetRoster)
	ev.DELETE("/attendees/:attendeeId", h.RemoveAttendee)
	ev.POST("/attendees/:attendeeId/checkin", h.CheckIn)
	ev.POST("/attendees/:attendeeId/checkout", h.CheckOut)
	ev.PUT("/attendees/:attendeeId/status", h.SetStatus)
	ev.GET("/stats", h.Stats)
	ev.GET("/export.json", h.ExportJSON)
	ev.GET("/export.csv", h.ExportCSV)
	ev.POST("/import", h.ImportJSON)
}

// ---------- Health ----------

func (h *Handler) Healthz(c *gin.Context) {
	ok := h.healthy == nil || h.healthy(c.Request.Context())
	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": "ok", "store": ok})
}

// ---------- Roster ----------

func (h *Handler) ListAttendees(c *gin.Context) {
	eventID, ok := eventParam(c)
	if !ok {
		return
	}
	entries, err := h.svc.Roster(c.Request.Context(), eventID)
	if err != nil {
		h.fail(c, "list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendees": entries})
}

type addRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
}

// AddAttendee returns 201 for a new attendee and 200 when the request
// matched someone already on the roster.
func (h *Handler) AddAttendee(c *gin.Context) {
	eventID, ok := eventParam(c)
	if !ok {
		return
	}
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, created, err := h.svc.EnsureAttendee(c.Request.Context(), eventID, req.Name, req.Email)
	if errors.Is(err, attendance.ErrNameRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.fail(c, "add", err)
		return
	}
	h.observe("add", "ok")
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, entry)
}

func (h *Handler) RemoveAttendee(c *gin.Context) {
	eventID, ok := eventParam(c)
	if !ok {
		return
	}
	removed, err := h.svc.RemoveAttendee(c.Request.Context(), eventID, c.Param("attendeeId"))
	h.respond(c, "remove", removed, err)
}

func (h *Handler) ResetRoster(c *gin.Context) {
	eventID, ok := eventParam(c)
	if !ok {
		return
	}
	if err := h.svc.ResetRoster(c.Request.Context(), eventID); err != nil {
		h.fail(c, "reset", err)
		return
	}
	h.observe("reset", "ok")
	c.Status(http.StatusNoContent)
}

// ---------- Transitions ----------

type checkInRequest struct {
	Late bool `json:"late"`
}

func (h *Handler) CheckIn(c *gin.Context) {
	eventID, ok := eventParam(c)
	if !ok {
		return
	}
	var req checkInRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	done, err := h.svc.CheckIn(c.Request.Context(), eventID, c.Param("attendeeId"), req.Late)
	h.respond(c, "checkin", done, err)
}

func (h *Handler) CheckOut(c *gin.Context) {
	eventID, ok := eventParam(c)
	if !ok {
		return
	}
	done, err := h.svc.CheckOut(c.Request.Context(), eventID, c.Param("attendeeId"))
	h.respond(c, "checkout", done, err)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

func (h *Handler) SetStatus(c *gin.Context) {
	eventID, ok := eventParam(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, err := attendance.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	done, err := h.svc.SetStatus(c.Request.Context(), eventID, c.Param("attendeeId"), status, req.Notes)
	h.respond(c, "status", done, err)
}

// ---------- Stats & export ----------

func (h *Handler) Stats(c *gin.Context) {
	eventID, ok := eventParam(c)
	if !ok {
		return
	}
	st, err := h.svc.Stats(c.Request.Context(), eventID)
	if err != nil {
		h.fail(c, "stats", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) ExportJSON(c *gin.Context) {
	eventID, ok := eventParam(c)
	if !ok {
		return
	}
	doc, err := h.svc.ExportJSON(c.Request.Context(), eventID)
	if err != nil {
		h.fail(c, "export", err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
}

func (h *Handler) ExportCSV(c *gin.Context) {
	eventID, ok := eventParam(c)
	if !ok {
		return
	}
	doc, err := h.svc.ExportCSV(c.Request.Context(), eventID)
	if err != nil {
		h.fail(c, "export", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance-%d.csv"`, eventID))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(doc))
}

// ImportJSON takes the raw roster document as the request body. A body
// that does not parse leaves the roster untouched.
func (h *Handler) ImportJSON(c *gin.Context) {
	eventID, ok := eventParam(c)
	if !ok {
		return
	}
	merge := true
	if v := c.Query("merge"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "merge must be true or false"})
			return
		}
		merge = parsed
	}
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read body failed"})
		return
	}
	if err := h.svc.ImportJSON(c.Request.Context(), eventID, string(body), merge); err != nil {
		h.fail(c, "import", err)
		return
	}
	h.observe("import", "ok")
	c.Status(http.StatusNoContent)
}

// ---------- helpers ----------

func eventParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("eventId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return 0, false
	}
	return id, true
}

func (h *Handler) respond(c *gin.Context, op string, done bool, err error) {
	if err != nil {
		h.fail(c, op, err)
		return
	}
	if !done {
		h.observe(op, "not_found")
		c.JSON(http.StatusNotFound, gin.H{"error": "attendee not found"})
		return
	}
	h.observe(op, "ok")
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	log.Printf("%s failed: %v", op, err)
	h.observe(op, "error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
}

func (h *Handler) observe(op, result string) {
	if h.rec != nil {
		h.rec.Observe(op, result)
	}
}
