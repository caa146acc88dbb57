package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/TudorHulban/go-errors"
	"github.com/gin-gonic/gin"
	"github.com/openclaw/availability"
	"github.com/openclaw/availability/config"
	"github.com/openclaw/availability/meetings"
	"github.com/openclaw/availability/store"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// windowFromQuery resolves the availability window. Explicit timeMin
// and timeMax bounds win, otherwise the work hours of the requested
// date, otherwise the work hours of today.
func windowFromQuery(c *gin.Context) (*availability.Window, error) {
	timeMinRaw, timeMaxRaw := c.Query("timeMin"), c.Query("timeMax")

	if len(timeMinRaw) > 0 || len(timeMaxRaw) > 0 {
		timeMin, errMin := time.Parse(time.RFC3339, timeMinRaw)
		if errMin != nil {
			return nil,
				errors.Wrapf(errMin, "timeMin %q", timeMinRaw)
		}

		timeMax, errMax := time.Parse(time.RFC3339, timeMaxRaw)
		if errMax != nil {
			return nil,
				errors.Wrapf(errMax, "timeMax %q", timeMaxRaw)
		}

		return &availability.Window{
				TimeMin: timeMin,
				TimeMax: timeMax,
			},
			nil
	}

	day := time.Now().In(config.Location())

	if dateRaw := c.Query("date"); len(dateRaw) > 0 {
		parsed, errParse := time.ParseInLocation("2006-01-02", dateRaw, config.Location())
		if errParse != nil {
			return nil,
				errors.Wrapf(errParse, "date %q", dateRaw)
		}

		day = parsed
	}

	window := availability.DayWindow(day, config.AppConfig.WorkDayStart, config.AppConfig.WorkDayEnd)

	return &window, nil
}

func calendarIDsFromQuery(c *gin.Context) []string {
	raw := c.Query("calendars")
	if len(raw) == 0 {
		return config.CalendarIDList()
	}

	var ids []string

	for _, id := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(id); len(trimmed) > 0 {
			ids = append(ids, trimmed)
		}
	}

	return ids
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if len(raw) == 0 {
		return fallback, nil
	}

	return strconv.Atoi(raw)
}

func statusForError(err error) int {
	var errValidation goerrors.ErrValidation

	if errors.As(err, &errValidation) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

func (s *Server) busyIntervals(ctx context.Context, calendarIDs []string, w availability.Window) ([]availability.TimeInterval, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, calendarIDs, w); ok {
			return cached, nil
		}
	}

	busy, errBusy := s.source.BusyIntervals(ctx, calendarIDs, w)
	if errBusy != nil {
		return nil,
			errBusy
	}

	if s.cache != nil {
		s.cache.Set(ctx, calendarIDs, w, busy)
	}

	return busy, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	if errPing := s.store.Ping(c.Request.Context()); errPing != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": errPing.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "source": s.source.Name()})
}

func (s *Server) handleBusy(c *gin.Context) {
	window, errWindow := windowFromQuery(c)
	if errWindow != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid window", "details": errWindow.Error()})
		return
	}

	busy, errBusy := s.busyIntervals(c.Request.Context(), calendarIDsFromQuery(c), *window)
	if errBusy != nil {
		s.logger.Warn("busy lookup", zap.Error(errBusy))
		c.JSON(http.StatusBadGateway, gin.H{"error": "busy lookup failed", "details": errBusy.Error()})
		return
	}

	merged := availability.MergeIntervals(busy)
	if merged == nil {
		merged = []availability.TimeInterval{}
	}

	c.JSON(http.StatusOK, gin.H{
		"window": window,
		"busy":   merged,
	})
}

func (s *Server) handleFreeSlots(c *gin.Context) {
	window, errWindow := windowFromQuery(c)
	if errWindow != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid window", "details": errWindow.Error()})
		return
	}

	durationMinutes, errDuration := intQuery(c, "durationMinutes", config.AppConfig.DefaultDurationMinutes)
	if errDuration != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid durationMinutes", "details": errDuration.Error()})
		return
	}

	maxSlots, errMax := intQuery(c, "maxSlots", config.AppConfig.MaxSlots)
	if errMax != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid maxSlots", "details": errMax.Error()})
		return
	}

	pack, _ := strconv.ParseBool(c.Query("pack"))

	busy, errBusy := s.busyIntervals(c.Request.Context(), calendarIDsFromQuery(c), *window)
	if errBusy != nil {
		s.logger.Warn("busy lookup", zap.Error(errBusy))
		c.JSON(http.StatusBadGateway, gin.H{"error": "busy lookup failed", "details": errBusy.Error()})
		return
	}

	slots, errSlots := availability.FindFreeSlots(
		&availability.ParamsFindFreeSlots{
			Window:      *window,
			Busy:        busy,
			MinDuration: time.Duration(durationMinutes) * time.Minute,
			PackGaps:    pack,
		},
	)
	if errSlots != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot query", "details": errSlots.Error()})
		return
	}

	if maxSlots > 0 && len(slots) > maxSlots {
		slots = slots[:maxSlots]
	}

	if slots == nil {
		slots = []availability.TimeInterval{}
	}

	c.JSON(http.StatusOK, gin.H{
		"window":          window,
		"durationMinutes": durationMinutes,
		"slots":           slots,
	})
}

func (s *Server) handleListEvents(c *gin.Context) {
	window, errWindow := windowFromQuery(c)
	if errWindow != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid window", "details": errWindow.Error()})
		return
	}

	events, errFind := s.store.FindEvents(c.Request.Context(),
		&store.FindEvents{
			StartsAfter: &window.TimeMin,
			EndsBefore:  &window.TimeMax,
		},
	)
	if errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list events failed", "details": errFind.Error()})
		return
	}

	if events == nil {
		events = []*store.Event{}
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

type createEventRequest struct {
	Summary     string    `json:"summary" binding:"required"`
	Description string    `json:"description"`
	Start       time.Time `json:"start" binding:"required"`
	End         time.Time `json:"end" binding:"required"`
}

func (s *Server) handleCreateEvent(c *gin.Context) {
	var request createEventRequest

	if errBind := c.ShouldBindJSON(&request); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": errBind.Error()})
		return
	}

	event, errCreate := s.store.CreateEvent(c.Request.Context(),
		&store.ParamsCreateEvent{
			Summary:     request.Summary,
			Description: request.Description,
			Starts:      request.Start,
			Ends:        request.End,
		},
	)
	if errCreate != nil {
		c.JSON(statusForError(errCreate), gin.H{"error": "create event failed", "details": errCreate.Error()})
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (s *Server) handleDeleteEvent(c *gin.Context) {
	uid := c.Param("uid")

	if errDelete := s.store.DeleteEvent(c.Request.Context(), uid); errDelete != nil {
		if errors.Is(errDelete, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete event failed", "details": errDelete.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

type scheduleMeetingRequest struct {
	Summary          string    `json:"summary" binding:"required"`
	Description      string    `json:"description"`
	TimeMin          time.Time `json:"timeMin" binding:"required"`
	TimeMax          time.Time `json:"timeMax" binding:"required"`
	DurationMinutes  int       `json:"durationMinutes"`
	CalendarIDs      []string  `json:"calendarIds"`
	TargetCalendarID string    `json:"targetCalendarId" binding:"required"`
}

func (s *Server) handleScheduleMeeting(c *gin.Context) {
	if s.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no booking backend configured"})
		return
	}

	var request scheduleMeetingRequest

	if errBind := c.ShouldBindJSON(&request); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": errBind.Error()})
		return
	}

	durationMinutes := request.DurationMinutes
	if durationMinutes == 0 {
		durationMinutes = config.AppConfig.DefaultDurationMinutes
	}

	calendarIDs := request.CalendarIDs
	if len(calendarIDs) == 0 {
		calendarIDs = config.CalendarIDList()
	}

	response, errSchedule := s.scheduler.ScheduleMeeting(c.Request.Context(),
		&meetings.ParamsScheduleMeeting{
			Window: availability.Window{
				TimeMin: request.TimeMin,
				TimeMax: request.TimeMax,
			},
			Summary:          request.Summary,
			Description:      request.Description,
			CalendarIDs:      calendarIDs,
			TargetCalendarID: request.TargetCalendarID,
			Duration:         time.Duration(durationMinutes) * time.Minute,
		},
	)
	if errSchedule != nil {
		if errors.Is(errSchedule, meetings.ErrNoFreeSlot) {
			c.JSON(http.StatusConflict, gin.H{"error": meetings.ErrNoFreeSlot.Error()})
			return
		}

		c.JSON(statusForError(errSchedule), gin.H{"error": "schedule meeting failed", "details": errSchedule.Error()})
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (s *Server) handleListBookings(c *gin.Context) {
	bookings, errFind := s.store.FindBookings(c.Request.Context())
	if errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list bookings failed", "details": errFind.Error()})
		return
	}

	if bookings == nil {
		bookings = []*store.Booking{}
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
