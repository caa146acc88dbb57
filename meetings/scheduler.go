// Package meetings finds candidate meeting slots across calendars and
// books the earliest one.
package meetings

import (
	"context"
	"time"

	goerrors "github.com/TudorHulban/go-errors"
	"github.com/google/uuid"
	"github.com/openclaw/availability"
	"github.com/openclaw/availability/store"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultMaxSlots caps how many candidate slots a search proposes.
const DefaultMaxSlots = 5

var ErrNoFreeSlot = errors.New("no free slot long enough in window")

type Scheduler struct {
	source availability.Source
	booker availability.Booker
	store  *store.Store
	logger *zap.Logger
}

type ParamsNewScheduler struct {
	Source availability.Source
	Booker availability.Booker
	Store  *store.Store
	Logger *zap.Logger
}

func (params *ParamsNewScheduler) IsValid() error {
	if params.Source == nil {
		return goerrors.ErrValidation{
			Caller: "IsValid - ParamsNewScheduler",
			Issue: goerrors.ErrNilInput{
				InputName: "Source",
			},
		}
	}

	if params.Booker == nil {
		return goerrors.ErrValidation{
			Caller: "IsValid - ParamsNewScheduler",
			Issue: goerrors.ErrNilInput{
				InputName: "Booker",
			},
		}
	}

	if params.Store == nil {
		return goerrors.ErrValidation{
			Caller: "IsValid - ParamsNewScheduler",
			Issue: goerrors.ErrNilInput{
				InputName: "Store",
			},
		}
	}

	return nil
}

func NewScheduler(params *ParamsNewScheduler) (*Scheduler, error) {
	if errValidation := params.IsValid(); errValidation != nil {
		return nil,
			errValidation
	}

	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
			source: params.Source,
			booker: params.Booker,
			store:  params.Store,
			logger: logger,
		},
		nil
}

type ParamsFindMeetingSlots struct {
	availability.Window

	CalendarIDs []string
	Duration    time.Duration

	// MaxSlots zero proposes DefaultMaxSlots, negative proposes all.
	MaxSlots int
}

func (s *Scheduler) FindMeetingSlots(ctx context.Context, params *ParamsFindMeetingSlots) ([]availability.TimeInterval, error) {
	busy, errBusy := s.source.BusyIntervals(ctx, params.CalendarIDs, params.Window)
	if errBusy != nil {
		return nil,
			errBusy
	}

	slots, errSlots := availability.FindFreeSlots(
		&availability.ParamsFindFreeSlots{
			Window:      params.Window,
			Busy:        busy,
			MinDuration: params.Duration,
		},
	)
	if errSlots != nil {
		return nil,
			errSlots
	}

	maxSlots := params.MaxSlots
	if maxSlots == 0 {
		maxSlots = DefaultMaxSlots
	}

	if maxSlots > 0 && len(slots) > maxSlots {
		slots = slots[:maxSlots]
	}

	s.logger.Debug("meeting slots",
		zap.String("source", s.source.Name()),
		zap.Int("busyIntervals", len(busy)),
		zap.Int("slots", len(slots)),
	)

	return slots, nil
}

type ParamsScheduleMeeting struct {
	availability.Window

	Summary          string
	Description      string
	CalendarIDs      []string
	TargetCalendarID string
	Duration         time.Duration
}

func (params *ParamsScheduleMeeting) IsValid() error {
	if len(params.Summary) == 0 {
		return goerrors.ErrValidation{
			Caller: "IsValid - ParamsScheduleMeeting",
			Issue: goerrors.ErrNilInput{
				InputName: "Summary",
			},
		}
	}

	if len(params.TargetCalendarID) == 0 {
		return goerrors.ErrValidation{
			Caller: "IsValid - ParamsScheduleMeeting",
			Issue: goerrors.ErrNilInput{
				InputName: "TargetCalendarID",
			},
		}
	}

	return nil
}

type ResponseScheduleMeeting struct {
	BookingID string                    `json:"bookingId"`
	EventUID  string                    `json:"eventUid"`
	Slot      availability.TimeInterval `json:"slot"`
}

// ScheduleMeeting books the earliest free slot of the window on the
// target calendar and logs an audit record locally.
func (s *Scheduler) ScheduleMeeting(ctx context.Context, params *ParamsScheduleMeeting) (*ResponseScheduleMeeting, error) {
	if errValidation := params.IsValid(); errValidation != nil {
		return nil,
			errValidation
	}

	slots, errSlots := s.FindMeetingSlots(ctx,
		&ParamsFindMeetingSlots{
			Window:      params.Window,
			CalendarIDs: params.CalendarIDs,
			Duration:    params.Duration,
			MaxSlots:    1,
		},
	)
	if errSlots != nil {
		return nil,
			errSlots
	}

	if len(slots) == 0 {
		return nil,
			ErrNoFreeSlot
	}

	slot := slots[0]

	eventUID, errCreate := s.booker.CreateEvent(ctx,
		params.TargetCalendarID,
		&availability.Event{
			Summary:     params.Summary,
			Description: params.Description,
			Start:       slot.Start,
			End:         slot.End,
		},
	)
	if errCreate != nil {
		return nil,
			errors.Wrap(errCreate, "book slot")
	}

	booking := store.Booking{
		ID:         uuid.NewString(),
		EventUID:   eventUID,
		CalendarID: params.TargetCalendarID,
		Summary:    params.Summary,
		StartsTS:   slot.Start.Unix(),
		EndsTS:     slot.End.Unix(),
	}

	if errLog := s.store.LogBooking(ctx, &booking); errLog != nil {
		// The event exists, a failed audit row must not undo the booking.
		s.logger.Warn("log booking", zap.Error(errLog))
	}

	s.logger.Info("meeting scheduled",
		zap.String("bookingId", booking.ID),
		zap.String("eventUid", eventUID),
		zap.String("calendarId", params.TargetCalendarID),
		zap.String("slot", slot.String()),
	)

	return &ResponseScheduleMeeting{
			BookingID: booking.ID,
			EventUID:  eventUID,
			Slot:      slot,
		},
		nil
}
