package source

import (
	"context"
	"time"

	goerrors "github.com/TudorHulban/go-errors"
	"github.com/asaskevich/govalidator"
	"github.com/openclaw/availability"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleCalendar reads free/busy information and books events through
// the Google Calendar API, authenticated with an offline refresh
// token.
type GoogleCalendar struct {
	service *calendar.Service
}

type ParamsNewGoogleCalendar struct {
	ClientID     string `valid:"required"`
	ClientSecret string `valid:"required"`
	RefreshToken string `valid:"required"`
}

func NewGoogleCalendar(ctx context.Context, params *ParamsNewGoogleCalendar) (*GoogleCalendar, error) {
	if _, errValidation := govalidator.ValidateStruct(params); errValidation != nil {
		return nil,
			goerrors.ErrServiceValidation{
				ServiceName: "GoogleCalendar",
				Caller:      "NewGoogleCalendar",
				Issue:       errValidation,
			}
	}

	oauthConfig := oauth2.Config{
		ClientID:     params.ClientID,
		ClientSecret: params.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{calendar.CalendarScope},
	}

	client := oauthConfig.Client(ctx,
		&oauth2.Token{
			RefreshToken: params.RefreshToken,
		},
	)

	service, errService := calendar.NewService(ctx, option.WithHTTPClient(client))
	if errService != nil {
		return nil,
			errors.Wrap(errService, "create calendar service")
	}

	return &GoogleCalendar{
			service: service,
		},
		nil
}

func (g *GoogleCalendar) Name() string {
	return "googlecalendar"
}

func (g *GoogleCalendar) BusyIntervals(ctx context.Context, calendarIDs []string, w availability.Window) ([]availability.TimeInterval, error) {
	if len(calendarIDs) == 0 {
		calendarIDs = []string{"primary"}
	}

	items := make([]*calendar.FreeBusyRequestItem, 0, len(calendarIDs))

	for _, calendarID := range calendarIDs {
		items = append(items,
			&calendar.FreeBusyRequestItem{
				Id: calendarID,
			},
		)
	}

	response, errQuery := g.service.Freebusy.Query(
		&calendar.FreeBusyRequest{
			TimeMin: w.TimeMin.Format(time.RFC3339),
			TimeMax: w.TimeMax.Format(time.RFC3339),
			Items:   items,
		},
	).
		Context(ctx).
		Do()
	if errQuery != nil {
		return nil,
			errors.Wrap(errQuery, "freebusy query")
	}

	var intervals []availability.TimeInterval

	for calendarID, freeBusy := range response.Calendars {
		if len(freeBusy.Errors) > 0 {
			return nil,
				errors.Errorf(
					"calendar %s: %s",
					calendarID,
					freeBusy.Errors[0].Reason,
				)
		}

		for _, period := range freeBusy.Busy {
			interval, errInterval := intervalFromPeriod(period)
			if errInterval != nil {
				return nil,
					errInterval
			}

			intervals = append(intervals, *interval)
		}
	}

	return intervals, nil
}

func (g *GoogleCalendar) ListEvents(ctx context.Context, calendarID string, w availability.Window) ([]*availability.Event, error) {
	response, errList := g.service.Events.List(calendarID).
		TimeMin(w.TimeMin.Format(time.RFC3339)).
		TimeMax(w.TimeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if errList != nil {
		return nil,
			errors.Wrapf(errList, "list events %s", calendarID)
	}

	events := make([]*availability.Event, 0, len(response.Items))

	for _, item := range response.Items {
		events = append(events, eventFromItem(item))
	}

	return events, nil
}

func (g *GoogleCalendar) CreateEvent(ctx context.Context, calendarID string, event *availability.Event) (string, error) {
	created, errInsert := g.service.Events.Insert(
		calendarID,
		&calendar.Event{
			Summary:     event.Summary,
			Description: event.Description,
			Start: &calendar.EventDateTime{
				DateTime: event.Start.Format(time.RFC3339),
			},
			End: &calendar.EventDateTime{
				DateTime: event.End.Format(time.RFC3339),
			},
		},
	).
		Context(ctx).
		Do()
	if errInsert != nil {
		return "",
			errors.Wrapf(errInsert, "insert event %s", calendarID)
	}

	return created.Id, nil
}

func intervalFromPeriod(period *calendar.TimePeriod) (*availability.TimeInterval, error) {
	start, errStart := time.Parse(time.RFC3339, period.Start)
	if errStart != nil {
		return nil,
			errors.Wrapf(errStart, "busy period start %q", period.Start)
	}

	end, errEnd := time.Parse(time.RFC3339, period.End)
	if errEnd != nil {
		return nil,
			errors.Wrapf(errEnd, "busy period end %q", period.End)
	}

	return &availability.TimeInterval{
			Start: start,
			End:   end,
		},
		nil
}

// parseEventTime reads a timed or dated calendar moment. All day
// events carry only a date.
func parseEventTime(moment *calendar.EventDateTime) time.Time {
	if moment == nil {
		return time.Time{}
	}

	if len(moment.DateTime) > 0 {
		parsed, _ := time.Parse(time.RFC3339, moment.DateTime)

		return parsed
	}

	parsed, _ := time.Parse("2006-01-02", moment.Date)

	return parsed
}

func eventFromItem(item *calendar.Event) *availability.Event {
	return &availability.Event{
		UID:         item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Start:       parseEventTime(item.Start),
		End:         parseEventTime(item.End),
		Status:      item.Status,
	}
}
