// Package source provides calendar backends that report busy
// intervals and accept bookings.
package source

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/TudorHulban/go-errors"
	"github.com/asaskevich/govalidator"
	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/lithammer/shortuuid/v4"
	"github.com/openclaw/availability"
	"github.com/pkg/errors"
)

// CalDAV reads and books events on any RFC 4791 server. Calendar ids
// are collection URLs or paths on the configured server.
type CalDAV struct {
	client *caldav.Client
}

type ParamsNewCalDAV struct {
	ServerURL string `valid:"required"`
	Username  string
	Password  string
}

func NewCalDAV(ctx context.Context, params *ParamsNewCalDAV) (*CalDAV, error) {
	if _, errValidation := govalidator.ValidateStruct(params); errValidation != nil {
		return nil,
			goerrors.ErrServiceValidation{
				ServiceName: "CalDAV",
				Caller:      "NewCalDAV",
				Issue:       errValidation,
			}
	}

	var httpClient webdav.HTTPClient = http.DefaultClient

	if len(params.Username) > 0 && len(params.Password) > 0 {
		httpClient = webdav.HTTPClientWithBasicAuth(httpClient, params.Username, params.Password)
	}

	client, errClient := caldav.NewClient(httpClient, params.ServerURL)
	if errClient != nil {
		return nil,
			errors.Wrap(errClient, "create caldav client")
	}

	if _, errFind := client.FindCalendars(ctx, ""); errFind != nil {
		return nil,
			errors.Wrap(errFind, "connect to caldav server")
	}

	return &CalDAV{
			client: client,
		},
		nil
}

func (c *CalDAV) Name() string {
	return "caldav"
}

func (c *CalDAV) BusyIntervals(ctx context.Context, calendarIDs []string, w availability.Window) ([]availability.TimeInterval, error) {
	var intervals []availability.TimeInterval

	for _, calendarID := range calendarIDs {
		calURL, errParse := url.Parse(calendarID)
		if errParse != nil {
			return nil,
				errors.Wrapf(errParse, "calendar url %q", calendarID)
		}

		objects, errQuery := c.client.QueryCalendar(ctx,
			calURL.Path,
			&caldav.CalendarQuery{
				CompFilter: caldav.CompFilter{
					Name: "VCALENDAR",
					Comps: []caldav.CompFilter{
						{
							Name:  "VEVENT",
							Start: w.TimeMin,
							End:   w.TimeMax,
						},
					},
				},
			},
		)
		if errQuery != nil {
			return nil,
				errors.Wrapf(errQuery, "query calendar %s", calendarID)
		}

		for _, object := range objects {
			intervals = append(intervals, busyFromCalendarObject(object.Data)...)
		}
	}

	return intervals, nil
}

func (c *CalDAV) CreateEvent(ctx context.Context, calendarID string, event *availability.Event) (string, error) {
	calURL, errParse := url.Parse(calendarID)
	if errParse != nil {
		return "",
			errors.Wrapf(errParse, "calendar url %q", calendarID)
	}

	eventUID := event.UID
	if len(eventUID) == 0 {
		eventUID = shortuuid.New()
	}

	icalEvent := ical.NewEvent()
	icalEvent.Component.Props.SetText("UID", eventUID)
	icalEvent.Component.Props.SetText("SUMMARY", event.Summary)
	if len(event.Description) > 0 {
		icalEvent.Component.Props.SetText("DESCRIPTION", event.Description)
	}
	icalEvent.Component.Props.SetDateTime("DTSTART", event.Start)
	icalEvent.Component.Props.SetDateTime("DTEND", event.End)
	icalEvent.Component.Props.SetText("STATUS", "CONFIRMED")

	object := ical.NewCalendar()
	object.Component.Props.SetText("VERSION", "2.0")
	object.Component.Props.SetText("PRODID", "-//openclaw//availability//EN")
	object.Component.Children = append(object.Component.Children, icalEvent.Component)

	path := strings.TrimRight(calURL.Path, "/") + "/" + eventUID + ".ics"

	if _, errPut := c.client.PutCalendarObject(ctx, path, object); errPut != nil {
		return "",
			errors.Wrapf(errPut, "put event %s", path)
	}

	return eventUID, nil
}

// busyFromCalendarObject reads the VEVENT components of one calendar
// object. Cancelled and transparent events do not block time.
func busyFromCalendarObject(data *ical.Calendar) []availability.TimeInterval {
	var intervals []availability.TimeInterval

	for _, comp := range data.Component.Children {
		if comp.Name != "VEVENT" {
			continue
		}

		if strings.EqualFold(getTextProp(comp.Props, "STATUS"), "CANCELLED") {
			continue
		}
		if strings.EqualFold(getTextProp(comp.Props, "TRANSP"), "TRANSPARENT") {
			continue
		}

		start, errStart := comp.Props.DateTime("DTSTART", time.UTC)
		if errStart != nil {
			continue
		}

		end, errEnd := comp.Props.DateTime("DTEND", time.UTC)
		if errEnd != nil {
			continue
		}

		if start.IsZero() || end.IsZero() {
			continue
		}

		intervals = append(intervals,
			availability.TimeInterval{
				Start: start,
				End:   end,
			},
		)
	}

	return intervals
}

func getTextProp(props ical.Props, name string) string {
	prop := props.Get(name)
	if prop == nil {
		return ""
	}

	return prop.Value
}
