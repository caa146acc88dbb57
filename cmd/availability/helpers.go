package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/openclaw/availability"
	"github.com/openclaw/availability/config"
	"github.com/openclaw/availability/source"
	"github.com/openclaw/availability/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Window flags shared by the commands that query availability.
var (
	flagDate      string
	flagTimeMin   string
	flagTimeMax   string
	flagCalendars string
)

func addWindowFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagDate, "date", "", "day to inspect (2006-01-02), defaults to today")
	cmd.Flags().StringVar(&flagTimeMin, "time-min", "", "window start (RFC3339), overrides --date")
	cmd.Flags().StringVar(&flagTimeMax, "time-max", "", "window end (RFC3339), overrides --date")
	cmd.Flags().StringVar(&flagCalendars, "calendars", "", "comma separated calendar ids")
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}

func openStore() (*store.Store, error) {
	return store.New(config.AppConfig.DBPath)
}

// windowFromFlags resolves the availability window. Explicit bounds
// win, otherwise the work hours of the requested date, otherwise the
// work hours of today.
func windowFromFlags() (*availability.Window, error) {
	if len(flagTimeMin) > 0 || len(flagTimeMax) > 0 {
		timeMin, errMin := time.Parse(time.RFC3339, flagTimeMin)
		if errMin != nil {
			return nil,
				errors.Wrapf(errMin, "time-min %q", flagTimeMin)
		}

		timeMax, errMax := time.Parse(time.RFC3339, flagTimeMax)
		if errMax != nil {
			return nil,
				errors.Wrapf(errMax, "time-max %q", flagTimeMax)
		}

		return &availability.Window{
				TimeMin: timeMin,
				TimeMax: timeMax,
			},
			nil
	}

	day := time.Now().In(config.Location())

	if len(flagDate) > 0 {
		parsed, errParse := time.ParseInLocation("2006-01-02", flagDate, config.Location())
		if errParse != nil {
			return nil,
				errors.Wrapf(errParse, "date %q", flagDate)
		}

		day = parsed
	}

	window := availability.DayWindow(day, config.AppConfig.WorkDayStart, config.AppConfig.WorkDayEnd)

	return &window, nil
}

func calendarIDsFromFlag() []string {
	if len(flagCalendars) == 0 {
		return config.CalendarIDList()
	}

	var ids []string

	for _, id := range strings.Split(flagCalendars, ",") {
		if trimmed := strings.TrimSpace(id); len(trimmed) > 0 {
			ids = append(ids, trimmed)
		}
	}

	return ids
}

// buildSources assembles the configured calendar backends. The local
// store always participates, remote backends join when their
// credentials are configured. The booker is the first remote backend
// that can create events.
func buildSources(ctx context.Context, s *store.Store) (availability.Source, availability.Booker, error) {
	sources := []availability.Source{s}

	var booker availability.Booker

	if len(config.AppConfig.GoogleClientID) > 0 {
		googleCalendar, errGoogle := source.NewGoogleCalendar(ctx,
			&source.ParamsNewGoogleCalendar{
				ClientID:     config.AppConfig.GoogleClientID,
				ClientSecret: config.AppConfig.GoogleClientSecret,
				RefreshToken: config.AppConfig.GoogleRefreshToken,
			},
		)
		if errGoogle != nil {
			return nil, nil,
				errGoogle
		}

		sources = append(sources, googleCalendar)
		booker = googleCalendar
	}

	if len(config.AppConfig.CalDAVServerURL) > 0 {
		calDAV, errCalDAV := source.NewCalDAV(ctx,
			&source.ParamsNewCalDAV{
				ServerURL: config.AppConfig.CalDAVServerURL,
				Username:  config.AppConfig.CalDAVUsername,
				Password:  config.AppConfig.CalDAVPassword,
			},
		)
		if errCalDAV != nil {
			return nil, nil,
				errCalDAV
		}

		sources = append(sources, calDAV)

		if booker == nil {
			booker = calDAV
		}
	}

	if len(sources) == 1 {
		return s, booker, nil
	}

	multi, errMulti := availability.NewMultiSource(sources...)
	if errMulti != nil {
		return nil, nil,
			errMulti
	}

	return multi, booker, nil
}
