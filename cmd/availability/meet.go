package main

import (
	"time"

	"github.com/openclaw/availability/config"
	"github.com/openclaw/availability/meetings"
	"github.com/openclaw/availability/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	flagMeetSummary     string
	flagMeetDescription string
	flagMeetTarget      string
	flagMeetDuration    int
)

var meetCmd = &cobra.Command{
	Use:   "meet",
	Short: "Book the earliest free slot as a meeting",
	RunE:  runMeet,
}

func init() {
	addWindowFlags(meetCmd)
	meetCmd.Flags().StringVar(&flagMeetSummary, "summary", "", "meeting summary")
	meetCmd.Flags().StringVar(&flagMeetDescription, "description", "", "meeting description")
	meetCmd.Flags().StringVar(&flagMeetTarget, "target", "", "calendar id that receives the event")
	meetCmd.Flags().IntVar(&flagMeetDuration, "duration", 0, "meeting duration in minutes")
	meetCmd.MarkFlagRequired("summary")
	meetCmd.MarkFlagRequired("target")

	rootCmd.AddCommand(meetCmd)
}

func runMeet(cmd *cobra.Command, _ []string) error {
	window, errWindow := windowFromFlags()
	if errWindow != nil {
		return errWindow
	}

	s, errStore := openStore()
	if errStore != nil {
		return errStore
	}
	defer s.Close()

	ctx := cmd.Context()

	src, booker, errSources := buildSources(ctx, s)
	if errSources != nil {
		return errSources
	}

	if booker == nil {
		return errors.New("no booking backend configured, set Google or CalDAV credentials")
	}

	scheduler, errScheduler := meetings.NewScheduler(
		&meetings.ParamsNewScheduler{
			Source: src,
			Booker: booker,
			Store:  s,
			Logger: utils.GetLogger(),
		},
	)
	if errScheduler != nil {
		return errScheduler
	}

	durationMinutes := flagMeetDuration
	if durationMinutes == 0 {
		durationMinutes = config.AppConfig.DefaultDurationMinutes
	}

	response, errSchedule := scheduler.ScheduleMeeting(ctx,
		&meetings.ParamsScheduleMeeting{
			Window:           *window,
			Summary:          flagMeetSummary,
			Description:      flagMeetDescription,
			CalendarIDs:      calendarIDsFromFlag(),
			TargetCalendarID: flagMeetTarget,
			Duration:         time.Duration(durationMinutes) * time.Minute,
		},
	)
	if errSchedule != nil {
		return errSchedule
	}

	return printJSON(response)
}
