package main

import (
	"time"

	"github.com/openclaw/availability/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	flagEventSummary     string
	flagEventDescription string
	flagEventStart       string
	flagEventEnd         string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Manage events in the local store",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events in a window",
	RunE:  runEventsList,
}

var eventsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an event to the local store",
	RunE:  runEventsAdd,
}

var eventsDeleteCmd = &cobra.Command{
	Use:   "delete <uid>",
	Short: "Delete an event from the local store",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventsDelete,
}

func init() {
	addWindowFlags(eventsListCmd)

	eventsAddCmd.Flags().StringVar(&flagEventSummary, "summary", "", "event summary")
	eventsAddCmd.Flags().StringVar(&flagEventDescription, "description", "", "event description")
	eventsAddCmd.Flags().StringVar(&flagEventStart, "start", "", "event start (RFC3339)")
	eventsAddCmd.Flags().StringVar(&flagEventEnd, "end", "", "event end (RFC3339)")
	eventsAddCmd.MarkFlagRequired("summary")
	eventsAddCmd.MarkFlagRequired("start")
	eventsAddCmd.MarkFlagRequired("end")

	eventsCmd.AddCommand(eventsListCmd, eventsAddCmd, eventsDeleteCmd)
	rootCmd.AddCommand(eventsCmd)
}

func runEventsList(cmd *cobra.Command, _ []string) error {
	window, errWindow := windowFromFlags()
	if errWindow != nil {
		return errWindow
	}

	s, errStore := openStore()
	if errStore != nil {
		return errStore
	}
	defer s.Close()

	events, errFind := s.FindEvents(cmd.Context(),
		&store.FindEvents{
			StartsAfter: &window.TimeMin,
			EndsBefore:  &window.TimeMax,
		},
	)
	if errFind != nil {
		return errFind
	}

	if events == nil {
		events = []*store.Event{}
	}

	return printJSON(map[string]any{
		"window": window,
		"events": events,
	})
}

func runEventsAdd(cmd *cobra.Command, _ []string) error {
	starts, errStart := time.Parse(time.RFC3339, flagEventStart)
	if errStart != nil {
		return errors.Wrapf(errStart, "start %q", flagEventStart)
	}

	ends, errEnd := time.Parse(time.RFC3339, flagEventEnd)
	if errEnd != nil {
		return errors.Wrapf(errEnd, "end %q", flagEventEnd)
	}

	s, errStore := openStore()
	if errStore != nil {
		return errStore
	}
	defer s.Close()

	event, errCreate := s.CreateEvent(cmd.Context(),
		&store.ParamsCreateEvent{
			Summary:     flagEventSummary,
			Description: flagEventDescription,
			Starts:      starts,
			Ends:        ends,
		},
	)
	if errCreate != nil {
		return errCreate
	}

	return printJSON(event)
}

func runEventsDelete(cmd *cobra.Command, args []string) error {
	s, errStore := openStore()
	if errStore != nil {
		return errStore
	}
	defer s.Close()

	if errDelete := s.DeleteEvent(cmd.Context(), args[0]); errDelete != nil {
		return errDelete
	}

	return printJSON(map[string]any{
		"deleted": args[0],
	})
}
