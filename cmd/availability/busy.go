package main

import (
	"github.com/openclaw/availability"
	"github.com/spf13/cobra"
)

var busyCmd = &cobra.Command{
	Use:   "busy",
	Short: "List merged busy intervals in a window",
	RunE:  runBusy,
}

func init() {
	addWindowFlags(busyCmd)
	rootCmd.AddCommand(busyCmd)
}

func runBusy(cmd *cobra.Command, _ []string) error {
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

	src, _, errSources := buildSources(ctx, s)
	if errSources != nil {
		return errSources
	}

	raw, errBusy := src.BusyIntervals(ctx, calendarIDsFromFlag(), *window)
	if errBusy != nil {
		return errBusy
	}

	busy := availability.MergeIntervals(raw)
	if busy == nil {
		busy = []availability.TimeInterval{}
	}

	return printJSON(map[string]any{
		"window": window,
		"busy":   busy,
	})
}
