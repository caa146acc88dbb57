package main

import (
	"time"

	"github.com/openclaw/availability"
	"github.com/openclaw/availability/config"
	"github.com/spf13/cobra"
)

var (
	flagSlotDuration int
	flagSlotPack     bool
	flagSlotMax      int
)

var freeSlotsCmd = &cobra.Command{
	Use:   "free-slots",
	Short: "List bookable slots in a window",
	RunE:  runFreeSlots,
}

func init() {
	addWindowFlags(freeSlotsCmd)
	freeSlotsCmd.Flags().IntVar(&flagSlotDuration, "duration", 0, "minimum slot duration in minutes")
	freeSlotsCmd.Flags().BoolVar(&flagSlotPack, "pack", false, "fill each gap with back to back slots")
	freeSlotsCmd.Flags().IntVar(&flagSlotMax, "max", 0, "cap the number of slots, negative lists all")

	rootCmd.AddCommand(freeSlotsCmd)
}

func runFreeSlots(cmd *cobra.Command, _ []string) error {
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

	busy, errBusy := src.BusyIntervals(ctx, calendarIDsFromFlag(), *window)
	if errBusy != nil {
		return errBusy
	}

	durationMinutes := flagSlotDuration
	if durationMinutes == 0 {
		durationMinutes = config.AppConfig.DefaultDurationMinutes
	}

	slots, errSlots := availability.FindFreeSlots(
		&availability.ParamsFindFreeSlots{
			Window:      *window,
			Busy:        busy,
			MinDuration: time.Duration(durationMinutes) * time.Minute,
			PackGaps:    flagSlotPack,
		},
	)
	if errSlots != nil {
		return errSlots
	}

	maxSlots := flagSlotMax
	if maxSlots == 0 {
		maxSlots = config.AppConfig.MaxSlots
	}

	if maxSlots > 0 && len(slots) > maxSlots {
		slots = slots[:maxSlots]
	}

	if slots == nil {
		slots = []availability.TimeInterval{}
	}

	return printJSON(map[string]any{
		"window":          window,
		"durationMinutes": durationMinutes,
		"slots":           slots,
	})
}
