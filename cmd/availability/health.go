package main

import (
	"github.com/openclaw/availability/config"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the store and configured calendar backends",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	s, errStore := openStore()
	if errStore != nil {
		return errStore
	}
	defer s.Close()

	if errPing := s.Ping(cmd.Context()); errPing != nil {
		return errPing
	}

	src, booker, errSources := buildSources(cmd.Context(), s)
	if errSources != nil {
		return errSources
	}

	return printJSON(map[string]any{
		"status":  "ok",
		"source":  src.Name(),
		"canBook": booker != nil,
		"db":      config.AppConfig.DBPath,
	})
}
