package main

import (
	"fmt"
	"os"

	"github.com/openclaw/availability/config"
	"github.com/openclaw/availability/utils"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "availability",
	Short: "Find free slots across calendars and book meetings",
	Long:  `Merges the busy intervals of local and remote calendars and computes the bookable slots of a window, as a CLI and as an HTTP service.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		config.LoadConfig()
		utils.InitializeLogger()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
