package main

import (
	"context"
	"fmt"
	"os"

	"cpaptracker-service/internal/app"
	"cpaptracker-service/internal/infrastructure/config"
	"cpaptracker-service/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	dateFlag   string
	jsonOutput bool
	service    *app.App

	rootCmd = &cobra.Command{
		Use:   "cpapctl",
		Short: "Track CPAP/BiPAP part replacements from the command line",
		Long: `cpapctl reads the same configuration as the service (.env and environment)
and works directly against the configured storage.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			// keep stdout clean for tables and JSON
			log := logger.NewLogger("error")
			if cfg.LogLevel == "debug" {
				log = logger.NewLogger("debug")
			}
			service, err = app.New(cmd.Context(), cfg, log)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if service != nil {
				service.Close(context.Background())
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dateFlag, "date", "", "Calendar date to use instead of today (YYYY-MM-DD)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.AddCommand(
		statusCmd,
		upcomingCmd,
		replaceCmd,
		orderCmd,
		historyCmd,
		initCmd,
		sweepCmd,
		equipmentCmd,
		exportCmd,
	)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
