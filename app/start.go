package app

import (
	"github.com/spf13/cobra"

	"github.com/mobile-app-connector/mobile-app-connector/internal/daemon"
)

var devMode bool

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the admin and API web service",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		if devMode {
			cfg.DevMode = true
		}

		return nil
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		d, err := daemon.New(&cfg)
		if err != nil {
			return err
		}

		return d.Start()
	},
}

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode (templates from disk, stacks in API errors)")

	rootCmd.AddCommand(startCmd)
}
