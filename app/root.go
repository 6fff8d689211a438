// Package app implements the main application commands.
package app

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
	"github.com/mobile-app-connector/mobile-app-connector/internal/logger"
)

var (
	configPath string // directory holding main.toml
	envFile    string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mobile-app-connector",
	Short: "Mobile App Connector serves the mobile app configuration of Shopify shops",
	Long: `Mobile App Connector stores the configuration of a shop's mobile app and
serves it to the app over an API key protected HTTP API. Merchants edit it in a
server rendered admin.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "directory of main.toml")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config, skipped when missing")
}

// loadConfig reads .env, the TOML config and its JSON override, then sets up logging.
func loadConfig() error {
	if err := godotenv.Load(envFile); err == nil {
		log.Debug().Str("file", envFile).Msg("environment loaded")
	}

	c, err := config.ReadConfig(configPath)
	if err != nil {
		return err
	}

	cfg = c

	return logger.Init(cfg.Log)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
