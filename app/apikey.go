package app

import (
	"fmt"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mobile-app-connector/mobile-app-connector/internal/apikey"
	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db"
)

var keyName string

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage API keys stored in the database",
	Long: `Manage API keys stored in the database. They are only checked when
[API] KeySource = "db" is configured.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfig()
	},
}

var apikeyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a key and print it once",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openKeyStore()
		if err != nil {
			return err
		}

		key, err := store.Create(keyName)
		if err != nil {
			return err
		}

		cmd.Println(key)

		return nil
	},
}

var apikeyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List keys",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openKeyStore()
		if err != nil {
			return err
		}

		keys, err := store.List()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd
		_, _ = fmt.Fprintln(w, "NAME\tACTIVE\tCREATED")

		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "%s\t%t\t%s\n", k.Name, k.Active, k.CreatedAt.Format("2006-01-02 15:04"))
		}

		return w.Flush()
	},
}

var apikeyRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Deactivate a key",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openKeyStore()
		if err != nil {
			return err
		}

		if err = store.Revoke(keyName); err != nil {
			return err
		}

		cmd.Printf("api key %s revoked\n", keyName)

		return nil
	},
}

func openKeyStore() (*apikey.DBStore, error) {
	if cfg.API.KeySource != config.KeySourceDB {
		log.Warn().Str("key_source", cfg.API.KeySource).Msg("database keys are not checked with this key source")
	}

	gormDB, err := db.Open(&cfg)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(gormDB); err != nil {
		return nil, err
	}

	return apikey.NewDBStore(gormDB), nil
}

func init() { //nolint: gochecknoinits
	for _, c := range []*cobra.Command{apikeyCreateCmd, apikeyRevokeCmd} {
		c.Flags().StringVarP(&keyName, "name", "n", "", "name of the key")
		_ = c.MarkFlagRequired("name")
	}

	apikeyCmd.AddCommand(apikeyCreateCmd, apikeyListCmd, apikeyRevokeCmd)
	rootCmd.AddCommand(apikeyCmd)
}
