package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/daemon"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().Bool(keyDev, false, "Enable dev mode")
	startCmd.Flags().Bool(
		keyBrowse,
		false,
		"Enable static file browsing (for development purposes only)",
	)

	for _, key := range []string{keyDev, keyBrowse} {
		if err := viper.BindPFlag(key, startCmd.Flags().Lookup(key)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(startCmd)
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the GoChurchAdmin web service",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		d, err := daemon.New(&cfg)
		if err != nil {
			return err
		}

		return d.Start()
	},
}
