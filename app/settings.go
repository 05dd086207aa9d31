package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/daemon"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/logger"
)

func init() { //nolint: gochecknoinits
	settingsCmd.AddCommand(settingsLoggingCmd)
	rootCmd.AddCommand(settingsCmd)
}

var (
	settingsCmd = &cobra.Command{
		Use:   "settings",
		Short: "Show stored runtime settings",
	}

	settingsLoggingCmd = &cobra.Command{
		Use:   "logging",
		Short: "Print the stored log settings as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, _, err := daemon.OpenSettings(&cfg)
			if err != nil {
				return err
			}

			return printLogSettings(cmd.OutOrStdout(), logger.LoadSettings(store))
		},
	}
)

// printLogSettings writes s as indented JSON, or a notice if nothing is stored.
func printLogSettings(w io.Writer, s *logger.Settings) error {
	if s == nil {
		_, err := fmt.Fprintln(w, "no log settings stored, category logging is off")
		return errors.Wrap(err, "failed to write output")
	}

	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode log settings")
	}

	_, err = fmt.Fprintln(w, string(out))

	return errors.Wrap(err, "failed to write output")
}
