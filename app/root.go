// Package app implements the main application commands.
package app

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/config"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/logger"
)

// EnvPrefix prefixes the environment variables bound to flags, e.g. GO_CHURCH_ADMIN_CONFIG.
const EnvPrefix = "GO_CHURCH_ADMIN"

const (
	keyConfig = "config"
	keyDev    = "dev"
	keyBrowse = "browse"
)

var rootCmd = &cobra.Command{
	Use:   "go-church-admin",
	Short: "GoChurchAdmin is the web administration of a church management system",
	Long: `GoChurchAdmin is the web administration of a church management system.
It manages the runtime log settings and offers online giving through a hosted checkout.`,
	Args: cobra.OnlyValidArgs,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// a missing .env file is fine, the environment may be set otherwise.
		if err := godotenv.Load(); err != nil {
			log.Debug().Err(err).Msg("no .env file loaded")
		}
	},
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().String(keyConfig, "./etc/", "Directory containing main.toml")

	if err := viper.BindPFlag(keyConfig, rootCmd.PersistentFlags().Lookup(keyConfig)); err != nil {
		panic(err)
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration from the directory given by flag or env
// and starts the bootstrap logger.
func loadConfig() (config.Config, error) {
	path := viper.GetString(keyConfig)
	if path != "" && !strings.HasSuffix(path, "/") {
		path += "/"
	}

	cfg, err := config.ReadConfig(path)
	if err != nil {
		return config.Config{}, err
	}

	if viper.GetBool(keyDev) {
		cfg.DevMode = true
	}

	if viper.GetBool(keyBrowse) {
		cfg.Webserver.BrowseStatic = true
	}

	if err = logger.Init(cfg.Log); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}
