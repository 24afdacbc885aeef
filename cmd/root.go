package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"today-i-learned/internal/config"
	"today-i-learned/internal/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	appCfg  config.Config
	logger  = zap.NewNop()
)

// rootCmd is the base command called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "til",
	Short:         "Today I learned: share and browse interesting facts",
	Long:          "Browse, share and vote on short facts stored in Supabase or Redis.",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		app := appCfg.App
		// The terminal belongs to the TUI while it runs.
		if cmd.Name() == "browse" && app.LogFile == "" {
			app.LogFile = filepath.Join(os.TempDir(), "til.log")
		}
		l, err := logging.New(app)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
}

func initConfig() {
	v := viper.GetViper()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/til")
		v.AddConfigPath("configs")
	}
	v.SetEnvPrefix("TIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			fmt.Fprintf(os.Stderr, "error reading config: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing config: %v\n", err)
		os.Exit(1)
	}
	appCfg = cfg
}

// GetConfig exposes the loaded configuration to subcommands.
func GetConfig() config.Config {
	return appCfg
}
