package cmd

import (
	"fmt"
	"io"
	"strings"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables that override flags, e.g.
// SUBSPACESIM_BLOCKS.
const EnvPrefix = "SUBSPACESIM"

const (
	flagConfig     = "config"
	flagLogLevel   = "log-level"
	flagBlocks     = "blocks"
	flagSeed       = "seed"
	flagOut        = "out"
	flagMetricsOut = "metrics-out"
)

var scenarioEnvKeys = []string{"name", "unit_emission", "burn_rate", "weight_interval"}

// NewRootCmd creates the subspacesim command tree. Flags, SUBSPACESIM_*
// variables and the scenario file share one viper instance, in that order of
// precedence.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only reaches keys viper already knows of.
	for _, key := range scenarioEnvKeys {
		_ = v.BindEnv(key)
	}

	rootCmd := &cobra.Command{
		Use:           "subspacesim",
		Short:         "Run the subspace economy on an in-memory chain",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := bindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			path := v.GetString(flagConfig)
			if path == "" {
				return nil
			}
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("reading scenario %s: %w", path, err)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().String(flagConfig, "", "scenario file (toml)")
	rootCmd.PersistentFlags().String(flagLogLevel, "info", "log level, e.g. debug or subspace:debug,*:error")

	rootCmd.AddCommand(
		RunCmd(v),
		ScenarioCmd(v),
	)
	return rootCmd
}

func newLogger(v *viper.Viper, w io.Writer) (log.Logger, error) {
	filter, err := log.ParseLogLevel(v.GetString(configKey(flagLogLevel)))
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", flagLogLevel, err)
	}
	return log.NewLogger(w, log.FilterOption(filter)), nil
}

// bindFlags binds every flag under its config key, so --log-level, log_level
// in the scenario file and SUBSPACESIM_LOG_LEVEL are the same setting.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err == nil {
			err = v.BindPFlag(configKey(f.Name), f)
		}
	})
	return err
}

func configKey(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}
