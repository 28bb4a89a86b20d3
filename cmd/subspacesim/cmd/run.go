package cmd

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agicommies/subspace-network/internal/simulation"
)

const progressEvery = 100

func RunCmd(v *viper.Viper) *cobra.Command {
	defaults := simulation.DefaultScenario()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scenario and print the final snapshot as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			scenario, err := simulation.LoadScenario(v)
			if err != nil {
				return err
			}
			if scenario.Blocks, err = cast.ToUint64E(v.Get(flagBlocks)); err != nil {
				return fmt.Errorf("invalid --%s: %w", flagBlocks, err)
			}
			if scenario.Seed, err = cast.ToUint64E(v.Get(flagSeed)); err != nil {
				return fmt.Errorf("invalid --%s: %w", flagSeed, err)
			}

			network, err := simulation.NewNetwork(logger, scenario)
			if err != nil {
				return err
			}
			logger.Info("Starting simulation", "scenario", scenario.Name, "blocks", scenario.Blocks, "seed", scenario.Seed)
			for network.Height() < int64(scenario.Blocks) {
				if err := network.Step(); err != nil {
					return err
				}
				if network.Height()%progressEvery == 0 {
					logger.Info("Simulation progress", "height", network.Height())
				}
			}

			if path := v.GetString(configKey(flagMetricsOut)); path != "" {
				if err := prometheus.WriteToTextfile(path, network.Gatherer()); err != nil {
					return fmt.Errorf("writing metrics: %w", err)
				}
			}

			snapshot, err := network.Snapshot()
			if err != nil {
				return err
			}
			bz, err := snapshot.EncodeTOML()
			if err != nil {
				return err
			}
			out := v.GetString(flagOut)
			if out == "" {
				_, err = cmd.OutOrStdout().Write(bz)
				return err
			}
			if err := os.WriteFile(out, bz, 0o644); err != nil {
				return fmt.Errorf("writing snapshot: %w", err)
			}
			logger.Info("Snapshot written", "path", out, "run_id", snapshot.RunID)
			return nil
		},
	}
	cmd.Flags().Uint64(flagBlocks, defaults.Blocks, "number of blocks to run")
	cmd.Flags().Uint64(flagSeed, defaults.Seed, "seed of the weight generator")
	cmd.Flags().String(flagOut, "", "write the snapshot to this file instead of stdout")
	cmd.Flags().String(flagMetricsOut, "", "write the run metrics to this file in the prometheus text format")
	return cmd
}

func ScenarioCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "scenario",
		Short: "Print the effective scenario as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scenario, err := simulation.LoadScenario(v)
			if err != nil {
				return err
			}
			bz, err := scenario.EncodeTOML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(bz)
			return err
		},
	}
}
