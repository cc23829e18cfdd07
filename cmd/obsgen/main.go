// Command obsgen reads data.csv and runs every registered observation
// generator, writing obs_msid_<id>.csv / obs_log_msid_<id>.csv per
// metasensor (spec.md §6).
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	appconfig "smartspec-scenariogen/internal/config"
	"smartspec-scenariogen/internal/logging"
	"smartspec-scenariogen/internal/scenario/dataloader"
	"smartspec-scenariogen/internal/scenario/observation"
)

var rootCmd = &cobra.Command{
	Use:   "obsgen <config>",
	Short: "Replay data.csv through every registered sensor-observation generator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Init()

		appCfg, err := appconfig.Load()
		if err != nil {
			return err
		}

		cfg, err := dataloader.LoadConfig(args[0])
		if err != nil {
			return err
		}
		world, err := dataloader.LoadWorld(cfg)
		if err != nil {
			return err
		}

		outputDir, err := cfg.Get("filepaths", "output")
		if err != nil {
			return err
		}

		runner, err := observation.NewRunner(world, filepath.Join(outputDir, "data.csv"), outputDir)
		if err != nil {
			return err
		}
		if err := runner.Run(appCfg.Seed); err != nil {
			return err
		}

		log.Info().Str("output", outputDir).Msg("obsgen complete")
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
