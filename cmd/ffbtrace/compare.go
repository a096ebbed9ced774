package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/simwheel/ffbtrace/internal/config"
	"github.com/simwheel/ffbtrace/internal/runner"
	"github.com/simwheel/ffbtrace/internal/scenario"
)

var (
	compareScenario string
	compareFile     string
	compareDriver   string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Play a scenario and diff the driver's wire bytes against a capture file",
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().StringVarP(&compareScenario, "scenario", "s", "", "path to scenario YAML file")
	compareCmd.Flags().StringVarP(&compareFile, "compare", "c", "", "capture file to compare with (in the runs directory)")
	compareCmd.Flags().StringVarP(&compareDriver, "driver", "d", "", "driver to use: evdev or simagic")
	compareCmd.MarkFlagRequired("scenario")
	compareCmd.MarkFlagRequired("compare")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	s, err := scenario.Load(compareScenario)
	if err != nil {
		return err
	}

	comparePath := filepath.Join(config.GetString("runsDir"), compareFile)
	f, err := os.Open(comparePath)
	if err != nil {
		return fmt.Errorf("opening comparison file: %w", err)
	}
	expected, err := runner.ParseCaptureFile(f)
	f.Close()
	if err != nil {
		return err
	}

	drvName := compareDriver
	if drvName == "" {
		drvName = config.GetString("defaultDriver")
	}
	drv, err := newDriver(drvName)
	if err != nil {
		return err
	}

	log.Info().Str("driver", drv.Name()).Msg("initializing driver")
	if err := drv.Initialize(); err != nil {
		return fmt.Errorf("initializing %s driver: %w", drv.Name(), err)
	}
	defer drv.Shutdown()

	started := time.Now()
	actual := runner.Play(s, drv, log)

	mismatches := runner.Compare(os.Stdout, expected, actual)

	total := 0
	for _, step := range actual {
		total += len(step.Packets)
	}
	writeRunMetrics(s.Name, drv.Name(), len(actual), total, mismatches, time.Since(started))

	if mismatches > 0 {
		return fmt.Errorf("%d steps differ from %s", mismatches, compareFile)
	}
	return nil
}
