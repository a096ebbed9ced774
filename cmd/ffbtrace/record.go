package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/simwheel/ffbtrace/internal/archive"
	"github.com/simwheel/ffbtrace/internal/config"
	"github.com/simwheel/ffbtrace/internal/influx"
	"github.com/simwheel/ffbtrace/internal/runner"
	"github.com/simwheel/ffbtrace/internal/scenario"
)

var (
	recordScenario string
	recordOutput   string
	recordDriver   string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Play a scenario and save the driver's wire bytes to a capture file",
	RunE:  runRecord,
}

func init() {
	recordCmd.Flags().StringVarP(&recordScenario, "scenario", "s", "", "path to scenario YAML file")
	recordCmd.Flags().StringVarP(&recordOutput, "output", "o", "", "output file name (saved in the runs directory)")
	recordCmd.Flags().StringVarP(&recordDriver, "driver", "d", "", "driver to use: evdev or simagic")
	recordCmd.MarkFlagRequired("scenario")
	recordCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	s, err := scenario.Load(recordScenario)
	if err != nil {
		return err
	}

	drvName := recordDriver
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
	outputs := runner.Play(s, drv, log)

	runsDir := config.GetString("runsDir")
	if err := os.MkdirAll(runsDir, 0o755); err != nil {
		return fmt.Errorf("creating runs directory: %w", err)
	}
	outPath := filepath.Join(runsDir, recordOutput)
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating capture file: %w", err)
	}
	defer f.Close()
	if err := runner.WriteCaptureFile(f, outputs); err != nil {
		return fmt.Errorf("writing capture file: %w", err)
	}

	total := 0
	for _, step := range outputs {
		total += len(step.Packets)
	}
	log.Info().
		Int("packets", total).
		Int("steps", len(outputs)).
		Str("path", outPath).
		Msg("capture saved")

	archiveRun(s.Name, drv.Name(), started, outputs)
	writeRunMetrics(s.Name, drv.Name(), len(outputs), total, 0, time.Since(started))
	return nil
}

// archiveRun persists the run when the archive is enabled. Failures are
// logged, never fatal: the capture file on disk is the primary output.
func archiveRun(scenarioName, driverName string, started time.Time, outputs []runner.StepOutput) {
	if !config.GetBool("archive.enabled") {
		return
	}
	mgr := archive.NewManager(log, filepath.Join(config.GetString("runsDir"), "runs.db"))
	if err := mgr.Connect(); err != nil {
		log.Warn().Err(err).Msg("run archive unavailable")
		return
	}
	defer mgr.Close()
	if err := mgr.SaveRun(scenarioName, driverName, started, outputs); err != nil {
		log.Warn().Err(err).Msg("archiving run failed")
	}
}

func writeRunMetrics(scenarioName, driverName string, steps, packets, mismatches int, elapsed time.Duration) {
	mgr := influx.NewManager(log)
	if err := mgr.Connect(); err != nil {
		log.Debug().Err(err).Msg("influx metrics skipped")
		return
	}
	defer mgr.Close()
	mgr.WriteRunSummary(scenarioName, driverName, steps, packets, mismatches, elapsed)
}
