// ffbtrace records and validates force-feedback wire protocols: it plays
// effect scenarios through a driver backend and saves or diffs the HID
// report bytes each step produced.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/simwheel/ffbtrace/internal/config"
	"github.com/simwheel/ffbtrace/internal/logging"
)

var log zerolog.Logger

var rootCmd = &cobra.Command{
	Use:           "ffbtrace",
	Short:         "Force feedback replay tool: play and compare FFB scenarios",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load("."); err != nil {
			return err
		}
		var err error
		log, err = logging.Setup(logging.Options{
			Level:          config.GetString("logLevel"),
			LogsDir:        config.GetString("logsDir"),
			GraylogEnabled: config.GetBool("graylog.enabled"),
			GraylogAddress: config.GetString("graylog.address"),
		})
		return err
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
