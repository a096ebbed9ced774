// Package influx pushes per-run summary metrics to InfluxDB when enabled.
package influx

import (
	"context"
	"errors"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Manager handles the InfluxDB connection and run-summary writes.
type Manager struct {
	Client  influxdb2.Client
	Writer  influxdb2_api.WriteAPI
	IsValid bool
	Logger  zerolog.Logger
}

// NewManager creates an InfluxDB manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		Logger: log.With().Str("component", "influx").Logger(),
	}
}

// Connect establishes a connection to InfluxDB. Returns an error when
// influx.enabled is false so callers can skip metric writes cleanly.
func (m *Manager) Connect() error {
	if !viper.GetBool("influx.enabled") {
		return errors.New("influx.enabled is false")
	}

	m.Client = influxdb2.NewClientWithOptions(
		fmt.Sprintf(
			"%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		viper.GetString("influx.token"),
		influxdb2.DefaultOptions().
			SetBatchSize(100).
			SetFlushInterval(1000),
	)

	running, err := m.Client.Ping(context.Background())
	if err != nil || !running {
		m.IsValid = false
		return fmt.Errorf("influxDB not reachable: %v", err)
	}
	m.IsValid = true

	m.Writer = m.Client.WriteAPI(
		viper.GetString("influx.org"),
		viper.GetString("influx.bucket"),
	)
	errorsCh := m.Writer.Errors()
	go func() {
		for writeErr := range errorsCh {
			m.Logger.Error().Err(writeErr).Msg("Error sending data to InfluxDB")
		}
	}()

	m.Logger.Info().Msg("InfluxDB client initialized")
	return nil
}

// WriteRunSummary records one scenario run as a single point.
func (m *Manager) WriteRunSummary(scenarioName, driverName string, steps, packets, mismatches int, elapsed time.Duration) {
	if !m.IsValid {
		return
	}
	point := influxdb2.NewPointWithMeasurement("ffb_run").
		AddTag("scenario", scenarioName).
		AddTag("driver", driverName).
		AddField("steps", steps).
		AddField("packets", packets).
		AddField("mismatches", mismatches).
		AddField("durationMs", elapsed.Milliseconds()).
		SetTime(time.Now())
	m.Writer.WritePoint(point)
}

// Close flushes pending writes and shuts down the client.
func (m *Manager) Close() {
	if m.Client == nil {
		return
	}
	if m.Writer != nil {
		m.Writer.Flush()
	}
	m.Client.Close()
}
