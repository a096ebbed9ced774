// Package archive persists scenario runs to a database so captured wire
// sequences can be queried across sessions. Postgres when configured, with
// a local SQLite fallback.
package archive

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/simwheel/ffbtrace/internal/runner"
)

// Manager handles database connections and run persistence.
type Manager struct {
	DB              *gorm.DB
	SqlDB           *sql.DB
	ShouldSaveLocal bool
	SqliteFilePath  string
	Logger          zerolog.Logger
}

// NewManager creates a database manager. sqlitePath is where the local
// fallback database lives.
func NewManager(log zerolog.Logger, sqlitePath string) *Manager {
	return &Manager{
		SqliteFilePath: sqlitePath,
		Logger:         log.With().Str("component", "archive").Logger(),
	}
}

// Connect opens Postgres when db.host is configured, falling back to
// SQLite when it is absent or unreachable, then migrates the schema.
func (m *Manager) Connect() error {
	var err error

	if viper.GetString("db.host") != "" {
		m.DB, err = m.getPostgresDB()
		if err == nil {
			m.SqlDB, err = m.DB.DB()
			if err == nil {
				err = m.SqlDB.Ping()
			}
		}
		if err != nil {
			m.Logger.Warn().Err(err).Msg("Postgres unavailable, falling back to SQLite")
			m.DB = nil
		}
	}

	if m.DB == nil {
		m.ShouldSaveLocal = true
		m.DB, err = m.getSqliteDB(m.SqliteFilePath)
		if err != nil {
			return fmt.Errorf("failed to open local SQLite DB: %w", err)
		}
		m.SqlDB, err = m.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
	}

	if !m.ShouldSaveLocal {
		m.SqlDB.SetMaxOpenConns(10)
	}

	if err := m.DB.AutoMigrate(&Run{}, &StepRecord{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	m.Logger.Info().Bool("local", m.ShouldSaveLocal).Msg("run archive connected")
	return nil
}

func (m *Manager) getPostgresDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		viper.GetString("db.host"),
		viper.GetString("db.port"),
		viper.GetString("db.username"),
		viper.GetString("db.password"),
		viper.GetString("db.database"),
	)

	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
}

func (m *Manager) getSqliteDB(path string) (*gorm.DB, error) {
	if path == "" {
		path = "file::memory:?cache=shared"
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
		"PRAGMA temp_store = MEMORY;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}
	return db, nil
}

// SaveRun persists one scenario execution with all step outputs.
func (m *Manager) SaveRun(scenarioName, driverName string, startedAt time.Time, steps []runner.StepOutput) error {
	if m.DB == nil {
		return fmt.Errorf("archive not connected")
	}

	run := Run{
		Scenario:  scenarioName,
		Driver:    driverName,
		StartedAt: startedAt,
	}
	for _, step := range steps {
		packets, err := json.Marshal(step.Packets)
		if err != nil {
			return fmt.Errorf("encoding step %d packets: %w", step.Index, err)
		}
		run.Steps = append(run.Steps, StepRecord{
			StepIndex:   step.Index,
			Name:        step.Name,
			PacketCount: len(step.Packets),
			Packets:     packets,
		})
	}

	if err := m.DB.Create(&run).Error; err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	m.Logger.Info().Uint("runID", run.ID).Int("steps", len(run.Steps)).Msg("run archived")
	return nil
}

// Close releases the database connection.
func (m *Manager) Close() error {
	if m.SqlDB == nil {
		return nil
	}
	return m.SqlDB.Close()
}
