package archive

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Run is one recorded scenario execution.
type Run struct {
	gorm.Model
	Scenario  string `gorm:"index"`
	Driver    string
	StartedAt time.Time
	Steps     []StepRecord
}

// StepRecord stores one step's wire bytes as a JSON array of hex strings.
type StepRecord struct {
	gorm.Model
	RunID       uint `gorm:"index"`
	StepIndex   int
	Name        string
	PacketCount int
	Packets     datatypes.JSON
}
