package database

import (
	"time"
)

type Dataset struct {
	ID                string // Database UUID
	Name              string // Dataset identifier derived from filename
	SourceFile        string // Path of the source export within the datasets directory
	FileHash          string // sha256 of the source file, used for change detection
	TotalRows         int
	DuplicateRows     int
	MissingSalaryRows int
	HourlyRows        int
	KeptRows          int
	ProcessedAt       *time.Time
	MinedAt           *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
