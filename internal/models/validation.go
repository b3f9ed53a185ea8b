package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Severity classifies validator findings.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Finding categories, one per validator pass.
const (
	FindingOrphan          = "ORPHAN"
	FindingClassConflict   = "CLASS_CONFLICT"
	FindingTeacherConflict = "TEACHER_CONFLICT"
	FindingRoomConflict    = "ROOM_CONFLICT"
	FindingDuration        = "DURATION"
	FindingPatternDrift    = "PATTERN_DRIFT"
	FindingRosterSync      = "ROSTER_SYNC"
	FindingCacheResync     = "CACHE_RESYNC"
)

// Finding is one tagged entry in a validation report.
type Finding struct {
	Category string   `json:"category"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// ValidationReport is the outcome of one validator run.
type ValidationReport struct {
	ID         string         `db:"id" json:"id"`
	Findings   []Finding      `db:"-" json:"findings"`
	Repaired   int            `db:"repaired" json:"repaired"`
	TookMS     int64          `db:"took_ms" json:"took_ms"`
	FindingsJS types.JSONText `db:"findings" json:"-"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

// ScheduleCacheLine is one denormalized display line for an owner's slot.
// Lines are derived exclusively from placed blocks by the cache resync and
// are never read back as constraints.
type ScheduleCacheLine struct {
	ID        int64  `db:"id" json:"id"`
	OwnerType string `db:"owner_type" json:"owner_type"`
	OwnerID   int64  `db:"owner_id" json:"owner_id"`
	Day       int    `db:"day" json:"day"`
	Hour      int    `db:"hour" json:"hour"`
	Line      string `db:"line" json:"line"`
	BlockID   int64  `db:"block_id" json:"block_id"`
}
