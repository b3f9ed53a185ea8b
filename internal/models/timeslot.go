package models

// Grid bounds. Day 1 is Monday; hour 1 is the first period of the day.
const (
	MinDay  = 1
	MaxDay  = 7
	MinHour = 1
	MaxHour = 12
)

// Constraint states for an owner slot. Absent rows count as open.
const (
	ConstraintOpen   = "OPEN"
	ConstraintClosed = "CLOSED"
)

// Constraint owner kinds.
const (
	OwnerClass   = "CLASS"
	OwnerTeacher = "TEACHER"
	OwnerRoom    = "ROOM"
)

// TimeSlot addresses one cell of the weekly grid. The zero value means
// "unplaced".
type TimeSlot struct {
	Day  int `db:"day" json:"day"`
	Hour int `db:"hour" json:"hour"`
}

// Valid reports whether the slot lies inside the grid.
func (t TimeSlot) Valid() bool {
	return t.Day >= MinDay && t.Day <= MaxDay && t.Hour >= MinHour && t.Hour <= MaxHour
}

// IsZero reports whether the slot is the unplaced sentinel.
func (t TimeSlot) IsZero() bool {
	return t.Day == 0 && t.Hour == 0
}

// SlotConstraint is one persisted owner-slot state.
type SlotConstraint struct {
	ID        int64  `db:"id" json:"id"`
	OwnerType string `db:"owner_type" json:"owner_type"`
	OwnerID   int64  `db:"owner_id" json:"owner_id"`
	Day       int    `db:"day" json:"day"`
	Hour      int    `db:"hour" json:"hour"`
	State     string `db:"state" json:"state"`
}

// ConstraintMap is an in-memory lookup of one owner's slot states.
type ConstraintMap map[TimeSlot]string

// NewConstraintMap builds a lookup from persisted rows.
func NewConstraintMap(rows []SlotConstraint) ConstraintMap {
	m := make(ConstraintMap, len(rows))
	for _, row := range rows {
		m[TimeSlot{Day: row.Day, Hour: row.Hour}] = row.State
	}
	return m
}

// Closed reports whether the owner has closed the slot.
func (m ConstraintMap) Closed(day, hour int) bool {
	return m[TimeSlot{Day: day, Hour: hour}] == ConstraintClosed
}
