package types

import "fmt"

// ScheduleKind selects which maintenance procedures run. Weekly runs are
// a strict superset of daily runs, and monthly runs a strict superset of
// weekly runs.
type ScheduleKind string

const (
	ScheduleDaily   ScheduleKind = "daily"
	ScheduleWeekly  ScheduleKind = "weekly"
	ScheduleMonthly ScheduleKind = "monthly"
)

// IsValid checks if the schedule kind is valid
func (k ScheduleKind) IsValid() bool {
	switch k {
	case ScheduleDaily, ScheduleWeekly, ScheduleMonthly:
		return true
	}
	return false
}

// rank orders schedule kinds by how much they include.
func (k ScheduleKind) rank() int {
	switch k {
	case ScheduleDaily:
		return 1
	case ScheduleWeekly:
		return 2
	case ScheduleMonthly:
		return 3
	}
	return 0
}

// Includes reports whether a run of kind k executes procedures scheduled
// at kind other. A monthly run includes weekly and daily procedures.
func (k ScheduleKind) Includes(other ScheduleKind) bool {
	return k.rank() >= other.rank()
}

// ParseScheduleKind parses a schedule kind from CLI input.
// An empty string defaults to daily.
func ParseScheduleKind(s string) (ScheduleKind, error) {
	if s == "" {
		return ScheduleDaily, nil
	}
	k := ScheduleKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid schedule kind: %q (expected daily, weekly, or monthly)", s)
	}
	return k, nil
}
