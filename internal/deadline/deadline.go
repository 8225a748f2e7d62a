// Package deadline maps priority tiers to SLA windows and evaluates overdue status.
// All functions are pure; "now" is always passed in by the caller.
package deadline

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"caseflow/internal/model"
)

// ErrInvalidPriority is returned for a priority tier the policy does not know.
var ErrInvalidPriority = errors.New("invalid priority")

const day = 24 * time.Hour

// Policy holds the resolution window, in calendar days, for each priority tier.
type Policy struct {
	UrgentDays int `yaml:"urgent"`
	NormalDays int `yaml:"normal"`
	LowDays    int `yaml:"low"`
}

// DefaultPolicy is the 15/30/60 day mapping.
func DefaultPolicy() Policy {
	return Policy{UrgentDays: 15, NormalDays: 30, LowDays: 60}
}

// SLA returns the window in days for p.
func (p Policy) SLA(pr model.Priority) (int, error) {
	switch pr {
	case model.PriorityUrgent:
		return p.UrgentDays, nil
	case model.PriorityNormal:
		return p.NormalDays, nil
	case model.PriorityLow:
		return p.LowDays, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPriority, pr)
}

// Validate checks that every tier has a positive window.
func (p Policy) Validate() error {
	if p.UrgentDays <= 0 || p.NormalDays <= 0 || p.LowDays <= 0 {
		return fmt.Errorf("sla windows must be positive: urgent=%d normal=%d low=%d", p.UrgentDays, p.NormalDays, p.LowDays)
	}
	return nil
}

// Compute returns assignedAt plus the SLA window of pr in calendar days.
func (p Policy) Compute(assignedAt time.Time, pr model.Priority) (time.Time, error) {
	days, err := p.SLA(pr)
	if err != nil {
		return time.Time{}, err
	}
	return assignedAt.AddDate(0, 0, days), nil
}

// IsOverdue reports whether now is strictly after deadline.
func IsOverdue(deadline, now time.Time) bool {
	return now.After(deadline)
}

// OverdueDays returns the number of whole days now is past deadline, never negative.
func OverdueDays(deadline, now time.Time) int {
	if !now.After(deadline) {
		return 0
	}
	return int(now.Sub(deadline) / day)
}

type policyFile struct {
	SLADays Policy `yaml:"sla_days"`
}

// LoadPolicy reads a YAML policy file of the form
//
//	sla_days:
//	  urgent: 15
//	  normal: 30
//	  low: 60
//
// Tiers missing from the file keep the values of base.
func LoadPolicy(path string, base Policy) (Policy, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read sla policy: %w", err)
	}
	pf := policyFile{SLADays: base}
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return Policy{}, fmt.Errorf("parse sla policy: %w", err)
	}
	if err := pf.SLADays.Validate(); err != nil {
		return Policy{}, err
	}
	return pf.SLADays, nil
}
