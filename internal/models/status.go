// server/internal/models/status.go
package models

import (
	"errors"
	"strings"
)

// Status is the lifecycle state of a permit.
type Status string

const (
	StatusApproved  Status = "APPROVED"
	StatusRequested Status = "REQUESTED"
	StatusExpired   Status = "EXPIRED"
)

// ErrInvalidStatus is returned by ParseStatus for anything outside the three permit states.
var ErrInvalidStatus = errors.New("invalid status value")

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusApproved, StatusRequested, StatusExpired:
		return true
	}
	return false
}

// Matches compares a stored, untyped status value against s ignoring case.
// Stored values outside the enum never match.
func (s Status) Matches(stored string) bool {
	return strings.EqualFold(stored, string(s))
}

// ParseStatus parses a status ignoring case and surrounding whitespace.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
