package tracking

import (
	"strings"

	"wefarm/internal/apperr"
)

// Status is the lifecycle state of a tracking instance. "tracking" is the
// sole initial state; the other three are terminal and absorbing.
type Status string

const (
	StatusTracking  Status = "tracking"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
	StatusFailed    Status = "failed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTracking, StatusCompleted, StatusCanceled, StatusFailed:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s.Valid() && s != StatusTracking
}

func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", apperr.New(apperr.Validation, "invalid status")
	}
	return s, nil
}

// ParseStatusSet parses a comma-separated status filter ("completed,failed").
func ParseStatusSet(csv string) ([]Status, error) {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return nil, nil
	}
	parts := strings.Split(csv, ",")
	out := make([]Status, 0, len(parts))
	for _, p := range parts {
		s, err := ParseStatus(p)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
