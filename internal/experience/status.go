package experience

import (
	"strings"

	"wefarm/internal/apperr"
	"wefarm/internal/tracking"
)

// Outcome is the experience vocabulary for a concluded attempt. It is
// independent of the tracking status enum; the translation tables below are
// the only coupling between the two.
type Outcome string

const (
	OutcomeSuccess    Outcome = "success"
	OutcomeFailed     Outcome = "failed"
	OutcomeTerminated Outcome = "terminated"
)

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeSuccess, OutcomeFailed, OutcomeTerminated:
		return true
	}
	return false
}

// terminal tracking status -> outcome
var fromStatus = map[tracking.Status]Outcome{
	tracking.StatusCompleted: OutcomeSuccess,
	tracking.StatusFailed:    OutcomeFailed,
	tracking.StatusCanceled:  OutcomeTerminated,
}

// OutcomeForStatus translates a terminal tracking status into the experience
// vocabulary. Non-terminal statuses have no outcome.
func OutcomeForStatus(s tracking.Status) (Outcome, bool) {
	o, ok := fromStatus[s]
	return o, ok
}

// Legacy client labels still accepted on the wire.
var legacyLabels = map[string]Outcome{
	"Success":    OutcomeSuccess,
	"Failed":     OutcomeFailed,
	"Terminated": OutcomeTerminated,
}

func ParseOutcome(v string) (Outcome, error) {
	v = strings.TrimSpace(v)
	if o, ok := legacyLabels[v]; ok {
		return o, nil
	}
	o := Outcome(strings.ToLower(v))
	if !o.Valid() {
		return "", apperr.New(apperr.Validation, "invalid experience status")
	}
	return o, nil
}
