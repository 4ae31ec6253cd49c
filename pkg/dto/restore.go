package dto

import (
	"fmt"
	"strings"
	"time"
)

// RestoreStatus is the lifecycle state of a restore request.
type RestoreStatus string

const (
	RestoreAvailable  RestoreStatus = "available"
	RestoreExpired    RestoreStatus = "expired"
	RestoreInProgress RestoreStatus = "in-progress"
)

// RestoreState is decoded from the x-amz-restore header of HeadObject.
type RestoreState struct {
	Status RestoreStatus `json:"status"`
	Expiry *time.Time    `json:"expiry,omitempty"`
}

// expiry dates arrive as quoted RFC-1123 style timestamps
var expiryLayouts = []string{time.RFC1123, time.RFC1123Z, time.RFC850}

// ParseRestoreToken decodes the raw restore token supplied by HeadObject,
// e.g. `ongoing-request="false", expiry-date="Fri, 21 Dec 2012 00:00:00 GMT"`.
// An empty token yields nil: the object is not archived or has no restore
// history. An ongoing request takes precedence over any expiry token the
// header may still carry.
func ParseRestoreToken(raw string) *RestoreState {
	if raw == "" {
		return nil
	}
	value := strings.ToLower(raw)
	if strings.Contains(value, `ongoing-request="true"`) {
		return &RestoreState{Status: RestoreInProgress}
	}
	if expiry, ok := quotedValue(raw, `expiry-date="`); ok {
		for _, layout := range expiryLayouts {
			if tm, err := time.Parse(layout, expiry); err == nil {
				utc := tm.UTC()
				return &RestoreState{Status: RestoreInProgress, Expiry: &utc}
			}
		}
		return &RestoreState{Status: RestoreAvailable}
	}
	if strings.Contains(value, `ongoing-request="false"`) {
		return &RestoreState{Status: RestoreAvailable}
	}
	return &RestoreState{Status: RestoreExpired}
}

// quotedValue extracts the quoted value following marker. The marker is
// matched case-insensitively but the value keeps its original casing,
// time.Parse needs the month and day names intact.
func quotedValue(raw, marker string) (string, bool) {
	idx := strings.Index(strings.ToLower(raw), marker)
	if idx < 0 {
		return "", false
	}
	rest := raw[idx+len(marker):]
	val, _, found := strings.Cut(rest, `"`)
	if !found {
		return "", false
	}
	return val, true
}

// Describe returns the one-line form shown in the object detail pane.
func (r *RestoreState) Describe() string {
	if r == nil {
		return "n/a"
	}
	switch r.Status {
	case RestoreInProgress:
		if r.Expiry != nil {
			return fmt.Sprintf("in-progress (ready until %s)", r.Expiry.Format(time.RFC3339))
		}
		return "in-progress"
	case RestoreExpired:
		return "expired"
	default:
		return "available"
	}
}
