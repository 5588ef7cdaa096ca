// Package view turns API payloads into what the user sees: HTML fragments for
// the web shell and plain text for the terminal.
package view

import (
	"time"

	"github.com/dharsanguruparan/prospectscan/internal/model"
)

// DisplayLayout is the day-first es-MX rendering of a timestamp.
const DisplayLayout = "02/01/2006, 15:04:05"

// FormatTimestamp renders an API timestamp in loc. Unparsable input is shown
// as received.
func FormatTimestamp(ts string, loc *time.Location) string {
	t, err := model.ParseTimestamp(ts)
	if err != nil {
		return ts
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DisplayLayout)
}
