// Package model contains the payloads exchanged with the ProspectScan API and
// shared across packages.
package model

import (
	"fmt"
	"time"
)

// UploadResult is what the API returns after ingesting a spreadsheet. It
// identifies the snapshot created for the batch. Struct tags such as
// `json:"snapshot_id"` map Go field names onto the API's wire names.
type UploadResult struct {
	SnapshotID    string   `json:"snapshot_id"`
	EmpresasCount int      `json:"empresas_count"`
	Timestamp     string   `json:"timestamp"`
	Dominios      []string `json:"dominios"`
}

// Clone returns a deep copy so holders of a result cannot mutate each other's
// domain slice.
func (r UploadResult) Clone() UploadResult {
	out := r
	if r.Dominios != nil {
		out.Dominios = append([]string(nil), r.Dominios...)
	}
	return out
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts the ISO-8601 variants the API emits. Values without
// an offset are produced from UTC clocks and are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
