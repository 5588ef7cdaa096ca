package model

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUploadResult(t *testing.T) {
	body := []byte(`{"snapshot_id":"abc123","empresas_count":3,"timestamp":"2026-01-01T00:00:00Z","dominios":["a.com","b.com","c.com"]}`)

	got, err := DecodeUploadResult(body)
	require.NoError(t, err)
	assert.Equal(t, "abc123", got.SnapshotID)
	assert.Equal(t, 3, got.EmpresasCount)
	assert.Equal(t, []string{"a.com", "b.com", "c.com"}, got.Dominios)
}

func TestDecodeUploadResultRejectsMalformedBodies(t *testing.T) {
	tests := map[string]string{
		"missing snapshot id": `{"empresas_count":1,"timestamp":"2026-01-01T00:00:00Z","dominios":[]}`,
		"empty snapshot id":   `{"snapshot_id":"","empresas_count":1,"timestamp":"x","dominios":[]}`,
		"negative count":      `{"snapshot_id":"s","empresas_count":-1,"timestamp":"x","dominios":[]}`,
		"fractional count":    `{"snapshot_id":"s","empresas_count":1.5,"timestamp":"x","dominios":[]}`,
		"domains not strings": `{"snapshot_id":"s","empresas_count":1,"timestamp":"x","dominios":[1]}`,
		"not an object":       `["abc123"]`,
		"not json":            `<html>502 Bad Gateway</html>`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := DecodeUploadResult([]byte(body))
			assert.Nil(t, got)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedResponse))
			var mre *MalformedResponseError
			require.True(t, errors.As(err, &mre))
			assert.Equal(t, "upload", mre.Kind)
			assert.NotEmpty(t, mre.Violations)
		})
	}
}

func TestDecodeAnalysisFixture(t *testing.T) {
	data, err := os.ReadFile("testdata/analysis.json")
	require.NoError(t, err)

	rec, err := DecodeAnalysis(data)
	require.NoError(t, err)
	assert.Equal(t, "chedraui.com.mx", rec.Domain)
	assert.Equal(t, UrgencyImmediate, rec.UrgencyLevel)
	require.Len(t, rec.Insights, 2)
	assert.Equal(t, StatusCritical, rec.Insights[0].Status)
	assert.Equal(t, "$0-$500 USD/año", rec.Insights[0].CostEstimate["fix_cost"])
	assert.Nil(t, rec.Insights[1].CostEstimate)
	require.NotNil(t, rec.CommercialIntel.EstimatedBudget)
	assert.Equal(t, 18500, rec.CommercialIntel.EstimatedBudget.Min)
	assert.Equal(t, "high", rec.EstimatedDealSize.Confidence)
}

func TestDecodeAnalysisMissingCommercialIntel(t *testing.T) {
	body := []byte(`{
		"domain":"x.com","industry":"Retail","score":50,"urgency_level":"medium",
		"insights":[],"sales_talking_points":[],
		"estimated_deal_size":{"setup":"","monthly":"","annual":"","confidence":"medium"},
		"analyzed_at":"2026-01-01T00:00:00"
	}`)

	_, err := DecodeAnalysis(body)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Contains(t, err.Error(), "commercial_intel")
}

func TestDecodeAnalysisRejectsOutOfRangeValues(t *testing.T) {
	bad := []byte(`{"domain":"x.com","industry":"","score":140,"urgency_level":"soon",
		"insights":[{"title":"t","status":"meh","technical_detail":"","business_impact":"","recommendation":""}],
		"commercial_intel":{"budget_signals":[],"tech_stack":[],"decision_makers":[],"pain_points":[],"competitive_advantage":[]},
		"sales_talking_points":[],"estimated_deal_size":{"setup":"","monthly":"","annual":"","confidence":""},
		"analyzed_at":""}`)
	_, err := DecodeAnalysis(bad)
	require.Error(t, err)
	var mre *MalformedResponseError
	require.ErrorAs(t, err, &mre)
	assert.Len(t, mre.Violations, 3)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-01-01T00:00:00Z", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2026-01-15T17:30:00.123456", time.Date(2026, 1, 15, 17, 30, 0, 123456000, time.UTC)},
		{"2026-01-15T17:30:00", time.Date(2026, 1, 15, 17, 30, 0, 0, time.UTC)},
		{"2026-01-15", time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "%s parsed as %s", tt.in, got)
	}

	_, err := ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestUploadResultCloneIsDeep(t *testing.T) {
	orig := UploadResult{SnapshotID: "s", Dominios: []string{"a.com"}}
	cp := orig.Clone()
	cp.Dominios[0] = "changed.com"
	assert.Equal(t, "a.com", orig.Dominios[0])
}
