package model

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisRecordCloneIsDeep(t *testing.T) {
	data, err := os.ReadFile("testdata/analysis.json")
	require.NoError(t, err)
	var rec AnalysisRecord
	require.NoError(t, json.Unmarshal(data, &rec))
	require.NotNil(t, rec.CommercialIntel.EstimatedBudget)
	require.NotEmpty(t, rec.Insights)
	require.NotEmpty(t, rec.CommercialIntel.TechStack)
	require.NotEmpty(t, rec.SalesTalkingPoints)

	clone := rec.Clone()
	assert.Equal(t, rec, clone)

	clone.Insights[0].Title = "changed"
	for i := range clone.Insights {
		for k := range clone.Insights[i].CostEstimate {
			clone.Insights[i].CostEstimate[k] = "changed"
		}
	}
	clone.CommercialIntel.TechStack[0] = "changed"
	clone.CommercialIntel.EstimatedBudget.Min = 1
	clone.SalesTalkingPoints[0] = "changed"

	assert.NotEqual(t, "changed", rec.Insights[0].Title)
	for _, ins := range rec.Insights {
		for _, v := range ins.CostEstimate {
			assert.NotEqual(t, "changed", v)
		}
	}
	assert.NotEqual(t, "changed", rec.CommercialIntel.TechStack[0])
	assert.Equal(t, 18500, rec.CommercialIntel.EstimatedBudget.Min)
	assert.NotEqual(t, "changed", rec.SalesTalkingPoints[0])
}

func TestAnalysisRecordCloneKeepsNilSlices(t *testing.T) {
	clone := AnalysisRecord{Domain: "acme.com"}.Clone()
	assert.Nil(t, clone.Insights)
	assert.Nil(t, clone.CommercialIntel.TechStack)
	assert.Nil(t, clone.CommercialIntel.EstimatedBudget)
}
