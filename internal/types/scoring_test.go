package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoringRecord_RoundTrip(t *testing.T) {
	record := ScoringRecord{
		Summary:         "Strong backend candidate",
		MatchScore:      87,
		Skills:          map[string]float64{"Go": 9, "PostgreSQL": 7.5},
		Positives:       []string{"Relevant experience", "Clear progression"},
		Negatives:       []string{"No cloud exposure"},
		Recommendations: []string{"Probe system design depth"},
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded ScoringRecord
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, record, decoded)
}

func TestNewScoringRecord_ContainersNotNil(t *testing.T) {
	record := NewScoringRecord()

	assert.NotNil(t, record.Skills)
	assert.NotNil(t, record.Positives)
	assert.NotNil(t, record.Negatives)
	assert.NotNil(t, record.Recommendations)

	data, err := json.Marshal(record)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"summary": "",
		"matchScore": 0,
		"skills": {},
		"positives": [],
		"negatives": [],
		"recommendations": []
	}`, string(data))
}
