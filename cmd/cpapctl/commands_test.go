package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"cpaptracker-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePartID(t *testing.T) {
	id, err := parsePartID("12")
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		_, err := parsePartID(bad)
		assert.Error(t, err, bad)
	}
}

func TestPrintViews(t *testing.T) {
	days := -3
	views := []entity.PartStatusView{
		{
			Part:                 &entity.Part{ID: 4, Name: "Air Filter (Disposable)", CompatibleModel: "AirCurve 10 VAuto"},
			Latest:               &entity.ReplacementEvent{NextReplacementDate: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)},
			DaysUntilReplacement: &days,
			Status:               entity.StatusOverdue,
		},
		{Part: &entity.Part{ID: 7, Name: "Chinstrap"}, Status: entity.StatusNotTracked},
	}

	var buf bytes.Buffer
	require.NoError(t, printViews(&buf, views))
	out := buf.String()
	assert.Contains(t, out, "Air Filter (Disposable)")
	assert.Contains(t, out, "2024-01-31")
	assert.Contains(t, out, "-3")
	assert.Contains(t, out, "OVERDUE")
	assert.Contains(t, out, "Chinstrap")
}

func TestPrintViews_JSON(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()

	views := []entity.PartStatusView{{Part: &entity.Part{ID: 7, Name: "Chinstrap"}, Status: entity.StatusNotTracked}}
	var buf bytes.Buffer
	require.NoError(t, printViews(&buf, views))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "NOT_TRACKED", decoded[0]["status"])
	assert.NotContains(t, decoded[0], "daysUntilReplacement")
}
