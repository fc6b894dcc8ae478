package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func complianceDataset() Dataset {
	return Dataset{
		Title:       "Statewide Internship Compliance",
		GeneratedAt: time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC),
		Headers:     []string{"Code", "Mentor Rate", "Score"},
		Rows: []map[string]string{
			{"Code": "GP-001", "Mentor Rate": "90", "Score": "80"},
			{"Code": "GP-002", "Mentor Rate": "N/A", "Score": "N/A"},
		},
	}
}

func TestCSVRender(t *testing.T) {
	payload, err := NewCSVExporter().Render(complianceDataset())
	require.NoError(t, err)

	want := "Code,Mentor Rate,Score\nGP-001,90,80\nGP-002,N/A,N/A\n"
	assert.Equal(t, want, string(payload))
}

func TestCSVRenderMissingCellEmpty(t *testing.T) {
	payload, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"Code", "Tier"},
		Rows:    []map[string]string{{"Code": "GP-001"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Code,Tier\nGP-001,\n", string(payload))
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFRender(t *testing.T) {
	payload, err := NewPDFExporter().Render(complianceDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestPDFRenderRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{Title: "Empty"})
	assert.Error(t, err)
}
