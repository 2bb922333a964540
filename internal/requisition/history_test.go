package requisition

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqline/reqline/internal/models"
)

func TestDescriptionChangeCarriesBumpedVersion(t *testing.T) {
	entries := descriptionChange("user-42", 3)

	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Version)
	assert.Equal(t, "description", entries[0].Field)
	assert.Equal(t, "user-42", entries[0].ChangedBy)
	assert.WithinDuration(t, time.Now().UTC(), entries[0].ChangedAt, time.Minute)
}

func TestDescriptionChangeAppendsAsJSONArray(t *testing.T) {
	data, err := json.Marshal(descriptionChange("user-42", 2))
	require.NoError(t, err)

	var decoded []models.ChangeEntry
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, 2, decoded[0].Version)
	assert.NotZero(t, decoded[0].Version, "entry must not record the pre-bump default")
}
