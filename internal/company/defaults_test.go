package company

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqline/reqline/internal/models"
)

func TestDefaultSeedCounts(t *testing.T) {
	assert.Len(t, DefaultWorkerTypes, 4)
	assert.Len(t, DefaultWorkerSubTypes, 4)
	assert.Len(t, DefaultRequisitionReasons, 5)
	assert.Len(t, DefaultLocations, 3)
	assert.Len(t, DefaultOffices, 1)
}

func TestEveryCategoryHasTableAndSeeds(t *testing.T) {
	for _, cat := range []models.ConfigCategory{
		models.CategoryLocations,
		models.CategoryWorkerTypes,
		models.CategoryWorkerSubTypes,
		models.CategoryReasons,
		models.CategoryOffices,
		models.CategoryJobLevels,
	} {
		require.NotEmpty(t, configTables[cat], "missing table for %s", cat)
		require.NotEmpty(t, defaultsByCategory[cat], "missing seeds for %s", cat)
	}
}
