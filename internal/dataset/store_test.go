package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marden/carscout/internal/models"
)

func storeVehicles() []models.Vehicle {
	return []models.Vehicle{
		{ID: "a", Make: "TOYOTA", Model: "CAMRY", Year: 2020, Price: 22000, Mileage: 35000, SafetyRating: 5.0, ComplaintCount: 2, ReliabilityScore: 0.92, Age: 4, DepreciationRate: 0.6},
		{ID: "b", Make: "HONDA", Model: "CIVIC", Year: 2019, Price: 18000, Mileage: 42000, SafetyRating: 4.5, ComplaintCount: 1, ReliabilityScore: 0.88, Age: 5, DepreciationRate: 0.75},
	}
}

func TestStore_ImportAndLoad(t *testing.T) {
	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Import(storeVehicles()))

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, storeVehicles()[0], loaded[0])
	assert.Equal(t, storeVehicles()[1], loaded[1])
}

func TestStore_ImportReplacesContents(t *testing.T) {
	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Import(storeVehicles()))
	require.NoError(t, store.Import(storeVehicles()[:1]))

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_EmptyStoreIsDataUnavailable(t *testing.T) {
	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Load()
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestOpenStore_CreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "cars.db")

	store, err := OpenStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Import(storeVehicles()))
	require.NoError(t, store.Close())

	reopened, err := OpenStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load()
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}
