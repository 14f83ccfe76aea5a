package history

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/racing-predictor/internal/models"
)

type fakeStore struct {
	records []models.HistoryRecord
	loadErr error
	saveErr error
	saves   int
}

func (f *fakeStore) Load(_ context.Context) ([]models.HistoryRecord, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.records, nil
}

func (f *fakeStore) Save(_ context.Context, records []models.HistoryRecord) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.records = records
	return nil
}

func validRecord(winner models.Vehicle) models.HistoryRecord {
	return models.HistoryRecord{
		Position:     models.PositionCenter,
		VisibleRoad:  models.RoadHighway,
		HiddenRoad1:  models.RoadExpressway,
		Hidden1Pos:   models.PositionCenter,
		HiddenRoad2:  models.RoadDirt,
		Hidden2Pos:   models.PositionCenter,
		LongSegment:  models.SegmentVisible,
		Vehicle1:     models.VehicleSuper,
		Vehicle2:     models.VehicleCar,
		Vehicle3:     models.VehicleMoto,
		ActualWinner: winner,
	}
}

// TestSessionLoad tests loading the persisted collection into memory
func TestSessionLoad(t *testing.T) {
	store := &fakeStore{records: []models.HistoryRecord{validRecord(models.VehicleCar)}}
	session := NewSession(store, nil)

	session.Load(context.Background())
	assert.Equal(t, 1, session.Len())
}

// TestSessionLoadFailureStartsEmpty tests that an unreadable store is not
// fatal: the session starts empty instead
func TestSessionLoadFailureStartsEmpty(t *testing.T) {
	store := &fakeStore{loadErr: errors.New("connection refused")}
	session := NewSession(store, nil)

	session.Load(context.Background())
	assert.Equal(t, 0, session.Len())

	// the session is still usable afterwards
	require.NoError(t, session.Append(validRecord(models.VehicleCar)))
	assert.Equal(t, 1, session.Len())
}

// TestSessionAppendValidates tests the winner invariant on the way in
func TestSessionAppendValidates(t *testing.T) {
	session := NewSession(&fakeStore{}, nil)

	rec := validRecord(models.VehicleTruck) // not among the three competitors
	err := session.Append(rec)
	assert.ErrorIs(t, err, models.ErrInvalidWinner)
	assert.Equal(t, 0, session.Len())
}

// TestSessionAppendStampsTime tests that records get a recording timestamp
func TestSessionAppendStampsTime(t *testing.T) {
	session := NewSession(&fakeStore{}, nil)

	require.NoError(t, session.Append(validRecord(models.VehicleCar)))
	records := session.Records()
	require.Len(t, records, 1)
	assert.False(t, records[0].RecordedAt.IsZero())
}

// TestSessionSaveFailureKeepsMemory tests graceful degradation: a failed
// save leaves the in-memory records intact so a later save can retry
func TestSessionSaveFailureKeepsMemory(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("disk full")}
	session := NewSession(store, nil)
	require.NoError(t, session.Append(validRecord(models.VehicleCar)))

	err := session.Save(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, session.Len())

	// clearing the fault lets the retry persist everything
	store.saveErr = nil
	require.NoError(t, session.Save(context.Background()))
	assert.Len(t, store.records, 1)
	assert.Equal(t, 2, store.saves)
}

// TestSessionReplace tests the wholesale swap used by imports
func TestSessionReplace(t *testing.T) {
	session := NewSession(&fakeStore{}, nil)
	require.NoError(t, session.Append(validRecord(models.VehicleCar)))

	session.Replace([]models.HistoryRecord{
		validRecord(models.VehicleSuper),
		validRecord(models.VehicleMoto),
	})
	assert.Equal(t, 2, session.Len())
	assert.Equal(t, models.VehicleSuper, session.Records()[0].ActualWinner)
}

// TestSessionRecordsReturnsSnapshot tests that mutating the returned slice
// does not touch the session's copy
func TestSessionRecordsReturnsSnapshot(t *testing.T) {
	session := NewSession(&fakeStore{}, nil)
	require.NoError(t, session.Append(validRecord(models.VehicleCar)))

	snapshot := session.Records()
	snapshot[0].ActualWinner = models.VehicleMoto
	assert.Equal(t, models.VehicleCar, session.Records()[0].ActualWinner)
}
