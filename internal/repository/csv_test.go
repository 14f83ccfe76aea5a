package repository

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/racing-predictor/internal/models"
)

func sampleRecord() models.HistoryRecord {
	return models.HistoryRecord{
		Position:     models.PositionLeft,
		VisibleRoad:  models.RoadDesert,
		HiddenRoad1:  models.RoadDirt,
		Hidden1Pos:   models.PositionCenter,
		HiddenRoad2:  models.RoadPotholes,
		Hidden2Pos:   models.PositionRight,
		LongSegment:  models.SegmentHidden1,
		Vehicle1:     models.VehicleORV,
		Vehicle2:     models.VehicleTruck,
		Vehicle3:     models.VehicleATV,
		ActualWinner: models.VehicleATV,
		Prediction:   models.VehicleORV,
		PredMethod:   models.MethodTimeBased,
	}
}

// TestCSVRoundTrip tests that an encoded export decodes to the same records
func TestCSVRoundTrip(t *testing.T) {
	records := []models.HistoryRecord{sampleRecord()}

	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, records))

	decoded, err := DecodeCSV(&buf, nil)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, records[0], decoded[0])
}

// TestDecodeLegacyLayout tests ingesting the oldest file format, which
// tracked only the observed segment and the outcome. Hidden fields and the
// long-road flag get the documented defaults.
func TestDecodeLegacyLayout(t *testing.T) {
	legacy := strings.Join([]string{
		"Position,Road,Car1,Car2,Car3,Winner",
		"L,desert,ORV,Truck,ATV,ATV",
	}, "\n")

	records, err := DecodeCSV(strings.NewReader(legacy), nil)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, models.PositionLeft, rec.Position)
	assert.Equal(t, models.RoadDesert, rec.VisibleRoad)
	assert.Equal(t, models.RoadDirt, rec.HiddenRoad1)
	assert.Equal(t, models.PositionCenter, rec.Hidden1Pos)
	assert.Equal(t, models.RoadPotholes, rec.HiddenRoad2)
	assert.Equal(t, models.PositionRight, rec.Hidden2Pos)
	assert.Equal(t, models.SegmentVisible, rec.LongSegment)
	assert.Equal(t, models.VehicleATV, rec.ActualWinner)
}

// TestDecodeHiddenDetailsColumn tests reconstructing the hidden segments
// from the combined display column when the explicit columns are absent
func TestDecodeHiddenDetailsColumn(t *testing.T) {
	data := strings.Join([]string{
		"Position,Road,Car1,Car2,Car3,Winner,Hidden_Details",
		"C,highway,Car,Moto,Truck,Car,bumpy (L) + desert (R)",
	}, "\n")

	records, err := DecodeCSV(strings.NewReader(data), nil)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, models.RoadBumpy, rec.HiddenRoad1)
	assert.Equal(t, models.PositionLeft, rec.Hidden1Pos)
	assert.Equal(t, models.RoadDesert, rec.HiddenRoad2)
	assert.Equal(t, models.PositionRight, rec.Hidden2Pos)
}

// TestDecodeExplicitColumnsBeatHiddenDetails tests precedence: explicit
// per-field columns win over the display string when both are present
func TestDecodeExplicitColumnsBeatHiddenDetails(t *testing.T) {
	data := strings.Join([]string{
		"Position,Road,Hidden_Road_1,Hidden_Road_1_Position,Hidden_Road_2,Hidden_Road_2_Position,Car1,Car2,Car3,Winner,Hidden_Details",
		"C,highway,expressway,C,dirt,C,Car,Moto,Truck,Car,bumpy (L) + desert (R)",
	}, "\n")

	records, err := DecodeCSV(strings.NewReader(data), nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.RoadExpressway, records[0].HiddenRoad1)
	assert.Equal(t, models.RoadDirt, records[0].HiddenRoad2)
}

// TestDecodeRepairsBadFields tests field-level repair: unparseable position
// and road values fall to defaults instead of dropping the row
func TestDecodeRepairsBadFields(t *testing.T) {
	data := strings.Join([]string{
		"Position,Road,Car1,Car2,Car3,Winner",
		"X,lava,Car,Moto,Truck,Car",
	}, "\n")

	records, err := DecodeCSV(strings.NewReader(data), nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.PositionCenter, records[0].Position)
	assert.Equal(t, models.RoadDirt, records[0].VisibleRoad)
}

// TestDecodeSkipsUnusableRows tests that rows without a recognizable
// outcome are skipped while the rest of the file survives
func TestDecodeSkipsUnusableRows(t *testing.T) {
	data := strings.Join([]string{
		"Position,Road,Car1,Car2,Car3,Winner",
		"C,highway,Car,Moto,Truck,Car",
		"C,highway,Hovercraft,Moto,Truck,Moto", // unknown vehicle
		"C,highway,Car,Moto,Truck,ATV",         // winner did not race
		"C,highway,Car,Moto,Truck,Moto",
	}, "\n")

	records, err := DecodeCSV(strings.NewReader(data), nil)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.VehicleCar, records[0].ActualWinner)
	assert.Equal(t, models.VehicleMoto, records[1].ActualWinner)
}

// TestDecodeEmptyInput tests that an empty file is an empty history
func TestDecodeEmptyInput(t *testing.T) {
	records, err := DecodeCSV(strings.NewReader(""), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

// TestHiddenDetailsFormat tests the display string layout
func TestHiddenDetailsFormat(t *testing.T) {
	assert.Equal(t, "dirt (C) + potholes (R)", HiddenDetails(sampleRecord()))
}

// TestFileStoreMissingFile tests that a missing file loads as empty history
func TestFileStoreMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope.csv"), nil)

	records, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

// TestFileStoreSaveLoad tests the rewrite-and-reload cycle on disk
func TestFileStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	store := NewFileStore(path, nil)
	ctx := context.Background()

	records := []models.HistoryRecord{sampleRecord(), sampleRecord()}
	require.NoError(t, store.Save(ctx, records))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)

	// a second save replaces rather than appends
	require.NoError(t, store.Save(ctx, records[:1]))
	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}
