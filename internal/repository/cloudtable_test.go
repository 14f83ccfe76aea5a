package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/racing-predictor/internal/config"
	"github.com/yourusername/racing-predictor/internal/models"
)

// fakeTableServer emulates the hosted table API: paged listing, query-param
// batch deletes, and JSON batch inserts.
type fakeTableServer struct {
	mu       sync.Mutex
	records  map[string]cloudFields
	nextID   int
	inserts  []int // batch sizes observed
	deletes  []int
	pageSize int
	authed   bool
}

func newFakeTableServer() *fakeTableServer {
	return &fakeTableServer{records: map[string]cloudFields{}, pageSize: 2, authed: true}
}

func (f *fakeTableServer) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.authed {
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		}

		switch r.Method {
		case http.MethodGet:
			f.serveList(w, r)
		case http.MethodDelete:
			ids := r.URL.Query()["records[]"]
			f.deletes = append(f.deletes, len(ids))
			for _, id := range ids {
				delete(f.records, id)
			}
			fmt.Fprint(w, `{}`)
		case http.MethodPost:
			var payload struct {
				Records []cloudRecord `json:"records"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			f.inserts = append(f.inserts, len(payload.Records))
			for _, rec := range payload.Records {
				f.nextID++
				f.records[fmt.Sprintf("rec%d", f.nextID)] = rec.Fields
			}
			fmt.Fprint(w, `{}`)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func (f *fakeTableServer) serveList(w http.ResponseWriter, r *http.Request) {
	ids := make([]string, 0, len(f.records))
	for id := range f.records {
		ids = append(ids, id)
	}
	// deterministic order keeps the offsets stable
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ids[j] < ids[i] {
				ids[i], ids[j] = ids[j], ids[i]
			}
		}
	}

	start := 0
	if offset := r.URL.Query().Get("offset"); offset != "" {
		fmt.Sscanf(offset, "%d", &start)
	}
	end := start + f.pageSize
	if end > len(ids) {
		end = len(ids)
	}

	page := listResponse{}
	for _, id := range ids[start:end] {
		page.Records = append(page.Records, cloudRecord{ID: id, Fields: f.records[id]})
	}
	if end < len(ids) {
		page.Offset = fmt.Sprintf("%d", end)
	}
	_ = json.NewEncoder(w).Encode(page)
}

func newTestCloudStore(baseURL string) *CloudTableStore {
	return NewCloudTableStore(&config.CloudTableConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		Table:          "races",
		RateLimit:      1000,
		TimeoutSeconds: 5,
		MaxRetries:     1,
	}, nil)
}

// TestCloudTableSaveAndLoad tests the full replace cycle against the fake
// API, including offset paging on the way back
func TestCloudTableSaveAndLoad(t *testing.T) {
	server := newFakeTableServer()
	ts := httptest.NewServer(server.handler(t))
	defer ts.Close()

	store := newTestCloudStore(ts.URL)
	ctx := context.Background()

	records := make([]models.HistoryRecord, 25)
	for i := range records {
		records[i] = sampleRecord()
	}
	require.NoError(t, store.Save(ctx, records))

	// inserts were batched at the API cap
	assert.Equal(t, []int{10, 10, 5}, server.inserts)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 25)
	assert.Equal(t, records[0].ActualWinner, loaded[0].ActualWinner)
	assert.Equal(t, records[0].HiddenRoad1, loaded[0].HiddenRoad1)
}

// TestCloudTableSaveReplacesRemote tests that a save deletes the previous
// remote records before inserting the new collection
func TestCloudTableSaveReplacesRemote(t *testing.T) {
	server := newFakeTableServer()
	ts := httptest.NewServer(server.handler(t))
	defer ts.Close()

	store := newTestCloudStore(ts.URL)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []models.HistoryRecord{sampleRecord(), sampleRecord(), sampleRecord()}))
	require.NoError(t, store.Save(ctx, []models.HistoryRecord{sampleRecord()}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
	assert.NotEmpty(t, server.deletes)
}

// TestCloudTableLoadSkipsBadRecords tests that a remote record with an
// unknown vehicle is skipped rather than failing the whole load
func TestCloudTableLoadSkipsBadRecords(t *testing.T) {
	server := newFakeTableServer()
	server.records["rec1"] = cloudFields{
		Position: "C", Road: "highway",
		Car1: "Hovercraft", Car2: "Moto", Car3: "Truck", Winner: "Moto",
	}
	server.records["rec2"] = cloudFields{
		Position: "C", Road: "highway",
		Car1: "Car", Car2: "Moto", Car3: "Truck", Winner: "Moto",
	}
	ts := httptest.NewServer(server.handler(t))
	defer ts.Close()

	store := newTestCloudStore(ts.URL)
	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, models.VehicleMoto, loaded[0].ActualWinner)
	// legacy defaults fill the absent hidden columns
	assert.Equal(t, models.RoadDirt, loaded[0].HiddenRoad1)
}

// TestCloudTableErrorStatus tests that a non-2xx response surfaces as an error
func TestCloudTableErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":"bad key"}`)
	}))
	defer ts.Close()

	store := newTestCloudStore(ts.URL)
	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
