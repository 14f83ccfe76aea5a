package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/racing-predictor/internal/config"
	"github.com/yourusername/racing-predictor/internal/models"
)

// insertBatchSize is the record-per-request cap of the hosted table API
const insertBatchSize = 10

// cloudRecord is the hosted table's record envelope
type cloudRecord struct {
	ID     string      `json:"id,omitempty"`
	Fields cloudFields `json:"fields"`
}

// cloudFields mirrors the tabular column names
type cloudFields struct {
	Position     string `json:"Position"`
	Road         string `json:"Road"`
	HiddenRoad1  string `json:"Hidden_Road_1,omitempty"`
	Hidden1Pos   string `json:"Hidden_Road_1_Position,omitempty"`
	HiddenRoad2  string `json:"Hidden_Road_2,omitempty"`
	Hidden2Pos   string `json:"Hidden_Road_2_Position,omitempty"`
	LongRoad     string `json:"Long_Road,omitempty"`
	Car1         string `json:"Car1"`
	Car2         string `json:"Car2"`
	Car3         string `json:"Car3"`
	Winner       string `json:"Winner"`
	Prediction   string `json:"Prediction,omitempty"`
	PredMethod   string `json:"Prediction_Method,omitempty"`
	RecordedAt   string `json:"Recorded_At,omitempty"`
	HiddenDetail string `json:"Hidden_Details,omitempty"`
}

type listResponse struct {
	Records []cloudRecord `json:"records"`
	Offset  string        `json:"offset,omitempty"`
}

// CloudTableStore persists history in a hosted table API. Saving mirrors
// the other backends: delete every remote record, then insert the current
// collection in batches. The client retries transient failures and rate
// limits itself below the service quota.
type CloudTableStore struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	table   string
	logger  *logrus.Logger
}

// NewCloudTableStore builds a store from configuration
func NewCloudTableStore(cfg *config.CloudTableConfig, logger *logrus.Logger) *CloudTableStore {
	if logger == nil {
		logger = logrus.New()
	}

	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	client.RetryMax = cfg.MaxRetries
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.Logger = nil

	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 5
	}

	return &CloudTableStore{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(limit), 1),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		table:   cfg.Table,
		logger:  logger,
	}
}

// Load pages through the remote table and converts every record
func (s *CloudTableStore) Load(ctx context.Context) ([]models.HistoryRecord, error) {
	var records []models.HistoryRecord
	offset := ""
	for {
		page, err := s.listPage(ctx, offset)
		if err != nil {
			return nil, err
		}
		for _, remote := range page.Records {
			rec, ok := remote.Fields.toRecord()
			if !ok {
				s.logger.WithField("record_id", remote.ID).Warn("Skipping unparseable cloud record")
				continue
			}
			records = append(records, rec)
		}
		if page.Offset == "" {
			return records, nil
		}
		offset = page.Offset
	}
}

// Save replaces the remote collection: delete-all then insert-all
func (s *CloudTableStore) Save(ctx context.Context, records []models.HistoryRecord) error {
	ids, err := s.listAllIDs(ctx)
	if err != nil {
		return err
	}
	for start := 0; start < len(ids); start += insertBatchSize {
		end := min(start+insertBatchSize, len(ids))
		if err := s.deleteBatch(ctx, ids[start:end]); err != nil {
			return err
		}
	}

	for start := 0; start < len(records); start += insertBatchSize {
		end := min(start+insertBatchSize, len(records))
		if err := s.insertBatch(ctx, records[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *CloudTableStore) listAllIDs(ctx context.Context) ([]string, error) {
	var ids []string
	offset := ""
	for {
		page, err := s.listPage(ctx, offset)
		if err != nil {
			return nil, err
		}
		for _, rec := range page.Records {
			ids = append(ids, rec.ID)
		}
		if page.Offset == "" {
			return ids, nil
		}
		offset = page.Offset
	}
}

func (s *CloudTableStore) listPage(ctx context.Context, offset string) (*listResponse, error) {
	endpoint := s.tableURL()
	if offset != "" {
		endpoint += "?offset=" + url.QueryEscape(offset)
	}

	body, err := s.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var page listResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode cloud table response: %w", err)
	}
	return &page, nil
}

func (s *CloudTableStore) deleteBatch(ctx context.Context, ids []string) error {
	values := url.Values{}
	for _, id := range ids {
		values.Add("records[]", id)
	}
	endpoint := s.tableURL() + "?" + values.Encode()
	_, err := s.do(ctx, http.MethodDelete, endpoint, nil)
	return err
}

func (s *CloudTableStore) insertBatch(ctx context.Context, records []models.HistoryRecord) error {
	payload := struct {
		Records []cloudRecord `json:"records"`
	}{Records: make([]cloudRecord, 0, len(records))}

	for _, rec := range records {
		payload.Records = append(payload.Records, cloudRecord{Fields: toCloudFields(rec)})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode cloud records: %w", err)
	}
	_, err = s.do(ctx, http.MethodPost, s.tableURL(), body)
	return err
}

func (s *CloudTableStore) do(ctx context.Context, method, endpoint string, body []byte) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build cloud table request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloud table request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read cloud table response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("cloud table returned status %d: %s", resp.StatusCode, string(data))
	}
	return data, nil
}

func (s *CloudTableStore) tableURL() string {
	return fmt.Sprintf("%s/%s", s.baseURL, url.PathEscape(s.table))
}

func toCloudFields(rec models.HistoryRecord) cloudFields {
	fields := cloudFields{
		Position:     string(rec.Position),
		Road:         string(rec.VisibleRoad),
		HiddenRoad1:  string(rec.HiddenRoad1),
		Hidden1Pos:   string(rec.Hidden1Pos),
		HiddenRoad2:  string(rec.HiddenRoad2),
		Hidden2Pos:   string(rec.Hidden2Pos),
		LongRoad:     string(rec.LongSegment),
		Car1:         string(rec.Vehicle1),
		Car2:         string(rec.Vehicle2),
		Car3:         string(rec.Vehicle3),
		Winner:       string(rec.ActualWinner),
		Prediction:   string(rec.Prediction),
		PredMethod:   string(rec.PredMethod),
		HiddenDetail: HiddenDetails(rec),
	}
	if !rec.RecordedAt.IsZero() {
		fields.RecordedAt = rec.RecordedAt.UTC().Format(time.RFC3339)
	}
	return fields
}

func (f cloudFields) toRecord() (models.HistoryRecord, bool) {
	v1, err1 := models.ParseVehicle(f.Car1)
	v2, err2 := models.ParseVehicle(f.Car2)
	v3, err3 := models.ParseVehicle(f.Car3)
	winner, err4 := models.ParseVehicle(f.Winner)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return models.HistoryRecord{}, false
	}

	rec := models.HistoryRecord{
		Vehicle1:     v1,
		Vehicle2:     v2,
		Vehicle3:     v3,
		ActualWinner: winner,
	}
	rec.Position = models.PositionCenter
	if pos, err := models.ParsePosition(f.Position); err == nil {
		rec.Position = pos
	}
	rec.VisibleRoad = models.RoadDirt
	if road, err := models.ParseRoadType(f.Road); err == nil {
		rec.VisibleRoad = road
	}
	if road, err := models.ParseRoadType(f.HiddenRoad1); err == nil {
		rec.HiddenRoad1 = road
	}
	if pos, err := models.ParsePosition(f.Hidden1Pos); err == nil {
		rec.Hidden1Pos = pos
	}
	if road, err := models.ParseRoadType(f.HiddenRoad2); err == nil {
		rec.HiddenRoad2 = road
	}
	if pos, err := models.ParsePosition(f.Hidden2Pos); err == nil {
		rec.Hidden2Pos = pos
	}
	if seg, err := models.ParseSegment(f.LongRoad); err == nil {
		rec.LongSegment = seg
	}
	if pred, err := models.ParseVehicle(f.Prediction); err == nil {
		rec.Prediction = pred
	}
	if method, err := models.ParseMethod(f.PredMethod); err == nil {
		rec.PredMethod = method
	}
	if ts, err := time.Parse(time.RFC3339, f.RecordedAt); err == nil {
		rec.RecordedAt = ts
	}
	rec.ApplyLegacyDefaults()
	if !rec.HasVehicle(rec.ActualWinner) {
		return models.HistoryRecord{}, false
	}
	return rec, true
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
