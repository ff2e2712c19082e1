// Package remote is the client for the practice API. The API speaks
// accuracy in the 0..1 range; this package converts to the 0-100 scale
// used everywhere else at the boundary, in both directions.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/codetype-dev/codetype/internal/model"
	"github.com/codetype-dev/codetype/internal/scoring"
)

const (
	pageLimit      = 100
	requestTimeout = 15 * time.Second
)

// Client talks to the practice API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.Logger
}

// New creates a client for the configured API. A nil logger is replaced
// with a no-op one.
func New(cfg model.RemoteConfig, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: requestTimeout},
		log:     log,
	}
}

type submitRequest struct {
	QuestionID string  `json:"question_id"`
	WPM        float64 `json:"wpm"`
	Accuracy   float64 `json:"accuracy"` // 0..1
	TookMs     int64   `json:"took_ms"`
}

type logItem struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	WPM        float64   `json:"wpm"`
	Accuracy   float64   `json:"accuracy"` // 0..1
	TookMs     int64     `json:"took_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

type logPage struct {
	Items   []logItem `json:"items"`
	HasNext bool      `json:"has_next"`
}

// Summary holds the remote aggregate figures, already converted to the
// 0-100 accuracy scale.
type Summary struct {
	TotalSessions   int
	AverageWPM      float64
	AverageAccuracy float64
	BestWPM         float64
	BestAccuracy    float64
	TotalTimeMs     int64
}

// Save submits one attempt record.
func (c *Client) Save(ctx context.Context, rec model.LogRecord) error {
	body := submitRequest{
		QuestionID: rec.StudyBookID,
		WPM:        rec.WPM,
		Accuracy:   rec.Accuracy / 100,
		TookMs:     rec.DurationMs,
	}
	var created logItem
	if err := c.do(ctx, http.MethodPost, "/typing-logs/", nil, body, &created); err != nil {
		return fmt.Errorf("failed to submit typing log: %w", err)
	}
	c.log.Info("submitted typing log",
		zap.String("id", created.ID),
		zap.String("study_book_id", rec.StudyBookID),
	)
	return nil
}

// List pages through all remote attempt records. The API does not carry
// language or per-character detail, so those fields stay empty; the
// aggregators treat such records as language-unknown.
func (c *Client) List(ctx context.Context, cfg model.StatsConfig) ([]model.LogRecord, error) {
	var records []model.LogRecord
	for page := 1; ; page++ {
		query := url.Values{
			"page":  {strconv.Itoa(page)},
			"limit": {strconv.Itoa(pageLimit)},
		}
		var result logPage
		if err := c.do(ctx, http.MethodGet, "/typing-logs/", query, nil, &result); err != nil {
			return nil, fmt.Errorf("failed to list typing logs: %w", err)
		}
		for _, item := range result.Items {
			rec := toRecord(item)
			if cfg.Lang != "" && rec.Language != cfg.Lang {
				continue
			}
			if cfg.Since != nil && rec.StartedAt.Before(*cfg.Since) {
				continue
			}
			records = append(records, rec)
		}
		if !result.HasNext {
			break
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt.Before(records[j].StartedAt)
	})
	if cfg.Last > 0 && len(records) > cfg.Last {
		records = records[len(records)-cfg.Last:]
	}
	return records, nil
}

func toRecord(item logItem) model.LogRecord {
	accuracy := item.Accuracy * 100
	return model.LogRecord{
		ID:          item.ID,
		StudyBookID: item.QuestionID,
		StartedAt:   item.CreatedAt.Add(-time.Duration(item.TookMs) * time.Millisecond),
		DurationMs:  item.TookMs,
		WPM:         item.WPM,
		Accuracy:    accuracy,
		Score:       scoring.CompositeScore(item.WPM, accuracy),
		Timestamp:   item.CreatedAt,
	}
}

// FetchSummary retrieves the remote aggregate statistics.
func (c *Client) FetchSummary(ctx context.Context) (Summary, error) {
	var raw struct {
		TotalSessions   int     `json:"total_sessions"`
		AverageWPM      float64 `json:"average_wpm"`
		AverageAccuracy float64 `json:"average_accuracy"` // 0..1
		BestWPM         float64 `json:"best_wpm"`
		BestAccuracy    float64 `json:"best_accuracy"` // 0..1
		TotalTimeMs     int64   `json:"total_time_ms"`
	}
	if err := c.do(ctx, http.MethodGet, "/typing-logs/stats/summary", nil, nil, &raw); err != nil {
		return Summary{}, fmt.Errorf("failed to fetch stats summary: %w", err)
	}
	return Summary{
		TotalSessions:   raw.TotalSessions,
		AverageWPM:      raw.AverageWPM,
		AverageAccuracy: raw.AverageAccuracy * 100,
		BestWPM:         raw.BestWPM,
		BestAccuracy:    raw.BestAccuracy * 100,
		TotalTimeMs:     raw.TotalTimeMs,
	}, nil
}

// ListStudyBooks retrieves the remote study book catalog.
func (c *Client) ListStudyBooks(ctx context.Context) ([]model.StudyBook, error) {
	var books []model.StudyBook
	if err := c.do(ctx, http.MethodGet, "/study-books/", nil, nil, &books); err != nil {
		return nil, fmt.Errorf("failed to list study books: %w", err)
	}
	return books, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
