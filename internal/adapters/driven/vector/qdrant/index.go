// Package qdrant provides a vector index adapter backed by a Qdrant
// server, using its REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
	"github.com/docqa-labs/docqa-cli/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:6333"
	DefaultCollection = "documents"
	DefaultTimeout    = 30 * time.Second

	// UpsertBatchSize is the number of points written per request.
	UpsertBatchSize = 1000
)

// payloadIndexes are created alongside the collection so that filtered
// queries stay fast as the collection grows.
var payloadIndexes = map[string]string{
	"document_id": "keyword",
	"page":        "integer",
	"is_ocr":      "bool",
}

// Config holds configuration for the Qdrant index.
type Config struct {
	// BaseURL is the Qdrant REST API base URL (default: http://localhost:6333).
	BaseURL string

	// Collection is the collection name (default: documents).
	Collection string

	// APIKey authenticates against a managed Qdrant instance. Optional.
	APIKey string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Index stores and searches vectors in a Qdrant collection.
type Index struct {
	client     *http.Client
	baseURL    string
	collection string
	apiKey     string
}

// NewIndex creates a new Qdrant index adapter.
func NewIndex(cfg Config) *Index {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Index{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:    cfg.BaseURL,
		collection: cfg.Collection,
		apiKey:     cfg.APIKey,
	}
}

// collectionInfoResponse is the GET /collections/{name} response,
// reduced to the fields we read.
type collectionInfoResponse struct {
	Result struct {
		Config struct {
			Params struct {
				Vectors struct {
					Size int `json:"size"`
				} `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	} `json:"result"`
}

// EnsureCollection creates the collection with cosine distance and the
// standard payload indexes if it does not exist. An existing collection
// with a different vector size is rejected: silently mixing dimensions
// would corrupt every similarity score.
func (x *Index) EnsureCollection(ctx context.Context, dims int) error {
	status, body, err := x.do(ctx, http.MethodGet, x.collectionURL(), nil)
	if err != nil {
		return &domain.IndexError{Op: "collection info", Body: err.Error()}
	}

	switch {
	case status == http.StatusOK:
		var info collectionInfoResponse
		if err := json.Unmarshal(body, &info); err != nil {
			return &domain.IndexError{Op: "collection info", Body: err.Error()}
		}
		existing := info.Result.Config.Params.Vectors.Size
		if existing != dims {
			return fmt.Errorf("%w: collection %q has %d dimensions, embedding model produces %d",
				domain.ErrInvalidConfig, x.collection, existing, dims)
		}
		return nil
	case status != http.StatusNotFound:
		return &domain.IndexError{Op: "collection info", StatusCode: status, Body: string(body)}
	}

	createReq := map[string]any{
		"vectors": map[string]any{
			"size":     dims,
			"distance": "Cosine",
		},
	}
	status, body, err = x.do(ctx, http.MethodPut, x.collectionURL(), createReq)
	if err != nil {
		return &domain.IndexError{Op: "create collection", Body: err.Error()}
	}
	if status != http.StatusOK {
		return &domain.IndexError{Op: "create collection", StatusCode: status, Body: string(body)}
	}
	logger.Info("Created collection %q (%d dimensions, cosine)", x.collection, dims)

	for field, schema := range payloadIndexes {
		indexReq := map[string]any{
			"field_name":   field,
			"field_schema": schema,
		}
		status, body, err = x.do(ctx, http.MethodPut, x.collectionURL()+"/index", indexReq)
		if err != nil {
			return &domain.IndexError{Op: "create payload index", Body: err.Error()}
		}
		if status != http.StatusOK {
			return &domain.IndexError{Op: "create payload index", StatusCode: status, Body: string(body)}
		}
	}

	return nil
}

// upsertPoint is the wire format for one stored point.
type upsertPoint struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload domain.Payload `json:"payload"`
}

// Upsert writes points in batches of UpsertBatchSize. The first failing
// batch aborts the remainder; committed batches stay committed, which
// is safe because point ids are deterministic and re-ingestion
// overwrites them.
func (x *Index) Upsert(ctx context.Context, points []domain.StoredPoint) error {
	for start := 0; start < len(points); start += UpsertBatchSize {
		end := start + UpsertBatchSize
		if end > len(points) {
			end = len(points)
		}

		batch := make([]upsertPoint, 0, end-start)
		for _, p := range points[start:end] {
			batch = append(batch, upsertPoint{ID: p.ID, Vector: p.Vector, Payload: p.Payload})
		}

		status, body, err := x.do(ctx, http.MethodPut, x.collectionURL()+"/points?wait=true", map[string]any{
			"points": batch,
		})
		if err != nil {
			return &domain.IndexError{Op: "upsert", Body: err.Error()}
		}
		if status != http.StatusOK {
			return &domain.IndexError{Op: "upsert", StatusCode: status, Body: string(body)}
		}
		logger.Debug("Upserted points %d..%d of %d", start, end, len(points))
	}
	return nil
}

// searchResponse is the points/search response format.
type searchResponse struct {
	Result []struct {
		ID      string         `json:"id"`
		Score   float64        `json:"score"`
		Payload domain.Payload `json:"payload"`
	} `json:"result"`
}

// Search returns up to limit points closest to the query vector.
func (x *Index) Search(ctx context.Context, vector []float32, limit int, filter *driven.Filter) ([]domain.ScoredPoint, error) {
	searchReq := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	if filter != nil {
		searchReq["filter"] = matchFilter(filter.Field, filter.Value)
	}

	status, body, err := x.do(ctx, http.MethodPost, x.collectionURL()+"/points/search", searchReq)
	if err != nil {
		return nil, &domain.IndexError{Op: "search", Body: err.Error()}
	}
	if status != http.StatusOK {
		return nil, &domain.IndexError{Op: "search", StatusCode: status, Body: string(body)}
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, &domain.IndexError{Op: "search", Body: err.Error()}
	}

	hits := make([]domain.ScoredPoint, 0, len(searchResp.Result))
	for _, r := range searchResp.Result {
		hits = append(hits, domain.ScoredPoint{
			StoredPoint: domain.StoredPoint{ID: r.ID, Payload: r.Payload},
			Score:       r.Score,
		})
	}
	return hits, nil
}

// DeleteByField removes every point whose payload field equals the
// given value.
func (x *Index) DeleteByField(ctx context.Context, field string, value any) error {
	deleteReq := map[string]any{
		"filter": matchFilter(field, value),
	}

	status, body, err := x.do(ctx, http.MethodPost, x.collectionURL()+"/points/delete?wait=true", deleteReq)
	if err != nil {
		return &domain.IndexError{Op: "delete", Body: err.Error()}
	}
	if status != http.StatusOK {
		return &domain.IndexError{Op: "delete", StatusCode: status, Body: string(body)}
	}
	return nil
}

// Close releases resources.
func (x *Index) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// matchFilter builds a single-field equality filter.
func matchFilter(field string, value any) map[string]any {
	return map[string]any{
		"must": []map[string]any{
			{
				"key":   field,
				"match": map[string]any{"value": value},
			},
		},
	}
}

func (x *Index) collectionURL() string {
	return fmt.Sprintf("%s/collections/%s", x.baseURL, x.collection)
}

// do sends one JSON request and returns the status code and body.
func (x *Index) do(ctx context.Context, method, url string, reqBody any) (int, []byte, error) {
	var reader io.Reader
	if reqBody != nil {
		jsonBody, err := json.Marshal(reqBody)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if x.apiKey != "" {
		req.Header.Set("api-key", x.apiKey)
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}
