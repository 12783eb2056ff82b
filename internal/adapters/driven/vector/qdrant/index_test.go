package qdrant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa-labs/docqa-cli/internal/core/domain"
	"github.com/docqa-labs/docqa-cli/internal/core/ports/driven"
)

// fakeQdrant is a minimal in-memory stand-in for the Qdrant REST API.
type fakeQdrant struct {
	mux          *http.ServeMux
	dims         int
	exists       bool
	indexedField []string
	points       map[string]upsertPoint
	failUpserts  bool
	upsertCalls  int
}

func newFakeQdrant() *fakeQdrant {
	f := &fakeQdrant{points: map[string]upsertPoint{}}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /collections/documents", func(w http.ResponseWriter, _ *http.Request) {
		if !f.exists {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"status":{"error":"Not found"}}`)
			return
		}
		fmt.Fprintf(w, `{"result":{"config":{"params":{"vectors":{"size":%d}}}}}`, f.dims)
	})

	mux.HandleFunc("PUT /collections/documents", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Vectors struct {
				Size     int    `json:"size"`
				Distance string `json:"distance"`
			} `json:"vectors"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.exists = true
		f.dims = req.Vectors.Size
		fmt.Fprint(w, `{"result":true}`)
	})

	mux.HandleFunc("PUT /collections/documents/index", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			FieldName string `json:"field_name"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.indexedField = append(f.indexedField, req.FieldName)
		fmt.Fprint(w, `{"result":true}`)
	})

	mux.HandleFunc("PUT /collections/documents/points", func(w http.ResponseWriter, r *http.Request) {
		f.upsertCalls++
		if f.failUpserts {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"status":{"error":"boom"}}`)
			return
		}
		var req struct {
			Points []upsertPoint `json:"points"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		for _, p := range req.Points {
			f.points[p.ID] = p
		}
		fmt.Fprint(w, `{"result":{"status":"acknowledged"}}`)
	})

	mux.HandleFunc("POST /collections/documents/points/search", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Limit  int `json:"limit"`
			Filter *struct {
				Must []struct {
					Key   string `json:"key"`
					Match struct {
						Value any `json:"value"`
					} `json:"match"`
				} `json:"must"`
			} `json:"filter"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		type hit struct {
			ID      string         `json:"id"`
			Score   float64        `json:"score"`
			Payload domain.Payload `json:"payload"`
		}
		var hits []hit
		for id, p := range f.points {
			if req.Filter != nil {
				match := true
				for _, cond := range req.Filter.Must {
					if cond.Key == "document_id" && p.Payload.DocumentID != cond.Match.Value {
						match = false
					}
				}
				if !match {
					continue
				}
			}
			hits = append(hits, hit{ID: id, Score: 0.9, Payload: p.Payload})
			if len(hits) == req.Limit {
				break
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"result": hits})
	})

	mux.HandleFunc("POST /collections/documents/points/delete", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Filter struct {
				Must []struct {
					Key   string `json:"key"`
					Match struct {
						Value any `json:"value"`
					} `json:"match"`
				} `json:"must"`
			} `json:"filter"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		for id, p := range f.points {
			for _, cond := range req.Filter.Must {
				if cond.Key == "document_id" && p.Payload.DocumentID == cond.Match.Value {
					delete(f.points, id)
				}
			}
		}
		fmt.Fprint(w, `{"result":{"status":"acknowledged"}}`)
	})

	f.mux = mux
	return f
}

func newTestIndex(t *testing.T, f *fakeQdrant) *Index {
	t.Helper()
	srv := httptest.NewServer(f.mux)
	t.Cleanup(srv.Close)
	return NewIndex(Config{BaseURL: srv.URL})
}

func storedPoint(docID string, blockIndex int, text string) domain.StoredPoint {
	return domain.StoredPoint{
		ID:     domain.PointID(docID, blockIndex, 0),
		Vector: []float32{1, 0, 0},
		Payload: domain.Payload{
			DocumentID:  docID,
			PageContent: text,
		},
	}
}

func TestEnsureCollection_CreatesWithIndexes(t *testing.T) {
	f := newFakeQdrant()
	index := newTestIndex(t, f)

	require.NoError(t, index.EnsureCollection(context.Background(), 768))
	assert.True(t, f.exists)
	assert.Equal(t, 768, f.dims)
	assert.ElementsMatch(t, []string{"document_id", "page", "is_ocr"}, f.indexedField)
}

func TestEnsureCollection_ExistingMatchingDims(t *testing.T) {
	f := newFakeQdrant()
	f.exists = true
	f.dims = 768
	index := newTestIndex(t, f)

	require.NoError(t, index.EnsureCollection(context.Background(), 768))
	assert.Empty(t, f.indexedField, "existing collections are left untouched")
}

func TestEnsureCollection_DimensionMismatch(t *testing.T) {
	f := newFakeQdrant()
	f.exists = true
	f.dims = 384
	index := newTestIndex(t, f)

	err := index.EnsureCollection(context.Background(), 768)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestUpsertAndSearch(t *testing.T) {
	f := newFakeQdrant()
	index := newTestIndex(t, f)

	points := []domain.StoredPoint{
		storedPoint("doc-1", 0, "alpha"),
		storedPoint("doc-1", 1, "beta"),
		storedPoint("doc-2", 0, "gamma"),
	}
	require.NoError(t, index.Upsert(context.Background(), points))
	assert.Len(t, f.points, 3)

	hits, err := index.Search(context.Background(), []float32{1, 0, 0}, 10, nil)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestSearch_DocumentFilter(t *testing.T) {
	f := newFakeQdrant()
	index := newTestIndex(t, f)

	require.NoError(t, index.Upsert(context.Background(), []domain.StoredPoint{
		storedPoint("doc-1", 0, "alpha"),
		storedPoint("doc-2", 0, "beta"),
	}))

	hits, err := index.Search(context.Background(), []float32{1, 0, 0}, 10, &driven.Filter{
		Field: "document_id",
		Value: "doc-1",
	})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc-1", hits[0].Payload.DocumentID)
}

func TestUpsert_FailureSurfacesIndexError(t *testing.T) {
	f := newFakeQdrant()
	f.failUpserts = true
	index := newTestIndex(t, f)

	err := index.Upsert(context.Background(), []domain.StoredPoint{storedPoint("doc-1", 0, "alpha")})
	require.Error(t, err)

	var indexErr *domain.IndexError
	require.ErrorAs(t, err, &indexErr)
	assert.Equal(t, "upsert", indexErr.Op)
	assert.Equal(t, http.StatusInternalServerError, indexErr.StatusCode)
}

func TestUpsert_Batches(t *testing.T) {
	f := newFakeQdrant()
	index := newTestIndex(t, f)

	points := make([]domain.StoredPoint, UpsertBatchSize+5)
	for i := range points {
		points[i] = storedPoint("doc-1", i, "text")
	}
	require.NoError(t, index.Upsert(context.Background(), points))
	assert.Equal(t, 2, f.upsertCalls)
	assert.Len(t, f.points, UpsertBatchSize+5)
}

func TestDeleteByField(t *testing.T) {
	f := newFakeQdrant()
	index := newTestIndex(t, f)

	require.NoError(t, index.Upsert(context.Background(), []domain.StoredPoint{
		storedPoint("doc-1", 0, "alpha"),
		storedPoint("doc-2", 0, "beta"),
	}))

	require.NoError(t, index.DeleteByField(context.Background(), "document_id", "doc-1"))
	assert.Len(t, f.points, 1)
}
