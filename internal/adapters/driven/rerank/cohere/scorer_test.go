package cohere

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_MapsResultsToInputOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/rerank", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req rerankRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "which chunk matters", req.Query)
		require.Len(t, req.Documents, 3)

		// Results come back ordered by relevance, not input order.
		fmt.Fprint(w, `{"results":[
			{"index":2,"relevance_score":0.95},
			{"index":0,"relevance_score":0.40},
			{"index":1,"relevance_score":0.10}
		]}`)
	}))
	defer srv.Close()

	scorer, err := NewScorer(Config{BaseURL: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)

	scores, err := scorer.Score(context.Background(), "which chunk matters", []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.40, 0.10, 0.95}, scores)
}

func TestScore_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"message":"rate limited"}`)
	}))
	defer srv.Close()

	scorer, err := NewScorer(Config{BaseURL: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)

	_, err = scorer.Score(context.Background(), "q", []string{"a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestScore_IndexOutOfRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"results":[{"index":5,"relevance_score":0.9}]}`)
	}))
	defer srv.Close()

	scorer, err := NewScorer(Config{BaseURL: srv.URL, APIKey: "test-key"})
	require.NoError(t, err)

	_, err = scorer.Score(context.Background(), "q", []string{"a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestScore_EmptyInput(t *testing.T) {
	scorer, err := NewScorer(Config{APIKey: "test-key"})
	require.NoError(t, err)

	scores, err := scorer.Score(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Nil(t, scores)
}

func TestNewScorer_RequiresAPIKey(t *testing.T) {
	_, err := NewScorer(Config{})
	assert.Error(t, err)
}
