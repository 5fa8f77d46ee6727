package oracle_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/league-draft-engine/internal/domain"
	"github.com/dom/league-draft-engine/internal/oracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetRecommendations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/recommend", r.URL.Path)

		var req oracle.DraftRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, domain.BracketGold, req.EloBracket)
		assert.Equal(t, domain.SideBlue, req.Side)
		assert.Equal(t, domain.ActionTypePick, req.Action)
		assert.Equal(t, domain.RoleMid, req.Role)

		json.NewEncoder(w).Encode(map[string]any{
			"recommendations": []oracle.Recommendation{
				{ChampionID: "Ahri", Score: 0.91, Reasons: []string{"strong into enemy comp"}},
				{ChampionID: "Orianna", Score: 0.87, Reasons: []string{"scales with team"}},
			},
		})
	}))
	defer srv.Close()

	client := oracle.NewClient(srv.URL, 5*time.Second)
	recs, err := client.GetRecommendations(context.Background(), oracle.DraftRequest{
		EloBracket: domain.BracketGold,
		Side:       domain.SideBlue,
		Action:     domain.ActionTypePick,
		Role:       domain.RoleMid,
	})

	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Ahri", recs[0].ChampionID)
	assert.InDelta(t, 0.91, recs[0].Score, 1e-9)
}

func TestClient_Predict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/predict", r.URL.Path)
		json.NewEncoder(w).Encode(oracle.Prediction{
			BlueWinProbability: 0.54,
			RedWinProbability:  0.46,
			Confidence:         0.72,
			Explanations:       []string{"blue has stronger late game"},
		})
	}))
	defer srv.Close()

	client := oracle.NewClient(srv.URL, 5*time.Second)
	pred, err := client.Predict(context.Background(), oracle.DraftRequest{EloBracket: domain.BracketAll})

	require.NoError(t, err)
	assert.InDelta(t, 0.54, pred.BlueWinProbability, 1e-9)
	assert.InDelta(t, 0.46, pred.RedWinProbability, 1e-9)
}

func TestClient_ErrorsAreScopedSentinels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := oracle.NewClient(srv.URL, time.Second)

	_, err := client.GetRecommendations(context.Background(), oracle.DraftRequest{})
	assert.ErrorIs(t, err, domain.ErrRecommendationUnavailable)

	_, err = client.Predict(context.Background(), oracle.DraftRequest{})
	assert.ErrorIs(t, err, domain.ErrPredictionUnavailable)
}

func TestClient_ContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	client := oracle.NewClient(srv.URL, 10*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetRecommendations(ctx, oracle.DraftRequest{})
	assert.ErrorIs(t, err, domain.ErrRecommendationUnavailable)
}
