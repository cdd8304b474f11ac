package web

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/justinabrahms/cez/internal/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type activeGamesResponse struct {
	Games []GameIndex `json:"games"`
	Total int         `json:"total"`
}

func TestGetActiveGamesHandler(t *testing.T) {
	router, _ := newTestRouter(t, &fakeSearcher{})

	w := doJSON(t, router, "GET", "/api/spectator/games", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp activeGamesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Total)
	assert.NotNil(t, resp.Games, "games should encode as an empty list")

	first := createGame(t, router, "")
	second := createGame(t, router, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	// Fool's mate leaves a finished game behind
	finished := createGame(t, router, "")
	for _, mv := range [][2]string{{"f2", "f3"}, {"e7", "e5"}, {"g2", "g4"}, {"d8", "h4"}} {
		w := doJSON(t, router, "POST", "/api/games/"+finished+"/moves", map[string]string{"from": mv[0], "to": mv[1]})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = doJSON(t, router, "GET", "/api/spectator/games", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	ids := []string{}
	for _, g := range resp.Games {
		ids = append(ids, g.ID)
		assert.Equal(t, chess.StatusActive, g.Status)
		assert.Zero(t, g.SpectatorCount)
	}
	assert.ElementsMatch(t, []string{first, second}, ids)

	w = doJSON(t, router, "GET", "/api/spectator/games?all=1", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	for _, g := range resp.Games {
		if g.ID == finished {
			assert.Equal(t, chess.StatusBlackWon, g.Status)
			assert.Equal(t, chess.StateCheckmate, g.State)
			assert.Equal(t, 4, g.MoveCount)
		}
	}
}

func TestGetSpectatorGameHandler(t *testing.T) {
	router, _ := newTestRouter(t, &fakeSearcher{})
	id := createGame(t, router, "")
	w := doJSON(t, router, "POST", "/api/games/"+id+"/moves", map[string]string{"from": "d2", "to": "d4"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/spectator/games/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ID             string              `json:"id"`
		Game           chess.Snapshot      `json:"game"`
		History        []chess.Record      `json:"history"`
		Material       chess.MaterialCount `json:"materialCount"`
		SpectatorCount int                 `json:"spectatorCount"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.ID)
	assert.Equal(t, "black", resp.Game.Turn)
	require.Len(t, resp.History, 1)
	assert.Equal(t, "d2>4", resp.History[0].Notation)
	assert.Equal(t, resp.Game.Material, resp.Material)
	assert.Zero(t, resp.SpectatorCount)

	w = doJSON(t, router, "GET", "/api/spectator/games/nonexistent", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
