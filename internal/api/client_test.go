package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchcenter/pkg/models"
)

func TestFetchMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/matches", r.URL.Path)
		w.Write([]byte(`{
			"success": true,
			"data": {"matches": [
				{"id": "m1", "homeScore": 2, "awayScore": 1, "minute": 67, "status": "SECOND_HALF"},
				{"id": "m2", "status": "NOT_STARTED"}
			]}
		}`))
	}))
	defer srv.Close()

	matches, err := NewClient(srv.URL).FetchMatches(context.Background())
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "m1", matches[0].ID)
	assert.Equal(t, 2, matches[0].HomeScore)
	assert.Equal(t, models.StatusSecondHalf, matches[0].Status)
}

func TestFetchLiveMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/matches/live", r.URL.Path)
		w.Write([]byte(`{"success": true, "data": {"matches": [{"id": "m1", "status": "FIRST_HALF"}]}}`))
	}))
	defer srv.Close()

	matches, err := NewClient(srv.URL).FetchLiveMatches(context.Background())
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.True(t, matches[0].Status.IsLive())
}

func TestFetchMatchDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/matches/m1", r.URL.Path)
		w.Write([]byte(`{
			"success": true,
			"data": {
				"id": "m1",
				"homeTeam": {"id": "t1", "name": "Arsenal", "shortName": "ARS"},
				"awayTeam": {"id": "t2", "name": "Chelsea", "shortName": "CHE"},
				"homeScore": 1, "awayScore": 0, "minute": 30, "status": "FIRST_HALF",
				"events": [{"id": "e1", "type": "GOAL", "minute": 21, "team": "home", "player": "Saka"}],
				"statistics": {"possession": {"home": 58, "away": 42}}
			}
		}`))
	}))
	defer srv.Close()

	detail, err := NewClient(srv.URL).FetchMatchDetail(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "Arsenal", detail.HomeTeam.Name)
	require.Len(t, detail.Events, 1)
	assert.Equal(t, models.EventGoal, detail.Events[0].Type)
	assert.Equal(t, 58, detail.Statistics.Possession.Home)
}

func TestFetchMatchDetailNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchMatchDetail(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrMatchNotFound)
}

func TestEnvelopeFailureSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": "database offline"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchMatches(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database offline")
}

func TestServerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchMatches(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	assert.True(t, NewClient(srv.URL).Health(context.Background()))

	srv.Close()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.False(t, NewClient(srv.URL).Health(ctx))
}

func TestContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewClient(srv.URL).FetchMatches(ctx)
	assert.Error(t, err)
}
