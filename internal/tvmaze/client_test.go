package tvmaze

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newUpstream serves a minimal fake of the catalog API.
func newUpstream(t *testing.T, register func(r *gin.Engine)) *Client {
	t.Helper()
	r := gin.New()
	register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, WithRetryDelay(time.Millisecond))
	require.NoError(t, err)
	return c
}

func TestEndpointURL(t *testing.T) {
	base, err := url.Parse("https://api.tvmaze.com")
	require.NoError(t, err)

	assert.Equal(t, "https://api.tvmaze.com/shows?page=3", ShowsByPage(3).URL(base))
	assert.Equal(t, "https://api.tvmaze.com/search/shows?q=the+office", SearchShows("the office").URL(base))
	assert.Equal(t, "https://api.tvmaze.com/shows/82/seasons", SeasonsForShow(82).URL(base))
	assert.Equal(t, "https://api.tvmaze.com/seasons/1/episodes", EpisodesForSeason(1).URL(base))

	mirror, err := url.Parse("http://127.0.0.1:8787/api/")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8787/api/shows/1/seasons", SeasonsForShow(1).URL(mirror))
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	_, err := NewClient("api.tvmaze.com")
	assert.Error(t, err)
}

func TestWithTimeout_CopiesSuppliedClient(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}
	c, err := NewClient("https://api.tvmaze.com", WithHTTPClient(shared), WithTimeout(3*time.Second))
	require.NoError(t, err)

	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Equal(t, 3*time.Second, c.httpClient.Timeout)
	assert.NotSame(t, shared, c.httpClient)
}

func TestRepository_ShowsByPage(t *testing.T) {
	c := newUpstream(t, func(r *gin.Engine) {
		r.GET("/shows", func(ctx *gin.Context) {
			if ctx.Query("page") == "9" {
				ctx.JSON(http.StatusNotFound, gin.H{"name": "Not Found", "status": 404})
				return
			}
			ctx.String(http.StatusOK, `[{"id":1,"name":"Under the Dome","status":"Ended","rating":{"average":6.5}},{"id":2,"name":"Person of Interest","status":"Running"}]`)
		})
	})
	repo := NewRepository(c)

	shows, err := repo.ShowsByPage(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, shows, 2)
	assert.Equal(t, "Under the Dome", shows[0].Name)
	assert.Equal(t, 6.5, shows[0].Rating.Value())

	shows, err = repo.ShowsByPage(context.Background(), 9)
	require.NoError(t, err)
	assert.Empty(t, shows, "past the last page is an empty page")
}

func TestRepository_SearchDropsNullShows(t *testing.T) {
	c := newUpstream(t, func(r *gin.Engine) {
		r.GET("/search/shows", func(ctx *gin.Context) {
			assert.Equal(t, "girls", ctx.Query("q"))
			ctx.String(http.StatusOK, `[{"score":0.9,"show":{"id":139,"name":"Girls"}},{"score":0.2,"show":null}]`)
		})
	})

	results, err := NewRepository(c).SearchShows(context.Background(), "girls")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 139, results[0].Show.ID)
}

func TestRepository_SeasonsAndEpisodes(t *testing.T) {
	c := newUpstream(t, func(r *gin.Engine) {
		r.GET("/shows/:id/seasons", func(ctx *gin.Context) {
			ctx.String(http.StatusOK, `[{"id":1,"number":1},{"id":2,"number":2,"name":"Two"}]`)
		})
		r.GET("/seasons/:id/episodes", func(ctx *gin.Context) {
			ctx.String(http.StatusOK, `[{"id":10,"name":"Pilot","season":1,"number":1}]`)
		})
	})
	repo := NewRepository(c)

	seasons, err := repo.SeasonsForShow(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, seasons, 2)

	episodes, err := repo.EpisodesForSeason(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, episodes, 1)
	assert.Equal(t, "S01E01", episodes[0].Code())
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	c := newUpstream(t, func(r *gin.Engine) {
		r.GET("/shows/:id/seasons", func(ctx *gin.Context) {
			if attempts.Add(1) < 3 {
				ctx.Status(http.StatusServiceUnavailable)
				return
			}
			ctx.String(http.StatusOK, `[]`)
		})
	})

	_, err := NewRepository(c).SeasonsForShow(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var attempts atomic.Int32
	c := newUpstream(t, func(r *gin.Engine) {
		r.GET("/shows/:id/seasons", func(ctx *gin.Context) {
			attempts.Add(1)
			ctx.String(http.StatusBadGateway, "upstream down")
		})
	})

	_, err := NewRepository(c).SeasonsForShow(context.Background(), 1)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindBackend, apiErr.Kind)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream down", string(apiErr.Body))
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var attempts atomic.Int32
	c := newUpstream(t, func(r *gin.Engine) {
		r.GET("/seasons/:id/episodes", func(ctx *gin.Context) {
			attempts.Add(1)
			ctx.Status(http.StatusNotFound)
		})
	})

	_, err := NewRepository(c).EpisodesForSeason(context.Background(), 5)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_DecodingError(t *testing.T) {
	c := newUpstream(t, func(r *gin.Engine) {
		r.GET("/shows", func(ctx *gin.Context) {
			ctx.String(http.StatusOK, `{"not":"a list"}`)
		})
	})

	_, err := NewRepository(c).ShowsByPage(context.Background(), 0)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindDecoding, apiErr.Kind)
}

func TestClient_CancelledContext(t *testing.T) {
	c := newUpstream(t, func(r *gin.Engine) {
		r.GET("/shows", func(ctx *gin.Context) {
			ctx.String(http.StatusOK, `[]`)
		})
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRepository(c).ShowsByPage(ctx, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
