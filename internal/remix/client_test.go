package remix

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/mmcdole/netkin/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var movie = domain.Movie{ID: "l1", Title: "Midnight Run", Genre: "ACTION", Year: "2024", Author: "J. Doe"}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:      srv.URL + "/",
		APIKey:       "k",
		Timeout:      5 * time.Second,
		PollInterval: time.Millisecond,
	}, nil)
}

func TestNotConfigured(t *testing.T) {
	c := NewClient(Config{}, nil)
	assert.False(t, c.Configured())

	_, err := c.GeneratePoster(context.Background(), movie, Styles[0])
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = c.GenerateVideo(context.Background(), movie, "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGeneratePoster(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	var got generateRequest

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/posters", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		fmt.Fprintf(w, `{"mimeType":"image/png","data":%q}`, base64.StdEncoding.EncodeToString(png))
	}))

	res, err := c.GeneratePoster(context.Background(), movie, "Dark Noir")
	require.NoError(t, err)
	assert.Equal(t, KindPoster, res.Kind)
	assert.Equal(t, "image/png", res.MimeType)
	assert.Equal(t, png, res.Data)

	assert.Equal(t, "Dark Noir", got.Style)
	assert.Equal(t, "Midnight Run", got.Title)
	assert.Contains(t, got.Prompt, "Art Style: Dark Noir")
}

func TestGeneratePosterErrors(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	_, err := c.GeneratePoster(context.Background(), movie, Styles[0])
	assert.ErrorIs(t, err, ErrUnauthorized)

	c = newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"mimeType":"image/png"}`)
	}))
	_, err = c.GeneratePoster(context.Background(), movie, Styles[0])
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestGenerateVideoPollsUntilDone(t *testing.T) {
	var polls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/videos", func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, TeaserPrompt(movie), req.Prompt)
		fmt.Fprint(w, `{"operation":"op-1"}`)
	})
	mux.HandleFunc("/v1/operations/op-1", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 3 {
			fmt.Fprint(w, `{"done":false}`)
			return
		}
		fmt.Fprint(w, `{"done":true,"videoUri":"/files/op-1.mp4"}`)
	})
	mux.HandleFunc("/files/op-1.mp4", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("mp4-bytes"))
	})

	res, err := newTestClient(t, mux).GenerateVideo(context.Background(), movie, "")
	require.NoError(t, err)
	assert.Equal(t, KindTeaser, res.Kind)
	assert.Equal(t, []byte("mp4-bytes"), res.Data)
	assert.Equal(t, int32(3), polls.Load())
}

func TestGenerateVideoOperationError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/videos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"operation":"op-2"}`)
	})
	mux.HandleFunc("/v1/operations/op-2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"done":true,"error":{"message":"quota exhausted"}}`)
	})

	_, err := newTestClient(t, mux).GenerateVideo(context.Background(), movie, "custom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exhausted")
}

func TestGenerateVideoHonoursDeadline(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/videos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"operation":"slow"}`)
	})
	mux.HandleFunc("/v1/operations/slow", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"done":false}`)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := newTestClient(t, mux).GenerateVideo(ctx, movie, "")
	assert.Error(t, err)
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	for i := 0; i < failureThreshold+2; i++ {
		_, err := c.GeneratePoster(context.Background(), movie, Styles[0])
		assert.Error(t, err)
	}
	assert.Equal(t, int32(failureThreshold), hits.Load())
}

func TestSave(t *testing.T) {
	fs := afero.NewMemMapFs()

	path, err := Save(fs, "/out", "The  Dark Knight", Result{Kind: KindPoster, Data: []byte("img")})
	require.NoError(t, err)
	assert.Equal(t, "/out/The_Dark_Knight_poster.png", path)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), data)

	assert.Equal(t, "AC_DC_teaser.mp4", FileName("AC/DC", KindTeaser))
	assert.Equal(t, "untitled_poster.png", FileName("  ", KindPoster))
}
