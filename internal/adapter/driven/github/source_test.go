package github_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghAdapter "github.com/ericfisherdev/iatsite/internal/adapter/driven/github"
	"github.com/ericfisherdev/iatsite/internal/domain/port/driven"
)

// newTestSource creates a Source backed by the given httptest handler.
func newTestSource(t *testing.T, handler http.Handler) *ghAdapter.Source {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	src, err := ghAdapter.NewSourceWithHTTPClient(
		server.Client(),
		server.URL+"/",
		"iat/site-content",
		"main",
		"/content/",
	)
	require.NoError(t, err)
	return src
}

type contentJSON struct {
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Content  string `json:"content"`
}

func TestSource_ReadFeed(t *testing.T) {
	var gotRef string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/iat/site-content/contents/content/courses.json", func(w http.ResponseWriter, r *http.Request) {
		gotRef = r.URL.Query().Get("ref")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(contentJSON{
			Type:     "file",
			Encoding: "base64",
			Name:     "courses.json",
			Path:     "content/courses.json",
			Content:  base64.StdEncoding.EncodeToString([]byte(`[{"id":1,"category":"Analytics"}]`)),
		})
	})

	src := newTestSource(t, mux)
	data, err := src.ReadFeed(context.Background(), driven.FeedCourses)

	require.NoError(t, err)
	assert.Equal(t, "main", gotRef)
	assert.JSONEq(t, `[{"id":1,"category":"Analytics"}]`, string(data))
}

func TestSource_ReadFeed_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	})

	src := newTestSource(t, mux)
	_, err := src.ReadFeed(context.Background(), driven.FeedPlacements)

	require.Error(t, err)
	assert.ErrorIs(t, err, driven.ErrFeedNotFound)
}

func TestSource_ReadFeed_Directory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/iat/site-content/contents/content/site.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"type":"file","name":"a.yaml","path":"content/site.yaml/a.yaml"}]`))
	})

	src := newTestSource(t, mux)
	_, err := src.ReadFeed(context.Background(), driven.FeedSite)

	require.Error(t, err)
	assert.ErrorIs(t, err, driven.ErrFeedNotFound)
}

func TestSource_ReadFeed_ServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	src := newTestSource(t, mux)
	_, err := src.ReadFeed(context.Background(), driven.FeedCourses)

	require.Error(t, err)
	assert.NotErrorIs(t, err, driven.ErrFeedNotFound)
}

func TestSource_Describe(t *testing.T) {
	src := newTestSource(t, http.NotFoundHandler())
	assert.Equal(t, "github:iat/site-content@main/content", src.Describe())
}

func TestNewSource_InvalidRepo(t *testing.T) {
	for _, name := range []string{"", "noslash", "/repo", "owner/"} {
		_, err := ghAdapter.NewSource(name, "main", "content", "")
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), "expected owner/repo")
	}
}
