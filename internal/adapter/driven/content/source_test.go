package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/iatsite/internal/application"
	"github.com/ericfisherdev/iatsite/internal/domain/model"
	"github.com/ericfisherdev/iatsite/internal/domain/port/driven"
)

func TestEmbeddedSource_FixturesLoad(t *testing.T) {
	svc := application.NewContentService(NewEmbeddedSource())

	snap, err := svc.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "embedded", snap.Source)
	assert.NotEmpty(t, snap.Content.Courses)
	assert.NotEmpty(t, snap.Content.Testimonials)
	assert.NotEmpty(t, snap.Content.Companies)
	assert.NotEmpty(t, snap.Content.Placements)
	assert.Equal(t,
		[]string{model.CategoryAll, "Analytics", "Development", "Quality Assurance", "Cloud Computing", "Security"},
		snap.Catalog.Categories(),
	)

	stat, ok := snap.Content.StatByID("home-students-placed")
	require.True(t, ok)
	assert.Equal(t, model.Stat{ID: "home-students-placed", Label: "Students Placed", Number: 2293, Suffix: "+"}, stat)
}

func TestFSSource_MissingFeed(t *testing.T) {
	src := NewFSSource(fstest.MapFS{}, "test")

	_, err := src.ReadFeed(context.Background(), driven.FeedCourses)
	require.Error(t, err)
	assert.ErrorIs(t, err, driven.ErrFeedNotFound)
}

func TestFSSource_CancelledContext(t *testing.T) {
	src := NewFSSource(fstest.MapFS{driven.FeedCourses: {Data: []byte("[]")}}, "test")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.ReadFeed(ctx, driven.FeedCourses)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewDirSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, driven.FeedCourses), []byte(`[{"id":1}]`), 0o600))

	src, err := NewDirSource(dir)
	require.NoError(t, err)
	assert.Equal(t, "dir:"+dir, src.Describe())

	data, err := src.ReadFeed(context.Background(), driven.FeedCourses)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(data))
}

func TestNewDirSource_Errors(t *testing.T) {
	_, err := NewDirSource(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o600))
	_, err = NewDirSource(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}
