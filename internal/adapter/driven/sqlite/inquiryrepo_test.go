package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/iatsite/internal/domain/model"
)

func makeInquiry(id string, createdAt time.Time) model.Inquiry {
	return model.Inquiry{
		ID:        id,
		Name:      "Asha Rao",
		Email:     "asha@example.com",
		Phone:     "+91 98765 43210",
		Course:    "Data Analytics",
		Message:   "When does the next batch start?",
		CreatedAt: createdAt,
	}
}

func TestInquiryRepo_CreateAndGetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInquiryRepo(db)
	ctx := context.Background()

	created := time.Date(2026, 3, 14, 9, 30, 0, 123456789, time.UTC)
	want := makeInquiry("inq-1", created)
	require.NoError(t, repo.Create(ctx, want))

	got, err := repo.GetByID(ctx, "inq-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Email, got.Email)
	assert.Equal(t, want.Phone, got.Phone)
	assert.Equal(t, want.Course, got.Course)
	assert.Equal(t, want.Message, got.Message)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
}

func TestInquiryRepo_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInquiryRepo(db)

	got, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInquiryRepo_Create_DuplicateID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInquiryRepo(db)
	ctx := context.Background()

	inq := makeInquiry("dup", time.Now())
	require.NoError(t, repo.Create(ctx, inq))

	err := repo.Create(ctx, inq)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert inquiry dup")
}

func TestInquiryRepo_ListRecent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInquiryRepo(db)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 5 {
		inq := makeInquiry(fmt.Sprintf("inq-%d", i), base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.Create(ctx, inq))
	}

	got, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "inq-4", got[0].ID)
	assert.Equal(t, "inq-3", got[1].ID)
	assert.Equal(t, "inq-2", got[2].ID)
}

func TestInquiryRepo_ListRecent_Empty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInquiryRepo(db)

	got, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = repo.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInquiryRepo_Count(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInquiryRepo(db)
	ctx := context.Background()

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, repo.Create(ctx, makeInquiry("a", time.Now())))
	require.NoError(t, repo.Create(ctx, makeInquiry("b", time.Now())))

	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := setupTestDB(t)

	version, err := RunMigrations(db.Writer)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}

func TestBuildDSN(t *testing.T) {
	assert.Equal(t, "file:site.db", buildDSN("file:site.db", nil, nil))
	assert.Equal(t,
		"file:site.db?mode=ro&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)",
		buildDSN("file:site.db", []string{"mode=ro"}, []string{"busy_timeout(5000)", "foreign_keys(ON)"}),
	)
}

func TestNewDB_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iatsite.db")

	db, err := NewDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, path, db.Path())
	version, err := RunMigrations(db.Writer)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	repo := NewInquiryRepo(db)
	require.NoError(t, repo.Create(context.Background(), makeInquiry("file-1", time.Now())))
	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"stored layout", "2026-02-03T04:05:06.000000007Z", time.Date(2026, 2, 3, 4, 5, 6, 7, time.UTC)},
		{"sqlite datetime", "2026-02-03 04:05:06", time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)},
		{"rfc3339 offset", "2026-02-03T09:35:06+05:30", time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTime(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}

	_, err := parseTime("yesterday")
	assert.Error(t, err)
}
