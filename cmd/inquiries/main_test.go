package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqliteadapter "github.com/ericfisherdev/iatsite/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/iatsite/internal/application"
	"github.com/ericfisherdev/iatsite/internal/domain/model"
)

// seedDB creates a migrated database file holding the given inquiries.
func seedDB(t *testing.T, inquiries ...model.Inquiry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inquiries.db")

	db, err := sqliteadapter.NewDB(path)
	require.NoError(t, err)
	defer db.Close()
	_, err = sqliteadapter.RunMigrations(db.Writer)
	require.NoError(t, err)

	repo := sqliteadapter.NewInquiryRepo(db)
	for _, inq := range inquiries {
		require.NoError(t, repo.Create(context.Background(), inq))
	}
	return path
}

func inquiryAt(id string, minute int) model.Inquiry {
	return model.Inquiry{
		ID:        id,
		Name:      "Visitor " + id,
		Email:     id + "@example.com",
		Phone:     "+91 98765 43210",
		Message:   "Batch timings?",
		CreatedAt: time.Date(2026, 3, 1, 10, minute, 0, 0, time.UTC),
	}
}

func TestRun_ListsNewestFirst(t *testing.T) {
	path := seedDB(t, inquiryAt("a", 1), inquiryAt("b", 2), inquiryAt("c", 3))
	var out bytes.Buffer

	require.NoError(t, run([]string{"-db", path, "-n", "2", "-json"}, &out))

	var l listing
	require.NoError(t, json.Unmarshal(out.Bytes(), &l))
	assert.Equal(t, 3, l.Total)
	require.Len(t, l.Inquiries, 2)
	assert.Equal(t, "c", l.Inquiries[0].ID)
	assert.Equal(t, "b", l.Inquiries[1].ID)
}

func TestRun_TextListing(t *testing.T) {
	path := seedDB(t, inquiryAt("a", 1))
	var out bytes.Buffer

	require.NoError(t, run([]string{"-db", path}, &out))

	assert.Contains(t, out.String(), "1 stored, showing 1")
	assert.Contains(t, out.String(), "Visitor a <a@example.com>")
}

func TestRun_EmptyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.db")
	var out bytes.Buffer

	require.NoError(t, run([]string{"-db", path, "-json"}, &out))

	assert.JSONEq(t, `{"total":0,"inquiries":[]}`, out.String())
}

func TestRun_SingleInquiry(t *testing.T) {
	path := seedDB(t, inquiryAt("a", 1), inquiryAt("b", 2))
	var out bytes.Buffer

	require.NoError(t, run([]string{"-db", path, "-json", "a"}, &out))

	var got inquiryJSON
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "Visitor a", got.Name)
}

func TestRun_UnknownInquiry(t *testing.T) {
	path := seedDB(t)

	err := run([]string{"-db", path, "missing"}, &bytes.Buffer{})

	assert.ErrorIs(t, err, application.ErrInquiryNotFound)
}

func TestRun_NegativeLimit(t *testing.T) {
	err := run([]string{"-db", seedDB(t), "-n", "-1"}, &bytes.Buffer{})
	assert.Error(t, err)
}
