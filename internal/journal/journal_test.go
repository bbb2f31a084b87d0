// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/inout-renumber/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	cfg := types.JournalConfig{
		Path:       filepath.Join(t.TempDir(), "state", "journal.db"),
		MaxResults: 2,
	}
	store, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

var baseTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func sampleRecords() []types.RunRecord {
	return []types.RunRecord{
		{
			Source: "session1.txt", Mode: types.ModePrint, Status: types.RunChanged,
			InMarkers: 4, OutMarkers: 3, Resets: 1, FinalNumber: 12,
			StartedAt: baseTime, Duration: 1500 * time.Microsecond,
		},
		{
			Source: "session2.txt", Mode: types.ModeWrite, Status: types.RunUnchanged,
			InMarkers: 2, OutMarkers: 2, FinalNumber: 2,
			StartedAt: baseTime.Add(time.Second),
		},
		{
			Source: "missing.txt", Mode: types.ModePrint, Status: types.RunFailed,
			Error:     "stat missing.txt: no such file or directory",
			StartedAt: baseTime.Add(2 * time.Second),
		},
	}
}

func recordAll(t *testing.T, s *Store) {
	t.Helper()
	for _, rec := range sampleRecords() {
		require.NoError(t, s.Record(context.Background(), rec))
	}
}

// --- tests ---

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open(types.JournalConfig{})
	require.Error(t, err)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	s, err := Open(types.JournalConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), sampleRecords()[0]))
	require.NoError(t, s.Close())

	s, err = Open(types.JournalConfig{Path: path})
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Recent(context.Background(), QueryOptions{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, path, s.Path())
}

func TestRecordRoundTrip(t *testing.T) {
	s := testStore(t)
	want := sampleRecords()[0]
	require.NoError(t, s.Record(context.Background(), want))

	got, err := s.Recent(context.Background(), QueryOptions{})
	require.NoError(t, err)
	require.Len(t, got, 1)

	rec := got[0]
	assert.Equal(t, want.Source, rec.Source)
	assert.Equal(t, want.Mode, rec.Mode)
	assert.Equal(t, want.Status, rec.Status)
	assert.Equal(t, want.InMarkers, rec.InMarkers)
	assert.Equal(t, want.OutMarkers, rec.OutMarkers)
	assert.Equal(t, want.Resets, rec.Resets)
	assert.Equal(t, want.FinalNumber, rec.FinalNumber)
	assert.Equal(t, want.Duration, rec.Duration)
	assert.Empty(t, rec.Error)
	assert.True(t, want.StartedAt.Equal(rec.StartedAt), "started_at = %v, want %v", rec.StartedAt, want.StartedAt)
}

func TestRecent(t *testing.T) {
	s := testStore(t)
	recordAll(t, s)

	tests := []struct {
		name        string
		opts        QueryOptions
		wantSources []string
	}{
		{
			name:        "default limit newest first",
			opts:        QueryOptions{},
			wantSources: []string{"missing.txt", "session2.txt"},
		},
		{
			name:        "explicit limit",
			opts:        QueryOptions{MaxResults: 10},
			wantSources: []string{"missing.txt", "session2.txt", "session1.txt"},
		},
		{
			name:        "by status",
			opts:        QueryOptions{Status: types.RunFailed},
			wantSources: []string{"missing.txt"},
		},
		{
			name:        "by source",
			opts:        QueryOptions{Source: "session1.txt"},
			wantSources: []string{"session1.txt"},
		},
		{
			name: "no match",
			opts: QueryOptions{Source: "nope.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Recent(context.Background(), tt.opts)
			require.NoError(t, err)

			var sources []string
			for _, r := range got {
				sources = append(sources, r.Source)
			}
			assert.Equal(t, tt.wantSources, sources)
		})
	}
}

func TestRecent_FailedRecordKeepsError(t *testing.T) {
	s := testStore(t)
	recordAll(t, s)

	got, err := s.Recent(context.Background(), QueryOptions{Status: types.RunFailed})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Error, "no such file")
}

func TestExportYAML(t *testing.T) {
	s := testStore(t)
	recordAll(t, s)

	var buf bytes.Buffer
	require.NoError(t, s.ExportYAML(context.Background(), &buf, QueryOptions{}))

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3, "export ignores the default result limit")
	assert.Equal(t, "missing.txt", got[0]["source"])
	assert.Equal(t, 12, got[2]["final_number"])
}

func TestExportJSON(t *testing.T) {
	s := testStore(t)
	recordAll(t, s)

	var buf bytes.Buffer
	require.NoError(t, s.ExportJSON(context.Background(), &buf, QueryOptions{Status: types.RunChanged}))

	var got []types.RunRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "session1.txt", got[0].Source)
	assert.Equal(t, 1, got[0].Resets)
}

func TestExportJSON_Empty(t *testing.T) {
	s := testStore(t)

	var buf bytes.Buffer
	require.NoError(t, s.ExportJSON(context.Background(), &buf, QueryOptions{}))
	assert.Equal(t, "[]\n", buf.String())
}
