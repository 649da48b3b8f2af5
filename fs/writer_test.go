package fs_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/harvestlabs/harvest"
	"github.com/harvestlabs/harvest/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOutput() *harvest.Output {
	return &harvest.Output{
		TeamID: "aline123",
		Items: []harvest.OutputItem{
			{
				Title:       "Post A",
				Content:     "Body of post A.",
				ContentType: harvest.ContentTypeBlog,
				SourceURL:   "https://example.com/blog/a",
				Author:      "Ada",
				UserID:      "user-1",
			},
		},
	}
}

func TestWriter_WriteOutput(t *testing.T) {
	t.Parallel()

	t.Run("writes a round-trippable JSON document", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out", "items.json")

		w := fs.NewWriter()
		require.NoError(t, w.WriteOutput(path, sampleOutput()))

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var got harvest.Output
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, *sampleOutput(), got)
	})

	t.Run("serializes empty optional fields as empty strings", func(t *testing.T) {
		t.Parallel()

		doc := sampleOutput()
		doc.Items[0].Author = ""
		doc.Items[0].UserID = ""
		path := filepath.Join(t.TempDir(), "items.json")

		w := fs.NewWriter()
		require.NoError(t, w.WriteOutput(path, doc))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"author": ""`)
		assert.Contains(t, string(data), `"user_id": ""`)
		assert.NotContains(t, string(data), "null")
	})

	t.Run("rejects invalid documents without writing", func(t *testing.T) {
		t.Parallel()

		doc := sampleOutput()
		doc.TeamID = ""
		path := filepath.Join(t.TempDir(), "items.json")

		w := fs.NewWriter()
		err := w.WriteOutput(path, doc)
		require.Error(t, err)
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))

		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("overwrites an existing file atomically", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "items.json")
		require.NoError(t, os.WriteFile(path, []byte("old contents"), 0644))

		w := fs.NewWriter()
		require.NoError(t, w.WriteOutput(path, sampleOutput()))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "old contents")
		assert.Contains(t, string(data), `"team_id": "aline123"`)
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := fs.NewWriter()
		require.NoError(t, w.WriteOutput(filepath.Join(dir, "items.json"), sampleOutput()))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "items.json", entries[0].Name())
	})
}
