package report

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gitminer/internal/core/domain"
)

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)

	require.NoError(t, w.WriteResult(domain.FileResult{
		Dork:      "filename:.env",
		LocalPath: "raw/.env/octo_repo/.env",
		Item: domain.SearchResultItem{
			Repository: "octo/repo",
			Path:       ".env",
			HTMLURL:    "https://github.com/octo/repo/blob/main/.env",
			Snippet:    "DB_PASSWORD=\"a,b\"\nNEXT=1",
		},
	}))
	require.NoError(t, w.WriteResult(domain.FileResult{
		Dork: "filename:.env",
		Item: domain.SearchResultItem{Repository: "octo/other", Path: "x/.env"},
	}))
	require.NoError(t, w.Flush())
	assert.Equal(t, 2, w.Count())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{
		"filename:.env", "octo/repo", ".env", "raw/.env/octo_repo/.env",
		"https://github.com/octo/repo/blob/main/.env", "DB_PASSWORD=\"a,b\"\nNEXT=1",
	}, records[1])
	assert.Equal(t, "", records[2][3])
}

func TestCSVWriter_EmptyHasHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)

	require.NoError(t, w.Flush())
	require.NoError(t, w.Flush())

	assert.Equal(t, "dork,repository,path,local_path,url,snippet\n", buf.String())
}
