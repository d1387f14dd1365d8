package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingBundled(t *testing.T) {
	names, err := Pending(embedded)
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_collections.sql", names[0])
}

func TestPendingSortsAndSkipsOtherFiles(t *testing.T) {
	files := fstest.MapFS{
		"sql/002_more.sql":        {Data: []byte("SELECT 1;")},
		"sql/001_collections.sql": {Data: []byte("SELECT 1;")},
		"sql/README.md":           {Data: []byte("notes")},
	}

	names, err := Pending(files)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_collections.sql", "002_more.sql"}, names)
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "001", Version("001_collections.sql"))
	assert.Equal(t, "seed.sql", Version("seed.sql"))
}
