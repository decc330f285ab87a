package filex

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadString(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")

	require.NoError(t, WriteString(path, "abc123\n"))

	got, err := ReadString(path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)
}

func TestReadString_MissingFile(t *testing.T) {
	got, err := ReadString(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Equal(t, "", got)
}
