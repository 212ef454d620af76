package passport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillpassorg/libskillpass-go/config"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{
		DataDir:  dir,
		LogLevel: "error",
	}

	l, err := Open(cfg)
	require.NoError(t, err)
	defer l.Close()

	_, err = l.Initialize(authority)
	require.NoError(t, err)

	// The store landed at the default path under the data dir.
	_, statErr := os.Stat(filepath.Join(dir, "ledger.db"))
	assert.NoError(t, statErr)
}

func TestOpen_RejectsBadConfig(t *testing.T) {
	_, err := Open(config.Config{DataDir: "", LogLevel: "info"})
	assert.ErrorIs(t, err, config.ErrEmptyDataDir)
}
