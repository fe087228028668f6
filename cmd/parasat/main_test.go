package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/parasat/sat"
)

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parasat.yaml")
	content := "threads: 4\nlbd_share: 8\nvar_decay: 0.9\ntime_s: 30\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := sat.DefaultConfig()
	require.NoError(t, loadConfigFile(path, &cfg))

	require.Equal(t, 4, cfg.Threads)
	require.Equal(t, 8, cfg.TierLBDShared)
	require.Equal(t, 0.9, cfg.VarDecay)
	require.Equal(t, 30*time.Second, cfg.TimeLimit)

	// Fields absent from the file are left at their defaults.
	require.Equal(t, sat.DefaultConfig().TierSizeShared, cfg.TierSizeShared)
}

func TestLoadConfigFileRejectsMissingPath(t *testing.T) {
	cfg := sat.DefaultConfig()
	err := loadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"), &cfg)
	require.Error(t, err)
}
