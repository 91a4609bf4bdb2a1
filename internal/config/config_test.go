package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nvimsul/internal/config"
	"github.com/aretw0/nvimsul/pkg/domain"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "nvim", cfg.NvimCommand)
	assert.Equal(t, 5*time.Second, cfg.RPCTimeout)
	assert.Equal(t, domain.DefaultLearnParams(), cfg.LearnParams())
	assert.Equal(t, config.StoreMemory, cfg.Store)
	assert.Empty(t, cfg.File)

	a, err := cfg.ParsedAlphabet()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAlphabet().Strings(), a.Strings())
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nvimsul.yaml"), []byte(`
walk_len: 4
walks_per_state: 20
seed: 7
rpc_timeout: 2s
alphabet: ["v", "<Esc>", ":"]
`), 0o644))
	t.Setenv("NVIMSUL_WALK_LEN", "6")
	t.Setenv("NVIMSUL_ALGORITHM", "explore")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("walks-per-state", 300, "")
	flags.Uint64("seed", 100, "")
	require.NoError(t, flags.Parse([]string{"--walks-per-state=9"}))

	cfg, err := config.Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "nvimsul.yaml", cfg.File)
	assert.Equal(t, 9, cfg.WalksPerState, "flag wins")
	assert.Equal(t, 6, cfg.WalkLen, "env beats file")
	assert.Equal(t, uint64(7), cfg.Seed, "unset flag does not override file")
	assert.Equal(t, "explore", cfg.Algorithm)
	assert.Equal(t, 2*time.Second, cfg.RPCTimeout)
	assert.Equal(t, []string{"v", "<Esc>", ":"}, cfg.Alphabet)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Run("Unknown Store", func(t *testing.T) {
		t.Setenv("NVIMSUL_STORE", "sqlite")
		_, err := config.Load("", nil)
		assert.Error(t, err)
	})

	t.Run("Duplicate Symbols", func(t *testing.T) {
		path := filepath.Join(dir, "dup.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`alphabet: ["v", "v"]`), 0o644))
		_, err := config.Load(path, nil)
		assert.Error(t, err)
	})

	t.Run("Missing Explicit File", func(t *testing.T) {
		_, err := config.Load(filepath.Join(dir, "nope.yaml"), nil)
		assert.Error(t, err)
	})
}
