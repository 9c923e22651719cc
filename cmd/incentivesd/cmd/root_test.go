package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openalpha/lp-incentives/config"
	"github.com/openalpha/lp-incentives/x/incentives/types"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root, closeLedger := NewRootCmd()
	defer func() { require.NoError(t, closeLedger()) }()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestInitWritesConfig(t *testing.T) {
	home := t.TempDir()

	_, err := execute(t, "init", "--home", home, "--admin", "treasury", "--chain-id", "lp-7")
	require.NoError(t, err)

	cfg, err := config.Load(home)
	require.NoError(t, err)
	require.Equal(t, "treasury", cfg.Admin)
	require.Equal(t, "lp-7", cfg.ChainID)

	// a second init refuses to overwrite
	_, err = execute(t, "init", "--home", home)
	require.Error(t, err)
}

func TestTxAndQueryAcrossRuns(t *testing.T) {
	home := t.TempDir()
	_, err := execute(t, "init", "--home", home)
	require.NoError(t, err)

	_, err = execute(t, "tx", "create-pool", "1", "1000", "--from", "admin", "--height", "5", "--home", home)
	require.NoError(t, err)

	out, err := execute(t, "query", "pool", "1", "--home", home)
	require.NoError(t, err)

	var pool types.Pool
	require.NoError(t, json.Unmarshal([]byte(out), &pool))
	require.Equal(t, uint64(1), pool.PoolID)
	require.Equal(t, "1000", pool.RewardPoolBalance.String())
	require.Equal(t, int64(5), pool.CreatedHeight)

	// heights never move backwards across restarts
	_, err = execute(t, "tx", "set-pool-active", "1", "false", "--from", "admin", "--height", "4", "--home", home)
	require.Error(t, err)

	_, err = execute(t, "tx", "create-pool", "2", "10", "--from", "mallory", "--home", home)
	require.ErrorIs(t, err, types.ErrOwnerOnly)
}

func TestExport(t *testing.T) {
	home := t.TempDir()
	_, err := execute(t, "init", "--home", home)
	require.NoError(t, err)

	_, err = execute(t, "tx", "create-pool", "3", "250", "--from", "admin", "--height", "1", "--home", home)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "genesis.json")
	_, err = execute(t, "export", "--home", home, "--output", path)
	require.NoError(t, err)

	bz, err := os.ReadFile(path)
	require.NoError(t, err)

	var genesis types.GenesisState
	require.NoError(t, json.Unmarshal(bz, &genesis))
	require.Len(t, genesis.Pools, 1)
	require.Equal(t, uint64(3), genesis.Pools[0].PoolID)

	// the export seeds a fresh ledger
	other := t.TempDir()
	_, err = execute(t, "init", "--home", other)
	require.NoError(t, err)

	out, err := execute(t, "query", "pool", "3", "--home", other, "--genesis", path)
	require.NoError(t, err)
	require.Contains(t, out, `"reward_pool_balance": "250"`)
}

func TestVersionSkipsLedger(t *testing.T) {
	out, err := execute(t, "version", "--home", filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	require.Contains(t, out, Version)
}
