package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flipd.toml")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.FileExists(t, path)
	require.Equal(t, ":8645", cfg.RPCAddress)
	require.NotEmpty(t, cfg.Owner)
	require.Equal(t, cfg.Owner, cfg.Wager.Provider)
	require.NoError(t, cfg.Validate())

	// Reloading parses the file it just wrote.
	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Owner, reloaded.Owner)
	require.Equal(t, cfg.Wager.BonusTreasury, reloaded.Wager.BonusTreasury)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flipd.toml")
	cfg, err := Load(path)
	require.NoError(t, err)

	cfg.Wager.FeeRateBps = 10_001
	require.Error(t, cfg.Validate())
	cfg.Wager.FeeRateBps = 350

	cfg.Wager.MinBet = "not-a-number"
	require.Error(t, cfg.Validate())
	cfg.Wager.MinBet = "-5"
	require.Error(t, cfg.Validate())
	cfg.Wager.MinBet = "10"

	cfg.Owner = "flp1invalid"
	require.Error(t, cfg.Validate())
}

func TestLoadAppliesDefaultsToSparseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flipd.toml")
	cfg, err := Load(path)
	require.NoError(t, err)

	sparse := "Owner = \"" + cfg.Owner + "\"\n\n[Wager]\nProvider = \"" + cfg.Owner + "\"\nCallbackGasLimit = 100\nTimeoutSeconds = 60\n"
	require.NoError(t, os.WriteFile(path, []byte(sparse), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":8645", loaded.RPCAddress)
	require.Equal(t, "info", loaded.LogLevel)
	require.Equal(t, uint64(2), loaded.Oracle.FulfillIntervalSeconds)
	require.Equal(t, "./flipnet-data", loaded.DataDir)
}

func TestNodeConfigConversion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flipd.toml")
	cfg, err := Load(path)
	require.NoError(t, err)
	cfg.Genesis = []GenesisAccount{{Address: cfg.Owner, FLP: "1000", SFLP: "500"}}

	nodeCfg, err := cfg.NodeConfig()
	require.NoError(t, err)
	require.Equal(t, uint64(350), nodeCfg.WagerParams.FeeRateBps)
	require.Equal(t, "1000000000000000", nodeCfg.WagerParams.MinBet.String())
	require.Len(t, nodeCfg.Genesis, 1)
	require.Equal(t, "1000", nodeCfg.Genesis[0].FLP.String())
	require.Equal(t, "500", nodeCfg.Genesis[0].SFLP.String())
	require.Zero(t, nodeCfg.Genesis[0].ZFLP.Sign())
	require.NotEqual(t, [20]byte{}, nodeCfg.WagerParams.Provider)
}
