package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, uint64(DefaultFee), cfg.Curve.FeePercentage)
	assert.Equal(t, DefaultProportion, cfg.Curve.Proportion)
	assert.Equal(t, solana.SolMint.String(), cfg.Curve.ExchangeTokenMint)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, DefaultBufferSize, cfg.Events.BufferSize)
}

func TestLoadConfig_YAMLAndEnv(t *testing.T) {
	admin := solana.NewWallet().PublicKey().String()
	collector := solana.NewWallet().PublicKey().String()

	path := writeConfig(t, "config.yaml", `
server:
  addr: ":9090"
storage:
  driver: redis
  redis:
    addr: "localhost:6379"
curve:
  bootstrap: true
  admin: "`+admin+`"
  fee_percentage: 250
  fee_collector: "`+collector+`"
  fee_sol_collector: "`+collector+`"
nats:
  url: "nats://127.0.0.1:4222"
ledger:
  genesis:
    - owner: "`+admin+`"
      amount: 5000000000
`)

	t.Setenv("CURVE_AMM_SERVER_ADDR", ":7070")
	t.Setenv("CURVE_AMM_CURVE_IS_LOCKDOWN", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr, "env overrides the file")
	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "localhost:6379", cfg.Storage.Redis.Addr)
	assert.True(t, cfg.Curve.IsLockdown)

	require.Len(t, cfg.Ledger.Genesis, 1)
	assert.Equal(t, admin, cfg.Ledger.Genesis[0].Owner)
	assert.Equal(t, uint64(5_000_000_000), cfg.Ledger.Genesis[0].Amount)

	params, gotAdmin, err := cfg.Curve.Params()
	require.NoError(t, err)
	assert.Equal(t, admin, gotAdmin.String())
	assert.Equal(t, uint64(250), params.FeePercentage)
	assert.Equal(t, collector, params.FeeCollector.String())
	assert.Equal(t, solana.SolMint, params.ExchangeTokenMint)
	assert.True(t, params.IsLockdown)
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown driver", "storage:\n  driver: sqlite\n"},
		{"postgres without dsn", "storage:\n  driver: postgres\n"},
		{"redis without addr", "storage:\n  driver: redis\n"},
		{"bad nats scheme", "nats:\n  url: \"http://localhost:4222\"\n"},
		{"bad program id", "program_id: \"not-base58-0OIl\"\n"},
		{"bootstrap without admin", "curve:\n  bootstrap: true\n"},
		{"genesis bad owner", "ledger:\n  genesis:\n    - owner: \"nope0\"\n      amount: 1\n"},
		{"bootstrap with zero fee", "curve:\n  bootstrap: true\n  fee_percentage: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, "config.yaml", tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
