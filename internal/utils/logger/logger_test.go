package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rovshanmuradov/bonding-curve/internal/types"
)

func TestNew_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curved.log")
	cfg := DefaultConfig()
	cfg.LogFile = path
	cfg.Compress = false

	l, err := New(cfg)
	require.NoError(t, err)
	l.Info("hello", zap.String("k", "v"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"level":"INFO"`)
}

func TestNew_RejectsBadLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogFile = ""
	cfg.Level = "loud"
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestWithPoolAndOperation(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	pool := &types.LiquidityPool{
		Address: solana.NewWallet().PublicKey(),
		Token:   solana.NewWallet().PublicKey(),
	}
	WithOperation(WithPool(base, pool), "buy").Info("done")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, pool.Address.String(), fields["pool"])
	assert.Equal(t, "buy", fields["operation"])
	assert.NotEmpty(t, fields["correlation_id"])

	end := TrackPerformance(base, "quote")
	end()
	assert.Equal(t, 2, logs.Len())
}
