package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{"1", 1_000_000_000, false},
		{"1.5", 1_500_000_000, false},
		{" .25 ", 250_000_000, false},
		{"0.000000001", 1, false},
		{"0.0000000001", 0, true},
		{"0", 0, true},
		{"", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAmount(tt.in, 9)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", formatAmount(0, 9))
	assert.Equal(t, "1", formatAmount(1_000_000_000, 9))
	assert.Equal(t, "0.000000001", formatAmount(1, 9))
	assert.Equal(t, "35777087.63999664", formatAmount(35777087639996640, 9))
	assert.Equal(t, "42", formatAmount(42, 0))
}
