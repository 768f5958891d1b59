package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.Greater(t, cfg.Workers, 0)
	assert.Equal(t, 5, cfg.LogInterval)
	assert.Equal(t, uint32(DefaultAbortDifficulty), cfg.AbortDifficulty)
	assert.Equal(t, uint64(DefaultAbortCheckEvery), cfg.AbortCheckEvery)
	assert.Equal(t, uint64(DefaultAbortBudget), cfg.AbortBudget)
}

func TestValidatePayloadConflict(t *testing.T) {
	cfg := NewConfig()
	cfg.Payload = "inline"
	cfg.PayloadFile = "some-file"
	assert.ErrorIs(t, cfg.Validate(), ErrPayloadConflict)

	cfg.PayloadFile = ""
	assert.NoError(t, cfg.Validate())
}

func TestGetPayloadInline(t *testing.T) {
	cfg := NewConfig()
	cfg.Payload = "hello"
	payload, err := cfg.GetPayload()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), payload)
}

func TestGetPayloadEmpty(t *testing.T) {
	cfg := NewConfig()
	payload, err := cfg.GetPayload()
	require.NoError(t, err)
	assert.Empty(t, payload)
}

func TestGetPayloadHex(t *testing.T) {
	cfg := NewConfig()
	cfg.HexPayload = true

	cfg.Payload = "0xdeadbeef"
	payload, err := cfg.GetPayload()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, payload)

	cfg.Payload = "cafe"
	payload, err = cfg.GetPayload()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xca, 0xfe}, payload)

	cfg.Payload = "not hex"
	_, err = cfg.GetPayload()
	assert.Error(t, err)
}

func TestGetPayloadFromFile(t *testing.T) {
	dir := t.TempDir()

	rawFile := filepath.Join(dir, "payload.bin")
	require.NoError(t, os.WriteFile(rawFile, []byte{0x01, 0x02, 0x03}, 0o644))

	cfg := NewConfig()
	cfg.PayloadFile = rawFile
	payload, err := cfg.GetPayload()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, payload)

	hexFile := filepath.Join(dir, "payload.hex")
	require.NoError(t, os.WriteFile(hexFile, []byte("0xbeef\n"), 0o644))

	cfg = NewConfig()
	cfg.PayloadFile = hexFile
	cfg.HexPayload = true
	payload, err = cfg.GetPayload()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xbe, 0xef}, payload)
}

func TestGetPayloadMissingFile(t *testing.T) {
	cfg := NewConfig()
	cfg.PayloadFile = filepath.Join(t.TempDir(), "does-not-exist")
	_, err := cfg.GetPayload()
	assert.Error(t, err)
}
