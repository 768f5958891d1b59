package config

import (
	"encoding/hex"
	"errors"
	"os"
	"runtime"
	"strings"
)

// Errors
var (
	ErrPayloadConflict = errors.New("specify only one of --payload and --payload-file")
)

// Abort heuristic defaults. The sequential scan and each parallel worker
// give up after AbortBudget attempts when the difficulty exceeds
// AbortDifficulty, checking the budget every AbortCheckEvery attempts.
const (
	DefaultAbortDifficulty = 20
	DefaultAbortCheckEvery = 1_000_000
	DefaultAbortBudget     = 100_000_000
)

// Config holds the application configuration
type Config struct {
	Workers     int
	Difficulty  uint32
	Nonce       uint64
	Payload     string
	PayloadFile string
	HexPayload  bool
	Verbose     bool
	LogFile     string
	LogInterval int // Logging interval in seconds

	// Abort heuristic tunables; defaults must stay fixed for
	// reproducible search behavior across runs.
	AbortDifficulty uint32
	AbortCheckEvery uint64
	AbortBudget     uint64
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Workers:         runtime.NumCPU(),
		LogInterval:     5, // Default 5 seconds
		AbortDifficulty: DefaultAbortDifficulty,
		AbortCheckEvery: DefaultAbortCheckEvery,
		AbortBudget:     DefaultAbortBudget,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Payload != "" && c.PayloadFile != "" {
		return ErrPayloadConflict
	}
	return nil
}

// GetPayload returns the payload bytes to hash. An empty payload is valid:
// with no payload flags set this returns an empty byte slice.
func (c *Config) GetPayload() ([]byte, error) {
	if c.PayloadFile != "" {
		return readPayloadFromFile(c.PayloadFile, c.HexPayload)
	}

	if c.HexPayload {
		// Remove 0x prefix if present
		code := c.Payload
		if len(code) > 2 && code[:2] == "0x" {
			code = code[2:]
		}
		return hex.DecodeString(code)
	}

	return []byte(c.Payload), nil
}

// readPayloadFromFile reads payload bytes from a file. In hex mode the file
// content is treated as hex text; otherwise the raw bytes are used verbatim.
func readPayloadFromFile(filename string, hexMode bool) ([]byte, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	if !hexMode {
		return content, nil
	}

	code := strings.TrimSpace(string(content))
	if len(code) > 2 && code[:2] == "0x" {
		code = code[2:]
	}
	return hex.DecodeString(code)
}
