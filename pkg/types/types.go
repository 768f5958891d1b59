package types

import "time"

// Result represents a completed nonce search
type Result struct {
	Nonce    uint64
	Digest   string
	Attempts int64
	Duration time.Duration
}

// WorkerConfig contains configuration shared by search workers
type WorkerConfig struct {
	Payload    []byte
	Difficulty uint32

	// Abort heuristic, applied per worker relative to its own partition
	AbortDifficulty uint32
	AbortCheckEvery uint64
	AbortBudget     uint64
}

// WorkerResult represents the outcome of one partition scan
type WorkerResult struct {
	Nonce    uint64 // winning nonce, only meaningful when Found
	Found    bool
	Aborted  bool   // local attempt budget exhausted
	Attempts uint64 // nonces tried by this worker
}
