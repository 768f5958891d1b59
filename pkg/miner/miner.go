package miner

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/powex/powex/internal/config"
	"github.com/powex/powex/internal/crypto"
	"github.com/powex/powex/internal/logger"
	"github.com/powex/powex/pkg/types"
	"github.com/powex/powex/pkg/worker"
)

const (
	// MaxDifficulty is the sanity ceiling on required leading zeros;
	// a 64-character SHA-256 hex digest cannot demand more.
	MaxDifficulty = 64

	// MaxWorkers caps the partition count for parallel search
	MaxWorkers = 64
)

// Errors
var (
	ErrDifficultyTooHigh  = errors.New("difficulty too high (max 64)")
	ErrInvalidWorkerCount = errors.New("invalid worker count (1-64)")
	ErrSearchAborted      = errors.New("difficulty too high, search aborted")
	ErrNoSolutionFound    = errors.New("no valid nonce found")
	ErrStopped            = errors.New("search stopped")
)

// Range is a contiguous [Start, End) slice of the nonce space
type Range struct {
	Start uint64
	End   uint64
}

// Miner coordinates nonce searches over a fixed payload and difficulty.
// A Miner runs one search at a time; Stop is terminal.
type Miner struct {
	config       *config.Config
	logger       *logger.Logger
	attempts     atomic.Int64
	found        atomic.Bool
	winner       atomic.Uint64
	stopped      atomic.Bool
	wg           sync.WaitGroup
	workerConfig *types.WorkerConfig
}

// NewMiner creates a new miner instance. The payload is copied, so the
// caller may reuse its buffer after NewMiner returns.
func NewMiner(cfg *config.Config, log *logger.Logger) (*Miner, error) {
	payload, err := cfg.GetPayload()
	if err != nil {
		return nil, fmt.Errorf("payload not available: %w", err)
	}

	workerConfig := &types.WorkerConfig{
		Payload:         append([]byte(nil), payload...),
		Difficulty:      cfg.Difficulty,
		AbortDifficulty: cfg.AbortDifficulty,
		AbortCheckEvery: cfg.AbortCheckEvery,
		AbortBudget:     cfg.AbortBudget,
	}
	if workerConfig.AbortCheckEvery == 0 {
		workerConfig.AbortCheckEvery = config.DefaultAbortCheckEvery
	}
	if workerConfig.AbortBudget == 0 {
		workerConfig.AbortBudget = config.DefaultAbortBudget
	}

	return &Miner{
		config:       cfg,
		logger:       log,
		workerConfig: workerConfig,
	}, nil
}

// Compute runs the sequential search: ascending scan from nonce 0, so a
// successful result is always the smallest satisfying nonce.
func (m *Miner) Compute() (*types.Result, error) {
	if m.config.Difficulty > MaxDifficulty {
		return nil, ErrDifficultyTooHigh
	}
	return m.computeRange(0, math.MaxUint64)
}

// computeRange scans [start, end) on the caller's goroutine
func (m *Miner) computeRange(start, end uint64) (*types.Result, error) {
	m.reset()
	begin := time.Now()
	stopLog := m.startProgressLog(begin)
	defer stopLog()

	w := worker.NewWorker(m.workerConfig, &m.attempts, &m.found, &m.winner, &m.stopped)
	res := w.Scan(start, end)

	switch {
	case res.Found:
		return m.result(res.Nonce, begin), nil
	case m.stopped.Load():
		return nil, ErrStopped
	case res.Aborted:
		return nil, ErrSearchAborted
	default:
		return nil, ErrNoSolutionFound
	}
}

// ComputeParallel partitions the nonce space across the configured worker
// count and scans the partitions concurrently. The first worker to find a
// satisfying nonce wins; the result is a valid nonce but not necessarily
// the smallest one.
func (m *Miner) ComputeParallel() (*types.Result, error) {
	if m.config.Difficulty > MaxDifficulty {
		return nil, ErrDifficultyTooHigh
	}
	workers := m.config.Workers
	if workers < 1 || workers > MaxWorkers {
		return nil, ErrInvalidWorkerCount
	}

	m.reset()
	begin := time.Now()
	stopLog := m.startProgressLog(begin)
	defer stopLog()

	for i, r := range PartitionRanges(uint64(workers)) {
		m.wg.Add(1)
		go func(id int, start, end uint64) {
			defer m.wg.Done()
			// A worker fault counts as that worker finding nothing;
			// the join below must never wait on a dead worker.
			defer func() {
				if rec := recover(); rec != nil {
					m.logger.Errorf("worker %d failed: %v", id, rec)
				}
			}()

			w := worker.NewWorker(m.workerConfig, &m.attempts, &m.found, &m.winner, &m.stopped)
			res := w.Scan(start, end)
			if m.config.Verbose {
				m.logger.Debugf("worker %d done: found=%v aborted=%v attempts=%d",
					id, res.Found, res.Aborted, res.Attempts)
			}
		}(i, r.Start, r.End)
	}
	m.wg.Wait()

	if m.found.Load() {
		return m.result(m.winner.Load(), begin), nil
	}
	if m.stopped.Load() {
		return nil, ErrStopped
	}
	return nil, ErrNoSolutionFound
}

// Stop stops any running search. Safe to call from another goroutine and
// more than once.
func (m *Miner) Stop() {
	m.stopped.Store(true)
}

// GetAttempts returns the number of nonces tried so far
func (m *Miner) GetAttempts() int64 {
	return m.attempts.Load()
}

// PartitionRanges splits the nonce space into n contiguous, non-overlapping
// ranges; the last range extends to 2^64-1 to absorb the division remainder.
func PartitionRanges(n uint64) []Range {
	chunk := math.MaxUint64 / n
	ranges := make([]Range, n)
	for i := uint64(0); i < n; i++ {
		start := i * chunk
		end := start + chunk
		if i == n-1 {
			end = math.MaxUint64
		}
		ranges[i] = Range{Start: start, End: end}
	}
	return ranges
}

// Valid reports whether the nonce's digest meets the difficulty for the
// given payload
func Valid(payload []byte, nonce uint64, difficulty uint32) bool {
	return crypto.MeetsDifficulty(crypto.HashNonce(payload, nonce), difficulty)
}

// GetHash returns the hex digest of payload ‖ nonce
func GetHash(payload []byte, nonce uint64) string {
	return crypto.HashNonce(payload, nonce)
}

// ---- helpers ----

func (m *Miner) reset() {
	m.attempts.Store(0)
	m.found.Store(false)
	m.winner.Store(0)
}

func (m *Miner) result(nonce uint64, begin time.Time) *types.Result {
	return &types.Result{
		Nonce:    nonce,
		Digest:   crypto.HashNonce(m.workerConfig.Payload, nonce),
		Attempts: m.attempts.Load(),
		Duration: time.Since(begin),
	}
}

func (m *Miner) startProgressLog(start time.Time) func() {
	if !m.config.Verbose {
		return func() {}
	}

	interval := time.Duration(m.config.LogInterval) * time.Second
	ticker := time.NewTicker(interval)
	done := make(chan bool)
	go m.periodicLogger(ticker, done, start)

	return func() {
		ticker.Stop()
		close(done)
	}
}

// periodicLogger logs search progress at regular intervals
func (m *Miner) periodicLogger(ticker *time.Ticker, done chan bool, start time.Time) {
	for {
		select {
		case <-ticker.C:
			attempts := m.attempts.Load()
			elapsed := time.Since(start)

			// Calculate rate safely
			rate := 0.0
			if elapsed.Seconds() > 0 {
				rate = float64(attempts) / elapsed.Seconds()
			}

			m.logger.Printf("Progress: %d attempts, %.2f hashes/sec", attempts, rate)
		case <-done:
			return
		}
	}
}
