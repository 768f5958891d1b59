package worker

import (
	"crypto/sha256"
	"hash"
	"sync/atomic"

	"github.com/powex/powex/internal/crypto"
	"github.com/powex/powex/pkg/types"
)

// Worker scans one contiguous partition of the nonce space.
// The found flag and winner slot are shared across all workers of a search;
// the flag transitions false→true at most once and only the worker that wins
// that transition writes the slot.
type Worker struct {
	config   *types.WorkerConfig
	attempts *atomic.Int64
	found    *atomic.Bool
	winner   *atomic.Uint64
	stop     *atomic.Bool

	// Pre-allocated buffers for performance
	hasher hash.Hash
	sumBuf [crypto.DigestLen]byte
	hexBuf [crypto.HexLen]byte
}

// NewWorker creates a new worker instance
func NewWorker(config *types.WorkerConfig, attempts *atomic.Int64, found *atomic.Bool, winner *atomic.Uint64, stop *atomic.Bool) *Worker {
	return &Worker{
		config:   config,
		attempts: attempts,
		found:    found,
		winner:   winner,
		stop:     stop,
		hasher:   sha256.New(),
	}
}

// Scan searches [start, end) in ascending order and publishes the first
// satisfying nonce through the shared flag and slot. The flag is polled
// before each hash so the scan stops promptly once any worker succeeds.
func (w *Worker) Scan(start, end uint64) types.WorkerResult {
	cfg := w.config
	var local uint64

	for nonce := start; nonce < end; nonce++ {
		if w.found.Load() || w.stop.Load() {
			return types.WorkerResult{Attempts: local}
		}

		digest := crypto.HashNonceInto(w.hasher, cfg.Payload, nonce, w.sumBuf[:], w.hexBuf[:])
		local++
		w.attempts.Add(1)

		if crypto.MeetsDifficultyBytes(digest, cfg.Difficulty) {
			if w.found.CompareAndSwap(false, true) {
				w.winner.Store(nonce)
			}
			return types.WorkerResult{Nonce: nonce, Found: true, Attempts: local}
		}

		// Give up on very high difficulties once the local budget is
		// spent. AbortCheckEvery 0 disables the heuristic.
		if cfg.Difficulty > cfg.AbortDifficulty && cfg.AbortCheckEvery > 0 &&
			local%cfg.AbortCheckEvery == 0 && local > cfg.AbortBudget {
			return types.WorkerResult{Aborted: true, Attempts: local}
		}
	}

	return types.WorkerResult{Attempts: local}
}
