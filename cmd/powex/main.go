package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/powex/powex/internal/config"
	logpkg "github.com/powex/powex/internal/logger"
	minerpkg "github.com/powex/powex/pkg/miner"
	"github.com/powex/powex/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfg    = config.NewConfig()
	logger *logpkg.Logger
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "powex",
		Short: "SHA-256 proof-of-work nonce search",
		Long: `A command line utility for proof-of-work nonce discovery.
Searches for a 64-bit nonce whose SHA-256 digest of payload+nonce starts
with a required number of leading zero hex digits.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfg.Payload, "payload", "p", "", "Payload string (default: empty payload)")
	rootCmd.PersistentFlags().StringVarP(&cfg.PayloadFile, "payload-file", "F", "", "File containing the payload bytes")
	rootCmd.PersistentFlags().BoolVarP(&cfg.HexPayload, "hex", "x", false, "Interpret the payload as hex")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVarP(&cfg.LogFile, "log-file", "l", "", "Log file for progress tracking (default: stdout)")

	var computeCmd = &cobra.Command{
		Use:   "compute",
		Short: "Search for a nonce meeting the difficulty",
		Run:   runCompute,
	}
	computeCmd.Flags().Uint32VarP(&cfg.Difficulty, "difficulty", "d", 1, "Required leading zero hex digits (0-64)")
	computeCmd.Flags().IntVarP(&cfg.Workers, "workers", "w", runtime.NumCPU(), "Number of search workers; 1 runs the sequential scan and returns the smallest nonce")
	computeCmd.Flags().IntVarP(&cfg.LogInterval, "log-interval", "i", 5, "Logging interval in seconds (default: 5)")

	var validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Check whether a nonce meets the difficulty",
		Run:   runValidate,
	}
	validateCmd.Flags().Uint64VarP(&cfg.Nonce, "nonce", "n", 0, "Nonce to validate")
	validateCmd.Flags().Uint32VarP(&cfg.Difficulty, "difficulty", "d", 1, "Required leading zero hex digits")

	var hashCmd = &cobra.Command{
		Use:   "hash",
		Short: "Print the digest of payload and nonce",
		Run:   runHash,
	}
	hashCmd.Flags().Uint64VarP(&cfg.Nonce, "nonce", "n", 0, "Nonce to hash")

	rootCmd.AddCommand(computeCmd, validateCmd, hashCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCompute(cmd *cobra.Command, args []string) {
	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Setup logging
	setupLogging()
	logger.Printf("Starting nonce search with %d workers...", cfg.Workers)
	logger.Printf("Difficulty: %d leading zeros", cfg.Difficulty)

	miner, err := minerpkg.NewMiner(cfg, logger)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Set up signal handling for Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start the search in a goroutine
	type outcome struct {
		result *types.Result
		err    error
	}
	resultChan := make(chan outcome, 1)
	go func() {
		var o outcome
		if cfg.Workers == 1 {
			o.result, o.err = miner.Compute()
		} else {
			o.result, o.err = miner.ComputeParallel()
		}
		resultChan <- o
	}()

	// Wait for either completion or signal
	select {
	case o := <-resultChan:
		reportOutcome(o.result, o.err)
	case <-sigChan:
		// Interrupted by Ctrl+C
		logger.Println("Received interrupt signal (Ctrl+C). Stopping search...")
		miner.Stop()
		o := <-resultChan
		if errors.Is(o.err, minerpkg.ErrStopped) {
			logger.Printf("Search stopped after %d attempts.", miner.GetAttempts())
			os.Exit(1)
		}
		reportOutcome(o.result, o.err)
	}
}

func reportOutcome(result *types.Result, err error) {
	if err != nil {
		logger.Errorf("Search failed: %v", err)
		os.Exit(1)
	}

	logger.Printf("🎉 Found nonce!")
	logger.Printf("Nonce: %d", result.Nonce)
	logger.Printf("Digest: %s", result.Digest)
	logger.Printf("Attempts: %d", result.Attempts)
	logger.Printf("Duration: %v", result.Duration)

	// Calculate rate safely
	rate := 0.0
	if result.Duration.Seconds() > 0 {
		rate = float64(result.Attempts) / result.Duration.Seconds()
	}
	logger.Printf("Rate: %.2f hashes/sec", rate)
}

func runValidate(cmd *cobra.Command, args []string) {
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	payload, err := cfg.GetPayload()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if minerpkg.Valid(payload, cfg.Nonce, cfg.Difficulty) {
		fmt.Println("valid")
		return
	}
	fmt.Println("invalid")
	os.Exit(1)
}

func runHash(cmd *cobra.Command, args []string) {
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	payload, err := cfg.GetPayload()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(minerpkg.GetHash(payload, cfg.Nonce))
}

func setupLogging() {
	if cfg.LogFile != "" {
		// Log to file
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		logger = logpkg.NewWriter(file)
	} else {
		// Log to stdout
		logger = logpkg.New()
	}

	if cfg.Verbose {
		logger.SetLevel(zerolog.DebugLevel)
	}
}
