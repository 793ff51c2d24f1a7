// pgnview parses PGN game records into navigable game trees and re-emits
// them as movetext or as per-move positions.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pgnview/pgnview/internal/config"
	pgnerr "github.com/pgnview/pgnview/internal/errors"
	"github.com/pgnview/pgnview/internal/movetext"
	"github.com/pgnview/pgnview/internal/nav"
	"github.com/pgnview/pgnview/internal/parser"
	"github.com/pgnview/pgnview/internal/worker"
)

const programVersion = "0.1.0"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}
	if *version {
		fmt.Printf("pgnview version %s\n", programVersion)
		os.Exit(0)
	}

	if err := loadConfigFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger()
	defer logger.Sync() //nolint:errcheck // best-effort flush on exit

	opts := buildOptions()
	opts.Logger = logger

	out, closeOut, err := setupOutput()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeOut()

	games, err := collectGames(flag.Args(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(games) == 0 {
		fmt.Fprintf(os.Stderr, "Error: %v\n", pgnerr.ErrNoGame)
		os.Exit(1)
	}

	numWorkers := *workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	results := worker.ParseAll(games, opts, worker.WithWorkers(numWorkers))

	parsed := 0
	for _, res := range results {
		if res.Err != nil {
			logger.Warn("game skipped", zap.Int("game", res.Index+1), zap.Error(res.Err))
			continue
		}
		parsed++
		if *fensOutput {
			emitPositions(out, res, logger)
		} else {
			movetext.Render(res.Tree, out, *lineLength)
			fmt.Fprintln(out)
		}
	}

	if !*quiet {
		fmt.Fprintf(os.Stderr, "%d of %d game(s) parsed.\n", parsed, len(games))
	}
}

// setupLogger builds the diagnostic logger: rotated file logging with -l,
// stderr with -v, silent otherwise.
func setupLogger() *zap.Logger {
	if *logFile != "" {
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   *logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		})
		enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		level := zapcore.InfoLevel
		if *verbose {
			level = zapcore.DebugLevel
		}
		return zap.New(zapcore.NewCore(enc, sink, level))
	}
	if *verbose {
		cfg := zap.NewDevelopmentConfig()
		logger, err := cfg.Build()
		if err == nil {
			return logger
		}
	}
	return zap.NewNop()
}

// setupOutput opens the -o target, defaulting to stdout.
func setupOutput() (io.Writer, func(), error) {
	if *outputFile == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(*outputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file %s: %w", *outputFile, err)
	}
	return f, func() { f.Close() }, nil //nolint:errcheck // close on exit
}

// collectGames splits every input file (or stdin) into per-game chunks.
func collectGames(paths []string, logger *zap.Logger) ([]string, error) {
	if len(paths) == 0 {
		return parser.SplitGames(os.Stdin)
	}

	var games []string
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		chunk, err := parser.SplitGames(f)
		f.Close() //nolint:errcheck,gosec // read-only file
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		logger.Debug("input file split", zap.String("file", path), zap.Int("games", len(chunk)))
		games = append(games, chunk...)
	}
	return games, nil
}

// fenPrinter is a board widget that writes each rendered position as a
// line of output.
type fenPrinter struct {
	w io.Writer
}

func (p *fenPrinter) SetPosition(fen string, animate bool) {
	fmt.Fprintln(p.w, fen)
}

// emitPositions walks the game's mainline with a navigator wired to a
// printing widget, one position per move.
func emitPositions(out io.Writer, res worker.ParseResult, logger *zap.Logger) {
	opts := &config.Options{StartFEN: res.Tree.Root.FEN, Logger: logger}
	n := nav.New(res.Tree, &fenPrinter{w: out}, nil, opts)
	n.Render()
	for n.StepForward() {
	}
	fmt.Fprintln(out)
}
