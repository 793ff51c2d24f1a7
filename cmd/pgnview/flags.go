// flags.go - Command-line flag definitions and configuration
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/pgnview/pgnview/internal/config"
)

var (
	// Output options
	outputFile = flag.String("o", "", "Output file (default: stdout)")
	lineLength = flag.Int("w", 80, "Maximum line length")
	fensOutput = flag.Bool("fens", false, "Output the mainline as one position (FEN) per move")

	// Content options
	noComments   = flag.Bool("C", false, "Don't keep comments")
	noNAGs       = flag.Bool("N", false, "Don't keep NAGs or evaluation glyphs")
	commentStyle = flag.String("leading", "float", "Leading comment placement: float, parent")

	// Parsing options
	startFEN = flag.String("fen", "", "Starting position for all games (default: standard)")

	// Logging
	logFile = flag.String("l", "", "Write diagnostics to log file (rotated)")
	verbose = flag.Bool("v", false, "Verbose diagnostics")
	quiet   = flag.Bool("s", false, "Silent mode (no game count)")

	// Other options
	configFile = flag.String("config", "", "Config file (YAML) with defaults for these options")
	help       = flag.Bool("h", false, "Show help")
	version    = flag.Bool("version", false, "Show version")

	// Performance options
	workers = flag.Int("workers", 0, "Number of parse workers (0 = one per CPU core)")
)

// loadConfigFile layers a viper config file under the flags: file values
// become defaults, explicitly set flags win.
func loadConfigFile() error {
	if *configFile == "" {
		return nil
	}
	v := viper.New()
	v.SetConfigFile(*configFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config %s: %w", *configFile, err)
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if v.IsSet("width") && !set["w"] {
		*lineLength = v.GetInt("width")
	}
	if v.IsSet("workers") && !set["workers"] {
		*workers = v.GetInt("workers")
	}
	if v.IsSet("no_comments") && !set["C"] {
		*noComments = v.GetBool("no_comments")
	}
	if v.IsSet("no_nags") && !set["N"] {
		*noNAGs = v.GetBool("no_nags")
	}
	if v.IsSet("leading") && !set["leading"] {
		*commentStyle = v.GetString("leading")
	}
	if v.IsSet("start_fen") && !set["fen"] {
		*startFEN = v.GetString("start_fen")
	}
	if v.IsSet("log_file") && !set["l"] {
		*logFile = v.GetString("log_file")
	}
	return nil
}

// buildOptions translates the flag surface into parser options.
func buildOptions() *config.Options {
	opts := config.NewOptions()
	opts.StartFEN = *startFEN
	opts.DropComments = *noComments
	opts.DropAnnotations = *noNAGs
	if *commentStyle == "parent" {
		opts.LeadingComments = config.AttachToParent
	}
	return opts
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] [file.pgn ...]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Parses PGN games and re-emits their movetext, or positions with -fens.\n")
	fmt.Fprintf(os.Stderr, "Reads stdin when no files are given.\n\nOptions:\n")
	flag.PrintDefaults()
}
