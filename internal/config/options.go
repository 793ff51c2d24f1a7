// Package config holds the option surface shared by the parser, navigator
// and editor. Options is a plain struct; the CLI layers flags and an
// optional config file on top of it.
package config

import (
	"time"

	"go.uber.org/zap"
)

// LeadingCommentMode controls where a comment that appears before any move
// of a line is attached. Source material disagrees on this, so it is a
// configuration choice rather than a fixed behavior.
type LeadingCommentMode int

const (
	// FloatingComments keeps leading comments with the line itself,
	// rendered before its first move. This is the default.
	FloatingComments LeadingCommentMode = iota

	// AttachToParent attaches leading comments to the node the line
	// branches from.
	AttachToParent
)

// DefaultChunkBudget is the per-step time budget used when a parse is run
// in cooperative chunks.
const DefaultChunkBudget = 15 * time.Millisecond

// Options configures the parsing and navigation core.
type Options struct {
	// StartFEN is the starting position for parsed games. Empty means the
	// standard initial position; puzzles supply their seed here.
	StartFEN string

	// LeadingComments selects leading-comment attachment.
	LeadingComments LeadingCommentMode

	// ChunkBudget is the time budget per Builder.Step call when chunked
	// parsing is used. Zero or negative means DefaultChunkBudget.
	ChunkBudget time.Duration

	// DropComments discards comment tokens during parsing.
	DropComments bool

	// DropAnnotations discards NAG and evaluation glyphs during parsing.
	DropAnnotations bool

	// Logger receives parse and navigation diagnostics. Nil means no
	// logging.
	Logger *zap.Logger
}

// NewOptions returns options with the defaults used throughout pgnview.
func NewOptions() *Options {
	return &Options{
		LeadingComments: FloatingComments,
		ChunkBudget:     DefaultChunkBudget,
	}
}

// Log returns the configured logger, or a no-op logger when unset, so
// callers never need a nil check.
func (o *Options) Log() *zap.Logger {
	if o == nil || o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Budget returns the effective chunk budget.
func (o *Options) Budget() time.Duration {
	if o == nil || o.ChunkBudget <= 0 {
		return DefaultChunkBudget
	}
	return o.ChunkBudget
}
