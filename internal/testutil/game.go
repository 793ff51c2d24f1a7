package testutil

import (
	"testing"

	"github.com/pgnview/pgnview/internal/config"
	"github.com/pgnview/pgnview/internal/engine"
	"github.com/pgnview/pgnview/internal/engine/enginetest"
	"github.com/pgnview/pgnview/internal/parser"
	"github.com/pgnview/pgnview/internal/tree"
)

// FakeFactory returns a scripted engine factory with no rejections,
// suitable for building trees without real chess validation.
func FakeFactory() engine.Factory {
	return enginetest.NewFactory()
}

// MustBuildTree parses movetext with the scripted fake engine and fails
// the test if nothing was built. Use it to set up trees for navigation,
// editing, and rendering tests.
func MustBuildTree(t *testing.T, movetext string) *tree.Tree {
	t.Helper()
	tr, err := parser.Parse(movetext, FakeFactory(), config.NewOptions())
	if err != nil {
		t.Fatalf("failed to build test tree: %v", err)
	}
	if tr.Root.Mainline == nil {
		t.Fatalf("test movetext produced no moves:\n%s", movetext)
	}
	return tr
}
