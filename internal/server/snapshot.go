package server

import (
	"context"
	"fmt"

	"github.com/yourusername/swayfader/internal/models"
	"github.com/yourusername/swayfader/internal/types"
)

// TreeSource provides the compositor's layout tree
type TreeSource interface {
	GetTree(ctx context.Context) (*models.Node, error)
}

// Snapshot is a parsed, read-only view of the compositor at a point in time.
// It is taken once at startup to seed the fader and by the CLI listings.
type Snapshot struct {
	Windows         []WindowInfo // Every window, tiled and floating, in tree order
	FocusedWindowID int64        // 0 when no window has focus
}

// WindowInfo is a window plus where it lives
type WindowInfo struct {
	types.Window
	Output    string
	Workspace string
}

// Fetch calls GET_TREE once and flattens it into a Snapshot
func Fetch(ctx context.Context, src TreeSource) (*Snapshot, error) {
	root, err := src.GetTree(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_tree failed: %w", err)
	}
	return parseSnapshot(root), nil
}

func parseSnapshot(root *models.Node) *Snapshot {
	snap := &Snapshot{}
	collect(root, "", "", snap)
	return snap
}

// collect walks the tree depth first, tiled children before floating ones
func collect(n *models.Node, output, workspace string, snap *Snapshot) {
	switch n.Type {
	case "output":
		output = n.GetName()
	case "workspace":
		workspace = n.GetName()
	}

	if n.IsWindow() {
		w := n.ToWindow()
		snap.Windows = append(snap.Windows, WindowInfo{Window: w, Output: output, Workspace: workspace})
		if w.Focused {
			snap.FocusedWindowID = w.ID
		}
		return
	}

	for _, child := range n.Nodes {
		collect(child, output, workspace, snap)
	}
	for _, child := range n.FloatingNodes {
		collect(child, output, workspace, snap)
	}
}

// TypedWindows returns the bare window references
func (s *Snapshot) TypedWindows() []types.Window {
	out := make([]types.Window, len(s.Windows))
	for i, w := range s.Windows {
		out[i] = w.Window
	}
	return out
}
