package models

import (
	"encoding/json"
	"fmt"

	"github.com/yourusername/swayfader/internal/types"
)

// Node is a container in the Sway layout tree
type Node struct {
	ID               int64             `json:"id"`
	Name             *string           `json:"name"`
	Type             string            `json:"type"` // "root", "output", "workspace", "con", "floating_con"
	Focused          bool              `json:"focused"`
	AppID            *string           `json:"app_id,omitempty"`
	WindowProperties *WindowProperties `json:"window_properties,omitempty"`
	Nodes            []*Node           `json:"nodes"`
	FloatingNodes    []*Node           `json:"floating_nodes"`
}

// WindowProperties holds X11 metadata for Xwayland windows
type WindowProperties struct {
	Class    string `json:"class"`
	Instance string `json:"instance"`
	Title    string `json:"title"`
}

// WindowEvent is the payload of a window event
type WindowEvent struct {
	Change    string `json:"change"` // "new", "close", "focus", "title", "floating", ...
	Container Node   `json:"container"`
}

// CommandResult is one entry of a RUN_COMMAND reply
type CommandResult struct {
	Success    bool   `json:"success"`
	ParseError bool   `json:"parse_error,omitempty"`
	Error      string `json:"error,omitempty"`
}

// SubscribeResult is the reply to SUBSCRIBE
type SubscribeResult struct {
	Success bool `json:"success"`
}

// Version is the reply to GET_VERSION
type Version struct {
	HumanReadable string `json:"human_readable"`
	Major         int    `json:"major"`
	Minor         int    `json:"minor"`
	Patch         int    `json:"patch"`
}

// ParseTree decodes a GET_TREE reply
func ParseTree(payload []byte) (*Node, error) {
	var root Node
	if err := json.Unmarshal(payload, &root); err != nil {
		return nil, fmt.Errorf("failed to parse tree: %w", err)
	}
	return &root, nil
}

// ParseWindowEvent decodes a window event payload
func ParseWindowEvent(payload []byte) (*WindowEvent, error) {
	var ev WindowEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("failed to parse window event: %w", err)
	}
	return &ev, nil
}

// IsWindow returns true if the node is a leaf container holding a client
func (n *Node) IsWindow() bool {
	if n.Type != "con" && n.Type != "floating_con" {
		return false
	}
	return len(n.Nodes) == 0 && len(n.FloatingNodes) == 0
}

// GetName returns the node name or an empty string
func (n *Node) GetName() string {
	if n.Name != nil {
		return *n.Name
	}
	return ""
}

// GetAppID returns the Wayland app_id, falling back to the X11 class
func (n *Node) GetAppID() string {
	if n.AppID != nil && *n.AppID != "" {
		return *n.AppID
	}
	if n.WindowProperties != nil {
		return n.WindowProperties.Class
	}
	return ""
}

// ToWindow converts the node to the fader's window reference
func (n *Node) ToWindow() types.Window {
	return types.Window{
		ID:      n.ID,
		Kind:    types.KindFromNodeType(n.Type),
		Focused: n.Focused,
		Name:    n.GetName(),
		AppID:   n.GetAppID(),
	}
}

// ToEvent maps the Sway change to a fader event.
// Returns false for changes the fader does not react to.
func (e *WindowEvent) ToEvent() (types.Event, bool) {
	var t types.EventType
	switch e.Change {
	case "focus":
		t = types.EventFocus
	case "new":
		t = types.EventNew
	case "floating":
		t = types.EventFloating
	default:
		return types.Event{}, false
	}
	return types.Event{Type: t, Window: e.Container.ToWindow()}, true
}
