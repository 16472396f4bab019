package diagfmt

import (
	"encoding/json"
	"io"

	"pyfix/internal/tree"
)

// NodeJSON is one syntax tree node in `pyfix parse --format json`.
type NodeJSON struct {
	Type     string     `json:"type"`
	Value    string     `json:"value,omitempty"`
	Prefix   string     `json:"prefix,omitempty"`
	Children []NodeJSON `json:"children,omitempty"`
}

func buildNode(n tree.Node) NodeJSON {
	out := NodeJSON{Type: n.Type().String()}
	if l, ok := n.(*tree.Leaf); ok {
		out.Value = l.Value
		out.Prefix = l.Prefix()
		return out
	}
	for _, c := range n.Children() {
		out.Children = append(out.Children, buildNode(c))
	}
	return out
}

// FormatTreePretty writes the indented outline of n.
func FormatTreePretty(w io.Writer, n tree.Node) error {
	_, err := io.WriteString(w, tree.Dump(n))
	return err
}

// FormatTreeJSON writes n as nested JSON objects.
func FormatTreeJSON(w io.Writer, n tree.Node) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildNode(n))
}
