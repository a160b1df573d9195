package searcher

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type dumpNode struct {
	Move     string     `yaml:"move,omitempty"`
	Playouts int        `yaml:"playouts"`
	Wins     float64    `yaml:"wins"`
	Weight   float64    `yaml:"weight"`
	Children []dumpNode `yaml:"children,omitempty"`
}

// Dump writes the tree as YAML down to maxDepth levels below the root.
// Unvisited children are left out.
func (m *MCTS[S, M]) Dump(w io.Writer, maxDepth int) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(toDump(m.root, maxDepth)); err != nil {
		return fmt.Errorf("failed to dump tree: %w", err)
	}
	return encoder.Close()
}

func toDump[S any, M comparable](n *Node[S, M], depth int) dumpNode {
	d := dumpNode{
		Playouts: n.playouts,
		Wins:     n.wins,
		Weight:   n.Weight(),
	}
	if n.parent != nil {
		d.Move = fmt.Sprint(n.move)
	}
	if depth <= 0 {
		return d
	}
	for _, child := range n.children {
		if child.playouts > 0 {
			d.Children = append(d.Children, toDump(child, depth-1))
		}
	}
	return d
}
