package command

import (
	"fmt"
	"strings"
)

// Tree is every grammar registered for one keyword. Its nodes are held in a
// single slice and refer to each other by index; a path through the tree is
// the list of indexes from one of the root's children down to an execute leaf.
//
// Trees are built once with NewTree and are never modified after, so they can
// be shared by any number of concurrent dispatches.
type Tree struct {
	desc     string
	nodes    []Node
	children []int
}

// NodeBuilder describes a node and the nodes under it for NewTree. Create one
// with Literal, Argument, Require, or Execute.
type NodeBuilder struct {
	typ      NodeType
	children []NodeBuilder
}

// Literal starts a node that matches the token text exactly.
func Literal(text string) NodeBuilder {
	return NodeBuilder{typ: LiteralNode{Text: text}}
}

// Argument starts a node that consumes a value with c and makes it available
// to the handler under name.
func Argument(name string, c Consumer) NodeBuilder {
	return NodeBuilder{typ: ArgumentNode{Name: name, Consumer: c}}
}

// Require starts a node that only lets senders for which p holds continue.
func Require(p Predicate) NodeBuilder {
	return NodeBuilder{typ: RequireNode{Predicate: p}}
}

// Execute creates a leaf node that runs h. A leaf cannot have children.
func Execute(h Handler) NodeBuilder {
	return NodeBuilder{typ: ExecuteNode{Handler: h}}
}

// With returns a copy of b that has the given children added after any it
// already had. Paths through earlier children take priority over later ones.
func (b NodeBuilder) With(children ...NodeBuilder) NodeBuilder {
	nb := b
	nb.children = make([]NodeBuilder, 0, len(b.children)+len(children))
	nb.children = append(nb.children, b.children...)
	nb.children = append(nb.children, children...)
	return nb
}

// Execute returns a copy of b with a leaf that runs h added as its last child.
func (b NodeBuilder) Execute(h Handler) NodeBuilder {
	return b.With(Execute(h))
}

// NewTree builds a Tree from the given children of its root. Nodes are laid
// out depth-first in the order they are given, so Paths lists the grammars in
// the same order they were written.
//
// The tree is not checked here; Registry.Register rejects malformed trees.
func NewTree(description string, children ...NodeBuilder) *Tree {
	t := &Tree{desc: description}
	for _, c := range children {
		t.children = append(t.children, t.add(c))
	}
	return t
}

func (t *Tree) add(b NodeBuilder) int {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, Node{Type: b.typ})

	var children []int
	for _, c := range b.children {
		children = append(children, t.add(c))
	}
	t.nodes[idx].Children = children

	return idx
}

// Description is the human-readable summary of what the command does.
func (t *Tree) Description() string {
	return t.desc
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node at index i.
func (t *Tree) Node(i int) Node {
	n := t.nodes[i]
	n.Children = append([]int(nil), n.Children...)
	return n
}

// Paths returns every path from the root to an execute leaf, in the order the
// dispatcher tries them: children declared first come first, depth-first.
// Branches that never reach a leaf produce no path.
//
// Each call builds a new slice; callers may modify it.
func (t *Tree) Paths() [][]int {
	var paths [][]int

	var walk func(idx int, prefix []int)
	walk = func(idx int, prefix []int) {
		// full slice expression so siblings never share a backing array
		path := append(prefix[:len(prefix):len(prefix)], idx)

		node := t.nodes[idx]
		if _, ok := node.Type.(ExecuteNode); ok {
			paths = append(paths, path)
			return
		}
		for _, c := range node.Children {
			walk(c, path)
		}
	}

	for _, c := range t.children {
		walk(c, nil)
	}
	return paths
}

// FormatPath renders one path as it would be typed after keyword. Literals are
// shown as-is and arguments as <name>; requirements and the leaf are not shown.
func (t *Tree) FormatPath(keyword string, path []int) string {
	var sb strings.Builder
	sb.WriteString(keyword)

	for _, idx := range path {
		switch node := t.nodes[idx].Type.(type) {
		case LiteralNode:
			sb.WriteRune(' ')
			sb.WriteString(node.Text)
		case ArgumentNode:
			sb.WriteString(" <")
			sb.WriteString(node.Name)
			sb.WriteRune('>')
		}
	}

	return sb.String()
}

// FormatUsage lists every path of the tree as it would be typed after keyword,
// one per line, in the order they are tried.
func (t *Tree) FormatUsage(keyword string) string {
	paths := t.Paths()
	lines := make([]string, len(paths))
	for i := range paths {
		lines[i] = t.FormatPath(keyword, paths[i])
	}
	return strings.Join(lines, "\n")
}

// Validate checks that the tree can be dispatched to. Every leaf must be the
// end of its branch, every other node must lead somewhere, nodes must have
// their capability set, literals must be a single token, and no path may use
// the same argument name twice.
func (t *Tree) Validate() error {
	if len(t.children) < 1 {
		return fmt.Errorf("%w: tree has no grammars", ErrInvalidTree)
	}

	for i, node := range t.nodes {
		switch nt := node.Type.(type) {
		case ExecuteNode:
			if nt.Handler == nil {
				return fmt.Errorf("%w: node %d: execute leaf has no handler", ErrInvalidTree, i)
			}
			if len(node.Children) > 0 {
				return fmt.Errorf("%w: node %d: execute leaf has children", ErrInvalidTree, i)
			}
			continue
		case LiteralNode:
			toks := Tokenize(nt.Text)
			if len(toks) != 1 || toks[0] != nt.Text {
				return fmt.Errorf("%w: node %d: literal %q is not a single token", ErrInvalidTree, i, nt.Text)
			}
		case ArgumentNode:
			if nt.Name == "" {
				return fmt.Errorf("%w: node %d: argument has no name", ErrInvalidTree, i)
			}
			if nt.Consumer == nil {
				return fmt.Errorf("%w: node %d: argument %q has no consumer", ErrInvalidTree, i, nt.Name)
			}
		case RequireNode:
			if nt.Predicate == nil {
				return fmt.Errorf("%w: node %d: require has no predicate", ErrInvalidTree, i)
			}
		default:
			return fmt.Errorf("%w: node %d: unknown node type %T", ErrInvalidTree, i, node.Type)
		}

		if len(node.Children) < 1 {
			return fmt.Errorf("%w: node %d: branch never reaches an execute leaf", ErrInvalidTree, i)
		}
	}

	for _, path := range t.Paths() {
		seen := map[string]bool{}
		for _, idx := range path {
			arg, ok := t.nodes[idx].Type.(ArgumentNode)
			if !ok {
				continue
			}
			if seen[arg.Name] {
				return fmt.Errorf("%w: argument name %q used twice in one path", ErrInvalidTree, arg.Name)
			}
			seen[arg.Name] = true
		}
	}

	return nil
}
