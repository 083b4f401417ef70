package ebnf

// Span is a range of byte offsets into the parsed input.
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Node represents a node in the concrete syntax tree.
// Tokens and lexical productions are leaves; other productions have Children.
type Node struct {
	Kind     string  `json:"kind" yaml:"kind"` // Production name, or the quoted token
	Text     string  `json:"text" yaml:"text"` // Source text covered by Span
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
	Span     Span    `json:"span" yaml:"span"`

	tail int // length of the input left after this node
}

// IsTerminal returns true if this is a leaf node.
func (n *Node) IsTerminal() bool {
	return len(n.Children) == 0
}

// Walk visits n and its descendants depth-first, skipping the children of nodes for which fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns all nodes of the given kind, in source order.
func (n *Node) Find(kind string) []*Node {
	var found []*Node
	n.Walk(func(c *Node) bool {
		if c.Kind == kind {
			found = append(found, c)
		}
		return true
	})
	return found
}

// fillSpans turns the remainders recorded while parsing into offsets into input.
// A production's span starts at its first child, so skipped white space is left out.
func fillSpans(n *Node, input string) {
	n.Span.End = len(input) - n.tail
	n.Span.Start = n.Span.End - len(n.Text)
	for _, c := range n.Children {
		fillSpans(c, input)
	}
	if len(n.Children) > 0 {
		n.Span.Start = n.Children[0].Span.Start
		n.Text = input[n.Span.Start:n.Span.End]
	}
}
