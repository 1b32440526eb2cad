package parsing

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const textNodeName = "#text"

// Node is one element of a parsed markup tree. Character data is kept as
// child nodes named "#text" so that mixed content stays in document order.
type Node struct {
	Name     string
	Attrs    map[string]string
	Text     string
	Children []*Node
}

func (n *Node) IsText() bool {
	return n != nil && n.Name == textNodeName
}

// Attr returns the value of an attribute, or "" when absent.
func (n *Node) Attr(name string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// Child returns the first direct child element with the given name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every direct child element with the given name, in
// document order.
func (n *Node) ChildrenNamed(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Find searches the whole subtree at unbounded depth and returns every
// element with the given name, in document order.
func (n *Node) Find(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
		out = append(out, c.Find(name)...)
	}
	return out
}

// FindFirst returns the first element with the given name anywhere in the
// subtree, or nil.
func (n *Node) FindFirst(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
		if m := c.FindFirst(name); m != nil {
			return m
		}
	}
	return nil
}

// ParseXML parses raw XML into a generic node tree. Parsing is lenient:
// upstream documents are not schema-validated, so unknown entities and
// unclosed HTML-ish tags are tolerated.
func ParseXML(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	var root *Node
	var stack []*Node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				n.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.Attrs[a.Name.Local] = a.Value
				}
			}
			if len(stack) == 0 {
				if root == nil {
					root = n
				}
			} else {
				p := stack[len(stack)-1]
				p.Children = append(p.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			s := string(t)
			if strings.TrimSpace(s) == "" {
				continue
			}
			p := stack[len(stack)-1]
			p.Children = append(p.Children, &Node{Name: textNodeName, Text: s})
		}
	}
	if root == nil {
		return nil, fmt.Errorf("no elements in document")
	}
	return root, nil
}

// TreeText flattens any node into plain text. Text nodes are returned
// whitespace-trimmed; element nodes are flattened by recursing into every
// child and joining the results with a single space. Total: a nil node
// yields "" because upstream documents routinely omit optional fields.
func TreeText(n *Node) string {
	if n == nil {
		return ""
	}
	if n.IsText() {
		return strings.TrimSpace(n.Text)
	}
	var parts []string
	for _, c := range n.Children {
		if t := TreeText(c); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// DocumentHandle binds a parsed tree to the set of element names that must
// always be treated as ordered sequences, even when a source serialized
// zero or one occurrence. Extractors resolve the single-or-list ambiguity
// here, once, instead of type-checking ad hoc.
type DocumentHandle struct {
	Root       *Node
	repeatable map[string]bool
}

func NewDocumentHandle(root *Node, repeatable ...string) *DocumentHandle {
	set := make(map[string]bool, len(repeatable))
	for _, name := range repeatable {
		set[name] = true
	}
	return &DocumentHandle{Root: root, repeatable: set}
}

// Repeatable reports whether a name was declared as a sequence.
func (h *DocumentHandle) Repeatable(name string) bool {
	return h.repeatable[name]
}

// List returns the ordered occurrences of a repeatable element under n. The
// result always has exactly as many entries as the source serialized,
// including zero.
func (h *DocumentHandle) List(n *Node, name string) []*Node {
	return n.ChildrenNamed(name)
}

// One returns the single occurrence of a scalar element under n, or nil.
// For names declared repeatable the first occurrence is returned.
func (h *DocumentHandle) One(n *Node, name string) *Node {
	return n.Child(name)
}
