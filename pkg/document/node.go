// Package document holds the typed tree consumed by the card model builder.
// A tree is made of Element and Text nodes; adapters build it from XML or from
// the generic map shape produced by external XML parsers.
package document

import (
	"strings"
)

// Node is either an *Element or a Text.
type Node interface {
	node()
}

// Text is character data inside an element.
type Text string

func (Text) node() {}

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is a named node with attributes and ordered children.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []Node
}

func (*Element) node() {}

// NewElement returns an element with the given name and attributes, no children.
func NewElement(name string, attrs ...Attr) *Element {
	return &Element{Name: name, Attrs: attrs}
}

// Append adds child nodes and returns e for chaining.
func (e *Element) Append(children ...Node) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// Attr returns the trimmed attribute value, or "" when absent.
func (e *Element) Attr(name string) string {
	if e == nil {
		return ""
	}
	for _, a := range e.Attrs {
		if a.Name == name {
			return strings.TrimSpace(a.Value)
		}
	}

	return ""
}

// HasAttr reports whether the attribute is present, even if empty.
func (e *Element) HasAttr(name string) bool {
	if e == nil {
		return false
	}
	for _, a := range e.Attrs {
		if a.Name == name {
			return true
		}
	}

	return false
}

// Elements returns all child elements in document order.
func (e *Element) Elements() []*Element {
	if e == nil {
		return nil
	}
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}

	return out
}

// All returns every child element with the given name, in document order.
func (e *Element) All(name string) []*Element {
	var out []*Element
	for _, el := range e.Elements() {
		if el.Name == name {
			out = append(out, el)
		}
	}

	return out
}

// Child returns the first child element with the given name, or nil.
func (e *Element) Child(name string) *Element {
	for _, el := range e.Elements() {
		if el.Name == name {
			return el
		}
	}

	return nil
}

// OwnText returns the concatenated direct text children, trimmed.
func (e *Element) OwnText() string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	for _, c := range e.Children {
		if t, ok := c.(Text); ok {
			sb.WriteString(string(t))
		}
	}

	return strings.TrimSpace(sb.String())
}

// Text returns the element's own text, falling back to the text of its first
// child element other than skip when it has none.
func (e *Element) Text(skip ...string) string {
	if e == nil {
		return ""
	}
	if s := e.OwnText(); s != "" {
		return s
	}

outer:
	for _, el := range e.Elements() {
		for _, name := range skip {
			if el.Name == name {
				continue outer
			}
		}

		return el.Text(skip...)
	}

	return ""
}

// ChildText returns the text of the first child with the given name.
func (e *Element) ChildText(name string) string {
	return e.Child(name).Text()
}
