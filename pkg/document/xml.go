package document

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseXML reads an XML document and returns a document node whose children are
// the top-level elements.
func ParseXML(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	dec.CharsetReader = charsetReader

	doc := &Element{}
	stack := []*Element{doc}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid xml: %w", err)
		}

		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name.Local}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			top.Children = append(top.Children, el)
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if top == doc || strings.TrimSpace(string(t)) == "" {
				continue
			}
			top.Children = append(top.Children, Text(string(t)))
		}
	}

	if len(doc.Elements()) == 0 {
		return nil, errors.New("invalid xml: no root element")
	}

	return doc, nil
}

// ParseXMLString is ParseXML over a string.
func ParseXMLString(s string) (*Element, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.New("xml input is empty")
	}

	return ParseXML(strings.NewReader(s))
}
