package document

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Naming convention of the generic map shape.
const (
	AttrPrefix = "@_"
	TextKey    = "#text"
)

// FromMap converts the generic map shape (element name to a value or a list of
// values, attributes prefixed with AttrPrefix, text under TextKey) into a document
// node. Keys are visited in sorted order; repeated elements keep their list order.
func FromMap(m map[string]any) (*Element, error) {
	doc := &Element{}
	if err := fillElement(doc, m); err != nil {
		return nil, err
	}

	return doc, nil
}

func fillElement(el *Element, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := m[k]
		switch {
		case strings.HasPrefix(k, AttrPrefix):
			el.Attrs = append(el.Attrs, Attr{Name: strings.TrimPrefix(k, AttrPrefix), Value: scalar(v)})
		case k == TextKey:
			el.Children = append(el.Children, Text(scalar(v)))
		case strings.HasPrefix(k, "?"):
			// xml declaration emitted by some parsers
		default:
			if err := appendValue(el, k, v); err != nil {
				return err
			}
		}
	}

	return nil
}

func appendValue(parent *Element, name string, v any) error {
	switch tv := v.(type) {
	case []any:
		for _, item := range tv {
			if err := appendValue(parent, name, item); err != nil {
				return err
			}
		}
	case map[string]any:
		child := &Element{Name: name}
		if err := fillElement(child, tv); err != nil {
			return err
		}
		parent.Children = append(parent.Children, child)
	case nil:
		parent.Children = append(parent.Children, &Element{Name: name})
	case string, bool, float64, float32, int, int64, uint64, fmt.Stringer:
		child := &Element{Name: name}
		if s := scalar(tv); s != "" {
			child.Children = append(child.Children, Text(s))
		}
		parent.Children = append(parent.Children, child)
	default:
		return fmt.Errorf("element %q: unsupported value type %T", name, v)
	}

	return nil
}

func scalar(v any) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64)
	default:
		return fmt.Sprint(tv)
	}
}
