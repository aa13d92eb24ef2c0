package tlv

import (
	"encoding/hex"
	"strings"

	"github.com/moov-io/bertlv"

	"github.com/kaique-kira/xml-card-reader/pkg/emverr"
)

// Node is a tag awaiting encoding. A node with children is constructed and its
// Value is ignored; the children are encoded first and wrapped with the node's tag.
type Node struct {
	Tag      string `json:"tag"`
	Value    string `json:"value,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// EncodeNode encodes n and its children as uppercase hex.
func EncodeNode(n Node) (string, error) {
	return EncodeNodes([]Node{n})
}

// EncodeNodes encodes each node in order and concatenates the results.
func EncodeNodes(nodes []Node) (string, error) {
	tlvs := make([]bertlv.TLV, 0, len(nodes))
	for _, n := range nodes {
		t, err := toBERTLV(n)
		if err != nil {
			return "", err
		}
		tlvs = append(tlvs, t)
	}

	raw, err := bertlv.Encode(tlvs)
	if err != nil {
		return "", emverr.MalformedTLV(0, "encode: %v", err)
	}

	return strings.ToUpper(hex.EncodeToString(raw)), nil
}

func toBERTLV(n Node) (bertlv.TLV, error) {
	if err := checkTag(n.Tag); err != nil {
		return bertlv.TLV{}, err
	}

	if len(n.Children) > 0 {
		children := make([]bertlv.TLV, 0, len(n.Children))
		for _, c := range n.Children {
			t, err := toBERTLV(c)
			if err != nil {
				return bertlv.TLV{}, err
			}
			children = append(children, t)
		}

		return bertlv.NewComposite(strings.ToUpper(n.Tag), children...), nil
	}

	value, err := hex.DecodeString(n.Value)
	if err != nil {
		return bertlv.TLV{}, emverr.Validation("value", "hex with an even number of digits", n.Value)
	}

	return bertlv.NewTag(strings.ToUpper(n.Tag), value), nil
}

func checkTag(tag string) error {
	if tag == "" || len(tag)%2 != 0 {
		return emverr.Validation("tag", "one or more hex bytes", tag)
	}
	if _, err := hex.DecodeString(tag); err != nil {
		return emverr.Validation("tag", "one or more hex bytes", tag)
	}

	return nil
}

// ToNodes converts decoded bertlv values into nodes with uppercase hex fields.
func ToNodes(tlvs []bertlv.TLV) []Node {
	nodes := make([]Node, 0, len(tlvs))
	for _, t := range tlvs {
		n := Node{Tag: strings.ToUpper(t.Tag)}
		if len(t.TLVs) > 0 {
			n.Children = ToNodes(t.TLVs)
		} else {
			n.Value = strings.ToUpper(hex.EncodeToString(t.Value))
		}
		nodes = append(nodes, n)
	}

	return nodes
}
