package cardimage

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/skythen/apdu"

	"github.com/kaique-kira/xml-card-reader/pkg/document"
	"github.com/kaique-kira/xml-card-reader/pkg/emverr"
	"github.com/kaique-kira/xml-card-reader/pkg/tlv"
)

const (
	readRecordName = "ReadRecord"
	insReadRecord  = 0xB2
	maxSFI         = 0x1F
)

// buildCommand returns the command header of a terminal request as uppercase hex.
// READ RECORD is derived from sfi and record; other commands come from the cmd, ins,
// p1 and p2 attributes.
func buildCommand(req *document.Element) (string, error) {
	if req.Attr("name") == readRecordName {
		return readRecordCommand(req)
	}

	var hdr [4]byte
	for i, attr := range []string{"cmd", "ins", "p1", "p2"} {
		v := req.Attr(attr)
		if v == "" && (attr == "p1" || attr == "p2") {
			v = "00"
		}
		b, err := parseByte(attr, v)
		if err != nil {
			return "", err
		}
		hdr[i] = b
	}

	c := apdu.Capdu{Cla: hdr[0], Ins: hdr[1], P1: hdr[2], P2: hdr[3]}

	return strings.ToUpper(hex.EncodeToString(c.Bytes())), nil
}

func readRecordCommand(req *document.Element) (string, error) {
	sfi, err := parseByte("sfi", firstNonEmpty(req.Attr("sfi"), "01"))
	if err != nil {
		return "", err
	}
	if sfi > maxSFI {
		return "", emverr.Validation("sfi", "value up to 1F", req.Attr("sfi"))
	}
	record, err := parseByte("record", firstNonEmpty(req.Attr("record"), "01"))
	if err != nil {
		return "", err
	}

	c := apdu.Capdu{
		Cla: 0x00,
		Ins: insReadRecord,
		P1:  record,
		P2:  sfi<<3 | 0x04,
		Ne:  apdu.MaxLenResponseDataStandard,
	}

	return strings.ToUpper(hex.EncodeToString(c.Bytes())), nil
}

func parseByte(field, v string) (byte, error) {
	n, err := strconv.ParseUint(v, 16, 8)
	if err != nil {
		return 0, emverr.Validation(field, "one hex byte", v)
	}

	return byte(n), nil
}

// encodeTags encodes response Tag elements as concatenated TLV. Tags without an ID
// are skipped.
func encodeTags(tags []*document.Element) (string, error) {
	nodes, err := tagNodes(tags)
	if err != nil {
		return "", err
	}
	if len(nodes) == 0 {
		return "", nil
	}

	return tlv.EncodeNodes(nodes)
}

func tagNodes(tags []*document.Element) ([]tlv.Node, error) {
	nodes := make([]tlv.Node, 0, len(tags))
	for _, t := range tags {
		id := strings.ToUpper(stripSpace(t.Attr("ID")))
		if id == "" {
			continue
		}

		n := tlv.Node{Tag: id}
		if children := t.All("Tag"); len(children) > 0 {
			var err error
			if n.Children, err = tagNodes(children); err != nil {
				return nil, err
			}
			// a constructed tag whose children all lack an ID encodes empty
			if len(n.Children) == 0 {
				n.Children = nil
			}
		} else {
			v, err := tagValueHex(id, t.Attr("format"), t.Text("Tag"))
			if err != nil {
				return nil, err
			}
			n.Value = v
		}
		nodes = append(nodes, n)
	}

	return nodes, nil
}

func isHex(s string) bool {
	_, err := hex.DecodeString(s)

	return err == nil
}
