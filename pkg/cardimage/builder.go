package cardimage

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/kaique-kira/xml-card-reader/pkg/document"
	"github.com/kaique-kira/xml-card-reader/pkg/emverr"
)

// RootName is the canonical card image root element.
const RootName = "EMVCoL3CardImage"

const (
	interfaceContact     = "contact"
	interfaceContactless = "contactless"
)

var (
	rsaSections = []string{"CA", "Issuer", "ICC", "PINEncipherment"}
	rsaFields   = []string{"Modulus", "Exponent", "PrivateExponent", "P", "Q", "Q-1ModP", "ExpModP", "ExpModQ"}
	digitRun    = regexp.MustCompile(`[0-9]+`)
)

// Builder builds assets from card image documents.
type Builder struct {
	// RootName overrides the canonical root element name when set.
	RootName string
}

// Build builds an asset with the default root name.
func Build(doc *document.Element) (Asset, error) {
	return Builder{}.Build(doc)
}

// ParseXML reads a card image XML document and builds its asset.
func ParseXML(r io.Reader) (Asset, error) {
	doc, err := document.ParseXML(r)
	if err != nil {
		return Asset{}, err
	}

	return Build(doc)
}

// Build resolves the card image root in doc and builds the asset. doc is usually the
// document node returned by document.ParseXML or document.FromMap.
func (b Builder) Build(doc *document.Element) (Asset, error) {
	root, err := b.resolveRoot(doc)
	if err != nil {
		return Asset{}, err
	}

	header := root.Child("Header")
	features := root.Child("Features")
	contact := root.Child("Contact")
	contactless := root.Child("Contactless")

	cardID := header.ChildText("CardId")
	cardVersion := header.ChildText("CardVersion")

	asset := Asset{
		Subtype:            Subtype,
		Model:              firstNonEmpty(cardVersion, cardID, Subtype),
		Title:              firstNonEmpty(cardID, DefaultTitle),
		Description:        strings.Join(strings.Fields(header.ChildText("Description")), " "),
		ExternalDataSource: ExternalDataSource,
		Version:            parseVersion(cardVersion),
	}

	author := header.ChildText("Author")
	dateTime := header.ChildText("Date-Time")
	if author != "" || dateTime != "" {
		asset.ExternalDataSourceConnector = &Connector{
			Source:   ConnectorSource,
			Author:   author,
			DateTime: dateTime,
		}
	}

	asset.Tags = buildTags(features, contact, contactless)
	asset.Properties = buildProperties(features, root.Child("Crypto"), root.Child("MagStripe"), contact, contactless)

	asset.Apdus = []Apdu{}
	for _, section := range []struct {
		el   *document.Element
		name string
	}{{contact, interfaceContact}, {contactless, interfaceContactless}} {
		apdus, err := buildInterfaceApdus(section.el, section.name)
		if err != nil {
			return Asset{}, err
		}
		asset.Apdus = append(asset.Apdus, apdus...)
	}

	return asset, nil
}

func (b Builder) resolveRoot(doc *document.Element) (*document.Element, error) {
	if doc == nil {
		return nil, emverr.Structure("empty document")
	}

	name := firstNonEmpty(b.RootName, RootName)
	if doc.Name == name {
		return doc, nil
	}
	if root := doc.Child(name); root != nil {
		return root, nil
	}

	elements := doc.Elements()
	if len(elements) == 1 {
		return elements[0], nil
	}

	return nil, emverr.Structure("%s root element not found among %d top-level elements", name, len(elements))
}

// parseVersion returns the first run of digits in v, or 1.
func parseVersion(v string) int {
	n, err := strconv.Atoi(digitRun.FindString(v))
	if err != nil || n <= 0 {
		return 1
	}

	return n
}

func buildTags(features, contact, contactless *document.Element) []string {
	var tags []string
	add := func(t string) {
		for _, existing := range tags {
			if existing == t {
				return
			}
		}
		tags = append(tags, t)
	}

	if ps := features.ChildText("PaymentSystem"); ps != "" {
		add(strings.ToLower(ps))
	}
	if contact != nil {
		add(interfaceContact)
	}
	if contactless != nil {
		add(interfaceContactless)
	}

	return tags
}

func buildProperties(features, crypto, magStripe, contact, contactless *document.Element) []Property {
	props := []Property{}

	if ps := features.ChildText("PaymentSystem"); ps != "" {
		props = append(props, Property{Key: "paymentSystem", Value: ps})
	}

	if pssd := features.Child("PaymentSystemSpecificData"); pssd != nil {
		props = append(props, Property{Key: "paymentSystemSpecific", Value: PaymentSystemSpecific{
			Keyword: attrOrChild(pssd, "keyword"),
			Value:   firstNonEmpty(attrOrChild(pssd, "value"), pssd.Text()),
		}})
	}

	if contact != nil {
		props = append(props, Property{Key: "hasContact", Value: true})
	}
	if contactless != nil {
		props = append(props, Property{Key: "hasContactless", Value: true})
	}

	if pin := crypto.Child("PIN"); pin != nil {
		props = append(props, Property{Key: "pin", Value: pin.Text()})
	}

	symmetric := map[string]string{}
	for _, key := range crypto.Child("SymmetricKeys").All("Key") {
		name := key.Attr("name")
		if name == "" {
			continue
		}
		if v := stripSpace(key.Text()); v != "" {
			symmetric[name] = v
		}
	}
	if len(symmetric) > 0 {
		props = append(props, Property{Key: "symmetricKeys", Value: symmetric})
	}

	rsa := map[string]map[string]string{}
	rsaKeys := crypto.Child("RSAKeys")
	for _, section := range rsaSections {
		el := rsaKeys.Child(section)
		if el == nil {
			continue
		}
		fields := map[string]string{}
		for _, f := range rsaFields {
			if fe := el.Child(f); fe != nil {
				fields[f] = stripSpace(fe.Text())
			}
		}
		rsa[section] = fields
	}
	if len(rsa) > 0 {
		props = append(props, Property{Key: "rsaKeys", Value: rsa})
	}

	track1 := magStripe.ChildText("Track1")
	track2 := magStripe.ChildText("Track2")
	if track1 != "" || track2 != "" {
		props = append(props, Property{Key: "magStripe", Value: MagStripe{Track1: track1, Track2: track2}})
	}

	return props
}

func buildInterfaceApdus(section *document.Element, iface string) ([]Apdu, error) {
	var apdus []Apdu
	for _, app := range section.All("Application") {
		aid := app.Attr("AID")
		for _, req := range app.All("TerminalRequest") {
			a, err := buildApdu(req, iface, aid)
			if err != nil {
				name := firstNonEmpty(req.Attr("name"), "TerminalRequest")
				return nil, fmt.Errorf("%s application %s request %s: %w", iface, aid, name, err)
			}
			apdus = append(apdus, a)
		}
	}

	return apdus, nil
}

func buildApdu(req *document.Element, iface, aid string) (Apdu, error) {
	name := req.Attr("name")

	command, err := buildCommand(req)
	if err != nil {
		return Apdu{}, err
	}

	a := Apdu{
		Name:       name,
		Command:    command,
		Expr:       buildExpr(req, iface, aid),
		StatusWord: DefaultStatusWord,
	}

	resp := req.Child("CardResponse")
	if resp == nil {
		return a, nil
	}
	if sw := resp.Attr("sw"); sw != "" {
		a.StatusWord = strings.ToUpper(sw)
	}

	if tags := resp.All("Tag"); len(tags) > 0 {
		a.ResponseType = ResponseTLV
		a.Response, err = encodeTags(tags)

		return a, err
	}

	if raw := stripSpace(resp.Text("Tag")); raw != "" {
		if !isHex(raw) {
			return Apdu{}, emverr.Validation("CardResponse", "hex response", raw)
		}
		a.ResponseType = ResponseRAW
		a.Response = strings.ToUpper(raw)
	}

	return a, nil
}

func buildExpr(req *document.Element, iface, aid string) string {
	parts := []string{fmt.Sprintf("interface='%s'", iface)}
	add := func(key, value string) {
		if value != "" {
			parts = append(parts, fmt.Sprintf("%s='%s'", key, value))
		}
	}

	add("aid", aid)
	add("name", req.Attr("name"))
	add("sfi", req.Attr("sfi"))
	add("record", req.Attr("record"))
	add("instance", req.Attr("instance"))
	add("cmdData", req.Attr("cmdData"))

	return strings.Join(parts, " and ")
}

func attrOrChild(el *document.Element, name string) string {
	if el.HasAttr(name) {
		return el.Attr(name)
	}

	return el.ChildText(name)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
