// Package cardimage turns an EMV card image document into a card asset: header
// metadata, ordered properties and the command/response pairs a simulated card
// answers with.
package cardimage

// ResponseType tells how an expected card response was built.
type ResponseType string

const (
	ResponseTLV ResponseType = "TLV"
	ResponseRAW ResponseType = "RAW"
)

const (
	Subtype            = "CARD"
	ExternalDataSource = "XML_IMPORT"
	ConnectorSource    = "emv_xml"
	DefaultStatusWord  = "9000"
	DefaultTitle       = "Unknown Card"
)

// Connector records where an imported asset came from.
type Connector struct {
	Source   string `json:"source"`
	Author   string `json:"author,omitempty"`
	DateTime string `json:"dateTime,omitempty"`
}

// Property is one entry of the ordered asset property list. Keys may repeat.
type Property struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// PaymentSystemSpecific is the value of the paymentSystemSpecific property.
type PaymentSystemSpecific struct {
	Keyword string `json:"keyword"`
	Value   string `json:"value"`
}

// MagStripe is the value of the magStripe property.
type MagStripe struct {
	Track1 string `json:"track1"`
	Track2 string `json:"track2"`
}

// Apdu is a terminal command with the response the card should return.
type Apdu struct {
	Name         string       `json:"name,omitempty"`
	Command      string       `json:"command"`
	Expr         string       `json:"expr,omitempty"`
	Response     string       `json:"response,omitempty"`
	ResponseType ResponseType `json:"responseType,omitempty"`
	StatusWord   string       `json:"sw"`
}

// Asset is the card built from one card image.
type Asset struct {
	Subtype                     string     `json:"subtype"`
	Model                       string     `json:"model"`
	Title                       string     `json:"title"`
	Description                 string     `json:"description,omitempty"`
	Tags                        []string   `json:"tags,omitempty"`
	ExternalDataSource          string     `json:"externalDataSource,omitempty"`
	ExternalDataSourceConnector *Connector `json:"externalDataSourceConnector,omitempty"`
	Properties                  []Property `json:"properties"`
	Version                     int        `json:"version"`
	Apdus                       []Apdu     `json:"apdus"`
}

// Property returns the value of the first property with the given key.
func (a Asset) Property(key string) (any, bool) {
	for _, p := range a.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}

	return nil, false
}
