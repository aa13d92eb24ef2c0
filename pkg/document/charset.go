package document

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/ianaindex"
)

// charsetReader decodes documents declared in a non UTF-8 encoding, such as
// ISO-8859-1 card images exported by Windows tooling.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported xml encoding %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported xml encoding %q", label)
	}

	return enc.NewDecoder().Reader(input), nil
}
