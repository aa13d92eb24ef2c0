package logic

import (
	"fmt"
	"strings"

	"github.com/kaique-kira/xml-card-reader/pkg/tlv"
)

// ExecuteTD decodes a flat TLV stream.
// Payload: TLV hex. Response: TE00<tag>=<value>;...
func ExecuteTD(input []byte) ([]byte, error) {
	logInfo("TD: Decoding TLV.")

	fields, err := tlv.Decode(strings.TrimSpace(string(input)))
	if err != nil {
		logError("TD: Decode failed", err)
		return nil, err
	}
	logDebug(fmt.Sprintf("TD: Decoded %d fields", len(fields)))

	pairs := make([]string, 0, len(fields))
	for _, f := range fields {
		pairs = append(pairs, f.Tag+"="+f.Value)
	}

	return success("TE", pairs...), nil
}
