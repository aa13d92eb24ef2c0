package logic

import (
	"github.com/kaique-kira/xml-card-reader/internal/message"
	"github.com/kaique-kira/xml-card-reader/pkg/tlv"
)

// ExecuteTN encodes a single primitive TLV.
// Payload: tag;value. Response: TO00<tlv>.
func ExecuteTN(input []byte) ([]byte, error) {
	logInfo("TN: Encoding TLV.")

	msg, err := message.NewTN(input)
	if err != nil {
		logError("TN: Missing separator", err)
		return nil, err
	}

	out, err := tlv.Encode(msg.Get(message.FieldTag), msg.Get(message.FieldValue))
	if err != nil {
		logError("TN: Encode failed", err)
		return nil, err
	}

	return success("TO", out), nil
}
