package logic

import (
	"github.com/kaique-kira/xml-card-reader/internal/message"
	"github.com/kaique-kira/xml-card-reader/pkg/cryptoutils"
)

// ExecuteAR generates an ARPC with method 1.
// Payload: sk(32H) ac(16H) arc(4H). Response: AS00<arpc>.
func ExecuteAR(input []byte) ([]byte, error) {
	logInfo("AR: Generating ARPC.")

	msg, err := message.NewAR(input)
	if err != nil {
		logError("AR: Invalid payload length", err)
		return nil, err
	}
	logDebug(msg.Trace())

	arpc, err := cryptoutils.GenerateARPCMethod1Hex(
		msg.Get(message.FieldSessionKey),
		msg.Get(message.FieldAC),
		msg.Get(message.FieldARC),
	)
	if err != nil {
		logError("AR: ARPC generation failed", err)
		return nil, err
	}

	return success("AS", arpc), nil
}
