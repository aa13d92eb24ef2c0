package logic

import (
	"github.com/kaique-kira/xml-card-reader/internal/message"
	"github.com/kaique-kira/xml-card-reader/pkg/cryptoutils"
)

// ExecuteKA derives the application cryptogram session key.
// Payload: mk(32H) atc(4H) un(8H or 12H). Response: KB00<sk>.
func ExecuteKA(input []byte) ([]byte, error) {
	logInfo("KA: Deriving AC session key.")

	msg, err := message.NewKA(input)
	if err != nil {
		logError("KA: Invalid payload length", err)
		return nil, err
	}
	logDebug(msg.Trace())

	sk, err := cryptoutils.DeriveSessionKeyACHex(
		msg.Get(message.FieldMasterKey),
		msg.Get(message.FieldATC),
		msg.Get(message.FieldUN),
	)
	if err != nil {
		logError("KA: Derivation failed", err)
		return nil, err
	}

	return success("KB", sk), nil
}
