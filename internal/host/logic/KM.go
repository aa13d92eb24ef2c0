package logic

import (
	"github.com/kaique-kira/xml-card-reader/internal/message"
	"github.com/kaique-kira/xml-card-reader/pkg/cryptoutils"
)

// ExecuteKM derives the secure messaging (MAC) session key.
// Payload: mk(32H) ac(16H). Response: KN00<sk>.
func ExecuteKM(input []byte) ([]byte, error) {
	logInfo("KM: Deriving MAC session key.")

	msg, err := message.NewKM(input)
	if err != nil {
		logError("KM: Invalid payload length", err)
		return nil, err
	}
	logDebug(msg.Trace())

	sk, err := cryptoutils.DeriveSessionKeyMACHex(msg.Get(message.FieldMasterKey), msg.Get(message.FieldAC))
	if err != nil {
		logError("KM: Derivation failed", err)
		return nil, err
	}

	return success("KN", sk), nil
}
