package logic

import (
	"fmt"

	"github.com/kaique-kira/xml-card-reader/internal/message"
	"github.com/kaique-kira/xml-card-reader/pkg/emvmac"
)

// ExecuteMA appends a secure messaging MAC to an APDU.
// Payload: apdu;atc;ac;sessionKey;masterKey;rand with empty optional fields.
// Response: MB00<apduWithMac>;<nextRand>.
func ExecuteMA(input []byte) ([]byte, error) {
	logInfo("MA: Starting APDU MAC generation.")

	msg, err := message.NewMA(input)
	if err != nil {
		logError("MA: Unexpected field count", err)
		return nil, err
	}
	logDebug(msg.Trace())

	res, err := emvmac.Generate(emvmac.Input{
		APDU:       msg.Get(message.FieldAPDU),
		ATC:        msg.Get(message.FieldATC),
		AC:         msg.Get(message.FieldAC),
		SessionKey: msg.Get(message.FieldSessionKey),
		MasterKey:  msg.Get(message.FieldMasterKey),
		Rand:       msg.Get(message.FieldRand),
	})
	if err != nil {
		logError("MA: MAC generation failed", err)
		return nil, err
	}
	logDebug(fmt.Sprintf("MA: Next rand: %s", res.NextRand))

	return success("MB", res.APDUWithMAC, res.NextRand), nil
}
