package logic

import (
	"fmt"

	"github.com/kaique-kira/xml-card-reader/internal/errorcodes"
)

// ExecuteNC reports diagnostics: ND00<firmware version>.
func ExecuteNC(input []byte) ([]byte, error) {
	logInfo("NC: Starting command diagnostics.")

	if len(input) == 0 {
		logError("NC: Missing firmware version", errorcodes.Err15)
		return nil, errorcodes.Err15
	}
	logDebug(fmt.Sprintf("NC: Firmware version: %s", input))

	return success("ND", string(input)), nil
}
