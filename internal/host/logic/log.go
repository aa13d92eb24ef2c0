// Package logic provides business logic for host commands.
// Each ExecuteXX function takes the ASCII payload that follows the two-character
// command code and returns the full response, response code included.
package logic

import (
	"strings"

	"github.com/rs/zerolog/log"
)

func logInfo(msg string) {
	log.Info().Str("component", "host").Msg(msg)
}

func logDebug(msg string) {
	log.Debug().Str("component", "host").Msg(msg)
}

func logError(msg string, err error) {
	log.Error().Str("component", "host").Err(err).Msg(msg)
}

// success builds "<code>00<body>".
func success(code string, body ...string) []byte {
	return []byte(code + "00" + strings.Join(body, ";"))
}
