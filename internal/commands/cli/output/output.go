// Package output renders command results.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kaique-kira/xml-card-reader/internal/config"
)

// JSON writes v as JSON indented by the configured output.indent spaces.
func JSON(w io.Writer, v any) error {
	indent := config.Get().Output.Indent
	if indent < 0 {
		indent = 0
	}

	var (
		data []byte
		err  error
	)
	if indent == 0 {
		data, err = json.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	}
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// Line writes s followed by a newline.
func Line(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, s)

	return err
}
