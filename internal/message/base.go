// Package message splits host command payloads into named fields.
package message

import (
	"bytes"
	"fmt"
)

// Message defines the interface for host request messages.
type Message interface {
	Get(field string) string
	Set(field, val string)
	CommandCode() string
	Trace() string
}

// BaseMessage implements Message and holds command fields in payload order.
type BaseMessage struct {
	cmdCode     string
	description string
	order       []string
	secret      map[string]bool
	Fields      map[string]string
}

// NewBaseMessage creates a new BaseMessage with the given code and description.
func NewBaseMessage(cmdCode, description string) *BaseMessage {
	return &BaseMessage{
		cmdCode:     cmdCode,
		description: description,
		secret:      make(map[string]bool),
		Fields:      make(map[string]string),
	}
}

func (m *BaseMessage) Get(field string) string {
	return m.Fields[field]
}

func (m *BaseMessage) Set(field, val string) {
	if _, ok := m.Fields[field]; !ok {
		m.order = append(m.order, field)
	}
	m.Fields[field] = val
}

// SetSecret sets a field whose value is masked in Trace.
func (m *BaseMessage) SetSecret(field, val string) {
	m.Set(field, val)
	m.secret[field] = true
}

func (m *BaseMessage) CommandCode() string {
	return m.cmdCode
}

// Trace renders the fields in payload order. Key material is masked.
func (m *BaseMessage) Trace() string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Command: %s (%s)\n", m.cmdCode, m.description))
	for _, k := range m.order {
		v := m.Fields[k]
		if m.secret[k] && v != "" {
			v = fmt.Sprintf("<%d chars>", len(v))
		}
		buf.WriteString(fmt.Sprintf("\t[%s]=%s\n", k, v))
	}

	return buf.String()
}
