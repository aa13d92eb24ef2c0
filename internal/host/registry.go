// Package host dispatches two-character host commands to their handlers.
package host

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/kaique-kira/xml-card-reader/internal/errorcodes"
	"github.com/kaique-kira/xml-card-reader/internal/host/logic"
)

// ErrUnknownCommand is returned for command codes without a handler.
var ErrUnknownCommand = errors.New("unknown command")

// Handler executes a command payload and returns the full response.
type Handler func(input []byte) ([]byte, error)

// CommandInfo stores metadata about a host command.
type CommandInfo struct {
	Code        string
	Description string
	Handler     Handler
}

// Registry manages the command table.
type Registry struct {
	commands map[string]CommandInfo
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]CommandInfo),
	}
}

// DefaultRegistry returns a registry with the built-in commands, leaving out the
// disabled codes.
func DefaultRegistry(disabled ...string) *Registry {
	skip := make(map[string]bool, len(disabled))
	for _, code := range disabled {
		skip[strings.ToUpper(strings.TrimSpace(code))] = true
	}

	r := NewRegistry()
	for _, info := range []CommandInfo{
		{"MA", "Generate APDU MAC", logic.ExecuteMA},
		{"KA", "Derive AC session key", logic.ExecuteKA},
		{"KM", "Derive MAC session key", logic.ExecuteKM},
		{"AR", "Generate ARPC method 1", logic.ExecuteAR},
		{"TD", "Decode TLV", logic.ExecuteTD},
		{"TN", "Encode TLV", logic.ExecuteTN},
		{"NC", "Diagnostics", logic.ExecuteNC},
	} {
		if !skip[info.Code] {
			r.Register(info)
		}
	}

	return r
}

// Register adds or replaces a command.
func (r *Registry) Register(info CommandInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.commands[info.Code] = info
}

// Get retrieves a command by code.
func (r *Registry) Get(code string) (CommandInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.commands[code]
	return info, ok
}

// List returns all registered commands sorted by code.
func (r *Registry) List() []CommandInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]CommandInfo, 0, len(r.commands))
	for _, info := range r.commands {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })

	return result
}

// GetDescription returns the description of the given command or the command if not found.
func (r *Registry) GetDescription(code string) string {
	if info, ok := r.Get(code); ok {
		return info.Description
	}

	return code
}

// ExecuteCommand runs the handler for code.
func (r *Registry) ExecuteCommand(code string, input []byte) ([]byte, error) {
	info, ok := r.Get(code)
	if !ok {
		return nil, ErrUnknownCommand
	}

	return info.Handler(input)
}

// ErrorCode maps a handler error to its wire code.
func ErrorCode(err error) errorcodes.HostError {
	if errors.Is(err, ErrUnknownCommand) {
		return errorcodes.Err68
	}

	return errorcodes.FromError(err)
}
