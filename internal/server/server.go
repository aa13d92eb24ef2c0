package server

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	anetserver "github.com/andrei-cloud/anet/server"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kaique-kira/xml-card-reader/internal/host"
	"github.com/kaique-kira/xml-card-reader/internal/logging"
)

// Firmware is reported by the NC diagnostics command.
const Firmware = "0100-CI01"

// logAdapter implements anet.Logger using zerolog.
type logAdapter struct{}

// Server wraps the anet TCP server and the host command registry.
type Server struct {
	address     string
	srv         *anetserver.Server
	registry    atomic.Pointer[host.Registry]
	activeConns int32
}

func (l logAdapter) Print(v ...any) {
	log.Info().Msg(fmt.Sprint(v...))
}

func (l logAdapter) Printf(format string, v ...any) {
	log.Info().Msgf(format, v...)
}

func (l logAdapter) Infof(format string, v ...any) {
	log.Info().Msgf(format, v...)
}

func (l logAdapter) Warnf(format string, v ...any) {
	log.Warn().Msgf(format, v...)
}

func (l logAdapter) Errorf(format string, v ...any) {
	log.Error().Msgf(format, v...)
}

// NewServer configures and returns the host server instance.
func NewServer(address string, registry *host.Registry) (*Server, error) {
	if registry == nil {
		return nil, errors.New("server setup failed: nil command registry")
	}

	cfg := &anetserver.ServerConfig{
		MaxConns:        100,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     0 * time.Second, // disable idle connection closure.
		ShutdownTimeout: 5 * time.Second,
		Logger:          logAdapter{},
	}

	s := &Server{address: address}
	s.registry.Store(registry)

	handler := anetserver.HandlerFunc(s.handle)
	srv, err := anetserver.NewServer(address, handler, cfg)
	if err != nil {
		return nil, fmt.Errorf("server setup failed: %w", err)
	}
	s.srv = srv

	return s, nil
}

// Start begins listening for connections.
func (s *Server) Start() error {
	log.Info().Str("address", s.address).Msg("server started")
	return s.srv.Start()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	return s.srv.Stop()
}

// SetRegistry swaps the command table atomically.
func (s *Server) SetRegistry(r *host.Registry) {
	if r == nil {
		log.Error().Msg("refusing to install nil command registry")
		return
	}
	s.registry.Store(r)
}

// formatData returns ascii string if all bytes are printable, else hex string.
func formatData(data []byte) string {
	for _, b := range data {
		if b < 32 || b > 126 {
			return hex.EncodeToString(data)
		}
	}
	return string(data)
}

// incrementCode returns the next command code by incrementing the second character.
func incrementCode(cmd string) string {
	b := []byte(cmd)
	if len(b) < 2 {
		return cmd
	}
	if b[1] == 'Z' {
		b[1] = 'A'
	} else {
		b[1]++
	}

	return string(b)
}

// errorResponse constructs "<next code><error code>".
func errorResponse(cmd, code string) []byte {
	return []byte(incrementCode(cmd) + code)
}

func (s *Server) handle(conn *anetserver.ServerConn, data []byte) ([]byte, error) {
	client := conn.Conn.RemoteAddr().String()
	atomic.AddInt32(&s.activeConns, 1)
	defer atomic.AddInt32(&s.activeConns, -1)

	start := time.Now()
	requestID := uuid.NewString()

	if len(data) < 2 {
		log.Error().Str("request_id", requestID).Str("client_ip", client).Msg("malformed request")
		return nil, errors.New("malformed request")
	}

	cmd := string(data[:2])
	payload := data[2:]
	if cmd == "NC" {
		payload = []byte(Firmware)
	}

	registry := s.registry.Load()
	logging.LogRequest(
		requestID,
		client,
		cmd,
		registry.GetDescription(cmd),
		payload,
		int(atomic.LoadInt32(&s.activeConns)),
	)

	resp, err := registry.ExecuteCommand(cmd, payload)
	code := "00"
	if err != nil {
		hostErr := host.ErrorCode(err)
		code = hostErr.CodeOnly()
		resp = errorResponse(cmd, code)
		log.Warn().
			Str("event", "command_failed").
			Str("request_id", requestID).
			Str("client_ip", client).
			Str("command", cmd).
			Str("error_code", code).
			Err(err).
			Msg("command failed, responding with error code")
	}

	logging.LogResponse(requestID, client, cmd, incrementCode(cmd), code, time.Since(start))
	log.Debug().
		Str("event", "handle_done").
		Str("request_id", requestID).
		Str("response", formatData(resp)).
		Msg("completed request handling")

	return resp, nil
}
