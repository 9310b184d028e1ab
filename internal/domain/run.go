package domain

import (
	"context"
	"errors"
	"net"
	"os"
	"syscall"
)

// RunErrorKind is a high-level classification of probe transport errors.
type RunErrorKind string

const (
	RunErrorUnknown RunErrorKind = "unknown"
	RunErrorTimeout RunErrorKind = "timeout"
	RunErrorDNS     RunErrorKind = "dns"
	RunErrorConn    RunErrorKind = "connection"
	RunErrorHTTP    RunErrorKind = "http"
)

// RunError represents a structured error produced by a runner.
type RunError struct {
	Kind    RunErrorKind `json:"kind"`
	Message string       `json:"message"`
}

// NewRunError classifies err; it returns nil for a nil error.
func NewRunError(err error) *RunError {
	if err == nil {
		return nil
	}
	return &RunError{
		Kind:    ClassifyRunError(err),
		Message: err.Error(),
	}
}

// ClassifyRunError maps transport errors onto a RunErrorKind.
func ClassifyRunError(err error) RunErrorKind {
	if err == nil {
		return RunErrorUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return RunErrorTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return RunErrorTimeout
		}
		return RunErrorDNS
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.EPIPE) {
		return RunErrorConn
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return RunErrorTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return RunErrorConn
	}

	return RunErrorUnknown
}
