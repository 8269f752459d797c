// Package routeerr defines the route engine's error taxonomy (spec.md §7)
// and its mapping onto the user-visible wire shape.
package routeerr

import (
	"errors"
	"fmt"
)

// Kind is one of the error kinds from spec.md §7.
type Kind string

const (
	KindBadRequest          Kind = "BadRequest"
	KindNotFound            Kind = "NotFound"
	KindNoRoute             Kind = "NoRoute"
	KindUpstreamUnavailable Kind = "UpstreamUnavailable"
	KindBuildInProgress     Kind = "BuildInProgress"
)

// Code is the public wire code (§7 "User-visible shape").
type Code string

const (
	CodeNoRouteFound          Code = "NO_ROUTE_FOUND"
	CodeBadRequest            Code = "BAD_REQUEST"
	CodeNotFound              Code = "NOT_FOUND"
	CodeInsufficientLiquidity Code = "INSUFFICIENT_LIQUIDITY"
	CodeUpstreamError         Code = "UPSTREAM_ERROR"
	CodeInternalError         Code = "INTERNAL_ERROR"
)

// Error is a kind-tagged error carrying a human message and an HTTP status.
type Error struct {
	Kind       Kind
	Code       Code
	Message    string
	StatusCode int
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func newErr(kind Kind, code Code, status int, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, StatusCode: status, cause: cause}
}

// BadRequest builds a BadRequest error (malformed input, same src/dst,
// non-positive amount).
func BadRequest(msg string) *Error {
	return newErr(KindBadRequest, CodeBadRequest, 400, msg, nil)
}

// NotFound builds a NotFound error (asset absent from the registry).
func NotFound(msg string) *Error {
	return newErr(KindNotFound, CodeNotFound, 404, msg, nil)
}

// NoRoute builds a NoRoute error (no path found, fallback also empty, or
// graph still building past the grace period).
func NoRoute(msg string) *Error {
	return newErr(KindNoRoute, CodeNoRouteFound, 404, msg, nil)
}

// UpstreamUnavailable builds an UpstreamUnavailable error, used only when a
// degraded Horizon call has no route left to fall back to.
func UpstreamUnavailable(msg string, cause error) *Error {
	return newErr(KindUpstreamUnavailable, CodeUpstreamError, 502, msg, cause)
}

// BuildInProgress builds the informational, non-fatal BuildInProgress error
// returned by a manual rebuild trigger when a build already holds the lock.
func BuildInProgress() *Error {
	return newErr(KindBuildInProgress, CodeInternalError, 409, "build already in progress", nil)
}

// As is a small helper mirroring errors.As for *Error, used by the HTTP layer
// to decide how to render an error and by callers who need the Kind.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
