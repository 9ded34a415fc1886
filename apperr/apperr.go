// Package apperr mendefinisikan taksonomi kesalahan aplikasi dan pemetaannya ke HTTP.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	NotFound          Kind = "not_found"
	InvalidCredential Kind = "invalid_credential"
	Validation        Kind = "validation"
	LimitExceeded     Kind = "limit_exceeded"
	Remote            Kind = "remote"
	Parse             Kind = "parse"
	Conflict          Kind = "conflict"
	Unauthorized      Kind = "unauthorized"
	Internal          Kind = "internal"
)

const genericMsg = "Unexpected error, please try again"

// Error membawa jenis kesalahan, pesan yang aman untuk pengguna,
// kesalahan per field (opsional), dan kesalahan internal untuk log.
type Error struct {
	Kind      Kind
	PublicMsg string
	Fields    map[string]string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	if e.PublicMsg != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.PublicMsg)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func NotFoundErr(msg string) *Error {
	return &Error{Kind: NotFound, PublicMsg: msg}
}

func InvalidCredentialErr(msg string) *Error {
	return &Error{Kind: InvalidCredential, PublicMsg: msg}
}

func ValidationErr(msg string, fields map[string]string) *Error {
	return &Error{Kind: Validation, PublicMsg: msg, Fields: fields}
}

func LimitExceededErr(msg string) *Error {
	return &Error{Kind: LimitExceeded, PublicMsg: msg}
}

func ConflictErr(msg string) *Error {
	return &Error{Kind: Conflict, PublicMsg: msg}
}

func UnauthorizedErr(msg string) *Error {
	return &Error{Kind: Unauthorized, PublicMsg: msg}
}

// RemoteErr membungkus kegagalan backend katalog atau host gambar.
func RemoteErr(msg string, err error) *Error {
	return &Error{Kind: Remote, PublicMsg: msg, Err: err}
}

func ParseErr(err error) *Error {
	return &Error{Kind: Parse, Err: err}
}

// Wrap membungkus kesalahan internal tanpa pesan publik.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	if ae, ok := As(err); ok {
		return ae
	}
	return &Error{Kind: Internal, PublicMsg: genericMsg, Err: err}
}

func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Is melaporkan apakah err (atau kesalahan yang dibungkusnya) berjenis kind.
func Is(err error, kind Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == kind
}

func HTTPStatus(err error) int {
	ae, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case Validation, Parse:
		return http.StatusBadRequest
	case InvalidCredential, Unauthorized:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case LimitExceeded:
		return http.StatusUnprocessableEntity
	case Remote:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func PublicMessage(err error) string {
	if ae, ok := As(err); ok && ae.PublicMsg != "" {
		return ae.PublicMsg
	}
	return genericMsg
}
