package domain

import "errors"

// Kind classifies an import failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidNodeID
	KindEmptyResponse
	KindMalformedResponse
	KindRecordNotFound
	KindMissingCoordinates
	KindMissingName
	KindTransportFailure
	KindPersistenceFailure
)

var kindNames = map[Kind]string{
	KindUnknown:            "unknown",
	KindInvalidNodeID:      "invalid_node_id",
	KindEmptyResponse:      "empty_response",
	KindMalformedResponse:  "malformed_response",
	KindRecordNotFound:     "record_not_found",
	KindMissingCoordinates: "missing_coordinates",
	KindMissingName:        "missing_name",
	KindTransportFailure:   "transport_failure",
	KindPersistenceFailure: "persistence_failure",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// Validation reports whether the kind describes a problem with the input or
// the fetched document rather than with the infrastructure.
func (k Kind) Validation() bool {
	switch k {
	case KindInvalidNodeID, KindEmptyResponse, KindMalformedResponse,
		KindRecordNotFound, KindMissingCoordinates, KindMissingName:
		return true
	default:
		return false
	}
}

// Error is the error type returned by the import pipeline. Two Errors match
// under errors.Is when their kinds are equal, so the Err* values below work
// as sentinels.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidNodeID      = &Error{Kind: KindInvalidNodeID, Msg: "node id must not be empty"}
	ErrEmptyResponse      = &Error{Kind: KindEmptyResponse, Msg: "no response received from the OpenStreetMap API"}
	ErrMalformedResponse  = &Error{Kind: KindMalformedResponse, Msg: "OpenStreetMap response is not a valid node document"}
	ErrRecordNotFound     = &Error{Kind: KindRecordNotFound, Msg: "no node found in the OpenStreetMap response"}
	ErrMissingCoordinates = &Error{Kind: KindMissingCoordinates, Msg: "coordinates not found on OSM node"}
	ErrMissingName        = &Error{Kind: KindMissingName, Msg: "OSM node has no name (name tag missing or blank)"}
	ErrTransportFailure   = &Error{Kind: KindTransportFailure, Msg: "OpenStreetMap request failed"}
	ErrPersistenceFailure = &Error{Kind: KindPersistenceFailure, Msg: "saving point of sale failed"}
)

// KindOf returns the kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsValidation reports whether err carries a validation kind.
func IsValidation(err error) bool {
	return KindOf(err).Validation()
}

// malformed builds a MalformedResponse error that keeps the parser's cause.
func malformed(detail string, cause error) *Error {
	return &Error{
		Kind: KindMalformedResponse,
		Msg:  ErrMalformedResponse.Msg + ": " + detail,
		Err:  cause,
	}
}
