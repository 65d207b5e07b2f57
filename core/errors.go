package core

import (
	"errors"
	"fmt"
)

// Kind classifies core failures so the transport layer can map them to HTTP
// statuses without matching on message text.
type Kind string

const (
	KindUnauthorized          Kind = "UNAUTHORIZED"
	KindNotFound              Kind = "NOT_FOUND"
	KindPrerequisiteNotMet    Kind = "PREREQUISITE_NOT_MET"
	KindRoutingIncomplete     Kind = "ROUTING_INCOMPLETE"
	KindNoMatchingStudents    Kind = "NO_MATCHING_STUDENTS"
	KindInvalidRoleTransition Kind = "INVALID_ROLE_TRANSITION"
	KindAlreadyResolved       Kind = "ALREADY_RESOLVED"
	KindValidation            Kind = "VALIDATION_ERROR"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a core error, or "" for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
