// Package apperr holds the typed errors returned by the repository and domain layers.
package apperr

import (
	"errors"
	"fmt"
	"strings"

	"surveyserver/geometry"
)

type Kind uint8

const (
	KindInternal Kind = iota
	KindNotFound
	KindConstraintViolation
	KindHasDependents
	KindHierarchyTooDeep
	KindInvalidHotspotReference
	KindGeometryKind
	KindNotARectangle
	KindInvalidArgument
	KindTooLarge
)

var kindNames = map[Kind]string{
	KindInternal:                "internal",
	KindNotFound:                "not_found",
	KindConstraintViolation:     "constraint_violation",
	KindHasDependents:           "has_dependents",
	KindHierarchyTooDeep:        "hierarchy_too_deep",
	KindInvalidHotspotReference: "invalid_hotspot_reference",
	KindGeometryKind:            "geometry_kind",
	KindNotARectangle:           "not_a_rectangle",
	KindInvalidArgument:         "invalid_argument",
	KindTooLarge:                "too_large",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Error carries enough detail (entity, id, field) for the caller to build a message
type Error struct {
	Kind   Kind
	Entity string
	ID     uint
	Field  string
	Err    error
}

// Kind sentinels for errors.Is
var (
	ErrNotFound                = &Error{Kind: KindNotFound}
	ErrConstraintViolation     = &Error{Kind: KindConstraintViolation}
	ErrHasDependents           = &Error{Kind: KindHasDependents}
	ErrHierarchyTooDeep        = &Error{Kind: KindHierarchyTooDeep}
	ErrInvalidHotspotReference = &Error{Kind: KindInvalidHotspotReference}
	ErrInvalidArgument         = &Error{Kind: KindInvalidArgument}
	ErrTooLarge                = &Error{Kind: KindTooLarge}
)

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(strings.ReplaceAll(e.Kind.String(), "_", " "))
	if e.Entity != "" {
		b.WriteString(": ")
		b.WriteString(e.Entity)
		if e.ID != 0 {
			fmt.Fprintf(&b, " %d", e.ID)
		}
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " (%s)", e.Field)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func NotFound(entity string, id uint) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id}
}

// MissingReference is a NotFound raised for an id supplied in a referencing field
func MissingReference(entity string, id uint, field string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id, Field: field}
}

func ConstraintViolation(entity string, id uint, field string, err error) *Error {
	return &Error{Kind: KindConstraintViolation, Entity: entity, ID: id, Field: field, Err: err}
}

// HasDependents names the blocking relation in Field
func HasDependents(entity string, id uint, dependents string) *Error {
	return &Error{Kind: KindHasDependents, Entity: entity, ID: id, Field: dependents}
}

func HierarchyTooDeep(id uint, field, reason string) *Error {
	return &Error{Kind: KindHierarchyTooDeep, Entity: "site", ID: id, Field: field, Err: errors.New(reason)}
}

func InvalidHotspotReference(id uint, field, reason string) *Error {
	return &Error{Kind: KindInvalidHotspotReference, Entity: "hotspot", ID: id, Field: field, Err: errors.New(reason)}
}

func InvalidArgument(field, reason string) *Error {
	return &Error{Kind: KindInvalidArgument, Field: field, Err: errors.New(reason)}
}

func TooLarge(field string, limit int64) *Error {
	return &Error{Kind: KindTooLarge, Field: field, Err: fmt.Errorf("exceeds %d bytes", limit)}
}

// KindOf classifies err, including the geometry conversion sentinels
func KindOf(err error) Kind {
	var e *Error
	switch {
	case err == nil:
		return KindInternal
	case errors.As(err, &e):
		return e.Kind
	case errors.Is(err, geometry.ErrNotARectangle):
		return KindNotARectangle
	case errors.Is(err, geometry.ErrGeometryKind):
		return KindGeometryKind
	}
	return KindInternal
}

// Details returns the structured part of err, if any
func Details(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
