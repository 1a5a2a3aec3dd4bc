package models

import (
	"encoding/json"
	"strings"
	"time"

	"surveyserver/apperr"
)

const (
	MaxNameLength        = 100
	MaxDescriptionLength = 255
	MaxFilenameLength    = 255
	MaxMarkerLength      = 100
	DefaultLevel         = 1
)

// Base holds the columns owned by the repository: callers never set them directly
type Base struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	Created  time.Time  `gorm:"not null" json:"created"`
	Modified *time.Time `json:"modified"`
}

func (b *Base) Meta() *Base {
	return b
}

// Entity is implemented by every persisted record
type Entity interface {
	Meta() *Base
	EntityName() string
}

// Named entities can be listed in name order
type Named interface {
	Entity
	GetName() string
}

// Optional distinguishes an absent JSON field (Set == false) from an explicit null (Set, Value == nil)
type Optional[T any] struct {
	Set   bool
	Value *T
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{Set: true, Value: &value}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = &value
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

// Validatable returns the wrapped value, or nil, for the request validator
func (o Optional[T]) Validatable() interface{} {
	if o.Value == nil {
		return nil
	}
	return *o.Value
}

func (o Optional[T]) applyTo(dst **T) {
	if o.Set {
		*dst = o.Value
	}
}

func applyValue[T any](src *T, dst *T) {
	if src != nil {
		*dst = *src
	}
}

func levelOrDefault(level *int) int {
	if level == nil {
		return DefaultLevel
	}
	return *level
}

func checkName(name *string) error {
	if name != nil && strings.TrimSpace(*name) == "" {
		return apperr.InvalidArgument("name", "must not be blank")
	}
	return nil
}

func strPtr(s string) *string {
	return &s
}
