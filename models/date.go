package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"reflect"
	"time"

	"gorm.io/datatypes"
)

const DateLayout = "2006-01-02"

// Date is a calendar date, "YYYY-MM-DD" on the wire and a DATE column in the database.
// Full RFC3339 timestamps are accepted on input and truncated to their date.
type Date datatypes.Date

func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func (d Date) Time() time.Time { return time.Time(d) }

func (d Date) String() string { return d.Time().Format(DateLayout) }

func (Date) GormDataType() string { return "date" }

func (d Date) Value() (driver.Value, error) {
	return datatypes.Date(d).Value()
}

func (d *Date) Scan(value interface{}) error {
	return (*datatypes.Date)(d).Scan(value)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.Time().IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	t, err := time.Parse(DateLayout, text)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, text); err != nil {
			return &json.UnmarshalTypeError{Value: "string " + text, Type: reflect.TypeOf(d).Elem()}
		}
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	*d = Date(t)
	return nil
}
