package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// LocalDateTimeLayout is the wire format for timestamps: ISO-8601 local
// date-time with no zone offset.
const LocalDateTimeLayout = "2006-01-02T15:04:05"

// LocalDateTime is a wall-clock timestamp. The zone carried by the embedded
// time.Time is never serialized; the column type is TIMESTAMP without time
// zone and the JSON form has no offset.
type LocalDateTime struct {
	time.Time
}

func NewLocalDateTime(t time.Time) LocalDateTime {
	return LocalDateTime{Time: t}
}

func (ldt LocalDateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ldt.Format(LocalDateTimeLayout) + `"`), nil
}

// UnmarshalJSON accepts either a quoted local date-time or null. A null
// leaves the zero value in place, which the `required` validation rejects.
func (ldt *LocalDateTime) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)

	t, err := time.ParseInLocation(LocalDateTimeLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid date-time %q, expected %s: %w", s, LocalDateTimeLayout, err)
	}
	ldt.Time = t
	return nil
}

func (ldt LocalDateTime) Value() (driver.Value, error) {
	return ldt.Time, nil
}

func (ldt *LocalDateTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		ldt.Time = v
		return nil
	case nil:
		ldt.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into LocalDateTime", src)
	}
}
