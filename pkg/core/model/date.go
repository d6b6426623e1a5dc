// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Date represents a calendar date with a day granularity, as used for
// the release and end of support dates. It is (de)serialized using the
// ISO-8601 "2006-01-02" layout and compared ignoring any time of day
// or location information.
type Date time.Time

// dateLayout is the serialization layout of the Date type.
const dateLayout = "2006-01-02"

// NewDate returns the Date of the given year, month, and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf truncates the given point in time to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Time returns the `d` date as a time.Time instance pointing to the
// midnight of that date in the UTC location.
func (d Date) Time() time.Time {
	t := time.Time(d)
	return time.Date(
		t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC,
	)
}

// Before reports if the `d` date precedes the `o` date.
func (d Date) Before(o Date) bool {
	return d.Time().Before(o.Time())
}

// After reports if the `d` date follows the `o` date.
func (d Date) After(o Date) bool {
	return d.Time().After(o.Time())
}

// Equal reports if two dates indicate the same calendar date.
func (d Date) Equal(o Date) bool {
	return d.Time().Equal(o.Time())
}

// String returns the `d` date in the ISO-8601 "2006-01-02" layout.
func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// MarshalText implements encoding.TextMarshaler interface and
// serializes `d` date as an ISO-8601 date string.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText deserializes text byte slice as an ISO-8601 date
// string and fills the `d` Date instance. In case of errors, d will
// be left unchanged.
func (d *Date) UnmarshalText(text []byte) error {
	t, err := time.Parse(dateLayout, string(text))
	if err != nil {
		return fmt.Errorf("parsing %q as a date: %w", text, err)
	}
	*d = Date(t)
	return nil
}

// Value implements the driver.Valuer interface, storing the `d` date
// as a timestamp in the database DATE columns.
func (d Date) Value() (driver.Value, error) {
	return d.Time(), nil
}

// Scan implements the sql.Scanner interface, reading a database DATE
// column back as a Date instance.
func (d *Date) Scan(src any) error {
	t, ok := src.(time.Time)
	if !ok {
		return fmt.Errorf("unsupported date column type: %T", src)
	}
	*d = DateOf(t)
	return nil
}
