package models

import (
	"database/sql"
	"encoding/json"
)

// NullString wraps sql.NullString to provide proper JSON marshaling
type NullString struct {
	sql.NullString
}

// MarshalJSON implements json.Marshaler
func (ns NullString) MarshalJSON() ([]byte, error) {
	if ns.Valid {
		return json.Marshal(ns.String)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements json.Unmarshaler
func (ns *NullString) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s != nil {
		ns.Valid = true
		ns.String = *s
	} else {
		ns.Valid = false
	}
	return nil
}

// NewNullString returns a valid NullString for s, or an invalid one for "".
func NewNullString(s string) NullString {
	return NullString{sql.NullString{String: s, Valid: s != ""}}
}

// ValueOrEmpty returns the string value, or "" when absent.
func (ns NullString) ValueOrEmpty() string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// NullFloat wraps sql.NullFloat64 to provide proper JSON marshaling
type NullFloat struct {
	sql.NullFloat64
}

// MarshalJSON implements json.Marshaler
func (nf NullFloat) MarshalJSON() ([]byte, error) {
	if nf.Valid {
		return json.Marshal(nf.Float64)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements json.Unmarshaler
func (nf *NullFloat) UnmarshalJSON(data []byte) error {
	var f *float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f != nil {
		nf.Valid = true
		nf.Float64 = *f
	} else {
		nf.Valid = false
	}
	return nil
}

// NewNullFloat returns a valid NullFloat wrapping f.
func NewNullFloat(f float64) NullFloat {
	return NullFloat{sql.NullFloat64{Float64: f, Valid: true}}
}
