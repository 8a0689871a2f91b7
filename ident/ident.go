// Package ident validates table and column names before they may be
// interpolated into SQL text.
//
// SQLite placeholders can bind values but never identifiers, so any
// dynamically supplied table or column name has to become SQL syntax at
// some point. The Identifier type is the sole gate for that: an
// Identifier can only be obtained through New, and New rejects anything
// outside a strict grammar. Nothing else in SafeLite interpolates raw
// strings into SQL.
package ident

import (
	"github.com/safelite/safelite/sqlerr"
)

// MaxLength is the maximum accepted identifier length in bytes.
const MaxLength = 128

// Identifier is a validated table or column name, safe for structural
// interpolation into SQL text. The zero value is invalid; obtain one
// through New.
type Identifier struct {
	name string
}

// New validates name and returns it as an Identifier.
//
// The accepted grammar is ^[A-Za-z_][A-Za-z0-9_]*$ with a length bound
// of MaxLength bytes. Invalid names are rejected, never altered.
func New(name string) (Identifier, error) {
	if name == "" {
		return Identifier{}, sqlerr.New(
			sqlerr.KindInvalidIdentifier, "identifier is empty",
		)
	}
	if len(name) > MaxLength {
		return Identifier{}, sqlerr.Newf(
			sqlerr.KindInvalidIdentifier,
			"identifier exceeds %d bytes", MaxLength,
		)
	}

	for i := 0; i < len(name); i++ {
		c := name[i]

		isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'

		if i == 0 && isDigit {
			return Identifier{}, sqlerr.Newf(
				sqlerr.KindInvalidIdentifier,
				"identifier %q starts with a digit", name,
			)
		}
		if !isLetter && !isDigit && c != '_' {
			return Identifier{}, sqlerr.Newf(
				sqlerr.KindInvalidIdentifier,
				"identifier %q contains invalid character %q", name, c,
			)
		}
	}

	return Identifier{name: name}, nil
}

// NewAll validates every name and returns the resulting Identifiers in
// the same order. The first invalid name fails the whole call.
func NewAll(names ...string) ([]Identifier, error) {
	ids := make([]Identifier, 0, len(names))
	for _, name := range names {
		id, err := New(name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// String returns the raw identifier name.
func (id Identifier) String() string {
	return id.name
}

// Quoted returns the identifier wrapped in double quotes, the form used
// when interpolating it into SQL text. Quoting keeps identifiers that
// collide with SQL keywords usable.
func (id Identifier) Quoted() string {
	return `"` + id.name + `"`
}

// IsZero reports whether the Identifier is the invalid zero value.
func (id Identifier) IsZero() bool {
	return id.name == ""
}
