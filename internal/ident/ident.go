// Package ident decides which object keys may be written as bare
// identifiers (".key") in gron output.
//
// The Unicode rule follows the XID_Start / XID_Continue properties of UAX #31
// as computed from the Unicode tables compiled into the Go runtime, so its
// exact behaviour is pinned by unicode.Version. The ASCII rule does not
// depend on any Unicode version.
package ident

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var ErrUnknownRule = errors.New("ident: unknown identifier rule")

// Rule selects the identifier classification.
type Rule uint8

const (
	// Unicode accepts keys matching XID_Start XID_Continue*.
	Unicode Rule = iota
	// ASCII accepts keys matching [A-Za-z][A-Za-z0-9_]*.
	ASCII
)

func (r Rule) String() string {
	switch r {
	case Unicode:
		return "unicode"
	case ASCII:
		return "ascii"
	default:
		return fmt.Sprintf("Rule(%d)", uint8(r))
	}
}

// Version describes the tables the rule is evaluated against.
func (r Rule) Version() string {
	if r == ASCII {
		return "ascii"
	}
	return "unicode " + unicode.Version
}

// ParseRule accepts the names produced by Rule.String.
func ParseRule(name string) (Rule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "unicode":
		return Unicode, nil
	case "ascii":
		return ASCII, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRule, name)
	}
}

// IsIdentifier reports whether s is a non-empty identifier under r.
func (r Rule) IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if r == ASCII {
		return isASCIIIdentifier(s)
	}

	for i, c := range s {
		if c == utf8.RuneError {
			return false
		}
		if i == 0 {
			if !IsXIDStart(c) {
				return false
			}
			continue
		}
		if !IsXIDContinue(c) {
			return false
		}
	}
	return true
}

func isASCIIIdentifier(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if isASCIILetter(b) || (i > 0 && (isASCIIDigit(b) || b == '_')) {
			continue
		}
		return false
	}
	return true
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// IsXIDStart reports whether r has the XID_Start property.
func IsXIDStart(r rune) bool {
	if r < utf8.RuneSelf {
		return isASCIILetter(byte(r))
	}
	if !isIDStart(r) {
		return false
	}

	// XID_Start is ID_Start restricted to characters whose NFKC form still
	// starts an identifier.
	for i, c := range norm.NFKC.String(string(r)) {
		if i == 0 && !isIDStart(c) || i > 0 && !isIDContinue(c) {
			return false
		}
	}
	return true
}

// IsXIDContinue reports whether r has the XID_Continue property.
func IsXIDContinue(r rune) bool {
	if r < utf8.RuneSelf {
		b := byte(r)
		return isASCIILetter(b) || isASCIIDigit(b) || b == '_'
	}
	if !isIDContinue(r) {
		return false
	}

	for _, c := range norm.NFKC.String(string(r)) {
		if !isIDContinue(c) {
			return false
		}
	}
	return true
}

func isIDStart(r rune) bool {
	if unicode.In(r, unicode.Pattern_Syntax, unicode.Pattern_White_Space) {
		return false
	}
	return unicode.In(r, unicode.L, unicode.Nl, unicode.Other_ID_Start)
}

func isIDContinue(r rune) bool {
	if r < utf8.RuneSelf {
		b := byte(r)
		return isASCIILetter(b) || isASCIIDigit(b) || b == '_'
	}
	if unicode.In(r, unicode.Pattern_Syntax, unicode.Pattern_White_Space) {
		return false
	}
	return unicode.In(r, unicode.L, unicode.Nl, unicode.Other_ID_Start,
		unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}
