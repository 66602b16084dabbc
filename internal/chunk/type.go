package chunk

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// TypeLen is the size of a chunk type tag.
const TypeLen = 4

// bit 5 of each tag byte carries a property flag
const propertyBit byte = 0x20

// Type is a 4-byte chunk type tag. The case of each letter encodes a flag:
// byte 0 ancillary, byte 1 private, byte 2 reserved, byte 3 safe-to-copy.
type Type [TypeLen]byte

// TypeFromBytes wraps b verbatim. Use IsValid to check it.
func TypeFromBytes(b [TypeLen]byte) Type {
	return Type(b)
}

// ParseType builds a Type from text, requiring exactly four ASCII letters.
// The reserved bit is not checked here; see IsValid.
func ParseType(s string) (Type, error) {
	if len(s) != TypeLen {
		return Type{}, fmt.Errorf("%w: got %d", ErrWrongLength, len(s))
	}
	var t Type
	for i := 0; i < TypeLen; i++ {
		if !isLetter(s[i]) {
			return Type{}, fmt.Errorf("%w: %q at index %d", ErrInvalidCharacter, s[i], i)
		}
		t[i] = s[i]
	}
	return t, nil
}

// MustParseType is ParseType for constants; it panics on error.
func MustParseType(s string) Type {
	t, err := ParseType(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Type) Bytes() [TypeLen]byte {
	return t
}

// IsValid reports whether every byte is an ASCII letter and the reserved
// bit is clear.
func (t Type) IsValid() bool {
	for _, b := range t {
		if !isLetter(b) {
			return false
		}
	}
	return t.IsReservedBitValid()
}

func (t Type) IsCritical() bool {
	return t[0]&propertyBit == 0
}

func (t Type) IsPublic() bool {
	return t[1]&propertyBit == 0
}

func (t Type) IsReservedBitValid() bool {
	return t[2]&propertyBit == 0
}

func (t Type) IsSafeToCopy() bool {
	return t[3]&propertyBit != 0
}

// Text renders the tag, failing when the bytes are not valid UTF-8.
func (t Type) Text() (string, error) {
	if !utf8.Valid(t[:]) {
		return "", fmt.Errorf("%w: type % x", ErrNotText, t[:])
	}
	return string(t[:]), nil
}

// String renders the tag for display; non-text tags are quoted and escaped.
func (t Type) String() string {
	if s, err := t.Text(); err == nil {
		return s
	}
	return strconv.Quote(string(t[:]))
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
