package types

import "fmt"

// Kind enumerates the declarable data types. Each kind is spelled in source
// by exactly one keyword.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindDouble
	KindString
	KindBoolean
	KindChar

	kindCount
)

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindInt; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Count is the number of valid kinds.
const Count = int(kindCount) - 1

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindString:
		return "String"
	case KindBoolean:
		return "boolean"
	case KindChar:
		return "char"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Valid reports whether k names a declarable type.
func (k Kind) Valid() bool {
	return k > KindInvalid && k < kindCount
}

// Keyword returns the source spelling of k.
func (k Kind) Keyword() string {
	if !k.Valid() {
		return ""
	}
	return k.String()
}

// ParseKind maps a source keyword to its kind. Keywords are case-sensitive:
// "String" is a type, "string" is not.
func ParseKind(keyword string) (Kind, bool) {
	for _, k := range Kinds() {
		if k.Keyword() == keyword {
			return k, true
		}
	}
	return KindInvalid, false
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, ok := ParseKind(string(text))
	if !ok {
		return fmt.Errorf("unknown data type %q", text)
	}
	*k = parsed
	return nil
}
