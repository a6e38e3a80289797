package dbus

import "strings"

// A Kind identifies which member of the Type algebra a Type is.
//
// Leaf kinds use the single-character D-Bus signature code as their
// value, matching the teacher's habit of keying dispatch tables by the
// wire byte itself (see header.go's fieldSignature switch).
type Kind byte

// Kinds of Type.
const (
	KindByte       Kind = 'y'
	KindBoolean    Kind = 'b'
	KindInt16      Kind = 'n'
	KindUint16     Kind = 'q'
	KindInt32      Kind = 'i'
	KindUint32     Kind = 'u'
	KindInt64      Kind = 'x'
	KindUint64     Kind = 't'
	KindDouble     Kind = 'd'
	KindString     Kind = 's'
	KindObjectPath Kind = 'o'
	KindSignature  Kind = 'g'
	KindVariant    Kind = 'v'
	KindUnixFD     Kind = 'h'
	KindArray      Kind = 'a'
	KindStruct     Kind = '('
	KindDictEntry  Kind = '{'
)

// A Type is a single D-Bus type, drawn from the closed algebra described
// in spec §3: the fourteen basic kinds plus Array, Struct and DictEntry,
// which recurse into further Types.
//
// The zero Type is not meaningful; always obtain one from ParseSignature,
// TypeOf or one of the constructors below.
type Type struct {
	kind Kind
	// elem is the element type of an Array.
	elem *Type
	// fields are the inner types of a Struct, in order.
	fields []Type
	// key and val are the key/value types of a DictEntry.
	key, val *Type
}

// Basic, non-recursive types.
var (
	TypeByte       = Type{kind: KindByte}
	TypeBoolean    = Type{kind: KindBoolean}
	TypeInt16      = Type{kind: KindInt16}
	TypeUint16     = Type{kind: KindUint16}
	TypeInt32      = Type{kind: KindInt32}
	TypeUint32     = Type{kind: KindUint32}
	TypeInt64      = Type{kind: KindInt64}
	TypeUint64     = Type{kind: KindUint64}
	TypeDouble     = Type{kind: KindDouble}
	TypeString     = Type{kind: KindString}
	TypeObjectPath = Type{kind: KindObjectPath}
	TypeSignature  = Type{kind: KindSignature}
	TypeVariant    = Type{kind: KindVariant}
	TypeUnixFD     = Type{kind: KindUnixFD}
)

// NewArrayType returns the Array type with the given element type.
func NewArrayType(elem Type) Type {
	return Type{kind: KindArray, elem: &elem}
}

// NewStructType returns the Struct type with the given, non-empty, inner
// types. It returns a *TypeError (StructEmpty) if fields is empty.
func NewStructType(fields ...Type) (Type, error) {
	if len(fields) == 0 {
		return Type{}, &TypeError{Kind: StructEmpty}
	}
	cp := make([]Type, len(fields))
	copy(cp, fields)
	return Type{kind: KindStruct, fields: cp}, nil
}

// NewDictEntryType returns the DictEntry type with the given key and
// value types.
func NewDictEntryType(key, val Type) Type {
	return Type{kind: KindDictEntry, key: &key, val: &val}
}

// Kind reports which member of the type algebra t is.
func (t Type) Kind() Kind { return t.kind }

// Elem returns the element type of an Array type.
func (t Type) Elem() Type { return *t.elem }

// Fields returns the inner types of a Struct type, in order.
func (t Type) Fields() []Type { return t.fields }

// Key returns the key type of a DictEntry type.
func (t Type) Key() Type { return *t.key }

// Val returns the value type of a DictEntry type.
func (t Type) Val() Type { return *t.val }

// IsBasic reports whether t is a basic (non-container) type, i.e. legal
// as a dict-entry key or as the element of a value compared with ==.
func (t Type) IsBasic() bool {
	switch t.kind {
	case KindArray, KindStruct, KindDictEntry, KindVariant:
		return false
	default:
		return true
	}
}

// Equal reports whether t and other describe the same type.
func (t Type) Equal(other Type) bool {
	if t.kind != other.kind {
		return false
	}
	switch t.kind {
	case KindArray:
		return t.elem.Equal(*other.elem)
	case KindStruct:
		if len(t.fields) != len(other.fields) {
			return false
		}
		for i := range t.fields {
			if !t.fields[i].Equal(other.fields[i]) {
				return false
			}
		}
		return true
	case KindDictEntry:
		return t.key.Equal(*other.key) && t.val.Equal(*other.val)
	default:
		return true
	}
}

// Alignment returns the alignment, in bytes, required before a value of
// type t: one of 1, 2, 4 or 8. See spec §3.
func (t Type) Alignment() int {
	switch t.kind {
	case KindByte, KindVariant, KindSignature:
		return 1
	case KindInt16, KindUint16:
		return 2
	case KindBoolean, KindInt32, KindUint32, KindString, KindObjectPath, KindUnixFD, KindArray:
		return 4
	case KindInt64, KindUint64, KindDouble, KindStruct, KindDictEntry:
		return 8
	default:
		return 1
	}
}

// String renders t as its single-character or bracketed signature form.
func (t Type) String() string {
	var b strings.Builder
	// Depth checking is moot for a String-less render of an already valid
	// Type, but appendSignature is shared with the parser's result path,
	// so pass zeroed depth counters.
	_ = t.appendSignature(&b, 0, 0, 0)
	return b.String()
}

func (t Type) appendSignature(b *strings.Builder, arrayDepth, structDepth, dictDepth int) error {
	switch t.kind {
	case KindArray:
		b.WriteByte('a')
		return t.elem.appendSignature(b, arrayDepth+1, structDepth, dictDepth)
	case KindStruct:
		b.WriteByte('(')
		for _, f := range t.fields {
			if err := f.appendSignature(b, arrayDepth, structDepth+1, dictDepth); err != nil {
				return err
			}
		}
		b.WriteByte(')')
	case KindDictEntry:
		b.WriteByte('{')
		if err := t.key.appendSignature(b, arrayDepth, structDepth, dictDepth+1); err != nil {
			return err
		}
		if err := t.val.appendSignature(b, arrayDepth, structDepth, dictDepth+1); err != nil {
			return err
		}
		b.WriteByte('}')
	default:
		b.WriteByte(byte(t.kind))
	}
	if b.Len() > maxSignatureLength {
		return &TypeError{Kind: ExceedMaximum, Length: b.Len()}
	}
	return nil
}

// ParseSignature parses a complete signature string into its ordered list
// of Types. An empty signature is valid and yields an empty slice (it
// describes a bodiless message). See spec §4.1.
func ParseSignature(sig []byte) ([]Type, error) {
	if len(sig) > maxSignatureLength {
		return nil, &TypeError{Kind: ExceedMaximum, Length: len(sig)}
	}
	var types []Type
	pos := 0
	for pos < len(sig) {
		t, err := parseOneType(sig, &pos, 0, 0, 0)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func checkDepth(arrayDepth, structDepth, dictDepth int) error {
	if arrayDepth > maxTypeDepth {
		return &TypeError{Kind: ArrayDepth, Got: arrayDepth}
	}
	if structDepth > maxTypeDepth {
		return &TypeError{Kind: StructDepth, Got: structDepth}
	}
	if dictDepth > maxTypeDepth {
		return &TypeError{Kind: DictDepth, Got: dictDepth}
	}
	return nil
}

func parseOneType(sig []byte, pos *int, arrayDepth, structDepth, dictDepth int) (Type, error) {
	if err := checkDepth(arrayDepth, structDepth, dictDepth); err != nil {
		return Type{}, err
	}
	if *pos >= len(sig) {
		return Type{}, &TypeError{Kind: TooShort, Offset: *pos}
	}
	c := sig[*pos]
	*pos++

	switch c {
	case 'y', 'b', 'n', 'q', 'i', 'u', 'x', 't', 'd', 's', 'o', 'g', 'v', 'h':
		return Type{kind: Kind(c)}, nil
	case 'a':
		elem, err := parseOneType(sig, pos, arrayDepth+1, structDepth, dictDepth)
		if err != nil {
			return Type{}, err
		}
		return NewArrayType(elem), nil
	case '(':
		var fields []Type
		for {
			if *pos >= len(sig) {
				return Type{}, &TypeError{Kind: TooShort, Offset: *pos}
			}
			if sig[*pos] == ')' {
				*pos++
				break
			}
			f, err := parseOneType(sig, pos, arrayDepth, structDepth+1, dictDepth)
			if err != nil {
				return Type{}, err
			}
			fields = append(fields, f)
		}
		if len(fields) == 0 {
			return Type{}, &TypeError{Kind: StructEmpty}
		}
		return Type{kind: KindStruct, fields: fields}, nil
	case '{':
		key, err := parseOneType(sig, pos, arrayDepth, structDepth, dictDepth+1)
		if err != nil {
			return Type{}, err
		}
		val, err := parseOneType(sig, pos, arrayDepth, structDepth, dictDepth+1)
		if err != nil {
			return Type{}, err
		}
		if *pos >= len(sig) {
			return Type{}, &TypeError{Kind: TooShort, Offset: *pos}
		}
		if sig[*pos] != '}' {
			return Type{}, &TypeError{Kind: ClosingCurlyBracket, Offset: *pos, Got: int(sig[*pos])}
		}
		*pos++
		return NewDictEntryType(key, val), nil
	default:
		return Type{}, &TypeError{Kind: InvalidChar, Char: c}
	}
}

// RenderSignature is the inverse of ParseSignature: it renders an ordered
// list of Types as a signature string, enforcing the 255-byte total
// length limit.
func RenderSignature(types []Type) (string, error) {
	var b strings.Builder
	for _, t := range types {
		if err := t.appendSignature(&b, 0, 0, 0); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}
