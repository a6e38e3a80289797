package dbus

// A Value is a single D-Bus value: a tagged union parallel to Type. Every
// concrete type below implements Value; a type switch on the concrete
// type is the dispatch mechanism used throughout the codec (see
// DESIGN.md, Open Question O1).
type Value interface {
	isValue()
}

// Concrete Value variants for the thirteen basic types; Variant and the
// containers follow below.
type (
	ValueByte       byte
	ValueBoolean    bool
	ValueInt16      int16
	ValueUint16     uint16
	ValueInt32      int32
	ValueUint32     uint32
	ValueInt64      int64
	ValueUint64     uint64
	ValueDouble     float64
	ValueString     string
	ValueObjectPath struct{ Path ObjectPath }
	ValueSignature  struct{ Types []Type }
	// ValueUnixFD holds the real file descriptor handle, not a wire-level
	// table index; Decoder.UnixFD already resolves the index through the
	// inherited fd table, and Encoder.UnixFD re-interns it on encode.
	ValueUnixFD int
)

func (ValueByte) isValue()       {}
func (ValueBoolean) isValue()    {}
func (ValueInt16) isValue()      {}
func (ValueUint16) isValue()     {}
func (ValueInt32) isValue()      {}
func (ValueUint32) isValue()     {}
func (ValueInt64) isValue()      {}
func (ValueUint64) isValue()     {}
func (ValueDouble) isValue()     {}
func (ValueString) isValue()     {}
func (ValueObjectPath) isValue() {}
func (ValueSignature) isValue()  {}
func (ValueUnixFD) isValue()     {}

// A ValueVariant wraps exactly one inner Value. On the wire it carries
// its own signature, derived from the inner value with TypeOf.
type ValueVariant struct{ Inner Value }

func (ValueVariant) isValue() {}

// A ValueArray carries its element type alongside the elements, so that
// an empty array keeps its signature (spec §3).
type ValueArray struct {
	ElemType Type
	Elements []Value
}

func (ValueArray) isValue() {}

// NewArray validates that every element of elements derives the type
// elemType, and returns the Array value. An empty elements slice is
// legal.
func NewArray(elemType Type, elements []Value) (ValueArray, error) {
	for _, e := range elements {
		t, err := TypeOf(e)
		if err != nil {
			return ValueArray{}, err
		}
		if !t.Equal(elemType) {
			return ValueArray{}, &EncodeError{Kind: ArraySignatureMismatch, Want: elemType, Got: t}
		}
	}
	cp := make([]Value, len(elements))
	copy(cp, elements)
	return ValueArray{ElemType: elemType, Elements: cp}, nil
}

// A ValueStruct carries an ordered, non-empty sequence of Values.
type ValueStruct struct{ Fields []Value }

func (ValueStruct) isValue() {}

// NewStruct returns the Struct value with the given, non-empty, fields.
func NewStruct(fields ...Value) (ValueStruct, error) {
	if len(fields) == 0 {
		return ValueStruct{}, &TypeError{Kind: StructEmpty}
	}
	cp := make([]Value, len(fields))
	copy(cp, fields)
	return ValueStruct{Fields: cp}, nil
}

// A ValueDictEntry is a single key/value cell, legal only as the element
// type of an Array (spec §3).
type ValueDictEntry struct{ Key, Val Value }

func (ValueDictEntry) isValue() {}

// TypeOf derives the Type of a Value, recursing into containers.
func TypeOf(v Value) (Type, error) {
	switch v := v.(type) {
	case ValueByte:
		return TypeByte, nil
	case ValueBoolean:
		return TypeBoolean, nil
	case ValueInt16:
		return TypeInt16, nil
	case ValueUint16:
		return TypeUint16, nil
	case ValueInt32:
		return TypeInt32, nil
	case ValueUint32:
		return TypeUint32, nil
	case ValueInt64:
		return TypeInt64, nil
	case ValueUint64:
		return TypeUint64, nil
	case ValueDouble:
		return TypeDouble, nil
	case ValueString:
		return TypeString, nil
	case ValueObjectPath:
		return TypeObjectPath, nil
	case ValueSignature:
		return TypeSignature, nil
	case ValueUnixFD:
		return TypeUnixFD, nil
	case ValueVariant:
		return TypeVariant, nil
	case ValueArray:
		return NewArrayType(v.ElemType), nil
	case ValueStruct:
		fields := make([]Type, len(v.Fields))
		for i, f := range v.Fields {
			t, err := TypeOf(f)
			if err != nil {
				return Type{}, err
			}
			fields[i] = t
		}
		return NewStructType(fields...)
	case ValueDictEntry:
		k, err := TypeOf(v.Key)
		if err != nil {
			return Type{}, err
		}
		val, err := TypeOf(v.Val)
		if err != nil {
			return Type{}, err
		}
		return NewDictEntryType(k, val), nil
	default:
		return Type{}, &TypeError{Kind: MultipleTypes}
	}
}

// SignatureOfValues renders the signature describing an ordered sequence
// of values, e.g. a Message body.
func SignatureOfValues(values []Value) (string, error) {
	types := make([]Type, len(values))
	for i, v := range values {
		t, err := TypeOf(v)
		if err != nil {
			return "", err
		}
		types[i] = t
	}
	return RenderSignature(types)
}
