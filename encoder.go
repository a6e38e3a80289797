package dbus

import (
	"encoding/binary"
	"math"
)

// An Encoder writes D-Bus values into a growing byte buffer, the exact
// inverse of Decoder. It also interns Unix file descriptors into a table
// the caller can hand to the transport alongside the encoded bytes.
//
// An Encoder is not safe for concurrent use.
type Encoder struct {
	buf   []byte
	order binary.ByteOrder

	fds          []int
	variantDepth int
}

// NewEncoder returns an empty Encoder writing in the given byte order.
func NewEncoder(order binary.ByteOrder) *Encoder {
	return &Encoder{order: order}
}

// Bytes returns the bytes written so far.
func (e *Encoder) Bytes() []byte { return e.buf }

// FDs returns the Unix file descriptors interned so far, in the order
// their UnixFD values were encoded.
func (e *Encoder) FDs() []int { return e.fds }

// Len returns the number of bytes written so far.
func (e *Encoder) Len() uint64 { return uint64(len(e.buf)) }

// align pads the buffer with zero bytes up to the next multiple of n.
func (e *Encoder) align(n uint64) {
	_, padding := nextOffset(uint64(len(e.buf)), n)
	for i := uint64(0); i < padding; i++ {
		e.buf = append(e.buf, 0)
	}
}

// Byte encodes a D-Bus BYTE.
func (e *Encoder) Byte(b byte) { e.buf = append(e.buf, b) }

// Boolean encodes a D-Bus BOOLEAN as a UINT32 of 0 or 1.
func (e *Encoder) Boolean(b bool) {
	if b {
		e.Uint32(1)
	} else {
		e.Uint32(0)
	}
}

// Int16 encodes a D-Bus INT16.
func (e *Encoder) Int16(v int16) { e.Uint16(uint16(v)) }

// Uint16 encodes a D-Bus UINT16.
func (e *Encoder) Uint16(v uint16) {
	e.align(2)
	b := make([]byte, 2)
	e.order.PutUint16(b, v)
	e.buf = append(e.buf, b...)
}

// Int32 encodes a D-Bus INT32.
func (e *Encoder) Int32(v int32) { e.Uint32(uint32(v)) }

// Uint32 encodes a D-Bus UINT32.
func (e *Encoder) Uint32(v uint32) {
	e.align(4)
	b := make([]byte, 4)
	e.order.PutUint32(b, v)
	e.buf = append(e.buf, b...)
}

// Int64 encodes a D-Bus INT64.
func (e *Encoder) Int64(v int64) { e.Uint64(uint64(v)) }

// Uint64 encodes a D-Bus UINT64.
func (e *Encoder) Uint64(v uint64) {
	e.align(8)
	b := make([]byte, 8)
	e.order.PutUint64(b, v)
	e.buf = append(e.buf, b...)
}

// Double encodes a D-Bus DOUBLE.
func (e *Encoder) Double(v float64) { e.Uint64(math.Float64bits(v)) }

// String encodes a D-Bus STRING or OBJECT_PATH wire form: a u32 length,
// the UTF-8 bytes, then a nul byte.
func (e *Encoder) String(s string) {
	e.Uint32(uint32(len(s)))
	e.buf = append(e.buf, s...)
	e.buf = append(e.buf, 0)
}

// ObjectPath encodes an ObjectPath as a STRING.
func (e *Encoder) ObjectPath(p ObjectPath) { e.String(p.String()) }

// Signature encodes a D-Bus SIGNATURE: a one-byte length, the signature
// bytes, then a nul byte.
func (e *Encoder) Signature(types []Type) error {
	s, err := RenderSignature(types)
	if err != nil {
		return err
	}
	if len(s) > math.MaxUint8 {
		return &EncodeError{Kind: SignatureTooBig, Length: uint64(len(s))}
	}
	e.buf = append(e.buf, byte(len(s)))
	e.buf = append(e.buf, s...)
	e.buf = append(e.buf, 0)
	return nil
}

// UnixFD interns fd into the Encoder's fd table (if not already present)
// and encodes its table index as a UINT32. The codec never dups or
// closes fd; ownership stays with the caller (spec §5).
func (e *Encoder) UnixFD(fd int) {
	idx := -1
	for i, f := range e.fds {
		if f == fd {
			idx = i
			break
		}
	}
	if idx < 0 {
		idx = len(e.fds)
		e.fds = append(e.fds, fd)
	}
	e.Uint32(uint32(idx))
}

// Variant encodes a VARIANT: the inner value's signature, then the value
// itself. Variant nesting is capped at 4.
func (e *Encoder) Variant(v Value) error {
	if e.variantDepth+1 > maxVariantDepth {
		return &EncodeError{Kind: EncodeVariantDepth}
	}
	t, err := TypeOf(v)
	if err != nil {
		return err
	}
	if err := e.Signature([]Type{t}); err != nil {
		return err
	}
	e.variantDepth++
	defer func() { e.variantDepth-- }()
	return e.Value(v)
}

// Value encodes a single Value, dispatching on its concrete type.
func (e *Encoder) Value(v Value) error {
	switch v := v.(type) {
	case ValueByte:
		e.Byte(byte(v))
	case ValueBoolean:
		e.Boolean(bool(v))
	case ValueInt16:
		e.Int16(int16(v))
	case ValueUint16:
		e.Uint16(uint16(v))
	case ValueInt32:
		e.Int32(int32(v))
	case ValueUint32:
		e.Uint32(uint32(v))
	case ValueInt64:
		e.Int64(int64(v))
	case ValueUint64:
		e.Uint64(uint64(v))
	case ValueDouble:
		e.Double(float64(v))
	case ValueString:
		e.String(string(v))
	case ValueObjectPath:
		e.ObjectPath(v.Path)
	case ValueSignature:
		return e.Signature(v.Types)
	case ValueUnixFD:
		e.UnixFD(int(v))
	case ValueVariant:
		return e.Variant(v.Inner)
	case ValueArray:
		return e.array(v)
	case ValueStruct:
		return e.structValue(v)
	case ValueDictEntry:
		return e.dictEntry(v)
	default:
		return &TypeError{Kind: MultipleTypes}
	}
	return nil
}

// array encodes an ARRAY using the length-placeholder-then-backpatch
// technique: reserve 4 bytes for the length, align to the element type,
// encode every element, then overwrite the placeholder. The encoded
// length counts bytes only from after that first alignment, per
// spec §4.4.2.
func (e *Encoder) array(a ValueArray) error {
	e.align(4)
	lengthOffset := len(e.buf)
	e.buf = append(e.buf, 0, 0, 0, 0)
	e.align(uint64(a.ElemType.Alignment()))
	start := len(e.buf)

	for _, elem := range a.Elements {
		t, err := TypeOf(elem)
		if err != nil {
			return err
		}
		if !t.Equal(a.ElemType) {
			return &EncodeError{Kind: ArraySignatureMismatch, Want: a.ElemType, Got: t}
		}
		if err := e.Value(elem); err != nil {
			return err
		}
	}

	length := uint64(len(e.buf) - start)
	if length > maxArrayLength {
		return &EncodeError{Kind: EncodeArrayTooBig, Length: length}
	}
	e.order.PutUint32(e.buf[lengthOffset:lengthOffset+4], uint32(length))
	return nil
}

// structValue encodes a STRUCT: align to 8, then encode each field.
func (e *Encoder) structValue(s ValueStruct) error {
	e.align(8)
	for _, f := range s.Fields {
		if err := e.Value(f); err != nil {
			return err
		}
	}
	return nil
}

// dictEntry encodes a DICT_ENTRY: align to 8, then key, then value.
func (e *Encoder) dictEntry(d ValueDictEntry) error {
	e.align(8)
	if err := e.Value(d.Key); err != nil {
		return err
	}
	return e.Value(d.Val)
}
