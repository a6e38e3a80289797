package dbus

import (
	"encoding/binary"
	"errors"
	"math"
	"unicode/utf8"
)

// A Decoder reads D-Bus values from a byte buffer it does not own. It
// tracks an offset (for alignment) and, on platforms with Unix file
// descriptors, a high-water mark into an inherited fd table.
//
// A Decoder is not safe for concurrent use; callers run one decode at a
// time and discard the Decoder's state on the first error, per spec §5.
type Decoder struct {
	buf    []byte
	offset uint64
	order  binary.ByteOrder

	fds       []int
	offsetFDs uint64

	variantDepth int
}

// NewDecoder returns a Decoder reading from buf in the given byte order.
// buf is clipped to the maximum message length; bytes beyond that are
// simply unavailable (spec §4.3.1).
func NewDecoder(buf []byte, order binary.ByteOrder) *Decoder {
	if len(buf) > maxMessageLength {
		buf = buf[:maxMessageLength]
	}
	return &Decoder{buf: buf, order: order}
}

// NewDecoderFDs returns a Decoder that also consumes a table of inherited
// file descriptors for UnixFD values.
func NewDecoderFDs(buf []byte, order binary.ByteOrder, fds []int) *Decoder {
	d := NewDecoder(buf, order)
	d.fds = fds
	return d
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() uint64 { return d.offset }

// FDsConsumed returns one past the highest UnixFD index observed, i.e.
// how many leading entries of the inherited fd table were used.
func (d *Decoder) FDsConsumed() uint64 { return d.offsetFDs }

// remaining returns the bytes not yet consumed.
func (d *Decoder) remaining() []byte {
	return d.buf[d.offset:]
}

// align advances the cursor to the next multiple of n, verifying that
// every padding byte read is zero (spec §4.3.2, and DESIGN.md Open
// Question O3: padding is checked unconditionally, not only when
// alignment was not already satisfied).
func (d *Decoder) align(n uint64) error {
	next, padding := nextOffset(d.offset, n)
	if padding == 0 {
		return nil
	}
	if next > uint64(len(d.buf)) {
		return &DecodeError{Kind: NotEnoughBytes, Have: uint64(len(d.buf)), Need: next}
	}
	for _, b := range d.buf[d.offset:next] {
		if b != 0 {
			return &DecodeError{Kind: Padding, Byte: b}
		}
	}
	d.offset = next
	return nil
}

// readN returns the next n bytes and advances the cursor past them,
// checking bounds and overflow.
func (d *Decoder) readN(n uint64) ([]byte, error) {
	end := d.offset + n
	if end < d.offset {
		return nil, &DecodeError{Kind: IntegerOverflow}
	}
	if end > uint64(len(d.buf)) {
		return nil, &DecodeError{Kind: NotEnoughBytes, Have: uint64(len(d.buf)), Need: end}
	}
	b := d.buf[d.offset:end]
	d.offset = end
	return b, nil
}

// Byte decodes a D-Bus BYTE.
func (d *Decoder) Byte() (byte, error) {
	b, err := d.readN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Boolean decodes a D-Bus BOOLEAN, encoded on the wire as a UINT32 that
// must be 0 or 1.
func (d *Decoder) Boolean() (bool, error) {
	u, err := d.Uint32()
	if err != nil {
		return false, err
	}
	switch u {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, &DecodeError{Kind: InvalidBoolean, Have: uint64(u)}
	}
}

// Int16 decodes a D-Bus INT16.
func (d *Decoder) Int16() (int16, error) {
	if err := d.align(2); err != nil {
		return 0, err
	}
	b, err := d.readN(2)
	if err != nil {
		return 0, err
	}
	return int16(d.order.Uint16(b)), nil
}

// Uint16 decodes a D-Bus UINT16.
func (d *Decoder) Uint16() (uint16, error) {
	if err := d.align(2); err != nil {
		return 0, err
	}
	b, err := d.readN(2)
	if err != nil {
		return 0, err
	}
	return d.order.Uint16(b), nil
}

// Int32 decodes a D-Bus INT32.
func (d *Decoder) Int32() (int32, error) {
	if err := d.align(4); err != nil {
		return 0, err
	}
	b, err := d.readN(4)
	if err != nil {
		return 0, err
	}
	return int32(d.order.Uint32(b)), nil
}

// Uint32 decodes a D-Bus UINT32.
func (d *Decoder) Uint32() (uint32, error) {
	if err := d.align(4); err != nil {
		return 0, err
	}
	b, err := d.readN(4)
	if err != nil {
		return 0, err
	}
	return d.order.Uint32(b), nil
}

// Int64 decodes a D-Bus INT64.
func (d *Decoder) Int64() (int64, error) {
	if err := d.align(8); err != nil {
		return 0, err
	}
	b, err := d.readN(8)
	if err != nil {
		return 0, err
	}
	return int64(d.order.Uint64(b)), nil
}

// Uint64 decodes a D-Bus UINT64.
func (d *Decoder) Uint64() (uint64, error) {
	if err := d.align(8); err != nil {
		return 0, err
	}
	b, err := d.readN(8)
	if err != nil {
		return 0, err
	}
	return d.order.Uint64(b), nil
}

// Double decodes a D-Bus DOUBLE.
func (d *Decoder) Double() (float64, error) {
	u, err := d.Uint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

// String decodes a D-Bus STRING or OBJECT_PATH wire form: a u32 length,
// that many UTF-8 bytes, then a required nul byte (spec §4.3.4).
func (d *Decoder) String() (string, error) {
	n, err := d.Uint32()
	if err != nil {
		return "", err
	}
	b, err := d.readN(uint64(n) + 1)
	if err != nil {
		return "", err
	}
	if b[len(b)-1] != 0 {
		return "", &DecodeError{Kind: StringNotNull, Byte: b[len(b)-1]}
	}
	s := b[:len(b)-1]
	if !utf8.Valid(s) {
		return "", &DecodeError{Kind: UTF8, Err: errInvalidUTF8}
	}
	return string(s), nil
}

var errInvalidUTF8 = errors.New("string is not valid utf-8")

// ObjectPath decodes the STRING wire form and validates it as an object
// path.
func (d *Decoder) ObjectPath() (ObjectPath, error) {
	s, err := d.String()
	if err != nil {
		return ObjectPath{}, err
	}
	p, err := NewObjectPath(s)
	if err != nil {
		return ObjectPath{}, err
	}
	return p, nil
}

// Signature decodes a D-Bus SIGNATURE: a one-byte length, that many
// signature-alphabet bytes, then a required nul byte, then parses the
// result (spec §4.3.4).
func (d *Decoder) Signature() ([]Type, error) {
	n, err := d.Byte()
	if err != nil {
		return nil, err
	}
	b, err := d.readN(uint64(n) + 1)
	if err != nil {
		return nil, err
	}
	if b[len(b)-1] != 0 {
		return nil, &DecodeError{Kind: StringNotNull, Byte: b[len(b)-1]}
	}
	return ParseSignature(b[:len(b)-1])
}

// UnixFD decodes a D-Bus UNIX_FD: a u32 index into the inherited fd
// table. The codec never dups or closes the fd; it is a pass-through
// integer handle (spec §5).
func (d *Decoder) UnixFD() (int, error) {
	idx, err := d.Uint32()
	if err != nil {
		return 0, err
	}
	if int(idx) >= len(d.fds) {
		return 0, &DecodeError{Kind: UnixFDIndex, N: int(idx)}
	}
	if uint64(idx)+1 > d.offsetFDs {
		d.offsetFDs = uint64(idx) + 1
	}
	return d.fds[idx], nil
}

// Variant decodes a D-Bus VARIANT: its own inline signature, then exactly
// one value decoded using that signature (spec §4.3.5). Variant nesting
// is capped at 4.
func (d *Decoder) Variant() (Value, error) {
	if d.variantDepth+1 > maxVariantDepth {
		return nil, &DecodeError{Kind: VariantDepth, N: d.variantDepth + 1}
	}
	d.variantDepth++
	defer func() { d.variantDepth-- }()

	types, err := d.Signature()
	if err != nil {
		return nil, err
	}
	if len(types) != 1 {
		return nil, &TypeError{Kind: MultipleTypes}
	}
	v, err := d.Value(types[0], 0, 0)
	if err != nil {
		return nil, err
	}
	return ValueVariant{Inner: v}, nil
}

// Value decodes a single value of the given type, tracking array/struct
// recursion depth.
func (d *Decoder) Value(t Type, arrayDepth, structDepth int) (Value, error) {
	switch t.Kind() {
	case KindByte:
		b, err := d.Byte()
		return ValueByte(b), err
	case KindBoolean:
		b, err := d.Boolean()
		return ValueBoolean(b), err
	case KindInt16:
		v, err := d.Int16()
		return ValueInt16(v), err
	case KindUint16:
		v, err := d.Uint16()
		return ValueUint16(v), err
	case KindInt32:
		v, err := d.Int32()
		return ValueInt32(v), err
	case KindUint32:
		v, err := d.Uint32()
		return ValueUint32(v), err
	case KindInt64:
		v, err := d.Int64()
		return ValueInt64(v), err
	case KindUint64:
		v, err := d.Uint64()
		return ValueUint64(v), err
	case KindDouble:
		v, err := d.Double()
		return ValueDouble(v), err
	case KindString:
		v, err := d.String()
		return ValueString(v), err
	case KindObjectPath:
		v, err := d.ObjectPath()
		return ValueObjectPath{Path: v}, err
	case KindSignature:
		v, err := d.Signature()
		return ValueSignature{Types: v}, err
	case KindUnixFD:
		v, err := d.UnixFD()
		return ValueUnixFD(v), err
	case KindVariant:
		return d.Variant()
	case KindArray:
		return d.array(t.Elem(), arrayDepth, structDepth)
	case KindStruct:
		return d.structValue(t.Fields(), arrayDepth, structDepth)
	case KindDictEntry:
		return d.dictEntry(t.Key(), t.Val(), arrayDepth, structDepth)
	default:
		return nil, &TypeError{Kind: InvalidChar, Char: byte(t.Kind())}
	}
}

// array decodes an ARRAY: a u32 payload length in bytes, alignment to
// the element type, then elements decoded until the cursor reaches
// start+length (spec §4.3.5).
func (d *Decoder) array(elem Type, arrayDepth, structDepth int) (Value, error) {
	length, err := d.Uint32()
	if err != nil {
		return nil, err
	}
	if length > maxArrayLength {
		return nil, &DecodeError{Kind: ArrayTooBig, Have: uint64(length), Need: maxArrayLength}
	}
	if err := d.align(uint64(elem.Alignment())); err != nil {
		return nil, err
	}
	start := d.offset
	end := start + uint64(length)
	if end > uint64(len(d.buf)) {
		return nil, &DecodeError{Kind: NotEnoughBytes, Have: uint64(len(d.buf)), Need: end}
	}

	var elements []Value
	for d.offset < end {
		v, err := d.Value(elem, arrayDepth+1, structDepth)
		if err != nil {
			return nil, err
		}
		elements = append(elements, v)
	}
	if d.offset != end {
		return nil, &DecodeError{Kind: ArrayInvalidLength, Have: d.offset - start, Need: uint64(length)}
	}
	return ValueArray{ElemType: elem, Elements: elements}, nil
}

// structValue decodes a STRUCT: align to 8, then decode the inner type
// sequence in order.
func (d *Decoder) structValue(fields []Type, arrayDepth, structDepth int) (Value, error) {
	if structDepth+1 > maxTypeDepth {
		return nil, &TypeError{Kind: StructDepth, Got: structDepth + 1}
	}
	if err := d.align(8); err != nil {
		return nil, err
	}
	values := make([]Value, len(fields))
	for i, f := range fields {
		v, err := d.Value(f, arrayDepth, structDepth+1)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return ValueStruct{Fields: values}, nil
}

// dictEntry decodes a DICT_ENTRY: align to 8, then decode key then value.
func (d *Decoder) dictEntry(keyType, valType Type, arrayDepth, structDepth int) (Value, error) {
	if err := d.align(8); err != nil {
		return nil, err
	}
	key, err := d.Value(keyType, arrayDepth, structDepth)
	if err != nil {
		return nil, err
	}
	val, err := d.Value(valType, arrayDepth, structDepth)
	if err != nil {
		return nil, err
	}
	return ValueDictEntry{Key: key, Val: val}, nil
}
