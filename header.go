package dbus

import "encoding/binary"

// A MessageType identifies the kind of a Message, the wire byte at
// header offset 1 (spec §4.3.3).
type MessageType byte

// Kinds of MessageType.
const (
	TypeInvalid MessageType = iota
	TypeMethodCall
	TypeMethodReturn
	TypeErrorMessage
	TypeSignal
)

// MessageFlags is a bitset of the wire byte at header offset 2.
type MessageFlags byte

// Flag bits of MessageFlags.
const (
	FlagNoReplyExpected MessageFlags = 1 << iota
	FlagNoAutoStart
	FlagAllowInteractiveAuthorization
)

// Header field codes, spec §4.3.6.
const (
	fieldPath uint8 = iota + 1
	fieldInterface
	fieldMember
	fieldErrorName
	fieldReplySerial
	fieldDestination
	fieldSender
	fieldSignature
	fieldUnixFDs
)

var fieldNames = map[uint8]string{
	fieldPath:        "PATH",
	fieldInterface:   "INTERFACE",
	fieldMember:      "MEMBER",
	fieldErrorName:   "ERROR_NAME",
	fieldReplySerial: "REPLY_SERIAL",
	fieldDestination: "DESTINATION",
	fieldSender:      "SENDER",
	fieldSignature:   "SIGNATURE",
	fieldUnixFDs:     "UNIX_FDS",
}

func fieldName(code uint8) string {
	if n, ok := fieldNames[code]; ok {
		return n
	}
	return "UNKNOWN"
}

// fieldType reports the single type each known header field's variant
// must carry (spec §4.3.6).
func fieldType(code uint8) Type {
	switch code {
	case fieldPath:
		return TypeObjectPath
	case fieldReplySerial, fieldUnixFDs:
		return TypeUint32
	case fieldSignature:
		return TypeSignature
	default:
		return TypeString
	}
}

// headerFieldEntry is the Struct(BYTE, VARIANT) type every element of
// the header-fields array decodes as.
var headerFieldEntry = Type{kind: KindStruct, fields: []Type{TypeByte, TypeVariant}}

// requiredFields lists the header fields spec §4.3.6 mandates for each
// MessageType.
var requiredFields = map[MessageType][]uint8{
	TypeMethodCall:   {fieldPath, fieldMember},
	TypeMethodReturn: {fieldReplySerial},
	TypeErrorMessage: {fieldErrorName, fieldReplySerial},
	TypeSignal:       {fieldPath, fieldInterface, fieldMember},
}

// A MessageHeader is the fixed fields plus the header-fields array of a
// D-Bus Message (spec §4.3.3 through §4.3.6).
type MessageHeader struct {
	Order           binary.ByteOrder
	Type            MessageType
	Flags           MessageFlags
	ProtocolVersion byte
	Serial          uint32

	Path        *ObjectPath
	Interface   *Interface
	Member      *Member
	ErrorName   *ErrorName
	ReplySerial *uint32
	Destination *Bus
	Sender      *Bus
	Signature   []Type
	UnixFDs     *uint32
}

// Validate enforces that h carries every header field requiredFields
// lists for h.Type (spec §4.3.6).
func (h *MessageHeader) Validate() error {
	for _, code := range requiredFields[h.Type] {
		if h.has(code) {
			continue
		}
		return &DecodeError{Kind: MissingField, Field: fieldName(code)}
	}
	return nil
}

func (h *MessageHeader) has(code uint8) bool {
	switch code {
	case fieldPath:
		return h.Path != nil
	case fieldInterface:
		return h.Interface != nil
	case fieldMember:
		return h.Member != nil
	case fieldErrorName:
		return h.ErrorName != nil
	case fieldReplySerial:
		return h.ReplySerial != nil
	case fieldDestination:
		return h.Destination != nil
	case fieldSender:
		return h.Sender != nil
	case fieldSignature:
		return len(h.Signature) > 0
	case fieldUnixFDs:
		return h.UnixFDs != nil
	default:
		return false
	}
}

// setField unpacks one decoded (code, variant) header-fields entry into
// the matching MessageHeader field, checking the variant carries the
// type fieldType expects and that the field has not already been set.
func (h *MessageHeader) setField(code uint8, val Value) error {
	if h.has(code) {
		return &DecodeError{Kind: MultipleField, Field: fieldName(code)}
	}
	variant, ok := val.(ValueVariant)
	if !ok {
		return &DecodeError{Kind: FieldType, Field: fieldName(code)}
	}
	inner := variant.Inner
	t, err := TypeOf(inner)
	if err != nil {
		return err
	}
	if !t.Equal(fieldType(code)) {
		return &DecodeError{Kind: FieldType, Field: fieldName(code)}
	}

	switch code {
	case fieldPath:
		p := inner.(ValueObjectPath).Path
		h.Path = &p
	case fieldInterface:
		n, err := NewInterface(string(inner.(ValueString)))
		if err != nil {
			return err
		}
		h.Interface = &n
	case fieldMember:
		m, err := NewMember(string(inner.(ValueString)))
		if err != nil {
			return err
		}
		h.Member = &m
	case fieldErrorName:
		n, err := NewErrorName(string(inner.(ValueString)))
		if err != nil {
			return err
		}
		h.ErrorName = &n
	case fieldReplySerial:
		s := uint32(inner.(ValueUint32))
		h.ReplySerial = &s
	case fieldDestination:
		b, err := NewBus(string(inner.(ValueString)))
		if err != nil {
			return err
		}
		h.Destination = &b
	case fieldSender:
		b, err := NewBus(string(inner.(ValueString)))
		if err != nil {
			return err
		}
		h.Sender = &b
	case fieldSignature:
		h.Signature = inner.(ValueSignature).Types
	case fieldUnixFDs:
		n := uint32(inner.(ValueUint32))
		h.UnixFDs = &n
	}
	return nil
}

// decodeHeader reads the fixed header and the header-fields array. The
// returned bodyLength is the wire-declared body length, used by the
// caller to size the body decode.
func decodeHeader(d *Decoder) (h *MessageHeader, bodyLength uint32, err error) {
	h = &MessageHeader{Order: d.order}

	mt, err := d.Byte()
	if err != nil {
		return nil, 0, err
	}
	if mt < byte(TypeMethodCall) || mt > byte(TypeSignal) {
		return nil, 0, &DecodeError{Kind: InvalidMessageType, Byte: mt}
	}
	h.Type = MessageType(mt)

	flags, err := d.Byte()
	if err != nil {
		return nil, 0, err
	}
	const knownFlags = byte(FlagNoReplyExpected | FlagNoAutoStart | FlagAllowInteractiveAuthorization)
	if flags&^knownFlags != 0 {
		return nil, 0, &DecodeError{Kind: InvalidMessageFlags, Byte: flags}
	}
	h.Flags = MessageFlags(flags)

	if h.ProtocolVersion, err = d.Byte(); err != nil {
		return nil, 0, err
	}
	if bodyLength, err = d.Uint32(); err != nil {
		return nil, 0, err
	}
	if h.Serial, err = d.Uint32(); err != nil {
		return nil, 0, err
	}

	fieldsVal, err := d.array(headerFieldEntry, 0, 0)
	if err != nil {
		return nil, 0, err
	}
	for _, entry := range fieldsVal.(ValueArray).Elements {
		fields := entry.(ValueStruct).Fields
		code := uint8(fields[0].(ValueByte))
		if _, known := fieldNames[code]; !known {
			continue
		}
		if err := h.setField(code, fields[1]); err != nil {
			return nil, 0, err
		}
	}

	if err := d.align(8); err != nil {
		return nil, 0, err
	}
	if err := h.Validate(); err != nil {
		return nil, 0, err
	}
	if bodyLength == 0 && len(h.Signature) > 0 {
		return nil, 0, &DecodeError{Kind: BodyLengthZero}
	}
	if bodyLength != 0 && len(h.Signature) == 0 {
		return nil, 0, &DecodeError{Kind: BodySignatureMissing}
	}
	return h, bodyLength, nil
}

// encodeHeader writes the fixed header fields and the header-fields
// array, padding to the 8-byte boundary the body must start on.
func encodeHeader(e *Encoder, h *MessageHeader, bodyLength uint32) error {
	if h.Order == littleEndianOrder {
		e.Byte(littleEndian)
	} else {
		e.Byte(bigEndian)
	}
	e.Byte(byte(h.Type))
	e.Byte(byte(h.Flags))
	e.Byte(h.ProtocolVersion)
	e.Uint32(bodyLength)
	e.Uint32(h.Serial)

	type entry struct {
		code uint8
		v    Value
	}
	var entries []entry
	if h.Path != nil {
		entries = append(entries, entry{fieldPath, ValueObjectPath{Path: *h.Path}})
	}
	if h.Interface != nil {
		entries = append(entries, entry{fieldInterface, ValueString(h.Interface.String())})
	}
	if h.Member != nil {
		entries = append(entries, entry{fieldMember, ValueString(h.Member.String())})
	}
	if h.ErrorName != nil {
		entries = append(entries, entry{fieldErrorName, ValueString(h.ErrorName.String())})
	}
	if h.ReplySerial != nil {
		entries = append(entries, entry{fieldReplySerial, ValueUint32(*h.ReplySerial)})
	}
	if h.Destination != nil {
		entries = append(entries, entry{fieldDestination, ValueString(h.Destination.String())})
	}
	if h.Sender != nil {
		entries = append(entries, entry{fieldSender, ValueString(h.Sender.String())})
	}
	if len(h.Signature) > 0 {
		entries = append(entries, entry{fieldSignature, ValueSignature{Types: h.Signature}})
	}
	if h.UnixFDs != nil {
		entries = append(entries, entry{fieldUnixFDs, ValueUint32(*h.UnixFDs)})
	}

	elements := make([]Value, len(entries))
	for i, ent := range entries {
		elements[i] = ValueStruct{Fields: []Value{ValueByte(ent.code), ValueVariant{Inner: ent.v}}}
	}
	if err := e.Value(ValueArray{ElemType: headerFieldEntry, Elements: elements}); err != nil {
		return err
	}
	e.align(8)
	return nil
}

var littleEndianOrder = binary.LittleEndian
