package dbus

import "encoding/binary"

// A Message is a complete D-Bus message: its header plus an ordered
// body of Values whose types render to the header's Signature field
// (spec §3, §4.3).
type Message struct {
	Header *MessageHeader
	Body   []Value
}

func newMessage(order binary.ByteOrder, mt MessageType) *Message {
	return &Message{
		Header: &MessageHeader{Order: order, Type: mt, ProtocolVersion: 1},
	}
}

// SetSerial sets the message's serial number, the one field a caller
// assigns after construction (spec §3's Lifecycle paragraph: a Message
// is built, serialed by the connection, then encoded).
func (m *Message) SetSerial(serial uint32) { m.Header.Serial = serial }

// AddValue appends v to the body and extends the header's Signature to
// match, returning a TypeError if v's type cannot be derived.
func (m *Message) AddValue(v Value) error {
	t, err := TypeOf(v)
	if err != nil {
		return err
	}
	m.Body = append(m.Body, v)
	m.Header.Signature = append(m.Header.Signature, t)
	return nil
}

// MethodCall returns a new METHOD_CALL message addressed to destination
// at path/iface/member, with an empty body.
func MethodCall(destination Bus, path ObjectPath, iface Interface, member Member) *Message {
	m := newMessage(binary.LittleEndian, TypeMethodCall)
	m.Header.Destination = &destination
	m.Header.Path = &path
	m.Header.Interface = &iface
	m.Header.Member = &member
	return m
}

// Signal returns a new SIGNAL message from path/iface/member, with an
// empty body.
func Signal(path ObjectPath, iface Interface, member Member) *Message {
	m := newMessage(binary.LittleEndian, TypeSignal)
	m.Header.Path = &path
	m.Header.Interface = &iface
	m.Header.Member = &member
	return m
}

// org.freedesktop.DBus.Properties is the standard interface PropertyGet,
// PropertiesGetAll and PropertySet address (spec §7, supplemented).
const propertiesInterface = "org.freedesktop.DBus.Properties"

// PropertyGet returns a METHOD_CALL invoking
// org.freedesktop.DBus.Properties.Get(iface, property).
func PropertyGet(destination Bus, path ObjectPath, iface Interface, property Member) *Message {
	propsIface, _ := NewInterface(propertiesInterface)
	getMember, _ := NewMember("Get")
	m := MethodCall(destination, path, propsIface, getMember)
	_ = m.AddValue(ValueString(iface.String()))
	_ = m.AddValue(ValueString(property.String()))
	return m
}

// PropertiesGetAll returns a METHOD_CALL invoking
// org.freedesktop.DBus.Properties.GetAll(iface).
func PropertiesGetAll(destination Bus, path ObjectPath, iface Interface) *Message {
	propsIface, _ := NewInterface(propertiesInterface)
	getAllMember, _ := NewMember("GetAll")
	m := MethodCall(destination, path, propsIface, getAllMember)
	_ = m.AddValue(ValueString(iface.String()))
	return m
}

// PropertySet returns a METHOD_CALL invoking
// org.freedesktop.DBus.Properties.Set(iface, property, value).
func PropertySet(destination Bus, path ObjectPath, iface Interface, property Member, value Value) *Message {
	propsIface, _ := NewInterface(propertiesInterface)
	setMember, _ := NewMember("Set")
	m := MethodCall(destination, path, propsIface, setMember)
	_ = m.AddValue(ValueString(iface.String()))
	_ = m.AddValue(ValueString(property.String()))
	_ = m.AddValue(ValueVariant{Inner: value})
	return m
}

// MethodReturn returns a new METHOD_RETURN message replying to m, with
// reply_serial set from m's serial and an empty body.
func (m *Message) MethodReturn() *Message {
	reply := newMessage(m.Header.Order, TypeMethodReturn)
	serial := m.Header.Serial
	reply.Header.ReplySerial = &serial
	if m.Header.Sender != nil {
		reply.Header.Destination = m.Header.Sender
	}
	return reply
}

// Error returns a new ERROR message replying to m with the given error
// name and a single string body argument.
func (m *Message) Error(name ErrorName, text string) *Message {
	reply := newMessage(m.Header.Order, TypeErrorMessage)
	serial := m.Header.Serial
	reply.Header.ReplySerial = &serial
	reply.Header.ErrorName = &name
	if m.Header.Sender != nil {
		reply.Header.Destination = m.Header.Sender
	}
	_ = reply.AddValue(ValueString(text))
	return reply
}

// InvalidArgs returns an org.freedesktop.DBus.Error.InvalidArgs reply to
// m, carrying reason as the error text.
func (m *Message) InvalidArgs(reason string) *Message {
	name, _ := NewErrorName("org.freedesktop.DBus.Error.InvalidArgs")
	return m.Error(name, reason)
}

func (m *Message) cannedError(errName, text string) *Message {
	name, _ := NewErrorName(errName)
	return m.Error(name, text)
}

// UnknownPath returns an org.freedesktop.DBus.Error.UnknownObject reply
// to m.
func (m *Message) UnknownPath() *Message {
	path := ""
	if m.Header.Path != nil {
		path = m.Header.Path.String()
	}
	return m.cannedError("org.freedesktop.DBus.Error.UnknownObject", "Unknown object path "+path)
}

// UnknownInterface returns an
// org.freedesktop.DBus.Error.UnknownInterface reply to m.
func (m *Message) UnknownInterface() *Message {
	iface := ""
	if m.Header.Interface != nil {
		iface = m.Header.Interface.String()
	}
	return m.cannedError("org.freedesktop.DBus.Error.UnknownInterface", "Unknown interface "+iface)
}

// UnknownMember returns an org.freedesktop.DBus.Error.UnknownMethod
// reply to m.
func (m *Message) UnknownMember() *Message {
	member := ""
	if m.Header.Member != nil {
		member = m.Header.Member.String()
	}
	return m.cannedError("org.freedesktop.DBus.Error.UnknownMethod", "Unknown method "+member)
}

// UnknownProperty returns an org.freedesktop.DBus.Error.UnknownProperty
// reply to m.
func (m *Message) UnknownProperty() *Message {
	return m.cannedError("org.freedesktop.DBus.Error.UnknownProperty", "Unknown property")
}

// DecodeMessage decodes a complete Message (fixed header, header-fields
// array, and body) from buf, which must hold exactly one message. fds is
// the table of file descriptors inherited alongside buf, if any.
func DecodeMessage(buf []byte, fds []int) (*Message, error) {
	if len(buf) < 1 {
		return nil, &DecodeError{Kind: NotEnoughBytes, Have: 0, Need: 1}
	}
	var order binary.ByteOrder
	switch buf[0] {
	case littleEndian:
		order = binary.LittleEndian
	case bigEndian:
		order = binary.BigEndian
	default:
		return nil, &DecodeError{Kind: Endianness, Byte: buf[0]}
	}

	d := NewDecoderFDs(buf, order, fds)
	d.offset = 1 // the endianness byte is read out-of-band, above

	h, bodyLength, err := decodeHeader(d)
	if err != nil {
		return nil, err
	}

	bodyStart := d.offset
	bodyEnd := bodyStart + uint64(bodyLength)
	if bodyEnd > uint64(len(buf)) {
		return nil, &DecodeError{Kind: NotEnoughBytes, Have: uint64(len(buf)), Need: bodyEnd}
	}

	var body []Value
	for _, t := range h.Signature {
		v, err := d.Value(t, 0, 0)
		if err != nil {
			return nil, err
		}
		body = append(body, v)
	}
	if d.offset != bodyEnd {
		return nil, &DecodeError{Kind: BodyLength, Have: d.offset - bodyStart, Need: uint64(bodyLength)}
	}

	return &Message{Header: h, Body: body}, nil
}

// EncodeMessage encodes m into a complete wire message, returning the
// bytes and the file descriptor table referenced by any UnixFD values in
// the body.
func EncodeMessage(m *Message) ([]byte, []int, error) {
	if len(m.Body) == 0 && len(m.Header.Signature) > 0 {
		return nil, nil, &EncodeError{Kind: EncodeBodyLengthZero}
	}
	if len(m.Body) > 0 && len(m.Header.Signature) == 0 {
		return nil, nil, &EncodeError{Kind: EncodeBodySignatureMissing}
	}
	sig, err := SignatureOfValues(m.Body)
	if err != nil {
		return nil, nil, err
	}
	wantSig, err := RenderSignature(m.Header.Signature)
	if err != nil {
		return nil, nil, err
	}
	if sig != wantSig {
		return nil, nil, &EncodeError{Kind: ArraySignatureMismatch}
	}
	if err := m.Header.Validate(); err != nil {
		return nil, nil, err
	}

	body := NewEncoder(m.Header.Order)
	for _, v := range m.Body {
		if err := body.Value(v); err != nil {
			return nil, nil, err
		}
	}
	if body.Len() > maxArrayLength {
		return nil, nil, &EncodeError{Kind: EncodeArrayTooBig, Length: body.Len()}
	}

	header := *m.Header
	if n := len(body.FDs()); n > 0 {
		count := uint32(n)
		header.UnixFDs = &count
	}

	e := NewEncoder(m.Header.Order)
	if err := encodeHeader(e, &header, uint32(body.Len())); err != nil {
		return nil, nil, err
	}
	out := append(e.Bytes(), body.Bytes()...)
	if uint64(len(out)) > maxMessageLength {
		return nil, nil, &EncodeError{Kind: EncodeMessageTooBig, Length: uint64(len(out))}
	}
	return out, body.FDs(), nil
}
