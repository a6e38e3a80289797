// Package dbus implements a codec for the D-Bus wire protocol.
//
// It converts between an in-memory, typed message representation and the
// byte stream that travels over a D-Bus transport: a closed algebra of
// D-Bus types (Type, Value), a Decoder and Encoder that are exact inverses
// of each other, a Message/MessageHeader layer with required-field
// enforcement and canned reply constructors, and a match-rule mini
// language used for subscription filtering.
//
// The package is deliberately synchronous and transport-agnostic: it does
// not dial sockets, does not perform the AUTH EXTERNAL handshake, and does
// not dispatch method calls to a service implementation. Callers own the
// connection and feed bytes in and out of DecodeMessage/EncodeMessage.
package dbus
