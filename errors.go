package dbus

import "fmt"

// A TypeErrorKind identifies the reason a signature failed to parse or
// render.
type TypeErrorKind int

// Kinds of TypeError.
const (
	// InvalidChar means the signature contains a byte outside the type
	// alphabet.
	InvalidChar TypeErrorKind = iota
	// TooShort means the signature ended in the middle of a type.
	TooShort
	// ClosingCurlyBracket means a dict-entry type was not closed with '}'.
	ClosingCurlyBracket
	// ArrayDepth means the array nesting cap was exceeded.
	ArrayDepth
	// StructDepth means the struct nesting cap was exceeded.
	StructDepth
	// DictDepth means the dict-entry nesting cap was exceeded.
	DictDepth
	// ExceedMaximum means the rendered signature is longer than 255 bytes.
	ExceedMaximum
	// MultipleTypes means a variant's signature did not hold exactly one
	// type, or a Value of an unknown concrete type was given to TypeOf or
	// Encoder.Value.
	MultipleTypes
	// StructEmpty means a struct type had no inner types.
	StructEmpty
)

// A TypeError reports a failure to parse or render a signature, or to
// derive a Type from a Value.
type TypeError struct {
	Kind TypeErrorKind
	// Char is set for InvalidChar.
	Char byte
	// Offset is set for TooShort and ClosingCurlyBracket.
	Offset int
	// Got is set for ClosingCurlyBracket (the unexpected byte) and for
	// ArrayDepth/StructDepth/DictDepth (the depth that was exceeded).
	Got int
	// Length is set for ExceedMaximum.
	Length int
}

func (e *TypeError) Error() string {
	switch e.Kind {
	case InvalidChar:
		return fmt.Sprintf("dbus: invalid signature character %q", e.Char)
	case TooShort:
		return fmt.Sprintf("dbus: signature too short at offset %d", e.Offset)
	case ClosingCurlyBracket:
		return fmt.Sprintf("dbus: missing closing '}' for dict at offset %d, got %q", e.Offset, byte(e.Got))
	case ArrayDepth:
		return fmt.Sprintf("dbus: array depth %d exceeds maximum %d", e.Got, maxTypeDepth)
	case StructDepth:
		return fmt.Sprintf("dbus: struct depth %d exceeds maximum %d", e.Got, maxTypeDepth)
	case DictDepth:
		return fmt.Sprintf("dbus: dict-entry depth %d exceeds maximum %d", e.Got, maxTypeDepth)
	case ExceedMaximum:
		return fmt.Sprintf("dbus: signature length %d exceeds maximum %d", e.Length, maxSignatureLength)
	case MultipleTypes:
		return "dbus: expected exactly one type"
	case StructEmpty:
		return "dbus: struct type must contain at least one inner type"
	default:
		return "dbus: type error"
	}
}

// A DecodeErrorKind identifies the reason a Decoder call failed.
type DecodeErrorKind int

// Kinds of DecodeError.
const (
	NotEnoughBytes DecodeErrorKind = iota
	IntegerOverflow
	InvalidBoolean
	UTF8
	StringNotNull
	Padding
	Endianness
	InvalidMessageType
	InvalidMessageFlags
	ArrayTooBig
	ArrayInvalidLength
	ArraySignatureEmpty
	VariantDepth
	MultipleField
	FieldType
	MissingField
	BodyLengthZero
	BodySignatureMissing
	BodyLength
	UnixFDIndex
)

// A DecodeError reports a failure to decode a D-Bus byte stream.
type DecodeError struct {
	Kind DecodeErrorKind
	// Have/Need are set for NotEnoughBytes (bytes available/required),
	// ArrayTooBig (length/maximum), and ArrayInvalidLength and BodyLength
	// (bytes decoded/declared length). InvalidBoolean puts the offending
	// uint32 in Have.
	Have, Need uint64
	// Byte is set for StringNotNull, Padding, Endianness,
	// InvalidMessageType and InvalidMessageFlags.
	Byte byte
	// N is set for VariantDepth and UnixFDIndex.
	N int
	// Field names the header field for MultipleField/FieldType/MissingField.
	Field string
	// Err wraps an underlying error, e.g. a UTF-8 decoding failure.
	Err error
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case NotEnoughBytes:
		return fmt.Sprintf("dbus: not enough bytes: have %d, need %d", e.Have, e.Need)
	case IntegerOverflow:
		return "dbus: integer overflow while advancing cursor"
	case InvalidBoolean:
		return fmt.Sprintf("dbus: invalid boolean value %d", e.Have)
	case UTF8:
		return fmt.Sprintf("dbus: invalid utf-8: %v", e.Err)
	case StringNotNull:
		return fmt.Sprintf("dbus: string not terminated by nul byte, got %#x", e.Byte)
	case Padding:
		return fmt.Sprintf("dbus: non-zero padding byte %#x", e.Byte)
	case Endianness:
		return fmt.Sprintf("dbus: invalid endianness byte %#x", e.Byte)
	case InvalidMessageType:
		return fmt.Sprintf("dbus: invalid message type %d", e.Byte)
	case InvalidMessageFlags:
		return fmt.Sprintf("dbus: invalid message flags %#x", e.Byte)
	case ArrayTooBig:
		return fmt.Sprintf("dbus: array payload of %d bytes exceeds maximum of %d", e.Have, e.Need)
	case ArrayInvalidLength:
		return fmt.Sprintf("dbus: array decoded %d bytes, expected %d", e.Have, e.Need)
	case ArraySignatureEmpty:
		return "dbus: array element signature is empty"
	case VariantDepth:
		return fmt.Sprintf("dbus: variant nesting depth %d exceeds maximum %d", e.N, maxVariantDepth)
	case MultipleField:
		return fmt.Sprintf("dbus: header field %s appears more than once", e.Field)
	case FieldType:
		return fmt.Sprintf("dbus: header field %s has the wrong type", e.Field)
	case MissingField:
		return fmt.Sprintf("dbus: missing required header field %s", e.Field)
	case BodyLengthZero:
		return "dbus: body length is zero but a body signature is present"
	case BodySignatureMissing:
		return "dbus: body length is non-zero but no body signature is present"
	case BodyLength:
		return fmt.Sprintf("dbus: body decoded %d bytes, expected %d", e.Have, e.Need)
	case UnixFDIndex:
		return fmt.Sprintf("dbus: unix fd index %d out of range", e.N)
	default:
		return "dbus: decode error"
	}
}

func (e *DecodeError) Unwrap() error { return e.Err }

// An EncodeErrorKind identifies the reason an Encoder call failed.
type EncodeErrorKind int

// Kinds of EncodeError.
const (
	ArraySignatureMismatch EncodeErrorKind = iota
	EncodeArrayTooBig
	EncodeArraySignatureEmpty
	EncodeBodyLengthZero
	EncodeBodySignatureMissing
	SignatureTooBig
	EncodeMessageTooBig
	EncodeVariantDepth
)

// An EncodeError reports a failure to encode a Message or Value.
type EncodeError struct {
	Kind   EncodeErrorKind
	Length uint64
	Want   Type
	Got    Type
}

func (e *EncodeError) Error() string {
	switch e.Kind {
	case ArraySignatureMismatch:
		return fmt.Sprintf("dbus: array element has type %s, expected %s", e.Got, e.Want)
	case EncodeArrayTooBig:
		return fmt.Sprintf("dbus: array payload of %d bytes exceeds maximum of %d", e.Length, maxArrayLength)
	case EncodeArraySignatureEmpty:
		return "dbus: array element signature is empty"
	case EncodeBodyLengthZero:
		return "dbus: body is empty but a body signature was requested"
	case EncodeBodySignatureMissing:
		return "dbus: body is non-empty but no body signature was given"
	case SignatureTooBig:
		return fmt.Sprintf("dbus: signature length %d exceeds maximum %d", e.Length, maxSignatureLength)
	case EncodeMessageTooBig:
		return fmt.Sprintf("dbus: encoded message of %d bytes exceeds maximum of %d", e.Length, maxMessageLength)
	case EncodeVariantDepth:
		return fmt.Sprintf("dbus: variant nesting depth exceeds maximum %d", maxVariantDepth)
	default:
		return "dbus: encode error"
	}
}

// A NameErrorKind identifies why a name failed validation.
type NameErrorKind int

// Kinds of NameError, shared by ObjectPath, Interface, Member, ErrorName
// and Bus validation failures.
const (
	NameEmpty NameErrorKind = iota
	NameInvalidChar
	NameElementEmpty
	NameTooFewElements
	NameTooLong
	NameMissingLeadingSlash
	NameTrailingSlash
	NameMissingColon
	NameBeginDigit
)

// A NameError reports why a string is not a valid ObjectPath, Interface,
// Member, ErrorName or Bus name.
type NameError struct {
	// Type names the kind of name that failed, e.g. "object path".
	Type string
	Kind NameErrorKind
	Char byte
	// Value is the rejected string.
	Value string
}

func (e *NameError) Error() string {
	switch e.Kind {
	case NameEmpty:
		return fmt.Sprintf("dbus: %s %q is empty", e.Type, e.Value)
	case NameInvalidChar:
		return fmt.Sprintf("dbus: %s %q contains invalid character %q", e.Type, e.Value, e.Char)
	case NameElementEmpty:
		return fmt.Sprintf("dbus: %s %q has an empty element", e.Type, e.Value)
	case NameTooFewElements:
		return fmt.Sprintf("dbus: %s %q needs at least two elements", e.Type, e.Value)
	case NameTooLong:
		return fmt.Sprintf("dbus: %s %q is longer than 255 bytes", e.Type, e.Value)
	case NameMissingLeadingSlash:
		return fmt.Sprintf("dbus: %s %q must start with '/'", e.Type, e.Value)
	case NameTrailingSlash:
		return fmt.Sprintf("dbus: %s %q must not end with '/'", e.Type, e.Value)
	case NameMissingColon:
		return fmt.Sprintf("dbus: %s %q must start with ':'", e.Type, e.Value)
	case NameBeginDigit:
		return fmt.Sprintf("dbus: %s %q element must not begin with a digit", e.Type, e.Value)
	default:
		return fmt.Sprintf("dbus: invalid %s %q", e.Type, e.Value)
	}
}

// A MatchRuleErrorKind identifies the reason a match-rule string failed to
// parse.
type MatchRuleErrorKind int

// Kinds of MatchRuleError.
const (
	KeyEmpty MatchRuleErrorKind = iota
	KeyUnknown
	KeyInvalidChar
	MissingEqual
	ValueClosingQuote
	TypeUnknown
	EavesdropUnknown
	ArgIndexTooBig
	ArgIndexError
)

// A MatchRuleError reports why a match-rule string failed to parse.
type MatchRuleError struct {
	Kind MatchRuleErrorKind
	Char rune
	N    int
	Err  error
}

func (e *MatchRuleError) Error() string {
	switch e.Kind {
	case KeyEmpty:
		return "dbus: match rule key is empty"
	case KeyUnknown:
		return "dbus: match rule key is unknown"
	case KeyInvalidChar:
		return fmt.Sprintf("dbus: match rule key contains invalid character %q", e.Char)
	case MissingEqual:
		return "dbus: match rule is missing '='"
	case ValueClosingQuote:
		return "dbus: match rule value is missing a closing quote"
	case TypeUnknown:
		return "dbus: match rule has an unknown message type"
	case EavesdropUnknown:
		return "dbus: match rule eavesdrop value must be true or false"
	case ArgIndexTooBig:
		return fmt.Sprintf("dbus: match rule arg index %d is not less than %d", e.N, maxArgIndex)
	case ArgIndexError:
		return fmt.Sprintf("dbus: match rule arg index: %v", e.Err)
	default:
		return "dbus: match rule error"
	}
}

func (e *MatchRuleError) Unwrap() error { return e.Err }
