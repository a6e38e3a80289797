package dbus

import "strings"

func isAsciiAlpha(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isAsciiDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAsciiAlphanumeric(c byte) bool {
	return isAsciiAlpha(c) || isAsciiDigit(c)
}

// An ObjectPath is a validated D-Bus object path, e.g. "/org/example/Foo".
// See spec §3.
type ObjectPath struct{ str string }

// NewObjectPath validates s as an object path: it begins with '/', and is
// otherwise a '/'-separated sequence of elements each drawn from
// [A-Za-z0-9_]+, with no empty element (except the single root "/") and
// no trailing slash.
func NewObjectPath(s string) (ObjectPath, error) {
	const kind = "object path"
	if s == "" || s[0] != '/' {
		return ObjectPath{}, &NameError{Type: kind, Kind: NameMissingLeadingSlash, Value: s}
	}
	if s == "/" {
		return ObjectPath{str: s}, nil
	}
	if s[len(s)-1] == '/' {
		return ObjectPath{}, &NameError{Type: kind, Kind: NameTrailingSlash, Value: s}
	}
	for _, elem := range strings.Split(s[1:], "/") {
		if elem == "" {
			return ObjectPath{}, &NameError{Type: kind, Kind: NameElementEmpty, Value: s}
		}
		for i := 0; i < len(elem); i++ {
			c := elem[i]
			if !isAsciiAlphanumeric(c) && c != '_' {
				return ObjectPath{}, &NameError{Type: kind, Kind: NameInvalidChar, Char: c, Value: s}
			}
		}
	}
	return ObjectPath{str: s}, nil
}

// String returns the validated object path string.
func (p ObjectPath) String() string { return p.str }

// IsRoot reports whether p is the root path "/".
func (p ObjectPath) IsRoot() bool { return p.str == "/" }

// HasPrefix reports whether p equals ns or is a descendant of the
// namespace ns, i.e. p == ns or p starts with ns followed by '/'; every
// path is a descendant of the root "/". Used by MatchRule's PathNamespace
// matching, see spec §4.5.4.
func (p ObjectPath) HasPrefix(ns ObjectPath) bool {
	if ns.IsRoot() {
		return true
	}
	return matchNamespace(ns.str, p.str, '/')
}

// matchNamespace reports whether value equals namespace or extends it,
// separated by the boundary byte b.
func matchNamespace(namespace, value string, b byte) bool {
	rest, ok := strings.CutPrefix(value, namespace)
	if !ok {
		return false
	}
	return rest == "" || rest[0] == b
}

func splitDotElements(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}

// An Interface is a validated D-Bus interface name, e.g.
// "org.freedesktop.DBus". See spec §3.
type Interface struct{ str string }

// NewInterface validates s as an interface name: at least two
// dot-separated elements, each starting with [A-Za-z_] and continuing
// with [A-Za-z0-9_].
func NewInterface(s string) (Interface, error) {
	if err := validateDotSeparated("interface", s, false); err != nil {
		return Interface{}, err
	}
	return Interface{str: s}, nil
}

// String returns the validated interface name.
func (n Interface) String() string { return n.str }

// HasPrefix reports whether n equals ns or extends it, separated by '.'.
// Used by MatchRule's Arg0Namespace matching, see spec §4.5.4.
func (n Interface) HasPrefix(ns Interface) bool {
	return matchNamespace(ns.str, n.str, '.')
}

// validateDotSeparated implements the shared grammar of Interface and
// ErrorName: >= 2 dot-separated elements, each starting with
// [A-Za-z_]([-] also allowed when allowHyphen, for bus names) and
// continuing with [A-Za-z0-9_](-).
func validateDotSeparated(kind, s string, allowHyphen bool) error {
	return validateDotSeparatedLen(kind, s, allowHyphen, false, true)
}

// validateDotSeparatedLen is validateDotSeparated with the 255-byte
// length check made optional, since Bus applies it to the whole name
// (including a leading ':') rather than to the element string alone,
// and with the first-character restriction relaxed to allow a leading
// digit when allowDigitFirst is set. A UniqueConnectionName element has
// no first/rest distinction at all (spec §3: every character is drawn
// from [A-Za-z0-9_-]), unlike WellKnownBusName and Interface, which
// both forbid a leading digit.
func validateDotSeparatedLen(kind, s string, allowHyphen, allowDigitFirst, checkLen bool) error {
	if len(s) == 0 {
		return &NameError{Type: kind, Kind: NameEmpty, Value: s}
	}
	if checkLen && len(s) > 255 {
		return &NameError{Type: kind, Kind: NameTooLong, Value: s}
	}
	elems := splitDotElements(s)
	if len(elems) < 2 {
		return &NameError{Type: kind, Kind: NameTooFewElements, Value: s}
	}
	for _, elem := range elems {
		if elem == "" {
			return &NameError{Type: kind, Kind: NameElementEmpty, Value: s}
		}
		first := elem[0]
		if !isAsciiAlpha(first) && first != '_' && !(allowHyphen && first == '-') && !(allowDigitFirst && isAsciiDigit(first)) {
			return &NameError{Type: kind, Kind: NameInvalidChar, Char: first, Value: s}
		}
		for i := 1; i < len(elem); i++ {
			c := elem[i]
			if !isAsciiAlphanumeric(c) && c != '_' && !(allowHyphen && c == '-') {
				return &NameError{Type: kind, Kind: NameInvalidChar, Char: c, Value: s}
			}
		}
	}
	return nil
}

// A Member is a validated D-Bus member name (a method or signal name),
// e.g. "GetConnectionUnixProcessID". See spec §3.
type Member struct{ str string }

// NewMember validates s as a member name: a single element, 1 to 255
// bytes, starting with [A-Za-z_] and continuing with [A-Za-z0-9_].
func NewMember(s string) (Member, error) {
	const kind = "member"
	if len(s) == 0 {
		return Member{}, &NameError{Type: kind, Kind: NameEmpty, Value: s}
	}
	if len(s) > 255 {
		return Member{}, &NameError{Type: kind, Kind: NameTooLong, Value: s}
	}
	first := s[0]
	if !isAsciiAlpha(first) && first != '_' {
		return Member{}, &NameError{Type: kind, Kind: NameInvalidChar, Char: first, Value: s}
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !isAsciiAlphanumeric(c) && c != '_' {
			return Member{}, &NameError{Type: kind, Kind: NameInvalidChar, Char: c, Value: s}
		}
	}
	return Member{str: s}, nil
}

// String returns the validated member name.
func (m Member) String() string { return m.str }

// An ErrorName is a validated D-Bus error name, with the same grammar as
// Interface, e.g. "org.freedesktop.DBus.Error.Failed". See spec §3.
type ErrorName struct{ str string }

// NewErrorName validates s as an error name.
func NewErrorName(s string) (ErrorName, error) {
	if err := validateDotSeparated("error name", s, false); err != nil {
		return ErrorName{}, err
	}
	return ErrorName{str: s}, nil
}

// String returns the validated error name.
func (n ErrorName) String() string { return n.str }

// A Bus is a validated D-Bus bus name: either a UniqueConnectionName
// (":1.42") issued by the broker, or a WellKnownBusName
// ("org.freedesktop.DBus"). See spec §3.
type Bus struct {
	str      string
	isUnique bool
}

// NewBus validates s as a bus name, dispatching on a leading ':' to
// UniqueConnectionName or WellKnownBusName.
func NewBus(s string) (Bus, error) {
	if len(s) > 255 {
		return Bus{}, &NameError{Type: "bus name", Kind: NameTooLong, Value: s}
	}
	if strings.HasPrefix(s, ":") {
		if err := validateDotSeparatedLen("unique connection name", s[1:], true, true, false); err != nil {
			return Bus{}, err
		}
		return Bus{str: s, isUnique: true}, nil
	}
	if err := validateDotSeparatedLen("well-known bus name", s, true, false, false); err != nil {
		return Bus{}, err
	}
	return Bus{str: s, isUnique: false}, nil
}

// String returns the validated bus name.
func (b Bus) String() string { return b.str }

// IsUnique reports whether b is a UniqueConnectionName, i.e. begins with
// ':'.
func (b Bus) IsUnique() bool { return b.isUnique }
