package dbus

// A MatchRule is one key=value term of a D-Bus match rule string (spec
// §4.5). Like Value, it is a tagged union: one concrete type per
// variant, dispatched with a type switch (DESIGN.md, Open Question O1).
type MatchRule interface {
	isMatchRule()
}

// Concrete MatchRule variants carrying a single typed payload.
type (
	RuleType          struct{ Type MessageType }
	RuleSender        struct{ Sender Bus }
	RuleInterface     struct{ Interface Interface }
	RuleMember        struct{ Member Member }
	RulePath          struct{ Path ObjectPath }
	RulePathNamespace struct{ Namespace ObjectPath }
	RuleDestination   struct{ Destination Bus }
	RuleArg0Namespace struct{ Namespace Interface }
	RuleEavesdrop     struct{ Eavesdrop bool }
)

func (RuleType) isMatchRule()          {}
func (RuleSender) isMatchRule()        {}
func (RuleInterface) isMatchRule()     {}
func (RuleMember) isMatchRule()        {}
func (RulePath) isMatchRule()          {}
func (RulePathNamespace) isMatchRule() {}
func (RuleDestination) isMatchRule()   {}
func (RuleArg0Namespace) isMatchRule() {}
func (RuleEavesdrop) isMatchRule()     {}

// RuleArg matches body[Index] as a plain string equal to Value. Index
// is always < maxArgIndex (spec §4.5).
type RuleArg struct {
	Index int
	Value string
}

func (RuleArg) isMatchRule() {}

// RuleArgPath matches body[Index] as a String or ObjectPath equal to, or
// a namespace descendant of, Path.
type RuleArgPath struct {
	Index int
	Path  ObjectPath
}

func (RuleArgPath) isMatchRule() {}

// messageTypeNames maps the four textual message-type tokens the
// "type=" key accepts to their MessageType (spec §4.5.3).
var messageTypeNames = map[string]MessageType{
	"method_call":   TypeMethodCall,
	"method_return": TypeMethodReturn,
	"error":         TypeErrorMessage,
	"signal":        TypeSignal,
}

var messageTypeStrings = map[MessageType]string{
	TypeMethodCall:   "method_call",
	TypeMethodReturn: "method_return",
	TypeErrorMessage: "error",
	TypeSignal:       "signal",
}
