package dbus

// Matches reports whether msg satisfies every term of rules; an empty
// rule set matches everything (spec §4.5.4: "a set of rules matches iff
// all members match").
func Matches(rules []MatchRule, msg *Message) bool {
	for _, r := range rules {
		if !matchesOne(r, msg) {
			return false
		}
	}
	return true
}

func matchesOne(r MatchRule, msg *Message) bool {
	h := msg.Header
	switch r := r.(type) {
	case RuleType:
		return h.Type == r.Type
	case RuleSender:
		return h.Sender != nil && h.Sender.String() == r.Sender.String()
	case RuleInterface:
		return h.Interface != nil && h.Interface.String() == r.Interface.String()
	case RuleMember:
		return h.Member != nil && h.Member.String() == r.Member.String()
	case RulePath:
		return h.Path != nil && h.Path.String() == r.Path.String()
	case RulePathNamespace:
		return h.Path != nil && h.Path.HasPrefix(r.Namespace)
	case RuleDestination:
		return h.Destination != nil && h.Destination.IsUnique() && h.Destination.String() == r.Destination.String()
	case RuleArg0Namespace:
		return matchArg0Namespace(msg.Body, r.Namespace)
	case RuleArg:
		return matchArg(msg.Body, r.Index, r.Value)
	case RuleArgPath:
		return matchArgPath(msg.Body, r.Index, r.Path)
	case RuleEavesdrop:
		return true
	default:
		return false
	}
}

func matchArg(body []Value, idx int, s string) bool {
	if idx < 0 || idx >= len(body) {
		return false
	}
	v, ok := body[idx].(ValueString)
	return ok && string(v) == s
}

func matchArgPath(body []Value, idx int, p ObjectPath) bool {
	if idx < 0 || idx >= len(body) {
		return false
	}
	switch v := body[idx].(type) {
	case ValueString:
		return matchNamespace(p.String(), string(v), '/')
	case ValueObjectPath:
		return matchNamespace(p.String(), v.Path.String(), '/')
	default:
		return false
	}
}

func matchArg0Namespace(body []Value, ns Interface) bool {
	if len(body) == 0 {
		return false
	}
	v, ok := body[0].(ValueString)
	return ok && matchNamespace(ns.String(), string(v), '.')
}
