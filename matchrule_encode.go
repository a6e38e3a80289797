package dbus

import (
	"strconv"
	"strings"
)

// RenderMatchRule is the inverse of ParseMatchRule: it renders an
// ordered sequence of MatchRule terms back into match-rule text,
// escaping each value so the result reparses to the same rules (spec
// §4.5.3).
func RenderMatchRule(rules []MatchRule) (string, error) {
	parts := make([]string, len(rules))
	for i, r := range rules {
		key, value, err := encodeMatchRuleTerm(r)
		if err != nil {
			return "", err
		}
		parts[i] = key + "=" + escape(value)
	}
	return strings.Join(parts, ","), nil
}

func encodeMatchRuleTerm(r MatchRule) (key, value string, err error) {
	switch r := r.(type) {
	case RuleType:
		s, ok := messageTypeStrings[r.Type]
		if !ok {
			return "", "", &MatchRuleError{Kind: TypeUnknown}
		}
		return "type", s, nil
	case RuleSender:
		return "sender", r.Sender.String(), nil
	case RuleDestination:
		return "destination", r.Destination.String(), nil
	case RuleInterface:
		return "interface", r.Interface.String(), nil
	case RuleMember:
		return "member", r.Member.String(), nil
	case RulePath:
		return "path", r.Path.String(), nil
	case RulePathNamespace:
		return "path_namespace", r.Namespace.String(), nil
	case RuleArg0Namespace:
		return "arg0namespace", r.Namespace.String(), nil
	case RuleEavesdrop:
		if r.Eavesdrop {
			return "eavesdrop", "true", nil
		}
		return "eavesdrop", "false", nil
	case RuleArg:
		return "arg" + strconv.Itoa(r.Index), r.Value, nil
	case RuleArgPath:
		return "arg" + strconv.Itoa(r.Index) + "path", r.Path.String(), nil
	default:
		return "", "", &MatchRuleError{Kind: KeyUnknown}
	}
}
