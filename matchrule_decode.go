package dbus

import "strconv"

// ParseMatchRule splits, unescapes and decodes s into its ordered
// sequence of MatchRule terms (spec §4.5.1–§4.5.3).
func ParseMatchRule(s string) ([]MatchRule, error) {
	tokens, err := splitMatchRule(s)
	if err != nil {
		return nil, err
	}
	rules := make([]MatchRule, 0, len(tokens))
	for _, tok := range tokens {
		val, err := unescape(tok.value)
		if err != nil {
			return nil, err
		}
		rule, err := decodeMatchRuleToken(tok.key, val)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func decodeMatchRuleToken(key, value string) (MatchRule, error) {
	switch key {
	case "type":
		mt, ok := messageTypeNames[value]
		if !ok {
			return nil, &MatchRuleError{Kind: TypeUnknown}
		}
		return RuleType{Type: mt}, nil
	case "sender":
		b, err := NewBus(value)
		if err != nil {
			return nil, err
		}
		return RuleSender{Sender: b}, nil
	case "destination":
		b, err := NewBus(value)
		if err != nil {
			return nil, err
		}
		if !b.IsUnique() {
			return nil, &NameError{Type: "unique connection name", Kind: NameMissingColon, Value: value}
		}
		return RuleDestination{Destination: b}, nil
	case "interface":
		n, err := NewInterface(value)
		if err != nil {
			return nil, err
		}
		return RuleInterface{Interface: n}, nil
	case "member":
		m, err := NewMember(value)
		if err != nil {
			return nil, err
		}
		return RuleMember{Member: m}, nil
	case "path":
		p, err := NewObjectPath(value)
		if err != nil {
			return nil, err
		}
		return RulePath{Path: p}, nil
	case "path_namespace":
		p, err := NewObjectPath(value)
		if err != nil {
			return nil, err
		}
		return RulePathNamespace{Namespace: p}, nil
	case "arg0namespace":
		n, err := NewInterface(value)
		if err != nil {
			return nil, err
		}
		return RuleArg0Namespace{Namespace: n}, nil
	case "eavesdrop":
		switch value {
		case "true":
			return RuleEavesdrop{Eavesdrop: true}, nil
		case "false":
			return RuleEavesdrop{Eavesdrop: false}, nil
		default:
			return nil, &MatchRuleError{Kind: EavesdropUnknown}
		}
	default:
		return decodeArgToken(key, value)
	}
}

// decodeArgToken handles the "argN" and "argNpath" key families, N < 64.
func decodeArgToken(key, value string) (MatchRule, error) {
	idx, isPath, matched, err := parseArgKey(key)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, &MatchRuleError{Kind: KeyUnknown}
	}
	if idx >= maxArgIndex {
		return nil, &MatchRuleError{Kind: ArgIndexTooBig, N: idx}
	}
	if isPath {
		p, err := NewObjectPath(value)
		if err != nil {
			return nil, err
		}
		return RuleArgPath{Index: idx, Path: p}, nil
	}
	return RuleArg{Index: idx, Value: value}, nil
}

// parseArgKey recognizes "arg<N>" and "arg<N>path" keys, returning the
// parsed index, whether it was the "path" variant, and whether key
// matched the family at all.
func parseArgKey(key string) (idx int, isPath, matched bool, err error) {
	const prefix = "arg"
	if len(key) <= len(prefix) || key[:len(prefix)] != prefix {
		return 0, false, false, nil
	}
	rest := key[len(prefix):]
	if len(rest) > 4 && rest[len(rest)-4:] == "path" {
		isPath = true
		rest = rest[:len(rest)-4]
	}
	if rest == "" {
		return 0, false, false, nil
	}
	for i := 0; i < len(rest); i++ {
		if !isAsciiDigit(rest[i]) {
			return 0, false, false, nil
		}
	}
	n, convErr := strconv.Atoi(rest)
	if convErr != nil {
		return 0, false, false, &MatchRuleError{Kind: ArgIndexError, Err: convErr}
	}
	return n, isPath, true, nil
}
