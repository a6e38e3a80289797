package dbus

import "testing"

func TestParseMatchRuleBasic(t *testing.T) {
	rules, err := ParseMatchRule("type=signal,interface=org.example,path_namespace=/a")
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 3 {
		t.Fatalf("got %d rules, want 3", len(rules))
	}

	rt, ok := rules[0].(RuleType)
	if !ok || rt.Type != TypeSignal {
		t.Errorf("rules[0] = %#v, want RuleType{TypeSignal}", rules[0])
	}
	ri, ok := rules[1].(RuleInterface)
	if !ok || ri.Interface.String() != "org.example" {
		t.Errorf("rules[1] = %#v", rules[1])
	}
	rp, ok := rules[2].(RulePathNamespace)
	if !ok || rp.Namespace.String() != "/a" {
		t.Errorf("rules[2] = %#v", rules[2])
	}
}

func TestParseMatchRuleRoundTrip(t *testing.T) {
	tt := []string{
		"type=signal,interface=org.example,path_namespace=/a",
		"type=method_call,member=Foo,arg0=hello",
		"arg2path=/a/b,eavesdrop=true",
		"destination=:1.42",
		"sender=org.freedesktop.DBus",
	}
	for _, s := range tt {
		rules, err := ParseMatchRule(s)
		if err != nil {
			t.Errorf("ParseMatchRule(%q): %v", s, err)
			continue
		}
		got, err := RenderMatchRule(rules)
		if err != nil {
			t.Errorf("RenderMatchRule(%q): %v", s, err)
			continue
		}
		if got != s {
			t.Errorf("round trip: got %q, want %q", got, s)
		}
	}
}

func TestParseMatchRuleErrors(t *testing.T) {
	tt := map[string]MatchRuleErrorKind{
		"=foo":            KeyEmpty,
		"key":             MissingEqual,
		"k$y=foo":         KeyInvalidChar,
		"type=bogus":      TypeUnknown,
		"eavesdrop=maybe": EavesdropUnknown,
		"arg64=x":         ArgIndexTooBig,
		"unknownkey=x":    KeyUnknown,
	}
	for s, wantKind := range tt {
		_, err := ParseMatchRule(s)
		if err == nil {
			t.Errorf("ParseMatchRule(%q): expected error", s)
			continue
		}
		me, ok := err.(*MatchRuleError)
		if !ok {
			t.Errorf("ParseMatchRule(%q): got %T, want *MatchRuleError", s, err)
			continue
		}
		if me.Kind != wantKind {
			t.Errorf("ParseMatchRule(%q): got kind %v, want %v", s, me.Kind, wantKind)
		}
	}
}

func TestParseMatchRuleUnclosedQuote(t *testing.T) {
	_, err := ParseMatchRule("member='unterminated")
	if err == nil {
		t.Fatal("expected ValueClosingQuote error")
	}
	if me, ok := err.(*MatchRuleError); !ok || me.Kind != ValueClosingQuote {
		t.Errorf("got %v, want ValueClosingQuote", err)
	}
}

func TestParseMatchRuleEscapedComma(t *testing.T) {
	rules, err := ParseMatchRule(`arg0=a\,b`)
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(rules))
	}
	a, ok := rules[0].(RuleArg)
	if !ok {
		t.Fatalf("rules[0] = %#v", rules[0])
	}
	if a.Value != "a,b" {
		t.Errorf("Value = %q, want %q", a.Value, "a,b")
	}
}

func TestParseMatchRuleQuotedValue(t *testing.T) {
	tokens, err := splitMatchRule(`key='a,b'c`)
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 1 || tokens[0].value != "'a,b'c" {
		t.Errorf("got %#v", tokens)
	}
	got, err := unescape(tokens[0].value)
	if err != nil {
		t.Fatal(err)
	}
	if got != "a,bc" {
		t.Errorf("unescape = %q, want %q", got, "a,bc")
	}
}

func TestMatches(t *testing.T) {
	path, _ := NewObjectPath("/a/b")
	iface, _ := NewInterface("org.example")
	member, _ := NewMember("Changed")
	msg := Signal(path, iface, member)

	rules, err := ParseMatchRule("type=signal,interface=org.example,path_namespace=/a")
	if err != nil {
		t.Fatal(err)
	}
	if !Matches(rules, msg) {
		t.Error("expected rules to match signal at /a/b")
	}

	notMatching, _ := ParseMatchRule("path_namespace=/ab")
	if Matches(notMatching, msg) {
		t.Error("expected rules not to match: /a/b is not under /ab")
	}
}

func TestMatchesArg(t *testing.T) {
	path, _ := NewObjectPath("/a/b")
	iface, _ := NewInterface("org.example")
	member, _ := NewMember("Changed")
	msg := Signal(path, iface, member)
	if err := msg.AddValue(ValueString("hello")); err != nil {
		t.Fatal(err)
	}

	rules, err := ParseMatchRule("arg0=hello")
	if err != nil {
		t.Fatal(err)
	}
	if !Matches(rules, msg) {
		t.Error("expected arg0=hello to match")
	}

	rulesMismatch, _ := ParseMatchRule("arg0=world")
	if Matches(rulesMismatch, msg) {
		t.Error("expected arg0=world not to match")
	}
}

func BenchmarkParseMatchRule(b *testing.B) {
	s := "type=signal,interface=org.example,path_namespace=/a,member=Changed"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParseMatchRule(s); err != nil {
			b.Fatal(err)
		}
	}
}
