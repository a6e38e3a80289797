package dbus

import "testing"

func TestParseSignatureRoundTrip(t *testing.T) {
	tt := []string{
		"",
		"y",
		"ai",
		"a{sv}",
		"(ii)",
		"a(ii)(ss)",
		"(a{sv}(yyy))",
		"aaaaay",
	}

	for _, sig := range tt {
		types, err := ParseSignature([]byte(sig))
		if err != nil {
			t.Errorf("ParseSignature(%q): %v", sig, err)
			continue
		}
		got, err := RenderSignature(types)
		if err != nil {
			t.Errorf("RenderSignature(%q): %v", sig, err)
			continue
		}
		if got != sig {
			t.Errorf("round trip: got %q, want %q", got, sig)
		}
	}
}

func TestParseSignatureErrors(t *testing.T) {
	tt := map[string]TypeErrorKind{
		"z":        InvalidChar,
		"a":        TooShort,
		"(ii":      TooShort,
		"{sv":      TooShort,
		"{six}":    ClosingCurlyBracket,
		"()":       StructEmpty,
	}

	for sig, wantKind := range tt {
		_, err := ParseSignature([]byte(sig))
		if err == nil {
			t.Errorf("ParseSignature(%q): expected error", sig)
			continue
		}
		te, ok := err.(*TypeError)
		if !ok {
			t.Errorf("ParseSignature(%q): got %T, want *TypeError", sig, err)
			continue
		}
		if te.Kind != wantKind {
			t.Errorf("ParseSignature(%q): got kind %v, want %v", sig, te.Kind, wantKind)
		}
	}
}

func TestParseSignatureDepthCaps(t *testing.T) {
	deep := make([]byte, 0, maxTypeDepth+2)
	for i := 0; i <= maxTypeDepth; i++ {
		deep = append(deep, 'a')
	}
	deep = append(deep, 'y')

	_, err := ParseSignature(deep)
	if err == nil {
		t.Fatal("expected array depth error")
	}
	if te, ok := err.(*TypeError); !ok || te.Kind != ArrayDepth {
		t.Errorf("got %v, want ArrayDepth", err)
	}
}

func TestTypeEqual(t *testing.T) {
	a := NewArrayType(TypeString)
	b := NewArrayType(TypeString)
	if !a.Equal(b) {
		t.Error("expected equal array types")
	}
	c := NewArrayType(TypeInt32)
	if a.Equal(c) {
		t.Error("expected unequal array types")
	}

	s1, _ := NewStructType(TypeByte, TypeString)
	s2, _ := NewStructType(TypeByte, TypeString)
	if !s1.Equal(s2) {
		t.Error("expected equal struct types")
	}

	d1 := NewDictEntryType(TypeString, TypeVariant)
	d2 := NewDictEntryType(TypeString, TypeVariant)
	if !d1.Equal(d2) {
		t.Error("expected equal dict-entry types")
	}
}

func TestTypeAlignment(t *testing.T) {
	tt := []struct {
		typ  Type
		want int
	}{
		{TypeByte, 1},
		{TypeInt16, 2},
		{TypeUint32, 4},
		{TypeInt64, 8},
		{TypeDouble, 8},
		{TypeString, 4},
		{TypeVariant, 1},
		{NewArrayType(TypeByte), 4},
	}
	for _, tc := range tt {
		if got := tc.typ.Alignment(); got != tc.want {
			t.Errorf("%s.Alignment() = %d, want %d", tc.typ, got, tc.want)
		}
	}
}

func TestTypeString(t *testing.T) {
	s1, _ := NewStructType(TypeByte, NewArrayType(TypeString))
	got := s1.String()
	want := "(yas)"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func BenchmarkParseSignature(b *testing.B) {
	sig := []byte("a{sv}(ii)aay")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParseSignature(sig); err != nil {
			b.Fatal(err)
		}
	}
}
