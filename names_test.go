package dbus

import "testing"

func TestNewObjectPath(t *testing.T) {
	ok := []string{"/", "/org", "/org/example/Foo", "/a/_1/b2"}
	for _, s := range ok {
		if _, err := NewObjectPath(s); err != nil {
			t.Errorf("NewObjectPath(%q): %v", s, err)
		}
	}

	bad := []string{"", "foo", "/foo/", "/foo//bar", "/foo/ba!r"}
	for _, s := range bad {
		if _, err := NewObjectPath(s); err == nil {
			t.Errorf("NewObjectPath(%q): expected error", s)
		}
	}
}

func TestObjectPathHasPrefix(t *testing.T) {
	ns, _ := NewObjectPath("/org/example")
	child, _ := NewObjectPath("/org/example/Foo")
	sibling, _ := NewObjectPath("/org/exampleX")

	if !child.HasPrefix(ns) {
		t.Error("expected child to have prefix ns")
	}
	if !ns.HasPrefix(ns) {
		t.Error("expected ns to have prefix itself")
	}
	if sibling.HasPrefix(ns) {
		t.Error("expected sibling not to have prefix ns")
	}
}

func TestNewInterface(t *testing.T) {
	ok := []string{"org.example", "org.example.Foo", "a.b"}
	for _, s := range ok {
		if _, err := NewInterface(s); err != nil {
			t.Errorf("NewInterface(%q): %v", s, err)
		}
	}

	bad := []string{"", "org", "1org.example", "org..example", "org.example."}
	for _, s := range bad {
		if _, err := NewInterface(s); err == nil {
			t.Errorf("NewInterface(%q): expected error", s)
		}
	}
}

func TestNewMember(t *testing.T) {
	ok := []string{"Get", "_private", "Get2All"}
	for _, s := range ok {
		if _, err := NewMember(s); err != nil {
			t.Errorf("NewMember(%q): %v", s, err)
		}
	}

	bad := []string{"", "2Get", "Get.All"}
	for _, s := range bad {
		if _, err := NewMember(s); err == nil {
			t.Errorf("NewMember(%q): expected error", s)
		}
	}
}

func TestNewBus(t *testing.T) {
	tt := []struct {
		s        string
		isUnique bool
		wantErr  bool
	}{
		{":1.42", true, false},
		{"org.freedesktop.DBus", false, false},
		{":1", true, true},
		{"", false, true},
		{"org", false, true},
	}

	for _, tc := range tt {
		b, err := NewBus(tc.s)
		if tc.wantErr {
			if err == nil {
				t.Errorf("NewBus(%q): expected error", tc.s)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewBus(%q): %v", tc.s, err)
			continue
		}
		if b.IsUnique() != tc.isUnique {
			t.Errorf("NewBus(%q).IsUnique() = %v, want %v", tc.s, b.IsUnique(), tc.isUnique)
		}
		if b.String() != tc.s {
			t.Errorf("NewBus(%q).String() = %q", tc.s, b.String())
		}
	}
}

func TestNewBusTooLong(t *testing.T) {
	s := ":1."
	for len(s) <= 255 {
		s += "1"
	}
	if _, err := NewBus(s); err == nil {
		t.Error("expected NameTooLong error")
	}
}

func BenchmarkNewInterface(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := NewInterface("org.freedesktop.DBus.Properties"); err != nil {
			b.Fatal(err)
		}
	}
}
