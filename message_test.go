package dbus

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMessageEncodeDecodeRoundTrip(t *testing.T) {
	dest, _ := NewBus("org.example.Service")
	path, _ := NewObjectPath("/org/example/Foo")
	iface, _ := NewInterface("org.example.Foo")
	member, _ := NewMember("Bar")

	m := MethodCall(dest, path, iface, member)
	m.SetSerial(42)
	if err := m.AddValue(ValueString("hello")); err != nil {
		t.Fatal(err)
	}
	if err := m.AddValue(ValueInt32(7)); err != nil {
		t.Fatal(err)
	}

	buf, fds, err := EncodeMessage(m)
	if err != nil {
		t.Fatal(err)
	}
	if len(fds) != 0 {
		t.Errorf("expected no fds, got %v", fds)
	}

	got, err := DecodeMessage(buf, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.Header.Serial != 42 {
		t.Errorf("Serial = %d, want 42", got.Header.Serial)
	}
	if got.Header.Type != TypeMethodCall {
		t.Errorf("Type = %v, want TypeMethodCall", got.Header.Type)
	}
	if diff := cmp.Diff(m.Body, got.Body); diff != "" {
		t.Errorf(diff)
	}
}

func TestMessageConstructors(t *testing.T) {
	dest, _ := NewBus(":1.5")
	path, _ := NewObjectPath("/org/example/Foo")
	iface, _ := NewInterface("org.example.Foo")
	member, _ := NewMember("Bar")

	call := MethodCall(dest, path, iface, member)
	call.SetSerial(1)

	ret := call.MethodReturn()
	if ret.Header.Type != TypeMethodReturn {
		t.Errorf("MethodReturn: Type = %v", ret.Header.Type)
	}
	if ret.Header.ReplySerial == nil || *ret.Header.ReplySerial != 1 {
		t.Errorf("MethodReturn: ReplySerial = %v, want 1", ret.Header.ReplySerial)
	}

	errReply := call.InvalidArgs("bad argument")
	if errReply.Header.Type != TypeErrorMessage {
		t.Errorf("InvalidArgs: Type = %v", errReply.Header.Type)
	}
	if errReply.Header.ErrorName.String() != "org.freedesktop.DBus.Error.InvalidArgs" {
		t.Errorf("InvalidArgs: ErrorName = %s", errReply.Header.ErrorName)
	}
	if len(errReply.Body) != 1 || errReply.Body[0] != ValueString("bad argument") {
		t.Errorf("InvalidArgs: Body = %v", errReply.Body)
	}

	unknownMethod := call.UnknownMember()
	if unknownMethod.Header.ErrorName.String() != "org.freedesktop.DBus.Error.UnknownMethod" {
		t.Errorf("UnknownMember: ErrorName = %s", unknownMethod.Header.ErrorName)
	}
}

func TestPropertyHelpers(t *testing.T) {
	dest, _ := NewBus("org.example.Service")
	path, _ := NewObjectPath("/org/example/Foo")
	iface, _ := NewInterface("org.example.Foo")
	prop, _ := NewMember("Value")

	get := PropertyGet(dest, path, iface, prop)
	if len(get.Body) != 2 {
		t.Fatalf("PropertyGet body = %v, want 2 values", get.Body)
	}
	if get.Body[0] != ValueString("org.example.Foo") || get.Body[1] != ValueString("Value") {
		t.Errorf("PropertyGet body = %v", get.Body)
	}

	getAll := PropertiesGetAll(dest, path, iface)
	if len(getAll.Body) != 1 {
		t.Fatalf("PropertiesGetAll body = %v, want 1 value", getAll.Body)
	}

	set := PropertySet(dest, path, iface, prop, ValueInt32(5))
	if len(set.Body) != 3 {
		t.Fatalf("PropertySet body = %v, want 3 values", set.Body)
	}
	variant, ok := set.Body[2].(ValueVariant)
	if !ok || variant.Inner != ValueInt32(5) {
		t.Errorf("PropertySet value = %v", set.Body[2])
	}
}

func TestEncodeMessageMissingRequiredField(t *testing.T) {
	m := newMessage(nil, TypeMethodCall)
	if _, _, err := EncodeMessage(m); err == nil {
		t.Fatal("expected MissingField error for a method call with no path/member")
	}
}

func BenchmarkEncodeMessage(b *testing.B) {
	dest, _ := NewBus("org.example.Service")
	path, _ := NewObjectPath("/org/example/Foo")
	iface, _ := NewInterface("org.example.Foo")
	member, _ := NewMember("Bar")
	m := MethodCall(dest, path, iface, member)
	m.SetSerial(1)
	if err := m.AddValue(ValueString("hello")); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := EncodeMessage(m); err != nil {
			b.Fatal(err)
		}
	}
}
