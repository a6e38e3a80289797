package dbus

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func encodeDecodeValue(t *testing.T, typ Type, v Value) Value {
	t.Helper()
	e := NewEncoder(binary.LittleEndian)
	if err := e.Value(v); err != nil {
		t.Fatalf("encode: %v", err)
	}
	d := NewDecoder(e.Bytes(), binary.LittleEndian)
	got, err := d.Value(typ, 0, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return got
}

func TestEncodeDecodeBasic(t *testing.T) {
	tt := []struct {
		name string
		typ  Type
		v    Value
	}{
		{"byte", TypeByte, ValueByte(0x42)},
		{"boolean true", TypeBoolean, ValueBoolean(true)},
		{"boolean false", TypeBoolean, ValueBoolean(false)},
		{"int16", TypeInt16, ValueInt16(-42)},
		{"uint16", TypeUint16, ValueUint16(42)},
		{"int32", TypeInt32, ValueInt32(-1000)},
		{"uint32", TypeUint32, ValueUint32(1000)},
		{"int64", TypeInt64, ValueInt64(-1 << 40)},
		{"uint64", TypeUint64, ValueUint64(1 << 40)},
		{"double", TypeDouble, ValueDouble(3.25)},
		{"string", TypeString, ValueString("hello, world")},
		{"string empty", TypeString, ValueString("")},
		{"signature", TypeSignature, ValueSignature{Types: []Type{TypeByte, NewArrayType(TypeString)}}},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got := encodeDecodeValue(t, tc.typ, tc.v)
			if diff := cmp.Diff(tc.v, got, cmp.AllowUnexported(Type{})); diff != "" {
				t.Errorf(diff)
			}
		})
	}
}

func TestEncodeDecodeObjectPath(t *testing.T) {
	p, _ := NewObjectPath("/org/example/Foo")
	got := encodeDecodeValue(t, TypeObjectPath, ValueObjectPath{Path: p})
	gotPath, ok := got.(ValueObjectPath)
	if !ok || gotPath.Path.String() != p.String() {
		t.Errorf("got %v, want %v", got, p)
	}
}

func TestEncodeDecodeArray(t *testing.T) {
	arr, err := NewArray(TypeInt32, []Value{ValueInt32(1), ValueInt32(2), ValueInt32(3)})
	if err != nil {
		t.Fatal(err)
	}
	got := encodeDecodeValue(t, NewArrayType(TypeInt32), arr)
	if diff := cmp.Diff(Value(arr), got, cmp.AllowUnexported(Type{})); diff != "" {
		t.Errorf(diff)
	}
}

func TestEncodeDecodeArrayEmpty(t *testing.T) {
	arr, err := NewArray(TypeString, nil)
	if err != nil {
		t.Fatal(err)
	}
	got := encodeDecodeValue(t, NewArrayType(TypeString), arr)
	gotArr, ok := got.(ValueArray)
	if !ok || len(gotArr.Elements) != 0 {
		t.Errorf("got %v, want empty array", got)
	}
}

func TestEncodeDecodeStruct(t *testing.T) {
	st, err := NewStruct(ValueByte(9), ValueString("x"), ValueInt64(-1))
	if err != nil {
		t.Fatal(err)
	}
	typ, _ := TypeOf(st)
	got := encodeDecodeValue(t, typ, st)
	if diff := cmp.Diff(Value(st), got, cmp.AllowUnexported(Type{})); diff != "" {
		t.Errorf(diff)
	}
}

func TestEncodeDecodeVariant(t *testing.T) {
	v := ValueVariant{Inner: ValueString("nested")}
	e := NewEncoder(binary.LittleEndian)
	if err := e.Variant(v.Inner); err != nil {
		t.Fatal(err)
	}
	d := NewDecoder(e.Bytes(), binary.LittleEndian)
	got, err := d.Variant()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Value(v), got, cmp.AllowUnexported(Type{})); diff != "" {
		t.Errorf(diff)
	}
}

func TestEncodeDecodeDictEntryViaArray(t *testing.T) {
	entryType := NewDictEntryType(TypeString, TypeInt32)
	arr := ValueArray{
		ElemType: entryType,
		Elements: []Value{
			ValueDictEntry{Key: ValueString("a"), Val: ValueInt32(1)},
			ValueDictEntry{Key: ValueString("b"), Val: ValueInt32(2)},
		},
	}
	got := encodeDecodeValue(t, NewArrayType(entryType), arr)
	if diff := cmp.Diff(Value(arr), got, cmp.AllowUnexported(Type{})); diff != "" {
		t.Errorf(diff)
	}
}

func TestEncodeUnixFDInterning(t *testing.T) {
	e := NewEncoder(binary.LittleEndian)
	e.UnixFD(7)
	e.UnixFD(9)
	e.UnixFD(7)
	if diff := cmp.Diff([]int{7, 9}, e.FDs()); diff != "" {
		t.Errorf(diff)
	}
}

func TestDecodeUnixFDOutOfRange(t *testing.T) {
	e := NewEncoder(binary.LittleEndian)
	e.Uint32(3)
	d := NewDecoderFDs(e.Bytes(), binary.LittleEndian, []int{1, 2})
	if _, err := d.UnixFD(); err == nil {
		t.Fatal("expected UnixFDIndex error")
	}
}

func TestArrayPayloadTooBig(t *testing.T) {
	a := ValueArray{ElemType: TypeByte}
	for i := 0; i < 10; i++ {
		a.Elements = append(a.Elements, ValueByte(0))
	}
	e := NewEncoder(binary.LittleEndian)
	if err := e.Value(a); err != nil {
		t.Fatal(err)
	}
	// Craft a decoder view with an inflated declared length to exercise
	// the cap check without allocating 64 MiB of real payload.
	buf := append([]byte(nil), e.Bytes()...)
	binary.LittleEndian.PutUint32(buf, maxArrayLength+1)
	d := NewDecoder(buf, binary.LittleEndian)
	if _, err := d.array(TypeByte, 0, 0); err == nil {
		t.Fatal("expected ArrayTooBig error")
	}
}

func BenchmarkEncodeStruct(b *testing.B) {
	st, _ := NewStruct(ValueByte(9), ValueString("x"), ValueInt64(-1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e := NewEncoder(binary.LittleEndian)
		if err := e.Value(st); err != nil {
			b.Fatal(err)
		}
	}
}
