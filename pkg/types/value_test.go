package types

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestKindValid(t *testing.T) {
	for _, k := range []Kind{KindString, KindInt, KindDouble, KindBool, KindTime, KindBytes, KindStringList} {
		if !k.Valid() {
			t.Errorf("expected kind %q to be valid", k)
		}
	}
	for _, k := range []Kind{"", "float", "STRING", "list"} {
		if k.Valid() {
			t.Errorf("expected kind %q to be invalid", k)
		}
	}
}

func TestValueAccessorsRejectOtherKinds(t *testing.T) {
	v := StringValue("hello")
	if s, ok := v.AsString(); !ok || s != "hello" {
		t.Fatalf("AsString() = (%q, %v), want (hello, true)", s, ok)
	}
	if _, ok := v.AsInt(); ok {
		t.Error("AsInt on a string value reported ok")
	}
	if _, ok := v.AsTime(); ok {
		t.Error("AsTime on a string value reported ok")
	}
	if _, ok := IntValue(7).AsDouble(); ok {
		t.Error("AsDouble on an int value reported ok")
	}
	if _, ok := Value{}.AsString(); ok {
		t.Error("AsString on the zero value reported ok")
	}
}

func TestValueContentsAreCopied(t *testing.T) {
	src := []byte{1, 2, 3}
	v := BytesValue(src)
	src[0] = 99
	got, ok := v.AsBytes()
	if !ok {
		t.Fatal("AsBytes reported not ok")
	}
	if got[0] != 1 {
		t.Errorf("mutating the source slice changed the value: got %v", got)
	}
	got[1] = 99
	again, _ := v.AsBytes()
	if again[1] != 2 {
		t.Errorf("mutating the returned slice changed the value: got %v", again)
	}

	list := []string{"a", "b"}
	lv := StringListValue(list)
	list[0] = "z"
	gotList, _ := lv.AsStringList()
	if gotList[0] != "a" {
		t.Errorf("mutating the source list changed the value: got %v", gotList)
	}
}

func TestValueEqual(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{name: "equal strings", a: StringValue("x"), b: StringValue("x"), want: true},
		{name: "different strings", a: StringValue("x"), b: StringValue("y"), want: false},
		{name: "different kinds", a: StringValue("1"), b: IntValue(1), want: false},
		{name: "equal times", a: TimeValue(now), b: TimeValue(now.UTC()), want: true},
		{name: "equal bytes", a: BytesValue([]byte{1, 2}), b: BytesValue([]byte{1, 2}), want: true},
		{name: "different lists", a: StringListValue([]string{"a"}), b: StringListValue([]string{"a", "b"}), want: false},
		{name: "zero values", a: Value{}, b: Value{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Fatalf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValueJSONPreservesLargeInts(t *testing.T) {
	const big = int64(1)<<62 + 1
	data, err := json.Marshal(IntValue(big))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var v Value
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got, ok := v.AsInt()
	if !ok {
		t.Fatalf("decoded value is %s, want int", v.Kind())
	}
	if got != big {
		t.Errorf("round-tripped int = %d, want %d", got, big)
	}
}

func TestValueJSONTimePrecision(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)
	data, err := json.Marshal(TimeValue(ts))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var v Value
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got, ok := v.AsTime()
	if !ok {
		t.Fatalf("decoded value is %s, want time", v.Kind())
	}
	if !got.Equal(ts) {
		t.Errorf("round-tripped time = %v, want %v", got, ts)
	}
}

func TestValueJSONBytesAreBase64(t *testing.T) {
	data, err := json.Marshal(BytesValue([]byte("pantry")))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// base64("pantry") = cGFudHJ5
	if !strings.Contains(string(data), `"cGFudHJ5"`) {
		t.Errorf("expected base64 payload in %s", data)
	}
}

func TestValueJSONErrors(t *testing.T) {
	if _, err := json.Marshal(Value{}); err == nil {
		t.Error("expected marshal of the zero value to fail")
	}

	var v Value
	err := json.Unmarshal([]byte(`{"kind":"float","value":1.5}`), &v)
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}

	err = json.Unmarshal([]byte(`{"kind":"int","value":"not a number"}`), &v)
	if err == nil {
		t.Error("expected wrong-shape payload to fail")
	}

	err = json.Unmarshal([]byte(`{"kind":"time","value":"yesterday"}`), &v)
	if err == nil {
		t.Error("expected unparsable time payload to fail")
	}
}
