package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"
)

// Kind identifies what a Value carries.
type Kind string

// Field value kinds.
const (
	KindString     Kind = "string"
	KindInt        Kind = "int"
	KindDouble     Kind = "double"
	KindBool       Kind = "bool"
	KindTime       Kind = "time"
	KindBytes      Kind = "bytes"
	KindStringList Kind = "string_list"
)

// validKinds is the set of recognized value kinds.
var validKinds = map[Kind]bool{
	KindString:     true,
	KindInt:        true,
	KindDouble:     true,
	KindBool:       true,
	KindTime:       true,
	KindBytes:      true,
	KindStringList: true,
}

// Valid reports whether k is a recognized value kind.
func (k Kind) Valid() bool {
	return validKinds[k]
}

// Value errors.
var (
	ErrUnknownKind  = errors.New("unknown value kind")
	ErrKindMismatch = errors.New("value kind mismatch")
)

// Value is a single record field: one of string, int, double, bool, time,
// bytes, or string list. The zero Value has no kind and is rejected by
// Record.Set. Values are immutable; byte and list contents are copied on
// construction and on access, never coerced between kinds.
type Value struct {
	kind Kind
	str  string
	i64  int64
	f64  float64
	b    bool
	t    time.Time
	bs   []byte
	list []string
}

// StringValue returns a Value holding a string.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// IntValue returns a Value holding a 64-bit integer.
func IntValue(i int64) Value {
	return Value{kind: KindInt, i64: i}
}

// DoubleValue returns a Value holding a 64-bit float.
func DoubleValue(f float64) Value {
	return Value{kind: KindDouble, f64: f}
}

// BoolValue returns a Value holding a bool.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// TimeValue returns a Value holding a timestamp.
func TimeValue(t time.Time) Value {
	return Value{kind: KindTime, t: t}
}

// BytesValue returns a Value holding a byte slice. The contents are copied.
func BytesValue(bs []byte) Value {
	cp := make([]byte, len(bs))
	copy(cp, bs)
	return Value{kind: KindBytes, bs: cp}
}

// StringListValue returns a Value holding a list of strings. The contents
// are copied.
func StringListValue(list []string) Value {
	cp := make([]string, len(list))
	copy(cp, list)
	return Value{kind: KindStringList, list: cp}
}

// Kind returns the kind of the value. The zero Value returns the empty Kind.
func (v Value) Kind() Kind {
	return v.kind
}

// AsString returns the string contents. The bool reports whether the value
// holds a string.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsInt returns the integer contents. The bool reports whether the value
// holds an int.
func (v Value) AsInt() (int64, bool) {
	return v.i64, v.kind == KindInt
}

// AsDouble returns the float contents. The bool reports whether the value
// holds a double.
func (v Value) AsDouble() (float64, bool) {
	return v.f64, v.kind == KindDouble
}

// AsBool returns the bool contents. The bool reports whether the value
// holds a bool.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsTime returns the timestamp contents. The bool reports whether the value
// holds a time.
func (v Value) AsTime() (time.Time, bool) {
	return v.t, v.kind == KindTime
}

// AsBytes returns a copy of the byte contents. The bool reports whether the
// value holds bytes.
func (v Value) AsBytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	cp := make([]byte, len(v.bs))
	copy(cp, v.bs)
	return cp, true
}

// AsStringList returns a copy of the list contents. The bool reports whether
// the value holds a string list.
func (v Value) AsStringList() ([]string, bool) {
	if v.kind != KindStringList {
		return nil, false
	}
	cp := make([]string, len(v.list))
	copy(cp, v.list)
	return cp, true
}

// Equal reports whether two values hold the same kind and contents.
// Timestamps compare with time.Time.Equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindInt:
		return v.i64 == o.i64
	case KindDouble:
		return v.f64 == o.f64
	case KindBool:
		return v.b == o.b
	case KindTime:
		return v.t.Equal(o.t)
	case KindBytes:
		return bytes.Equal(v.bs, o.bs)
	case KindStringList:
		return slices.Equal(v.list, o.list)
	default:
		return false
	}
}

// valueJSON is the serialized form of a Value: a kind tag plus the payload.
// Timestamps serialize as RFC 3339 strings, bytes as base64.
type valueJSON struct {
	Kind  Kind            `json:"kind"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes the value as {"kind": ..., "value": ...}.
// The zero Value fails with ErrUnknownKind.
func (v Value) MarshalJSON() ([]byte, error) {
	var payload any
	switch v.kind {
	case KindString:
		payload = v.str
	case KindInt:
		payload = v.i64
	case KindDouble:
		payload = v.f64
	case KindBool:
		payload = v.b
	case KindTime:
		payload = v.t.Format(time.RFC3339Nano)
	case KindBytes:
		payload = v.bs
	case KindStringList:
		payload = v.list
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, v.kind)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(valueJSON{Kind: v.kind, Value: raw})
}

// UnmarshalJSON decodes the {"kind": ..., "value": ...} form. An unknown
// kind fails with ErrUnknownKind; a payload of the wrong shape fails rather
// than defaulting.
func (v *Value) UnmarshalJSON(data []byte) error {
	var env valueJSON
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	switch env.Kind {
	case KindString:
		var s string
		if err := json.Unmarshal(env.Value, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case KindInt:
		var i int64
		if err := json.Unmarshal(env.Value, &i); err != nil {
			return err
		}
		*v = IntValue(i)
	case KindDouble:
		var f float64
		if err := json.Unmarshal(env.Value, &f); err != nil {
			return err
		}
		*v = DoubleValue(f)
	case KindBool:
		var b bool
		if err := json.Unmarshal(env.Value, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case KindTime:
		var s string
		if err := json.Unmarshal(env.Value, &s); err != nil {
			return err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("parse time value: %w", err)
		}
		*v = TimeValue(t)
	case KindBytes:
		var bs []byte
		if err := json.Unmarshal(env.Value, &bs); err != nil {
			return err
		}
		*v = BytesValue(bs)
	case KindStringList:
		var list []string
		if err := json.Unmarshal(env.Value, &list); err != nil {
			return err
		}
		*v = StringListValue(list)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, env.Kind)
	}
	return nil
}
