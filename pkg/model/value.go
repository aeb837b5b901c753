package model

import (
	"encoding/json"
	"strconv"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
)

// Value is a nullable table cell. The zero value is null.
type Value struct {
	kind Kind
	str  string
	num  int64
}

func Null() Value {
	return Value{}
}

func String(s string) Value {
	return Value{kind: KindString, str: s}
}

func Int(n int64) Value {
	return Value{kind: KindInt, num: n}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Text renders the cell as a string. Null renders as "".
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	default:
		return ""
	}
}

// AsInt reports the integer payload of an int cell.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.num, true
}

// Map applies fn to the text of a non-null string cell. Null and int cells are returned unchanged.
func (v Value) Map(fn func(string) string) Value {
	if v.kind != KindString {
		return v
	}
	return String(fn(v.str))
}

func (v Value) Equal(other Value) bool {
	return v == other
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindInt:
		return []byte(strconv.FormatInt(v.num, 10)), nil
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Null()
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	*v = Int(n)
	return nil
}

// Any returns nil, string or int64. Used by storage and export encoders.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	default:
		return nil
	}
}

// FromAny is the inverse of Any and accepts the integer widths storage drivers decode to.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case string:
		return String(t)
	case int64:
		return Int(t)
	case int32:
		return Int(int64(t))
	case int:
		return Int(int64(t))
	case float64:
		return Int(int64(t))
	default:
		return Null()
	}
}
