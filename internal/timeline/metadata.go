package timeline

import (
	"fmt"
	"strconv"
	"time"
)

// ValueKind discriminates the closed set of metadata value types.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindBool
	KindTime
)

// Value is a closed variant over the types allowed in track and frame
// metadata. Keeping the set closed keeps predicate evaluation and sort
// comparisons well-defined.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	flag bool
	ts   time.Time
}

func StringValue(s string) Value  { return Value{kind: KindString, str: s} }
func NumberValue(n float64) Value { return Value{kind: KindNumber, num: n} }
func BoolValue(b bool) Value      { return Value{kind: KindBool, flag: b} }
func TimeValue(at time.Time) Value {
	return Value{kind: KindTime, ts: at}
}

// Kind returns the variant discriminator.
func (v Value) Kind() ValueKind { return v.kind }

// Str returns the string payload; valid only for KindString.
func (v Value) Str() string { return v.str }

// Num returns the numeric payload; valid only for KindNumber.
func (v Value) Num() float64 { return v.num }

// Bool returns the boolean payload; valid only for KindBool.
func (v Value) Bool() bool { return v.flag }

// Time returns the timestamp payload; valid only for KindTime.
func (v Value) Time() time.Time { return v.ts }

// Equal reports exact equality. String comparison is case-sensitive.
// Values of different kinds are never equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.flag == o.flag
	case KindTime:
		return v.ts.Equal(o.ts)
	}
	return false
}

// Less orders two values of the same kind. The second return is false
// when the values are not comparable (different kinds, or booleans).
func (v Value) Less(o Value) (less, ok bool) {
	if v.kind != o.kind {
		return false, false
	}
	switch v.kind {
	case KindString:
		return v.str < o.str, true
	case KindNumber:
		return v.num < o.num, true
	case KindTime:
		return v.ts.Before(o.ts), true
	}
	return false, false
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindTime:
		return v.ts.Format(time.RFC3339)
	}
	return fmt.Sprintf("Value(kind=%d)", int(v.kind))
}

// Metadata is an arbitrary key-value store attached to tracks and
// frames, used for match-based selection and sorting. Keys are supplied
// by the external metadata store; none is guaranteed to exist.
type Metadata map[string]Value

// Lookup returns the value for key and whether it is present.
func (m Metadata) Lookup(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m[key]
	return v, ok
}

// Predicate evaluates a metadata mapping. Absent keys must be treated
// as non-matching, never as an error.
type Predicate func(Metadata) bool

// MatchKeyValue builds a predicate matching entries whose key holds a
// value exactly equal to want.
func MatchKeyValue(key string, want Value) Predicate {
	return func(m Metadata) bool {
		got, ok := m.Lookup(key)
		return ok && got.Equal(want)
	}
}

// MatchKeyPresent builds a predicate matching entries that carry the
// key at all, regardless of value.
func MatchKeyPresent(key string) Predicate {
	return func(m Metadata) bool {
		_, ok := m.Lookup(key)
		return ok
	}
}
