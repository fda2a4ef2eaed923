package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/google/uuid"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

type contextKey string

const (
	queryIdKey contextKey = "queryId"
	loggerKey  contextKey = "logger"
)

func NewQueryId() string {
	return uuid.NewString()
}

func WithQueryId(ctx context.Context, queryId string) context.Context {
	return context.WithValue(ctx, queryIdKey, queryId)
}

func QueryIdFromContext(ctx context.Context) string {
	v, ok := ctx.Value(queryIdKey).(string)
	if !ok {
		return ""
	}
	return v
}

// WithLogger attaches a logger to the context. Pipeline stages pick it up with Logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// Logger returns the context logger, or the process default if none was attached.
func Logger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

type Kind uint8

const (
	Invalid Kind = iota
	Int
	Float
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int64"
	case Float:
		return "float64"
	default:
		return "invalid"
	}
}

// Value is a compact tagged union for int64 | float64. Table cells are always Int;
// Float only shows up as the result of AVG.
type Value struct {
	k Kind
	i int64
	f float64
}

func NewIntValue(v int64) Value     { return Value{k: Int, i: v} }
func NewFloatValue(v float64) Value { return Value{k: Float, f: v} }

func (v Value) Kind() Kind    { return v.k }
func (v Value) IsValid() bool { return v.k != Invalid }

func (v Value) IntVal() (int64, bool)     { return v.i, v.k == Int }
func (v Value) FloatVal() (float64, bool) { return v.f, v.k == Float }

func (v Value) ToFloat() float64 {
	switch v.k {
	case Int:
		return float64(v.i)
	case Float:
		return v.f
	default:
		return 0
	}
}

func (v Value) MustInt() int64 {
	if v.k != Int {
		panic("not int")
	}
	return v.i
}

// String renders the value in its natural textual form. Integral floats keep a
// trailing ".0" so an average never reads like a count.
func (v Value) String() string {
	switch v.k {
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		if math.IsInf(v.f, 0) || math.IsNaN(v.f) {
			return strconv.FormatFloat(v.f, 'f', -1, 64)
		}
		s := strconv.FormatFloat(v.f, 'f', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s
	default:
		return "<invalid>"
	}
}

func (v Value) Equal(u Value) bool {
	if v.k != u.k {
		return false
	}
	switch v.k {
	case Int:
		return v.i == u.i
	case Float:
		return (v.f == u.f) || (math.IsNaN(v.f) && math.IsNaN(u.f))
	default:
		return true // both invalid
	}
}

// Compare orders two values numerically. Mixed int/float pairs compare as floats.
func (v Value) Compare(u Value) int {
	if v.k == Int && u.k == Int {
		switch {
		case v.i < u.i:
			return -1
		case v.i > u.i:
			return 1
		default:
			return 0
		}
	}
	l, r := v.ToFloat(), u.ToFloat()
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.k {
	case Int:
		return json.Marshal(v.i)
	case Float:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return nil, fmt.Errorf("non-finite float")
		}
		return []byte(v.String()), nil
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	text := string(data)
	if text == "null" {
		*v = Value{}
		return nil
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		*v = NewIntValue(i)
		return nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("invalid value %s: %w", text, err)
	}
	*v = NewFloatValue(f)
	return nil
}

// Tuple is one row of a table: one value per schema position.
type Tuple []Value

func NewTuple(values ...int64) Tuple {
	t := make(Tuple, len(values))
	for i, v := range values {
		t[i] = NewIntValue(v)
	}
	return t
}

func (t Tuple) Clone() Tuple {
	c := make(Tuple, len(t))
	copy(c, t)
	return c
}

func (t Tuple) Equal(u Tuple) bool {
	if len(t) != len(u) {
		return false
	}
	for i := range t {
		if !t[i].Equal(u[i]) {
			return false
		}
	}
	return true
}

// Key returns a string that is identical for value-equal tuples.
func (t Tuple) Key() string {
	var sb strings.Builder
	for i, v := range t {
		if i > 0 {
			sb.WriteByte(0)
		}
		sb.WriteString(v.k.String())
		sb.WriteByte(':')
		sb.WriteString(v.String())
	}
	return sb.String()
}

func (t Tuple) Strings() []string {
	s := make([]string, len(t))
	for i, v := range t {
		s[i] = v.String()
	}
	return s
}

func (t Tuple) String() string {
	return "(" + strings.Join(t.Strings(), ",") + ")"
}

// Schema is the ordered list of column names describing a table at some pipeline stage.
type Schema []string

func (s Schema) IndexOf(column string) (int, bool) {
	for i, c := range s {
		if c == column {
			return i, true
		}
	}
	return -1, false
}

// Concat appends other after s without modifying either.
func (s Schema) Concat(other Schema) Schema {
	c := make(Schema, 0, len(s)+len(other))
	c = append(c, s...)
	return append(c, other...)
}

// Table is the working table handed from one pipeline stage to the next.
type Table struct {
	Schema Schema
	Rows   []Tuple
}

func NewTable(schema Schema, rows []Tuple) *Table {
	if rows == nil {
		rows = make([]Tuple, 0)
	}
	return &Table{Schema: schema, Rows: rows}
}

func (t *Table) Len() int {
	return len(t.Rows)
}
