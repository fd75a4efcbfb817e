package assessment

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Answers is the opaque questionnaire payload. It is backed by a
// google.protobuf.Struct, which restricts values to what JSON can carry,
// and serialises through protojson for both the wire and jsonb columns.
type Answers struct {
	s *structpb.Struct
}

// NewAnswers validates m and wraps it.
func NewAnswers(m map[string]any) (Answers, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return Answers{}, fmt.Errorf("invalid answers: %w", err)
	}
	return Answers{s: s}, nil
}

// Map returns a plain copy of the payload.
func (a Answers) Map() map[string]any {
	if a.s == nil {
		return map[string]any{}
	}
	return a.s.AsMap()
}

// Len is the number of top-level fields.
func (a Answers) Len() int {
	if a.s == nil {
		return 0
	}
	return len(a.s.GetFields())
}

// Text returns the field as text; numbers are formatted, lists joined.
func (a Answers) Text(key string) string {
	v := a.field(key)
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64)
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(k.BoolValue)
	case *structpb.Value_ListValue:
		return strings.Join(a.Strings(key), ",")
	default:
		return ""
	}
}

// Strings returns a list field. A scalar string is split on commas so that
// free-text multi answers behave like lists.
func (a Answers) Strings(key string) []string {
	v := a.field(key)
	var raw []string
	switch k := v.GetKind().(type) {
	case *structpb.Value_ListValue:
		for _, item := range k.ListValue.GetValues() {
			if s, ok := item.GetKind().(*structpb.Value_StringValue); ok {
				raw = append(raw, s.StringValue)
			}
		}
	case *structpb.Value_StringValue:
		raw = strings.Split(k.StringValue, ",")
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Number returns a numeric field; numeric strings are parsed.
func (a Answers) Number(key string) (float64, bool) {
	v := a.field(key)
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return k.NumberValue, true
	case *structpb.Value_StringValue:
		n, err := strconv.ParseFloat(strings.TrimSpace(k.StringValue), 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func (a Answers) field(key string) *structpb.Value {
	if a.s == nil {
		return nil
	}
	return a.s.GetFields()[key]
}

// MarshalJSON encodes the payload as a JSON object; empty answers are "{}".
func (a Answers) MarshalJSON() ([]byte, error) {
	if a.s == nil {
		return []byte("{}"), nil
	}
	return protojson.Marshal(a.s)
}

// UnmarshalJSON decodes a JSON object. null yields empty answers.
func (a *Answers) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		a.s = nil
		return nil
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(b, s); err != nil {
		return fmt.Errorf("invalid answers: %w", err)
	}
	a.s = s
	return nil
}

// Value implements driver.Valuer for jsonb columns.
func (a Answers) Value() (driver.Value, error) {
	return a.MarshalJSON()
}

// Scan implements sql.Scanner for jsonb columns.
func (a *Answers) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		a.s = nil
		return nil
	case []byte:
		return a.UnmarshalJSON(v)
	case string:
		return a.UnmarshalJSON([]byte(v))
	default:
		return errors.New("answers: unsupported column type")
	}
}
