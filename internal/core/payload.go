package core

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Payload is an undecoded submission body: a JSON object whose numbers are
// kept as json.Number.
type Payload map[string]any

// DecodePayload parses body as a JSON object. Anything else (empty body,
// arrays, scalars, broken JSON) is a MalformedPayload failure.
func DecodePayload(body []byte) (Payload, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, malformed("body must be a JSON object")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, malformed("body is not valid JSON: " + err.Error())
	}
	if dec.More() {
		return nil, malformed("body contains trailing data")
	}
	return p, nil
}

type fieldKind int

const (
	textField fieldKind = iota
	dateField
	countField // non-negative integer
	goalField  // strictly positive integer
)

type fieldSpec struct {
	name string
	kind fieldKind
}

// Schemas, in report order.
var (
	foodSchema = []fieldSpec{
		{"date", dateField},
		{"food", textField},
		{"calories", countField},
		{"protein", countField},
		{"fat", countField},
		{"carbs", countField},
	}
	fitnessSchema = []fieldSpec{
		{"date", dateField},
		{"exercise", textField},
		{"kcal_burned", countField},
	}
	goalsSchema = []fieldSpec{
		{"calorie_goal", goalField},
		{"protein_goal", goalField},
		{"fat_goal", goalField},
		{"carbs_goal", goalField},
	}
)

// fields holds the normalized values of a payload that passed its schema.
type fields struct {
	text map[string]string
	num  map[string]int64
}

func (p Payload) check(schema []fieldSpec) (fields, error) {
	out := fields{text: map[string]string{}, num: map[string]int64{}}
	if p == nil {
		return out, malformed("payload is missing")
	}
	verr := &ValidationError{}
	for _, field := range schema {
		raw, present := p[field.name]
		if !present || raw == nil {
			verr.add(field.name, ErrMissingField, "field is required")
			continue
		}
		switch field.kind {
		case textField, dateField:
			s, ok := raw.(string)
			if !ok {
				verr.add(field.name, ErrTypeMismatch, "must be a string")
				continue
			}
			s = strings.TrimSpace(s)
			if s == "" {
				verr.add(field.name, ErrMissingField, "field is required")
				continue
			}
			if field.kind == dateField {
				if _, err := ParseDay(s); err != nil {
					verr.add(field.name, ErrInvalidDate, "invalid date format, use YYYY-MM-DD")
					continue
				}
			}
			out.text[field.name] = s
		case countField, goalField:
			d, ok := toDecimal(raw)
			if !ok {
				verr.add(field.name, ErrTypeMismatch, "must be a number")
				continue
			}
			if d.IsNegative() {
				verr.add(field.name, ErrNegativeValue, "must not be negative")
				continue
			}
			n, ok := wholePart(d)
			if !ok || n > MaxQuantity {
				verr.add(field.name, ErrTypeMismatch, "number out of range")
				continue
			}
			if field.kind == goalField && n == 0 {
				verr.add(field.name, ErrNegativeValue, "must be greater than zero")
				continue
			}
			out.num[field.name] = n
		}
	}
	return out, verr.orNil()
}

// MaxQuantity bounds every count and goal.
const MaxQuantity int64 = 1_000_000

// wholePart truncates a non-negative d toward zero. The magnitude is checked
// from the digit count and exponent before any rescale, so literals such as
// 1e99999999 are rejected without expanding them.
func wholePart(d decimal.Decimal) (int64, bool) {
	if d.IsZero() {
		return 0, true
	}
	intDigits := d.NumDigits() + int(d.Exponent())
	switch {
	case intDigits > 18:
		return 0, false
	case intDigits <= 0:
		return 0, true
	}
	return d.IntPart(), true
}

// toDecimal accepts only numeric JSON values. Numeric strings are rejected.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case int32:
		return decimal.NewFromInt32(n), true
	default:
		return decimal.Decimal{}, false
	}
}
