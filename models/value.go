/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/recordstore/errors"
)

// Coerce converts a loaded value (as produced by a JSON or DynamoDB decoder,
// or by ToDocument) to the attribute's declared kind.
func (s AttributeSpec) Coerce(v any) (any, error) {
	switch s.Kind {
	case KindString:
		if sv, ok := v.(string); ok {
			return sv, nil
		}
	case KindInt:
		if n, ok := toInt(v); ok {
			return n, nil
		}
	case KindFloat:
		if f, ok := toFloat(v); ok {
			return f, nil
		}
	case KindList:
		if l, ok := toStrings(v); ok {
			return l, nil
		}
	}
	return nil, errors.NewParseError(s.Name, v, fmt.Errorf("expected %s, got %T", s.Kind, v))
}

// ParseText converts user-entered text to the attribute's declared kind and
// checks the declared format, if any. Lists are comma separated.
func (s AttributeSpec) ParseText(text string) (any, error) {
	var out any
	switch s.Kind {
	case KindInt:
		n, err := strconv.Atoi(text)
		if err != nil {
			return nil, errors.NewParseError(s.Name, text, err)
		}
		out = n
	case KindFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, errors.NewParseError(s.Name, text, err)
		}
		out = f
	case KindList:
		items := []string{}
		for _, part := range strings.Split(text, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		out = items
	default:
		out = text
	}

	if s.Format != "" && !strfmt.Default.Validates(s.Format, text) {
		return nil, errors.NewParseError(s.Name, text, fmt.Errorf("not a valid %s", s.Format))
	}
	return out, nil
}

// ParseLiteral guesses the type of an undeclared attribute entered as text:
// integers, then floats, otherwise the text itself.
func ParseLiteral(text string) any {
	if n, err := strconv.Atoi(text); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return text
}

// normalize accepts the value shapes a record attribute may hold.
func normalize(name string, v any) (any, error) {
	switch tv := v.(type) {
	case nil, string, bool, int, float64:
		return tv, nil
	case json.Number:
		if n, err := tv.Int64(); err == nil {
			return int(n), nil
		}
		f, err := tv.Float64()
		if err != nil {
			return nil, errors.NewParseError(name, v, err)
		}
		return f, nil
	case int32:
		return int(tv), nil
	case int64:
		return int(tv), nil
	case float32:
		return float64(tv), nil
	case []string:
		return append([]string{}, tv...), nil
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			n, err := normalize(name, item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, item := range tv {
			n, err := normalize(name, item)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	default:
		return nil, errors.NewParseError(name, v, fmt.Errorf("unsupported attribute type %T", v))
	}
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case []string:
		return append([]string{}, tv...)
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = cloneValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, item := range tv {
			out[k] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// exportValue copies v for the transfer representation. Whole floats are
// written as json.Number with a fractional digit so they decode as floats
// again instead of ints.
func exportValue(v any) any {
	switch tv := v.(type) {
	case float64:
		if tv == math.Trunc(tv) && !math.IsInf(tv, 0) {
			return json.Number(strconv.FormatFloat(tv, 'f', 1, 64))
		}
		return tv
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = exportValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, item := range tv {
			out[k] = exportValue(item)
		}
		return out
	default:
		return cloneValue(v)
	}
}

func toInt(v any) (int, bool) {
	switch tv := v.(type) {
	case int:
		return tv, true
	case int32:
		return int(tv), true
	case int64:
		return int(tv), true
	case float64:
		if tv != math.Trunc(tv) || math.IsInf(tv, 0) {
			return 0, false
		}
		return int(tv), true
	case json.Number:
		n, err := tv.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch tv := v.(type) {
	case float64:
		return tv, true
	case float32:
		return float64(tv), true
	case int:
		return float64(tv), true
	case int64:
		return float64(tv), true
	case json.Number:
		f, err := tv.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func toStrings(v any) ([]string, bool) {
	switch tv := v.(type) {
	case []string:
		return append([]string{}, tv...), true
	case []any:
		out := make([]string, 0, len(tv))
		for _, item := range tv {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	case nil:
		return []string{}, true
	}
	return nil, false
}
