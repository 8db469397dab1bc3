// Package attrs provides typed access to annotation attribute sets.
//
// Annotations travel as open JSON objects (map[string]any). This package
// bridges between the schemaless bag and the typed annotation bodies using
// struct tags.
//
// Usage:
//
//	type Numeric struct {
//	    Number float64 `attr:"number"`
//	    Notation string `attr:"notation,omitempty"`
//	}
//
//	// Read: map → struct
//	var n Numeric
//	attrs.Scan(fields, &n)
//
//	// Write: struct → map
//	fields := attrs.From(n)
//
// Tag options: "omitempty" skips zero values, "nullable" writes a nil
// pointer as an explicit null instead of dropping the key.
package attrs

import (
	"reflect"
	"strings"
)

// Scan reads values from a map[string]interface{} into a struct using `attr` tags.
// Fields without a matching key are left at their zero value.
// Handles JSON number coercion (float64 → int).
func Scan(m map[string]any, dst any) {
	if m == nil {
		return
	}

	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		key := tagKey(t.Field(i))
		if key == "" {
			continue
		}

		val, ok := m[key]
		if !ok || val == nil {
			continue
		}

		setField(v.Field(i), val)
	}
}

// From converts a struct into map[string]interface{} using `attr` tags.
func From(src any) map[string]any {
	v := reflect.ValueOf(src)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	m := make(map[string]any)

	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("attr")
		if tag == "" || tag == "-" {
			continue
		}

		key, opts := parseTag(tag)
		fv := v.Field(i)

		if opts.omitempty && fv.IsZero() {
			continue
		}

		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				if opts.nullable {
					m[key] = nil
				}
				continue
			}
			fv = fv.Elem()
		}

		m[key] = fv.Interface()
	}

	return m
}

type tagOptions struct {
	omitempty bool
	nullable  bool
}

func tagKey(f reflect.StructField) string {
	tag := f.Tag.Get("attr")
	if tag == "" || tag == "-" {
		return ""
	}
	key, _ := parseTag(tag)
	return key
}

func parseTag(tag string) (key string, opts tagOptions) {
	parts := strings.Split(tag, ",")
	key = parts[0]
	for _, opt := range parts[1:] {
		switch opt {
		case "omitempty":
			opts.omitempty = true
		case "nullable":
			opts.nullable = true
		}
	}
	return
}

func setField(fv reflect.Value, val any) {
	switch fv.Kind() {
	case reflect.String:
		if s, ok := val.(string); ok {
			fv.SetString(s)
		}

	case reflect.Int, reflect.Int64:
		if n, ok := toInt(val); ok {
			fv.SetInt(n)
		}

	case reflect.Float64:
		if n, ok := toFloat(val); ok {
			fv.SetFloat(n)
		}

	case reflect.Bool:
		if b, ok := val.(bool); ok {
			fv.SetBool(b)
		}

	case reflect.Slice:
		if fv.Type().Elem().Kind() == reflect.String {
			switch items := val.(type) {
			case []string:
				fv.Set(reflect.ValueOf(items))
			case []any:
				strs := make([]string, 0, len(items))
				for _, item := range items {
					if s, ok := item.(string); ok {
						strs = append(strs, s)
					}
				}
				fv.Set(reflect.ValueOf(strs))
			}
		}

	case reflect.Map:
		if fv.Type().Key().Kind() != reflect.String || fv.Type().Elem().Kind() != reflect.String {
			return
		}
		switch items := val.(type) {
		case map[string]string:
			fv.Set(reflect.ValueOf(items))
		case map[string]any:
			strs := make(map[string]string, len(items))
			for k, item := range items {
				if s, ok := item.(string); ok {
					strs[k] = s
				}
			}
			fv.Set(reflect.ValueOf(strs))
		}

	case reflect.Pointer:
		// *int, *float64, *bool
		switch fv.Type().Elem().Kind() {
		case reflect.Int:
			if n, ok := toInt(val); ok {
				i := int(n)
				fv.Set(reflect.ValueOf(&i))
			}
		case reflect.Float64:
			if n, ok := toFloat(val); ok {
				fv.Set(reflect.ValueOf(&n))
			}
		case reflect.Bool:
			if b, ok := val.(bool); ok {
				fv.Set(reflect.ValueOf(&b))
			}
		}
	}
}

func toInt(val any) (int64, bool) {
	switch n := val.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

func toFloat(val any) (float64, bool) {
	switch n := val.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
