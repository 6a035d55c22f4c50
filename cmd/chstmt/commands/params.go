package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Konsultn-Engineering/chstmt/statement"
	"github.com/Konsultn-Engineering/chstmt/value"
)

// parseAssignment splits key=value.
func parseAssignment(s string) (statement.Key, string, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return statement.Key{}, "", fmt.Errorf("expected key=value, got %q", s)
	}
	return statement.ParseKey(k), v, nil
}

// parseValue reads a command-line parameter value. Unquoted text is typed by
// shape: null, true/false, integers, floats and JSON arrays. Anything else,
// or text wrapped in single quotes, is a string.
func parseValue(s string) (value.Value, error) {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return value.String(s[1 : len(s)-1]), nil
	}
	switch strings.ToLower(s) {
	case "null":
		return value.Null(), nil
	case "true":
		return value.Bool(true), nil
	case "false":
		return value.Bool(false), nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.Int(i), nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return value.Float(f), nil
	}
	if strings.HasPrefix(s, "[") {
		return parseArray(s)
	}
	return value.String(s), nil
}

func parseArray(s string) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return value.Null(), fmt.Errorf("invalid array %s: %w", s, err)
	}
	elems := make([]value.Value, len(raw))
	for n, e := range raw {
		switch e := e.(type) {
		case json.Number:
			if i, err := e.Int64(); err == nil {
				elems[n] = value.Int(i)
				continue
			}
			f, err := e.Float64()
			if err != nil {
				return value.Null(), fmt.Errorf("array element %d: %w", n, err)
			}
			elems[n] = value.Float(f)
		default:
			v, err := value.FromAny(e)
			if err != nil {
				return value.Null(), fmt.Errorf("array element %d: %w", n, err)
			}
			elems[n] = v
		}
	}
	return value.Seq(elems...), nil
}

// bindFlags applies --param and --type flags to s.
func bindFlags(s *statement.Statement, params, types []string) error {
	declared := make(map[statement.Key]value.Type, len(types))
	for _, raw := range types {
		key, name, err := parseAssignment(raw)
		if err != nil {
			return err
		}
		t, err := value.ParseType(name)
		if err != nil {
			return err
		}
		declared[key] = t
	}

	for _, raw := range params {
		key, text, err := parseAssignment(raw)
		if err != nil {
			return err
		}
		v, err := parseValue(text)
		if err != nil {
			return fmt.Errorf("param %s: %w", key, err)
		}
		if t, ok := declared[key]; ok {
			s.BindValue(key, v, t)
			delete(declared, key)
		} else {
			s.BindValue(key, v)
		}
	}

	if len(declared) > 0 {
		keys := make([]string, 0, len(declared))
		for key := range declared {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return fmt.Errorf("type given for %s but no value", strings.Join(keys, ", "))
	}
	return nil
}
