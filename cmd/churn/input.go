package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// parseFieldFlags turns repeated key=value flags into a field map.
func parseFieldFlags(pairs []string) (map[string]string, error) {
	fields := make(map[string]string, len(pairs))
	for _, kv := range pairs {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, usagef("--field %q: want name=value", kv)
		}
		fields[strings.TrimSpace(key)] = value
	}
	return fields, nil
}

// decodeFields reads one JSON object whose values are strings, numbers or null.
// Numbers keep their literal text so integer checks see what the caller sent.
func decodeFields(raw []byte) (map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("invalid JSON record: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("invalid JSON record: want an object")
	}
	fields := make(map[string]string, len(obj))
	for k, v := range obj {
		switch v := v.(type) {
		case string:
			fields[k] = v
		case json.Number:
			fields[k] = v.String()
		case nil:
			fields[k] = ""
		default:
			return nil, fmt.Errorf("field %q: unsupported JSON value %T", k, v)
		}
	}
	return fields, nil
}

func readRecordFile(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, usagef("record: %w", err)
	}
	fields, err := decodeFields(raw)
	if err != nil {
		return nil, &usageError{fmt.Errorf("%s: %w", path, err)}
	}
	return fields, nil
}
