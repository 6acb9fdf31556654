package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// ErrUnparseable is returned by SmartParse when no strategy produced a document.
var ErrUnparseable = errors.New("SMART_PARSE_FAILED: all parsing strategies failed for input")

// RepairJSON fixes the usual damage found in hand-edited assumption files.
// Uses github.com/RealAlexandreAI/json-repair. Supported repairs:
// - Missing quotes around keys
// - Single quotes instead of double quotes
// - Unclosed arrays/objects
// - Trailing commas
// - Comments and markdown code fences
func RepairJSON(malformedJSON string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformedJSON)
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %w", err)
	}
	return repaired, nil
}

// ParseHJSON parses Human-friendly JSON (Hjson) and returns standard JSON.
// Hjson allows comments, unquoted keys and strings, and optional commas,
// which is how most people write assumption files by hand.
func ParseHJSON(hjsonData string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(hjsonData), &result); err != nil {
		return "", fmt.Errorf("HJSON_PARSE_ERROR: %w", err)
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("JSON_MARSHAL_ERROR: %w", err)
	}
	return string(jsonBytes), nil
}

// SmartParse decodes input into schema, trying progressively more lenient parsers.
// Order of attempts:
// 1. Standard JSON
// 2. JSON repair
// 3. Hjson (most lenient)
//
// It returns the standard JSON text that was finally decoded so callers can hash
// or re-process the exact document the engine saw.
func SmartParse(input string, schema interface{}) (string, error) {
	input = strings.TrimSpace(input)

	if err := json.Unmarshal([]byte(input), schema); err == nil {
		return input, nil
	}

	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return repaired, nil
		}
	}

	if converted, err := ParseHJSON(input); err == nil {
		if err := json.Unmarshal([]byte(converted), schema); err == nil {
			return converted, nil
		}
	}

	return "", ErrUnparseable
}

// CanonicalJSON re-encodes a JSON document with sorted object keys and no
// insignificant whitespace, so equal documents produce equal bytes.
func CanonicalJSON(data []byte) ([]byte, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("JSON_STRUCTURAL_ERROR: %w", err)
	}
	return json.Marshal(v)
}
