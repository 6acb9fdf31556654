package assumption

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"business_planner/pkg/core/utils"

	"gopkg.in/yaml.v2"
)

var (
	// ErrEmptyDocument is returned for blank input.
	ErrEmptyDocument = errors.New("empty assumption document")
	// ErrUnsupportedFormat is returned for file extensions the loader does not know.
	ErrUnsupportedFormat = errors.New("unsupported assumption document format")
)

// Parsed is a decoded document together with the normalized JSON it was decoded
// from. The JSON form is what sensitivity drivers edit and what the result
// cache hashes.
type Parsed[T any] struct {
	Doc  *T
	JSON []byte
}

// ParseBusiness decodes a business document from JSON, damaged JSON or HJSON.
func ParseBusiness(data []byte) (Parsed[BusinessAssumptions], error) {
	return parseLenient[BusinessAssumptions](data)
}

// ParseMarket decodes a market document from JSON, damaged JSON or HJSON.
func ParseMarket(data []byte) (Parsed[MarketAssumptions], error) {
	return parseLenient[MarketAssumptions](data)
}

// ParseBusinessYAML decodes a business document written in YAML.
func ParseBusinessYAML(data []byte) (Parsed[BusinessAssumptions], error) {
	return parseYAML[BusinessAssumptions](data)
}

// ParseMarketYAML decodes a market document written in YAML.
func ParseMarketYAML(data []byte) (Parsed[MarketAssumptions], error) {
	return parseYAML[MarketAssumptions](data)
}

// LoadBusinessFile reads a business document, picking the parser by extension.
func LoadBusinessFile(path string) (Parsed[BusinessAssumptions], error) {
	return loadFile(path, ParseBusiness, ParseBusinessYAML, parseHJSON[BusinessAssumptions])
}

// LoadMarketFile reads a market document, picking the parser by extension.
func LoadMarketFile(path string) (Parsed[MarketAssumptions], error) {
	return loadFile(path, ParseMarket, ParseMarketYAML, parseHJSON[MarketAssumptions])
}

func loadFile[T any](path string, lenient, yml, hj func([]byte) (Parsed[T], error)) (Parsed[T], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Parsed[T]{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yml(data)
	case ".hjson":
		return hj(data)
	case ".json", "":
		return lenient(data)
	}
	return Parsed[T]{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

func parseLenient[T any](data []byte) (Parsed[T], error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Parsed[T]{}, ErrEmptyDocument
	}

	var doc T
	normalized, err := utils.SmartParse(string(data), &doc)
	if err != nil {
		return Parsed[T]{}, fmt.Errorf("failed to parse assumption document: %w", err)
	}
	return Parsed[T]{Doc: &doc, JSON: []byte(normalized)}, nil
}

// parseHJSON skips the repair step: an .hjson file is never damaged JSON.
func parseHJSON[T any](data []byte) (Parsed[T], error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Parsed[T]{}, ErrEmptyDocument
	}

	converted, err := utils.ParseHJSON(string(data))
	if err != nil {
		return Parsed[T]{}, fmt.Errorf("failed to parse HJSON document: %w", err)
	}

	var doc T
	if err := json.Unmarshal([]byte(converted), &doc); err != nil {
		return Parsed[T]{}, fmt.Errorf("failed to decode HJSON document: %w", err)
	}
	return Parsed[T]{Doc: &doc, JSON: []byte(converted)}, nil
}

func parseYAML[T any](data []byte) (Parsed[T], error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Parsed[T]{}, ErrEmptyDocument
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Parsed[T]{}, fmt.Errorf("failed to parse YAML document: %w", err)
	}

	jsonBytes, err := json.Marshal(stringKeys(raw))
	if err != nil {
		return Parsed[T]{}, fmt.Errorf("failed to convert YAML document: %w", err)
	}

	var doc T
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return Parsed[T]{}, fmt.Errorf("failed to decode YAML document: %w", err)
	}
	return Parsed[T]{Doc: &doc, JSON: jsonBytes}, nil
}

// stringKeys converts the map[interface{}]interface{} trees produced by yaml.v2
// into JSON-encodable map[string]interface{} trees.
func stringKeys(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case []interface{}:
		for i, val := range t {
			t[i] = stringKeys(val)
		}
		return t
	}
	return v
}
