package config

import (
	"fmt"
	"strings"
)

// KeyValue is one parsed key=value pair.
type KeyValue struct {
	Key   string
	Value string
}

// ParseKeyValue parses a single key=value pair and returns the key and value.
// If no value is provided, the value will be empty.
func ParseKeyValue(input string) (key, val string) {
	chunks := strings.SplitN(input, "=", 2)
	key = strings.TrimSpace(chunks[0])
	if len(chunks) > 1 {
		val = strings.TrimSpace(chunks[1])
	}
	return
}

// ParseKeyValuePairs parses a comma-separated string of key=value pairs in order.
// Empty pairs are ignored and whitespace around keys and values is trimmed.
// A pair with a value but no key is an error.
func ParseKeyValuePairs(input string) ([]KeyValue, error) {
	var result []KeyValue
	for _, pair := range strings.Split(input, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, val := ParseKeyValue(pair)
		if key == "" {
			return nil, fmt.Errorf("missing key in %q", pair)
		}
		result = append(result, KeyValue{Key: key, Value: val})
	}
	return result, nil
}
