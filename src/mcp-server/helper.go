// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import "fmt"

// getParams extracts parameters from a normalized JSON-RPC request.
func getParams(req map[string]any, method string) (map[string]any, error) {
	p, ok := req["params"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid %s params", method)
	}
	return p, nil
}

// getStringParam extracts a required string value from a params map.
func getStringParam(params map[string]any, method, key string) (string, error) {
	v, ok := params[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("missing %s in %s params", key, method)
	}
	return v, nil
}

// getOptionalStringParam extracts a string value from a params map,
// returning the empty string when the key is absent.
func getOptionalStringParam(params map[string]any, method, key string) (string, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("invalid %s in %s params: expected string, got %T", key, method, v)
	}
	return s, nil
}

// getMapParam extracts a nested map from a params map, returning an empty
// map when the key is absent.
func getMapParam(params map[string]any, method, key string) (map[string]any, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return map[string]any{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid %s in %s params: expected object, got %T", key, method, v)
	}
	return m, nil
}
