// Package raw holds the defensive plumbing shared by native adapters:
// plain GET fetches and loose-schema field coercion. Upstream payloads differ
// per provider and drift over time, so missing or oddly-typed fields coerce to
// zero values instead of failing the record.
package raw

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// Get issues a GET with a JSON accept header and returns the body for any 2xx
// response. Non-2xx statuses are errors so callers can fall through their
// endpoint chain.
func Get(ctx context.Context, hc *http.Client, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http status %d", resp.StatusCode)
	}
	return body, nil
}

// GetJSON fetches an endpoint and decodes the body into a generic value.
func GetJSON(ctx context.Context, hc *http.Client, endpoint string) (interface{}, error) {
	body, err := Get(ctx, hc, endpoint)
	if err != nil {
		return nil, err
	}
	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload, nil
}

// Items extracts a list of objects from a decoded payload. A top-level array
// is used directly; otherwise the given paths (dot-separated) are tried in
// order against the object. Returns nil when nothing list-shaped is found.
func Items(payload interface{}, paths ...string) []map[string]interface{} {
	if list := asObjectList(payload); list != nil {
		return list
	}
	obj, ok := payload.(map[string]interface{})
	if !ok {
		return nil
	}
	for _, path := range paths {
		value := lookupPath(obj, path)
		if list := asObjectList(value); list != nil {
			return list
		}
	}
	return nil
}

func lookupPath(obj map[string]interface{}, path string) interface{} {
	var current interface{} = obj
	for _, key := range strings.Split(path, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current = m[key]
	}
	return current
}

func asObjectList(value interface{}) []map[string]interface{} {
	list, ok := value.([]interface{})
	if !ok {
		return nil
	}
	items := make([]map[string]interface{}, 0, len(list))
	for _, entry := range list {
		if m, ok := entry.(map[string]interface{}); ok {
			items = append(items, m)
		}
	}
	if len(items) == 0 {
		return nil
	}
	return items
}

// Num returns the first present field among keys coerced to float64.
// Unparseable or absent values yield 0, never NaN.
func Num(m map[string]interface{}, keys ...string) float64 {
	for _, key := range keys {
		value, ok := m[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f
			}
		}
	}
	return 0
}

// Str returns the first present non-empty string among keys, else "".
func Str(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		value, ok := m[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
