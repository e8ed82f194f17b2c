package blogapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ericfisherdev/blogpanel/internal/domain/port/driven"
)

// parseError converts a non-2xx response into an APIError. The server uses
// several shapes: {"detail": ...}, {"error": ...}, field maps such as
// {"username": ["This field is required."]}, and bare string lists.
func parseError(status int, body []byte) error {
	apiErr := &driven.APIError{Status: status}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		apiErr.Detail = strings.TrimSpace(string(body))
		if len(apiErr.Detail) > 200 || strings.HasPrefix(apiErr.Detail, "<") {
			apiErr.Detail = ""
		}
		return apiErr
	}

	switch v := decoded.(type) {
	case map[string]any:
		for _, key := range []string{"detail", "error", "message"} {
			if s, ok := v[key].(string); ok && s != "" {
				apiErr.Detail = s
				break
			}
		}
		apiErr.Fields = fieldErrors(v)
		if apiErr.Detail == "" {
			apiErr.Detail = firstFieldError(apiErr.Fields)
		}
	case []any:
		if msgs := stringsOf(v); len(msgs) > 0 {
			apiErr.Detail = msgs[0]
		}
	case string:
		apiErr.Detail = v
	}

	return apiErr
}

func fieldErrors(m map[string]any) map[string][]string {
	fields := make(map[string][]string)
	for key, val := range m {
		switch key {
		case "detail", "error", "message":
			continue
		}
		switch vv := val.(type) {
		case string:
			fields[key] = []string{vv}
		case []any:
			if msgs := stringsOf(vv); len(msgs) > 0 {
				fields[key] = msgs
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// firstFieldError picks non_field_errors first, then the alphabetically
// first field, so the detail is stable across map iteration orders.
func firstFieldError(fields map[string][]string) string {
	if msgs, ok := fields["non_field_errors"]; ok {
		return msgs[0]
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		return fmt.Sprintf("%s: %s", k, fields[k][0])
	}
	return ""
}

func stringsOf(vals []any) []string {
	out := make([]string, 0, len(vals))
	for _, val := range vals {
		if s, ok := val.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
