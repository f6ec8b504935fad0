package fieldtype

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formfields/pkg/model"
)

func normalizeScalar(field model.FieldDefinition, raw any) (any, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	default:
		return nil, invalidType(field, raw)
	}
}

func normalizeSingle(field model.FieldDefinition, raw any) (any, error) {
	if s, ok := raw.(string); ok {
		return s, nil
	}
	return normalizeScalar(field, raw)
}

func normalizeSubset(field model.FieldDefinition, raw any) (any, error) {
	switch v := raw.(type) {
	case []string:
		return dedupe(v), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, invalidType(field, raw)
			}
			out = append(out, s)
		}
		return dedupe(out), nil
	case string:
		if v == "" {
			return []string{}, nil
		}
		return []string{v}, nil
	default:
		return nil, invalidType(field, raw)
	}
}

func normalizeBoolean(field model.FieldDefinition, raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "1", "yes":
			return true, nil
		case "false", "off", "0", "no", "":
			return false, nil
		}
	}
	return nil, invalidType(field, raw)
}

func normalizeFile(field model.FieldDefinition, raw any) (any, error) {
	switch v := raw.(type) {
	case model.FileRef:
		if v.IsZero() {
			return nil, nil
		}
		return v, nil
	case *model.FileRef:
		if v == nil || v.IsZero() {
			return nil, nil
		}
		return *v, nil
	case map[string]any:
		payload, err := json.Marshal(v)
		if err != nil {
			return nil, invalidType(field, raw)
		}
		var ref model.FileRef
		if err := json.Unmarshal(payload, &ref); err != nil {
			return nil, invalidType(field, raw)
		}
		if ref.IsZero() {
			return nil, nil
		}
		return ref, nil
	case string:
		// A bare string is treated as an owner-issued handle.
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		return model.FileRef{Name: v, Handle: v}, nil
	default:
		return nil, invalidType(field, raw)
	}
}

func invalidType(field model.FieldDefinition, raw any) *model.ValidationError {
	return &model.ValidationError{
		FieldID: field.ID,
		Code:    model.CodeInvalidType,
		Message: fmt.Sprintf("unsupported value %T for %s field", raw, field.Type),
		Params:  map[string]string{"type": string(field.Type)},
	}
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
