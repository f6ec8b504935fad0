package render

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formfields/pkg/model"
)

// HiddenField is a hidden input emitted next to the custom fields, typically a
// CSRF token or a version stamp for the owning record.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken builds a hidden field carrying a CSRF token under name.
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// VersionField builds a hidden field carrying the record version the values
// were captured against.
func VersionField(name string, version any) HiddenField {
	return Hidden(name, version)
}

// MergeHiddenFields copies base and applies fields over it. Later fields win.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields returns the hidden fields ordered by name.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}

	clean := make(map[string]string, len(fields))
	for name, value := range fields {
		key := strings.TrimSpace(name)
		if key == "" {
			continue
		}
		clean[key] = value
	}
	if len(clean) == 0 {
		return nil
	}

	names := make([]string, 0, len(clean))
	for name := range clean {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{
			Name:  name,
			Value: clean[name],
		})
	}
	return result
}

// DefaultSubmissionKey names the multipart part carrying the JSON values.
const DefaultSubmissionKey = "values"

// EncodeSubmission marshals the value map emitted on submit: a JSON object of
// field id to value, restricted to ids present in fields.
func EncodeSubmission(fields []model.FieldDefinition, values model.Values) ([]byte, error) {
	out := make(map[string]any, len(fields))
	for _, field := range fields {
		out[field.ID] = values[field.ID]
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("render: encode submission: %w", err)
	}
	return data, nil
}

// DecodeSubmission parses a submission payload. It accepts the plain JSON
// object and the string-wrapped form used when the payload travels next to
// binary parts. File values come back as maps; fieldtype normalization turns
// them back into FileRef.
func DecodeSubmission(data []byte) (model.Values, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, fmt.Errorf("render: decode submission: %w", err)
		}
		trimmed = []byte(inner)
	}

	values := model.Values{}
	if err := json.Unmarshal(trimmed, &values); err != nil {
		return nil, fmt.Errorf("render: decode submission: %w", err)
	}
	return values, nil
}

// Upload is a binary part accompanying a submission, keyed by field id.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// WriteMultipartSubmission writes the values as a single JSON string part
// under key, followed by one part per upload named after its field id.
func WriteMultipartSubmission(w *multipart.Writer, key string, fields []model.FieldDefinition, values model.Values, uploads map[string]Upload) error {
	if strings.TrimSpace(key) == "" {
		key = DefaultSubmissionKey
	}
	payload, err := EncodeSubmission(fields, values)
	if err != nil {
		return err
	}
	if err := w.WriteField(key, string(payload)); err != nil {
		return fmt.Errorf("render: write submission part: %w", err)
	}

	ids := make([]string, 0, len(uploads))
	for id := range uploads {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		upload := uploads[id]
		if upload.Body == nil {
			continue
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, id, upload.Filename))
		contentType := upload.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := w.CreatePart(header)
		if err != nil {
			return fmt.Errorf("render: create upload part %q: %w", id, err)
		}
		if _, err := io.Copy(part, upload.Body); err != nil {
			return fmt.Errorf("render: write upload part %q: %w", id, err)
		}
	}
	return nil
}
