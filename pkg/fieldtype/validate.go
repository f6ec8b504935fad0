package fieldtype

import (
	"errors"
	"math"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formfields/pkg/model"
)

// DateLayout is the wire layout for date values.
const DateLayout = "2006-01-02"

// Format patterns for email and tel values. Schema exports reuse them so
// that exported constraints match what validation enforces.
const (
	EmailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`
	TelPattern   = `^\+?[0-9 ().\-]{6,20}$`
)

var (
	emailPattern   = regexp.MustCompile(EmailPattern)
	telPattern     = regexp.MustCompile(TelPattern)
	decimalPattern = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?$`)
)

var errNotDecimal = errors.New("fieldtype: not a finite decimal number")

func validateEmail(field model.FieldDefinition, value any) *model.ValidationError {
	s, _ := value.(string)
	if emailPattern.MatchString(strings.TrimSpace(s)) {
		return nil
	}
	return &model.ValidationError{Code: model.CodeInvalidEmail}
}

func validateTel(field model.FieldDefinition, value any) *model.ValidationError {
	s, _ := value.(string)
	s = strings.TrimSpace(s)
	if telPattern.MatchString(s) && countDigits(s) >= 6 {
		return nil
	}
	return &model.ValidationError{Code: model.CodeInvalidTel}
}

func validateNumber(field model.FieldDefinition, value any) *model.ValidationError {
	s, _ := value.(string)
	if _, err := ParseNumber(s); err != nil {
		return &model.ValidationError{Code: model.CodeInvalidNumber}
	}
	return nil
}

func validateDate(field model.FieldDefinition, value any) *model.ValidationError {
	s, _ := value.(string)
	if _, err := ParseDate(s); err != nil {
		return &model.ValidationError{Code: model.CodeInvalidDate}
	}
	return nil
}

func validateSingle(field model.FieldDefinition, value any) *model.ValidationError {
	s, _ := value.(string)
	if field.HasOption(s) {
		return nil
	}
	return &model.ValidationError{Code: model.CodeNotAnOption, Params: map[string]string{"value": s}}
}

func validateSubset(field model.FieldDefinition, value any) *model.ValidationError {
	list, _ := value.([]string)
	for _, item := range list {
		if !field.HasOption(item) {
			return &model.ValidationError{Code: model.CodeNotAnOption, Params: map[string]string{"value": item}}
		}
	}
	return nil
}

func validateFile(field model.FieldDefinition, value any) *model.ValidationError {
	ref, ok := value.(model.FileRef)
	if !ok || field.File == nil {
		return nil
	}
	if field.File.MaxSize > 0 && ref.Size > field.File.MaxSize {
		return &model.ValidationError{
			Code:   model.CodeFileTooLarge,
			Params: map[string]string{"max": strconv.FormatInt(field.File.MaxSize, 10)},
		}
	}
	if len(field.File.Extensions) > 0 && !AllowedExtension(ref.Name, field.File.Extensions) {
		return &model.ValidationError{
			Code:   model.CodeFileType,
			Params: map[string]string{"extensions": strings.Join(field.File.Extensions, ", ")},
		}
	}
	return nil
}

// ParseNumber parses a captured number. Only finite decimal notation is
// accepted, with a single decimal comma allowed in place of the dot. Hex,
// base prefixes, digit separators, NaN and infinities are rejected.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	if !decimalPattern.MatchString(s) {
		return 0, errNotDecimal
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, errNotDecimal
	}
	return n, nil
}

// ParseDate parses a captured date in the wire layout.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// AllowedExtension reports whether name ends with one of extensions. The
// comparison is case-insensitive and tolerates a missing leading dot.
func AllowedExtension(name string, extensions []string) bool {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return false
	}
	for _, candidate := range extensions {
		candidate = strings.ToLower(strings.TrimSpace(candidate))
		if !strings.HasPrefix(candidate, ".") {
			candidate = "." + candidate
		}
		if candidate == ext {
			return true
		}
	}
	return false
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
