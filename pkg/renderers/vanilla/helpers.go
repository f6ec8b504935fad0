package vanilla

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formfields/pkg/fieldtype"
)

func componentControlID(id string) string {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return ""
	}
	return "ff-" + trimmed
}

func componentOptionID(id string, index int) string {
	controlID := componentControlID(id)
	if controlID == "" {
		return ""
	}
	return controlID + "-" + strconv.Itoa(index)
}

func componentHelpID(id string) string {
	return componentControlID(id) + "-help"
}

func componentErrorsID(id string) string {
	return componentControlID(id) + "-errors"
}

func sanitizeClassList(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	tokens := strings.Fields(value)
	keep := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if strings.HasPrefix(token, "ff-") {
			continue
		}
		keep = append(keep, token)
	}
	return strings.Join(keep, " ")
}

func joinClasses(base, extra string) string {
	extra = sanitizeClassList(extra)
	if extra == "" {
		return base
	}
	return base + " " + extra
}

// componentHandlesLabel reports kinds whose template renders the label itself:
// groups use a legend and the toggle wraps its checkbox.
func componentHandlesLabel(kind fieldtype.Kind) bool {
	switch kind {
	case fieldtype.KindRadio, fieldtype.KindCheckboxGroup, fieldtype.KindToggle:
		return true
	default:
		return false
	}
}
