package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassForm        ChromeClass = "ff-form"
	ClassField       ChromeClass = "ff-field"
	ClassLabel       ChromeClass = "ff-label"
	ClassHelp        ChromeClass = "ff-help"
	ClassFieldErrors ChromeClass = "ff-field-errors"
	ClassActions     ChromeClass = "ff-actions"
	ClassErrors      ChromeClass = "ff-errors"
)

// Default*Class values are applied when the matching WithChromeClasses entry
// is empty.
const (
	DefaultFormClass    = string(ClassForm)
	DefaultActionsClass = string(ClassActions)
	DefaultErrorsClass  = string(ClassErrors)
)

// ChromeClasses overrides the classes of the form-level wrappers. Additional
// classes are appended to the defaults, never replacing them.
type ChromeClasses struct {
	Form    string
	Actions string
	Errors  string
}

func (c ChromeClasses) form() string {
	return joinClasses(DefaultFormClass, c.Form)
}

func (c ChromeClasses) actions() string {
	return joinClasses(DefaultActionsClass, c.Actions)
}

func (c ChromeClasses) errors() string {
	return joinClasses(DefaultErrorsClass, c.Errors)
}
