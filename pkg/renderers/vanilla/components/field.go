package components

// Field is the view model handed to a component renderer. Strings are raw;
// templates escape them, except HelpHTML which is already sanitized.
type Field struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	InputName   string   `json:"input_name"`
	Label       string   `json:"label"`
	Kind        string   `json:"kind"`
	InputType   string   `json:"input_type,omitempty"`
	InputMode   string   `json:"input_mode,omitempty"`
	ControlID   string   `json:"control_id"`
	Required    bool     `json:"required"`
	HelpHTML    string   `json:"help_html,omitempty"`
	Value       string   `json:"value"`
	Checked     bool     `json:"checked"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []Option `json:"options,omitempty"`
	Accept      string   `json:"accept,omitempty"`
	FileHint    string   `json:"file_hint,omitempty"`
	FileName    string   `json:"file_name,omitempty"`
	FileURL     string   `json:"file_url,omitempty"`
	FileCurrent string   `json:"file_current,omitempty"`
	Errors      []string `json:"errors,omitempty"`
	Invalid     bool     `json:"invalid"`
	DescribedBy string   `json:"described_by,omitempty"`
}

// Option is one choice of a select, radio group or checkbox group.
type Option struct {
	Value     string `json:"value"`
	Label     string `json:"label"`
	Selected  bool   `json:"selected"`
	ControlID string `json:"control_id"`
}
