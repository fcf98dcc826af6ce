package model

// FormField is a single input inside a scraped form.
// Type defaults to "text" when the page omits the attribute.
type FormField struct {
	Type        string `json:"type"`
	Name        string `json:"name,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Form is an ordered sequence of fields extracted from one <form> element.
type Form struct {
	Action string      `json:"action,omitempty"`
	Method string      `json:"method,omitempty"`
	Fields []FormField `json:"fields"`
}

// HasFieldType reports whether any field in the form carries the given type.
func (f *Form) HasFieldType(fieldType string) bool {
	for _, field := range f.Fields {
		if field.Type == fieldType {
			return true
		}
	}
	return false
}

// SiteContent is an immutable snapshot of a fetched page. It is created once
// by the scraper and never mutated afterwards; every analysis works on a
// fresh instance, so no synchronization is needed across analyses.
type SiteContent struct {
	URL             string   `json:"url"`
	Title           string   `json:"title,omitempty"`
	HTMLContent     string   `json:"html_content"`
	TextContent     string   `json:"text_content"`
	MetaDescription string   `json:"meta_description,omitempty"`
	MetaKeywords    []string `json:"meta_keywords,omitempty"`
	Links           []string `json:"links,omitempty"`
	Forms           []Form   `json:"forms,omitempty"`

	// ScreenshotPath is kept for wire compatibility with older clients.
	// The scraper does not populate it.
	ScreenshotPath string `json:"screenshot_path,omitempty"`

	// ResponseTime is the fetch wall-clock duration in seconds.
	ResponseTime float64 `json:"response_time,omitempty"`
	StatusCode   int     `json:"status_code,omitempty"`
}
