package axtree

// Config holds the capture engine configuration.
type Config struct {
	// NameLimit caps the rune length of any produced name. Longer names
	// keep their prefix and end with a truncation marker.
	NameLimit int `json:"name_limit" yaml:"name_limit"`

	// PageTextLimit is the default maxLength for page-text reads when
	// the caller passes none.
	PageTextLimit int `json:"page_text_limit" yaml:"page_text_limit"`
}

func (c *Config) defaults() {
	if c.NameLimit <= 0 {
		c.NameLimit = 80
	}
	if c.PageTextLimit <= 0 {
		c.PageTextLimit = 8000
	}
}
