package bridge

// Config holds the bridge transport configuration.
type Config struct {
	// HTTPAddr is the listen address for the HTTP front.
	HTTPAddr string `json:"http_addr" yaml:"http_addr"`

	// MaxMessageBytes caps a single native messaging frame.
	MaxMessageBytes int `json:"max_message_bytes" yaml:"max_message_bytes"`
}

func (c *Config) defaults() {
	if c.HTTPAddr == "" {
		c.HTTPAddr = "127.0.0.1:9822"
	}
	if c.MaxMessageBytes <= 0 {
		c.MaxMessageBytes = 1 << 20
	}
}
