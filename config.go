package bookshelf

import "github.com/sirupsen/logrus"

// DefaultHeaderColor is the beige used for header cells
var DefaultHeaderColor = Color{R: 204, G: 184, B: 167}

// Config represents configuration for the Store
type Config struct {
	HeaderColor *Color             // Background of header cells (default: DefaultHeaderColor)
	Logger      logrus.FieldLogger // Destination for store logs (default: logrus standard logger)
}

// withDefaults returns a copy of c with zero values replaced
func (c *Config) withDefaults() Config {
	var cfg Config
	if c != nil {
		cfg = *c
	}
	if cfg.HeaderColor == nil {
		color := DefaultHeaderColor
		cfg.HeaderColor = &color
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return cfg
}
