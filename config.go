package cfront

// StdVersion selects which dialect of C the parser accepts.
type StdVersion int

const (
	// StdC89 is the default dialect: no `inline`, no `restrict`.
	StdC89 StdVersion = iota
	// StdC99 additionally recognizes the `inline` keyword and the
	// `restrict` type qualifier.
	StdC99
)

// Config holds the front end's recognized configuration keys (spec
// §6): `std`, `trigraphs` and `include_path`. Trigraphs and the
// include path are consumed by the preprocessor, not by this package;
// they are carried here so a driver can parse one configuration blob
// and hand pieces of it to each stage.
type Config struct {
	Std         StdVersion
	Trigraphs   bool
	IncludePath []string
}

// NewConfig creates a new configuration object primed with the c89
// defaults.
func NewConfig() *Config {
	return &Config{
		Std:         StdC89,
		Trigraphs:   false,
		IncludePath: nil,
	}
}

// Restrict reports whether the `restrict` qualifier is recognized
// under the configured dialect.
func (c *Config) Restrict() bool { return c.Std == StdC99 }

// Inline reports whether the `inline` keyword is recognized under the
// configured dialect.
func (c *Config) Inline() bool { return c.Std == StdC99 }
