package config

import "github.com/abdul-hamid-achik/xhrmock/packages/loop"

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Timeout:  0, // no timeout
		MaxTasks: loop.DefaultMaxTasks,
		Verbose:  BoolPtr(false),
		NoColor:  BoolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.Timeout == defaults.Timeout &&
		c.MaxTasks == defaults.MaxTasks &&
		len(c.Fixtures) == 0 &&
		len(c.EnvFiles) == 0 &&
		len(c.Headers) == 0 &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetNoColor() == defaults.GetNoColor()
}
