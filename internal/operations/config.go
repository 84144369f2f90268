package operations

import (
	"time"

	"jefabcli/internal/config"
)

// Config decides, per step, whether it runs and how long it may take
type Config struct {
	// DefaultTimeout applies to steps without an entry in StepTimeouts
	DefaultTimeout time.Duration            `json:"default_timeout"`
	StepTimeouts   map[string]time.Duration `json:"step_timeouts"`
	Disabled       map[string]bool          `json:"disabled,omitempty"`
}

// NewConfig returns the built-in timeouts with every step enabled
func NewConfig() *Config {
	return &Config{
		DefaultTimeout: DefaultStepTimeout,
		StepTimeouts: map[string]time.Duration{
			StepIDImpute: DefaultImputeTimeout,
		},
		Disabled: make(map[string]bool),
	}
}

// ConfigFromSettings builds the run configuration from the pipeline section
// of the application config. Zero durations keep the built-in timeouts.
func ConfigFromSettings(p config.PipelineConfig) *Config {
	c := NewConfig()
	if p.StepTimeout > 0 {
		c.DefaultTimeout = p.StepTimeout
	}
	if p.ImputeTimeout > 0 {
		c.StepTimeouts[StepIDImpute] = p.ImputeTimeout
	}
	for _, id := range p.Disabled {
		c.Disable(id)
	}
	return c
}

// GetStepTimeout returns the timeout of a step
func (c *Config) GetStepTimeout(stepID string) time.Duration {
	if timeout, ok := c.StepTimeouts[stepID]; ok && timeout > 0 {
		return timeout
	}
	if c.DefaultTimeout > 0 {
		return c.DefaultTimeout
	}
	return DefaultStepTimeout
}

// SetStepTimeout overrides the timeout of one step
func (c *Config) SetStepTimeout(stepID string, timeout time.Duration) {
	if c.StepTimeouts == nil {
		c.StepTimeouts = make(map[string]time.Duration)
	}
	c.StepTimeouts[stepID] = timeout
}

// Disable marks a step to be skipped
func (c *Config) Disable(stepID string) {
	if c.Disabled == nil {
		c.Disabled = make(map[string]bool)
	}
	c.Disabled[stepID] = true
}

// IsDisabled reports whether a step is skipped
func (c *Config) IsDisabled(stepID string) bool {
	return c.Disabled[stepID]
}
