package components

// MutateOption tunes a single structural edit on a ButtonGroup or SelectMenu.
type MutateOption func(*mutateConfig)

type mutateConfig struct {
	row     int
	hasRow  bool
	reindex bool
}

func newMutateConfig(opts []MutateOption) mutateConfig {
	cfg := mutateConfig{reindex: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// InRow makes ButtonGroup.Add append to row y instead of the first row with room.
func InRow(y int) MutateOption {
	return func(c *mutateConfig) {
		c.row = y
		c.hasRow = true
	}
}

// KeepPositions leaves cached coordinates and indexes untouched.
func KeepPositions() MutateOption {
	return func(c *mutateConfig) {
		c.reindex = false
	}
}
