package command

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pixil98/go-coop/internal/ids"
	"github.com/pixil98/go-errors"
)

type Config struct {
	TickInterval string          `json:"tick_interval"`
	StartArea    string          `json:"start_area"`
	Tuning       string          `json:"tuning"`
	Modules      []ModuleConfig  `json:"modules"`
	Fixtures     FixturesConfig  `json:"fixtures"`
	Transport    TransportConfig `json:"transport"`
	Journal      JournalConfig   `json:"journal"`
	Ledger       LedgerConfig    `json:"ledger"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.TickInterval != "" {
		d, err := time.ParseDuration(c.TickInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing tick_interval: %w", err))
		} else if d <= 0 {
			el.Add(fmt.Errorf("tick_interval must be positive"))
		}
	}

	if c.StartArea != "" {
		if _, err := parseLocalId(c.StartArea); err != nil {
			el.Add(fmt.Errorf("parsing start_area: %w", err))
		}
	}

	if len(c.Modules) == 0 {
		el.Add(fmt.Errorf("at least one module is required"))
	}
	for i, m := range c.Modules {
		if err := m.validate(); err != nil {
			el.Add(fmt.Errorf("module %d: %w", i, err))
		}
	}

	el.Add(c.Fixtures.validate())
	el.Add(c.Transport.validate())
	el.Add(c.Journal.validate())
	el.Add(c.Ledger.validate())

	return el.Err()
}

func (c *Config) tickInterval() time.Duration {
	d, err := time.ParseDuration(c.TickInterval)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}

type ModuleConfig struct {
	ModuleId  uint32 `json:"module_id"`
	LoadIndex uint8  `json:"load_index"`
}

func (c *ModuleConfig) validate() error {
	el := errors.NewErrorList()

	if c.ModuleId == 0 {
		el.Add(fmt.Errorf("module_id is required"))
	}
	if c.LoadIndex == 0xFF {
		el.Add(fmt.Errorf("load_index 255 is reserved"))
	}

	return el.Err()
}

// buildRegistry maps every configured module into a fresh registry.
func buildRegistry(modules []ModuleConfig) (*ids.Registry, error) {
	reg := ids.NewRegistry()
	for _, m := range modules {
		if err := reg.AddModule(m.ModuleId, m.LoadIndex); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// parseLocalId accepts decimal or 0x-prefixed hex form ids.
func parseLocalId(s string) (ids.LocalId, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, fmt.Errorf("form id must not be zero")
	}
	return ids.LocalId(v), nil
}
