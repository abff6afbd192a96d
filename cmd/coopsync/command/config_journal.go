package command

import (
	"fmt"

	"github.com/pixil98/go-coop/internal/desync"
	"github.com/pixil98/go-coop/internal/journal"
)

// JournalConfig enables the traffic journal when Dir is set.
type JournalConfig struct {
	Dir    string `json:"dir"`
	Prefix string `json:"prefix"`
}

func (c *JournalConfig) validate() error {
	if c.Dir == "" && c.Prefix != "" {
		return fmt.Errorf("journal: prefix requires dir")
	}
	return nil
}

func (c *JournalConfig) build() *journal.Writer {
	if c.Dir == "" {
		return nil
	}
	prefix := c.Prefix
	if prefix == "" {
		prefix = "traffic"
	}
	return journal.NewWriter(c.Dir, prefix)
}

// LedgerConfig enables the desync ledger when Path is set.
type LedgerConfig struct {
	Path string `json:"path"`
}

func (c *LedgerConfig) validate() error {
	return nil
}

func (c *LedgerConfig) build() (*desync.Ledger, error) {
	if c.Path == "" {
		return nil, nil
	}
	return desync.OpenLedger(c.Path)
}
