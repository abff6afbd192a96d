package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-coop/internal/storage"
	"github.com/pixil98/go-coop/internal/world"
)

type FixturesConfig struct {
	Path string `json:"path"`
}

func (c *FixturesConfig) validate() error {
	if c.Path == "" {
		return fmt.Errorf("fixtures: path is required")
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("fixtures: invalid path %q: %w", c.Path, err)
	}

	return nil
}

func (c *FixturesConfig) buildWorld() (*world.World, error) {
	st, err := storage.NewFileStore[*world.AreaSpec](c.Path)
	if err != nil {
		return nil, fmt.Errorf("creating fixture store: %w", err)
	}
	return world.Load(st)
}
