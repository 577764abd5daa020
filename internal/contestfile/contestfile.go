// Package contestfile reads contest snapshots produced by the scoreboard
// scrapers. Files may be JSON or YAML.
package contestfile

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"scoreboard/internal/domain"
)

// Load reads and validates the contest stored at path
func Load(path string) (*domain.Contest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open contest file: %w", err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Decode parses a contest from r and validates its shape
func Decode(r io.Reader) (*domain.Contest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read contest: %w", err)
	}

	var c domain.Contest
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode contest: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
