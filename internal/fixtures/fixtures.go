// Package fixtures carries the embedded seed content used when the store has
// never been synced: a fresh installation still renders a full magazine.
package fixtures

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/regiomag/regiomag/internal/domain"
)

//go:embed fixtures.yaml
var raw []byte

type file struct {
	Categories []string          `yaml:"categories"`
	Articles   []domain.Article  `yaml:"articles"`
	Directory  []domain.Business `yaml:"directory"`
}

// Load parses the embedded seed file. The result is validated so a broken
// fixture fails loudly at startup instead of serving bad content.
func Load() (domain.Snapshot, []string, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return domain.Snapshot{}, nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	snap := domain.Snapshot{Articles: f.Articles, Directory: f.Directory}
	if snap.Articles == nil {
		snap.Articles = []domain.Article{}
	}
	if snap.Directory == nil {
		snap.Directory = []domain.Business{}
	}
	if err := domain.Validate(snap); err != nil {
		return domain.Snapshot{}, nil, fmt.Errorf("invalid fixtures: %w", err)
	}
	return snap, f.Categories, nil
}
