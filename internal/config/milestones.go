package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"example.com/trainingstats/internal/analytics"
	"example.com/trainingstats/internal/domain"
)

type milestoneFile struct {
	Milestones []domain.Milestone `toml:"milestone"`
}

// LoadMilestones decodes a TOML table of [[milestone]] entries and validates
// that thresholds are strictly ascending.
func LoadMilestones(path string) ([]domain.Milestone, error) {
	var file milestoneFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("decode milestones %s: %w", path, err)
	}
	if err := analytics.ValidateMilestones(file.Milestones); err != nil {
		return nil, fmt.Errorf("milestones %s: %w", path, err)
	}
	return file.Milestones, nil
}

// ParseMilestones is LoadMilestones for in-memory documents.
func ParseMilestones(doc string) ([]domain.Milestone, error) {
	var file milestoneFile
	if _, err := toml.Decode(doc, &file); err != nil {
		return nil, fmt.Errorf("decode milestones: %w", err)
	}
	if err := analytics.ValidateMilestones(file.Milestones); err != nil {
		return nil, err
	}
	return file.Milestones, nil
}
