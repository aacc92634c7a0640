package pricing

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	TableSixTier   = "six-tier"
	TableThreeTier = "three-tier"
)

var ErrInvalidTable = errors.New("invalid discount table")

// Tier grants Percent to every roll of at least MinRoll.
type Tier struct {
	MinRoll int `yaml:"min_roll" json:"minRoll"`
	Percent int `yaml:"percent" json:"percent"`
}

// Table maps a persuasion roll to a discount. Rolls below the first tier get
// nothing.
type Table struct {
	Name  string `yaml:"name" json:"name"`
	Tiers []Tier `yaml:"tiers" json:"tiers"`
}

func SixTierTable() Table {
	return Table{
		Name: TableSixTier,
		Tiers: []Tier{
			{MinRoll: 15, Percent: 5},
			{MinRoll: 18, Percent: 10},
			{MinRoll: 21, Percent: 15},
			{MinRoll: 24, Percent: 20},
			{MinRoll: 27, Percent: 25},
			{MinRoll: 30, Percent: 30},
		},
	}
}

func ThreeTierTable() Table {
	return Table{
		Name: TableThreeTier,
		Tiers: []Tier{
			{MinRoll: 15, Percent: 10},
			{MinRoll: 21, Percent: 20},
			{MinRoll: 27, Percent: 30},
		},
	}
}

func TableByName(name string) (Table, error) {
	switch name {
	case TableSixTier:
		return SixTierTable(), nil
	case TableThreeTier:
		return ThreeTierTable(), nil
	default:
		return Table{}, fmt.Errorf("%w: unknown table %q", ErrInvalidTable, name)
	}
}

// LoadTable reads a custom table from a YAML file:
//
//	name: generous
//	tiers:
//	  - {min_roll: 10, percent: 10}
//	  - {min_roll: 20, percent: 40}
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("os.ReadFile: %w", err)
	}

	return ParseTable(data)
}

func ParseTable(data []byte) (Table, error) {
	var table Table

	if err := yaml.Unmarshal(data, &table); err != nil {
		return Table{}, fmt.Errorf("yaml.Unmarshal: %w", err)
	}

	if err := table.Validate(); err != nil {
		return Table{}, err
	}

	return table, nil
}

func (t Table) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTable)
	}

	if len(t.Tiers) == 0 {
		return fmt.Errorf("%w: %s has no tiers", ErrInvalidTable, t.Name)
	}

	for i, tier := range t.Tiers {
		if tier.Percent < 0 || tier.Percent > 100 {
			return fmt.Errorf("%w: %s tier %d percent %d out of [0,100]", ErrInvalidTable, t.Name, i, tier.Percent)
		}

		if i == 0 {
			continue
		}

		prev := t.Tiers[i-1]
		if tier.MinRoll <= prev.MinRoll {
			return fmt.Errorf("%w: %s tier %d min_roll must increase", ErrInvalidTable, t.Name, i)
		}

		if tier.Percent < prev.Percent {
			return fmt.Errorf("%w: %s tier %d percent must not decrease", ErrInvalidTable, t.Name, i)
		}
	}

	return nil
}

// Discount is a step function of the roll, non-decreasing by construction.
func (t Table) Discount(roll int) int {
	percent := 0

	for _, tier := range t.Tiers {
		if roll < tier.MinRoll {
			break
		}

		percent = tier.Percent
	}

	return percent
}
