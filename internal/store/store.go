// Package store provides persistence for the preset library.
package store

import (
	"context"

	"stf-simulator/internal/casestudy"
	"stf-simulator/internal/models"
)

// PresetStore defines the interface for preset persistence.
type PresetStore interface {
	// SavePreset inserts or updates the preset with the same name.
	SavePreset(ctx context.Context, preset *models.Preset) error
	GetPreset(ctx context.Context, name string) (*models.Preset, error)
	ListPresets(ctx context.Context, filter PresetFilter) ([]models.Preset, error)
	DeletePreset(ctx context.Context, name string) error
	// SeedDefaults installs the built-in presets that are missing.
	SeedDefaults(ctx context.Context) (int, error)

	// Lifecycle
	Close() error
}

// PresetFilter represents filters for listing presets.
type PresetFilter struct {
	Kind     models.ScenarioKind
	BuiltIn  *bool
	NameLike string
	Limit    int
}

// BuiltInPresets returns the presets shipped with the simulator.
func BuiltInPresets() []models.Preset {
	aracruz := casestudy.DefaultTerms()

	return []models.Preset{
		{
			Name:        "aracruz-2008",
			Description: "Dashboard default contract through the 2008 crisis pattern",
			Terms:       aracruz,
			Scenario: models.ScenarioSpec{
				Kind:          models.ScenarioCrisis2008,
				StartRate:     1.77,
				EndRate:       2.34,
				HorizonMonths: 12,
			},
			BuiltIn: true,
		},
		{
			Name:        "pre-2008-drift",
			Description: "Slow appreciation of the real from 2.2 to 1.6",
			Terms:       aracruz,
			Scenario: models.ScenarioSpec{
				Kind:          models.ScenarioTypicalPre2008,
				StartRate:     2.2,
				EndRate:       1.6,
				HorizonMonths: 12,
			},
			BuiltIn: true,
		},
		{
			Name:        "sudden-shock",
			Description: "A 25% jump in BRL/USD halfway through the contract",
			Terms:       aracruz,
			Scenario: models.ScenarioSpec{
				Kind:           models.ScenarioSuddenShock,
				StartRate:      1.60,
				ShockMagnitude: 0.25,
				ShockMonth:     6,
				HorizonMonths:  12,
			},
			BuiltIn: true,
		},
		{
			Name:        "gradual-depreciation",
			Description: "Linear depreciation from 1.60 to 2.00 over a year",
			Terms:       aracruz,
			Scenario: models.ScenarioSpec{
				Kind:          models.ScenarioGradualChange,
				StartRate:     1.60,
				EndRate:       2.00,
				HorizonMonths: 12,
			},
			BuiltIn: true,
		},
	}
}
