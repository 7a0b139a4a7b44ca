package models

import (
	"time"
)

// Preset is a named, reusable set of contract terms and scenario parameters.
type Preset struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Terms       ContractTerms `json:"terms"`
	Scenario    ScenarioSpec  `json:"scenario"`
	BuiltIn     bool          `json:"built_in"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
