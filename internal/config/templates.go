package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Sell Target Forward Simulator Configuration

[limits]
# Notional range in USD
notional_min = 0.0
notional_max = 5000000000.0
# Exchange rate range (BRL per USD) accepted for contract and scenario rates
rate_min = 1.0
rate_max = 3.0
# Maximum contract duration in months
duration_max = 12
# Maximum scenario horizon in months
horizon_max = 60
# Maximum relative noise amplitude for scenario paths
noise_max = 0.2
# Sudden shock magnitude range (fraction of the start rate)
shock_min = -0.5
shock_max = 1.0
# Maximum risk aversion coefficient
risk_aversion_max = 100.0
# Maximum actual hedge amount in USD
hedge_amount_max = 50000000000.0
# Points in the profit margin sensitivity curve
sensitivity_points = 100

[hedge]
# Deviation band around the optimal ratio considered appropriate
tolerance = 0.1
# Deviation above which a position is speculative
speculation_threshold = 0.5
# Optimal hedge ratio clip bounds
min_ratio = 0.0
max_ratio = 1.0
# Actual/optimal hedge amount thresholds
under_hedged = 0.8
appropriate = 1.2
over_hedged = 2.0

[profile]
# Rate grid for the loss profile: max(rate_floor, low_factor * strike)
# to high_factor * strike
points = 100
low_factor = 0.7
high_factor = 1.3
rate_floor = 1.0

[server]
addr = ":8080"
# Gin mode: debug, release, test
mode = "release"

[storage]
# Preset library database (defaults to presets.db in the config directory)
path = ""

[logging]
# Log level: debug, info, warn, error
level = "info"
file = true
file_path = ""
max_size_mb = 50
max_backups = 5
max_age_days = 30

[ui]
# Enable colored output
color_enabled = true
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
