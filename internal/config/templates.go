package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Option Payoff Analyzer Configuration

[analysis]
# Number of samples on the payoff curve
chart_points = 1000
# Chart padding as a multiple of the strike ladder width
range_multiplier = 3.0
# Padding for a single-strike book is strike / single_strike_divisor
single_strike_divisor = 1.5
# Currency symbol used for premiums and P&L
currency = "$"

[chart]
# Terminal chart size in characters
width = 72
height = 20

[store]
# SQLite database, relative to this directory unless absolute
path = "payoff.db"
# Book used when --book is not given
default_book = "default"
# Saved analyses kept per book (0 keeps everything)
keep_history = 200

[server]
port = 8080
# Allow any origin for local frontends
dev_mode = false

[logging]
# debug, info, warn, error
level = "info"
# Write logs to stderr
console = false
# Write logs to a rotating file (defaults to logs/payoff.log in this directory)
file = true
# file_path = "/var/log/payoff.log"
max_size = 100
max_backups = 7
max_age = 30
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
