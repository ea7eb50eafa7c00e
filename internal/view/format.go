package view

import (
	"strconv"

	"golang.org/x/text/message"
)

// Stats are the figures shown on the stat cards
type Stats struct {
	AnimalsSaved   int64 `mapstructure:"animals_saved" validate:"gte=0"`
	TreesPlanted   int64 `mapstructure:"trees_planted" validate:"gte=0"`
	PlasticRemoved int64 `mapstructure:"plastic_removed" validate:"gte=0"` // tonnes
}

// DefaultStats returns the sample figures
func DefaultStats() Stats {
	return Stats{
		AnimalsSaved:   12500,
		TreesPlanted:   8500000,
		PlasticRemoved: 91000,
	}
}

// formatCount groups digits for the locale and appends a plus sign
func formatCount(p *message.Printer, n int64) string {
	return p.Sprintf("%d", n) + "+"
}

// formatMillions scales n to millions with one decimal
func formatMillions(p *message.Printer, n int64) string {
	return p.Sprintf("%.1f", float64(n)/1_000_000) + "M"
}

// formatWeight prints n ungrouped followed by unit
func formatWeight(n int64, unit string) string {
	return strconv.FormatInt(n, 10) + unit
}
