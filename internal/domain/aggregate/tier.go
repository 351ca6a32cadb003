package aggregate

import "github.com/okian/visitas/internal/domain/model"

// Tier shades v relative to the maximum of its result set: 0 for
// v >= 0.75*max, 1 for >= 0.5*max, 2 for >= 0.25*max, 3 otherwise.
func Tier(v, maxValue int) int {
	if maxValue <= 0 {
		return len(model.TierColors) - 1
	}
	ratio := float64(v) / float64(maxValue)
	switch {
	case ratio >= 0.75:
		return 0
	case ratio >= 0.5:
		return 1
	case ratio >= 0.25:
		return 2
	default:
		return 3
	}
}

// TierColor maps a tier to its shade.
func TierColor(tier int) string {
	if tier < 0 || tier >= len(model.TierColors) {
		return model.TierColors[len(model.TierColors)-1]
	}
	return model.TierColors[tier]
}
