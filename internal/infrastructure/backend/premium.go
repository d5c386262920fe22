package backend

import (
	"context"
	"os"
	"strings"
)

// ConfigPremium implements ports.PremiumStatus from the config flag, with a
// VOCUS_PREMIUM environment override for quick testing.
type ConfigPremium struct {
	Premium bool
}

func (p ConfigPremium) IsPremium(context.Context) (bool, error) {
	if env := os.Getenv("VOCUS_PREMIUM"); env != "" {
		return strings.EqualFold(env, "1") || strings.EqualFold(env, "true"), nil
	}
	return p.Premium, nil
}
