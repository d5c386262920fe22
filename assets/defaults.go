package assets

import (
	_ "embed"
)

// DefaultRulesYAML contains the embedded default classifier keyword rules.
//
//go:embed defaults/rules.yaml
var DefaultRulesYAML []byte
