package bingoreloaded

import (
	_ "embed"
)

// Embed the task catalog with every playable card
//
//go:embed static/cards.yaml
var CardsYAML []byte
