package presets

import (
	"embed"
)

//go:embed configs/*
var Presets embed.FS

// The name of the preset that is used when no config is given.
const DefaultPreset = "defaults"
