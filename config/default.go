package config

import _ "embed"

// DefaultConfigYAML is the built-in configuration, always loaded first and
// overridable by an external file or environment variables.
//
//go:embed default.yaml
var DefaultConfigYAML []byte
