// Package assets holds static data shipped inside the binary.
package assets

import _ "embed"

//go:embed heroes.yaml
var heroesYAML []byte
