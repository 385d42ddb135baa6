// Package configs provides the embedded configuration template for
// genequery. The template is embedded at build time so 'genequery config
// init' works in every distribution without network access.
package configs

import _ "embed"

// ExampleConfig is the annotated configuration template written by
// 'genequery config init'. Values mirror the built-in defaults.
//
//go:embed example.yaml
var ExampleConfig string
