// Package config loads and validates patchrc configuration files.
// Formats are dispatched on file extension: YAML (.yaml/.yml),
// HCL (.hcl) and JSON (.json). Bare .patchrc files are tried as YAML
// first, then HCL. Parsers self-register via init, so importing this
// package is enough to support all formats.
package config
