package config

import (
	"context"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔧 PatchrcParser handles bare ".patchrc" files, which carry no
// format extension. YAML is tried first, then HCL.
type PatchrcParser struct{}

func init() {
	Register(&PatchrcParser{})
}

func (p *PatchrcParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".patchrc")
}

func (p *PatchrcParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	cfg, yamlErr := (&YAMLParser{}).Parse(ctx, data)
	if yamlErr == nil {
		return cfg, nil
	}

	cfg, hclErr := (&HCLParser{}).Parse(ctx, data)
	if hclErr == nil {
		return cfg, nil
	}

	return nil, errors.Errorf("parsing .patchrc as YAML (%s) or HCL: %w", yamlErr, hclErr)
}
