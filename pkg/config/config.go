// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔄 Rule represents one patch to apply to a target file
type Rule struct {
	// Name identifies the rule in logs and error messages
	Name string `json:"name,omitempty" yaml:"name,omitempty" hcl:"name,label"`

	// File is the target path, relative to Root. Doublestar globs are
	// allowed and may match multiple files.
	File string `json:"file" yaml:"file" hcl:"file"`

	// Function is the name of the function definition to replace
	Function string `json:"function,omitempty" yaml:"function,omitempty" hcl:"function,optional"`

	// Pattern is a raw regular expression to replace instead of a function
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty" hcl:"pattern,optional"`

	// Replacement is the literal text to substitute
	Replacement string `json:"replacement,omitempty" yaml:"replacement,omitempty" hcl:"replacement,optional"`

	// ReplacementFile reads the replacement text from a file instead
	ReplacementFile string `json:"replacement_file,omitempty" yaml:"replacement_file,omitempty" hcl:"replacement_file,optional"`

	// MustMatch makes a zero-match rule an error instead of a warning
	MustMatch bool `json:"must_match,omitempty" yaml:"must_match,omitempty" hcl:"must_match,optional"`
}

// 📚 Config represents the complete configuration
type Config struct {
	// Root is the base directory rule targets are resolved against
	Root string `json:"root,omitempty" yaml:"root,omitempty" hcl:"root,optional"`

	// Rules are applied in order
	Rules []Rule `json:"rules" yaml:"rules" hcl:"rule,block"`

	// Async applies rules concurrently
	Async bool `json:"async,omitempty" yaml:"async,omitempty" hcl:"async,optional"`
}

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if len(cfg.Rules) == 0 {
		return errors.Errorf("at least one rule is required")
	}

	for i := range cfg.Rules {
		rule := &cfg.Rules[i]
		if rule.Name == "" {
			rule.Name = fmt.Sprintf("rule[%d]", i)
		}
		if rule.File == "" {
			return errors.Errorf("%s: file is required", rule.Name)
		}
		if rule.Function == "" && rule.Pattern == "" {
			return errors.Errorf("%s: one of function or pattern is required", rule.Name)
		}
		if rule.Function != "" && rule.Pattern != "" {
			return errors.Errorf("%s: function and pattern are mutually exclusive", rule.Name)
		}
		if rule.Pattern != "" {
			if _, err := regexp.Compile(rule.Pattern); err != nil {
				return errors.Errorf("%s: compiling pattern: %w", rule.Name, err)
			}
		}
		if rule.Replacement == "" && rule.ReplacementFile == "" {
			return errors.Errorf("%s: one of replacement or replacement_file is required", rule.Name)
		}
		if rule.Replacement != "" && rule.ReplacementFile != "" {
			return errors.Errorf("%s: replacement and replacement_file are mutually exclusive", rule.Name)
		}
	}

	// Set defaults
	if cfg.Root == "" {
		cfg.Root = "."
	}
	cfg.Root = filepath.Clean(cfg.Root)

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%d rule(s) against %s", len(cfg.Rules), cfg.Root)
}
