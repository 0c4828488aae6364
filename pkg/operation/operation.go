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

// Package operation provides core functionality for applying patch
// rules to files in place.
package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/status"
	"github.com/walteh/patchrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation defines a runnable unit of work
type Operation interface {
	// Name identifies the operation in logs
	Name() string
	// Execute runs the operation
	Execute(ctx context.Context) error
}

// 🔧 Options contains configuration for operations
type Options struct {
	// Config is the patchrc configuration
	Config *config.Config
	// Patcher applies rules to content
	Patcher text.Patcher
	// StatusMgr handles file access and outcome tracking
	StatusMgr *status.Manager
	// Logger for operation-level logging
	Logger *zerolog.Logger
}

// 🏗️ NewBaseOperation validates options and creates a base operation
func NewBaseOperation(opts Options) (BaseOperation, error) {
	if opts.Config == nil {
		return BaseOperation{}, errors.Errorf("config is required")
	}
	if opts.Patcher == nil {
		return BaseOperation{}, errors.Errorf("patcher is required")
	}
	if opts.StatusMgr == nil {
		return BaseOperation{}, errors.Errorf("status manager is required")
	}
	if opts.Logger == nil {
		return BaseOperation{}, errors.Errorf("logger is required")
	}
	return BaseOperation{Options: opts}, nil
}

// 🧱 BaseOperation carries shared dependencies for operations
type BaseOperation struct {
	Options
}
