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

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/commands"
	"github.com/walteh/patchrc/pkg/userlog"
)

func main() {
	// Setup logging
	ctx := setupLogging(context.Background())

	// Create user logger
	userLogger := userlog.NewUserLogger(ctx)

	// Create root command
	rootCmd := &cobra.Command{
		Use:   "patchrc",
		Short: "A tool for patching function definitions in source files",
		Long: `patchrc rewrites source files in place: it locates a function
definition (or a raw regex match) in a target file and replaces the
first occurrence with a configured replacement.`,
	}

	// Add shared flags
	addRootFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(
		commands.NewApplyCmd(newRootOpts),
		commands.NewStatusCmd(newRootOpts),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		userLogger.LogValidation(false, "Command failed", err)
		os.Exit(1)
	}
}
