// Copyright 2026 The Provledger Authors.
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

// Command provtoken is the thin CLI front end over pkg/builder and
// pkg/search, fronting the importable verification packages with small
// cmd/* binaries.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/provledger/provtoken/pkg/config"
	"github.com/provledger/provtoken/pkg/logging"
)

var (
	configPath string
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:           "provtoken",
		Short:         "generate and search tamper-evident provenance documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML file overlaying PROVTOKEN_* environment configuration")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable development-mode logging")
	root.AddCommand(newGenerateCommand(), newSearchCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func rootContext() context.Context {
	ctx := context.Background()
	if verbose {
		return logging.WithLogger(ctx, logging.NewDevelopment())
	}
	return logging.WithLogger(ctx, zap.NewNop().Sugar())
}
