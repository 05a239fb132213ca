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

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/provledger/provtoken/pkg/docview"
	"github.com/provledger/provtoken/pkg/logging"
	"github.com/provledger/provtoken/pkg/provmodel/jsoncodec"
	"github.com/provledger/provtoken/pkg/search"
	"github.com/provledger/provtoken/pkg/token"
)

func newSearchCommand() *cobra.Command {
	var entryPath, entityLocal string
	var strict bool
	cmd := &cobra.Command{
		Use:   "search",
		Short: "search a provenance document for trustworthy occurrences of an entity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := rootContext()
			log := logging.FromContext(ctx)

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := docview.NewStore(jsoncodec.New(), token.NewValidator(cfg))
			if err != nil {
				return fmt.Errorf("building document store: %w", err)
			}
			engine := search.NewEngine(store, strict)

			result, diags, err := engine.Run(entryPath, entityLocal)
			if err != nil {
				return fmt.Errorf("searching %s: %w", entryPath, err)
			}
			for _, d := range diags {
				log.Infow(d.Message, "severity", d.Severity.String(), "doc", d.DocPath, "bundle", d.BundleID)
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding result: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&entryPath, "entry", "", "path to the entry document")
	cmd.Flags().StringVar(&entityLocal, "entity", "", "local part of the target entity")
	cmd.Flags().BoolVar(&strict, "strict", false, "prune branches behind an invalid bundle instead of reporting them as invalid")
	_ = cmd.MarkFlagRequired("entry")
	_ = cmd.MarkFlagRequired("entity")
	return cmd
}
