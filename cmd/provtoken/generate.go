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
	"os"

	"github.com/spf13/cobra"

	"github.com/provledger/provtoken/pkg/builder"
	"github.com/provledger/provtoken/pkg/logging"
	"github.com/provledger/provtoken/pkg/provmodel/jsoncodec"
)

// wireEntity, wireUpdate, and wireRequest are the CLI's JSON-facing mirror
// of builder.EntitySpec/UpdateSpec/Request, spelled out with json tags.
// Every entity in a request file is a JSON object with an "id" and optional
// "has_provenance" and "derivations" lists; a bare integer is not accepted
// as an entity.
type wireEntity struct {
	ID            int      `json:"id"`
	HasProvenance []string `json:"has_provenance,omitempty"`
	Derivations   []int    `json:"derivations,omitempty"`
}

type wireUpdate struct {
	Source      int          `json:"source"`
	Into        *int         `json:"into,omitempty"`
	Deletions   []int        `json:"deletions,omitempty"`
	NewEntities []wireEntity `json:"new_entities,omitempty"`
}

type wireRequest struct {
	StartID           int            `json:"start_id,omitempty"`
	Bundles           [][]wireEntity `json:"bundles,omitempty"`
	Updates           []wireUpdate   `json:"updates,omitempty"`
	InvalidateBundles []int          `json:"invalidate_bundles,omitempty"`
}

func (w wireRequest) toRequest() builder.Request {
	req := builder.Request{StartID: w.StartID, InvalidateBundles: w.InvalidateBundles}
	for _, wb := range w.Bundles {
		req.Bundles = append(req.Bundles, toEntitySpecs(wb))
	}
	for _, wu := range w.Updates {
		req.Updates = append(req.Updates, builder.UpdateSpec{
			Source:      wu.Source,
			MergeInto:   wu.Into,
			Deletions:   wu.Deletions,
			NewEntities: toEntitySpecs(wu.NewEntities),
		})
	}
	return req
}

func toEntitySpecs(in []wireEntity) builder.BundleSpec {
	out := make(builder.BundleSpec, len(in))
	for i, e := range in {
		out[i] = builder.EntitySpec{ID: e.ID, HasProvenance: e.HasProvenance, Derivations: e.Derivations}
	}
	return out
}

func newGenerateCommand() *cobra.Command {
	var requestPath, outPath string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "build a provenance document from a generation request file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := rootContext()
			log := logging.FromContext(ctx)

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(requestPath)
			if err != nil {
				return fmt.Errorf("reading request file: %w", err)
			}
			var wire wireRequest
			if err := json.Unmarshal(raw, &wire); err != nil {
				return fmt.Errorf("parsing request file: %w", err)
			}
			req := wire.toRequest()

			doc, diags, err := builder.Generate(cfg, &req)
			if err != nil {
				return fmt.Errorf("generating document: %w", err)
			}
			for _, d := range diags {
				log.Infow(d.Message, "severity", d.Severity.String(), "bundle", d.BundleID)
			}

			out, err := jsoncodec.New().Encode(doc)
			if err != nil {
				return fmt.Errorf("encoding document: %w", err)
			}
			if outPath == "" {
				fmt.Println(string(out))
				return nil
			}
			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				log.Warnw("could not write output path, printing to stdout instead", "path", outPath, "error", err)
				fmt.Println(string(out))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&requestPath, "request", "", "path to a JSON generation request")
	cmd.Flags().StringVar(&outPath, "out", "", "output path (falls back to stdout if unset or unopenable)")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}
