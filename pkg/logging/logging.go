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

// Package logging threads a zap.SugaredLogger through a context.Context,
// generalized from the knative.dev/pkg/logging helper down to a
// standalone version with no Kubernetes injection framework: this module
// has no cluster runtime to inject into, but the context-carried zap
// logger is kept regardless.
package logging

import (
	"context"

	"go.uber.org/zap"
)

type key struct{}

// WithLogger returns a context carrying l.
func WithLogger(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, key{}, l)
}

// FromContext returns the logger carried by ctx, or a no-op logger if none
// was attached.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if l, ok := ctx.Value(key{}).(*zap.SugaredLogger); ok && l != nil {
		return l
	}
	return zap.NewNop().Sugar()
}

// NewDevelopment builds a development-mode sugared logger, mirroring the
// zap.NewDevelopmentConfig().Build() call used by comparable CLI entry
// points.
func NewDevelopment() *zap.SugaredLogger {
	l, err := zap.NewDevelopmentConfig().Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}
