// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package tileset

import (
	"log/slog"
)

// Option represents a configuration option for building catalogs and lookups
type Option func(*options)

type options struct {
	logger       *slog.Logger // Logger for degraded animations and fallbacks
	strictChains bool         // Fail the build on chained animations
	placeholder  Image        // Image returned in place of missing tiles
}

// newOptions applies the options on top of the defaults
func newOptions(opts []Option) *options {
	o := &options{
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used to report degraded animations and missing tiles
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStrictChains makes chained animations fail the build instead of
// disabling the offending animation.
func WithStrictChains() Option {
	return func(o *options) {
		o.strictChains = true
	}
}

// WithPlaceholder sets the image a lookup returns in place of missing tiles
func WithPlaceholder(img Image) Option {
	return func(o *options) {
		o.placeholder = img
	}
}
