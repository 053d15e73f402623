/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"go.uber.org/zap"

	"github.com/suparena/dynamorepo/config"
	"github.com/suparena/dynamorepo/events"
	"github.com/suparena/dynamorepo/query"
	"github.com/suparena/dynamorepo/registry"
)

type settings struct {
	scanEnabled      bool
	scanCountEnabled bool
	listeners        []events.Listener
	registry         *registry.Registry
	logger           *zap.Logger
}

// Option configures a Repository.
type Option func(*settings)

// WithScanEnabled permits FindAll, FindAllPage and DeleteAll to scan the table.
func WithScanEnabled() Option {
	return func(s *settings) { s.scanEnabled = true }
}

// WithScanCountEnabled permits Count and the totals of FindAllPage and
// FindAllPaged to scan the table.
func WithScanCountEnabled() Option {
	return func(s *settings) { s.scanCountEnabled = true }
}

// WithListeners registers lifecycle listeners in delivery order.
func WithListeners(listeners ...events.Listener) Option {
	return func(s *settings) { s.listeners = append(s.listeners, listeners...) }
}

// WithRegistry describes the entity type with r instead of registry.Default.
func WithRegistry(r *registry.Registry) Option {
	return func(s *settings) { s.registry = r }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// ConfigOptions maps the scan switches of cfg to options.
func ConfigOptions(cfg config.QueryConfig) []Option {
	var opts []Option
	if cfg.ScanEnabled {
		opts = append(opts, WithScanEnabled())
	}
	if cfg.ScanCountEnabled {
		opts = append(opts, WithScanCountEnabled())
	}
	return opts
}

// CallOption adjusts the scan permissions of a single call.
type CallOption func(query.ScanPermissions)

// EnableScan permits this call to scan the table.
func EnableScan() CallOption {
	return func(p query.ScanPermissions) { p.SetScanEnabled(true) }
}

// EnableScanCount permits this call to count by scanning the table.
func EnableScanCount() CallOption {
	return func(p query.ScanPermissions) { p.SetScanCountEnabled(true) }
}
