/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ListOptions configures how a PaginatedList fetches pages.
type ListOptions struct {
	Limit           int                // Maximum items returned overall (default: unlimited)
	ProgressHandler func(ListProgress) // Optional callback after every fetched page
}

// ListProgress tracks page loading of a PaginatedList.
type ListProgress struct {
	ItemsLoaded int                             // Total items loaded so far
	PagesLoaded int                             // Total pages fetched so far
	LastKey     map[string]types.AttributeValue // Last evaluated key, nil once exhausted
	StartTime   time.Time                       // When the first page was requested
}

// ListOption is a functional option for configuring a PaginatedList
type ListOption func(*ListOptions)

// DefaultListOptions returns default list options
func DefaultListOptions() ListOptions {
	return ListOptions{}
}

// WithLimit caps the number of items the list yields
func WithLimit(limit int) ListOption {
	return func(opts *ListOptions) {
		opts.Limit = limit
	}
}

// WithProgressHandler sets a progress callback
func WithProgressHandler(handler func(ListProgress)) ListOption {
	return func(opts *ListOptions) {
		opts.ProgressHandler = handler
	}
}
