/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import "github.com/suparena/dynamorepo/errors"

// Messages of the IllegalStateError returned when a scan was not permitted.
// Each names the per-method option and the repository-wide option that lift it.
const (
	ScanCountDisabledMessage = "Scanning for counts for this query is not enabled. " +
		"To enable it, pass repository.EnableScanCount() to the repository method, " +
		"or enable scan counts for all repository methods with repository.WithScanCountEnabled()"

	ScanCountPageDisabledMessage = "Scanning for the total counts for this query is not enabled. " +
		"To enable it, pass repository.EnableScanCount() to the repository method, " +
		"or enable scan counts for all repository methods with repository.WithScanCountEnabled()"

	ScanDisabledMessage = "Scanning for unpaginated queries is not enabled. " +
		"To enable it, pass repository.EnableScan() to the repository method, " +
		"or enable scanning for all repository methods with repository.WithScanEnabled()"
)

// Flags carries the scan permissions of a multi-item query. Both default to false.
type Flags struct {
	scanEnabled      bool
	scanCountEnabled bool
	pageCount        bool
}

func (f *Flags) SetScanEnabled(enabled bool) { f.scanEnabled = enabled }

func (f *Flags) SetScanCountEnabled(enabled bool) { f.scanCountEnabled = enabled }

func (f *Flags) ScanEnabled() bool { return f.scanEnabled }

func (f *Flags) ScanCountEnabled() bool { return f.scanCountEnabled }

// AssertScanEnabled fails unless the query's scan flag or requested is set.
func (f *Flags) AssertScanEnabled(requested bool) error {
	if f.scanEnabled || requested {
		return nil
	}
	return errors.NewIllegalStateError(ScanDisabledMessage)
}

// AssertScanCountEnabled fails unless the query's scan-count flag or
// requested is set. A count that totals a page reports
// ScanCountPageDisabledMessage.
func (f *Flags) AssertScanCountEnabled(requested bool) error {
	if f.scanCountEnabled || requested {
		return nil
	}
	if f.pageCount {
		return errors.NewIllegalStateError(ScanCountPageDisabledMessage)
	}
	return errors.NewIllegalStateError(ScanCountDisabledMessage)
}
