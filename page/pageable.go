/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package page

// Pageable describes which slice of a result set a page holds.
// The zero value is unpaged.
type Pageable struct {
	paged  bool
	number int
	size   int
}

// UnpagedRequest describes a page holding the whole result set.
func UnpagedRequest() Pageable {
	return Pageable{}
}

// Request describes page number (0-based) of the given size. A size below
// one is treated as one and a negative number as zero.
func Request(number, size int) Pageable {
	if size < 1 {
		size = 1
	}
	if number < 0 {
		number = 0
	}
	return Pageable{paged: true, number: number, size: size}
}

func (p Pageable) IsPaged() bool { return p.paged }

// PageNumber is 0 for unpaged requests.
func (p Pageable) PageNumber() int { return p.number }

// PageSize is 0 for unpaged requests.
func (p Pageable) PageSize() int { return p.size }

// Offset is the index of the first element of the page.
func (p Pageable) Offset() int64 { return int64(p.number) * int64(p.size) }

// Next returns the following page request.
func (p Pageable) Next() Pageable {
	if !p.paged {
		return p
	}
	return Pageable{paged: true, number: p.number + 1, size: p.size}
}

// Previous returns the preceding page request, or the first page.
func (p Pageable) Previous() Pageable {
	if !p.paged || p.number == 0 {
		return p
	}
	return Pageable{paged: true, number: p.number - 1, size: p.size}
}
