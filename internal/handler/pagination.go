// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// postsPerPage is the number of posts shown on one listing page.
const postsPerPage = 4

// PageSlice describes one page of a listing as a half-open [Start, End)
// range into the full item list.
type PageSlice struct {
	Start    int
	End      int
	LastPage bool
}

// paginate computes the slice of items shown on 1-based page pageNum.
// It is a pure function of its arguments. Pages beyond the data yield an
// empty range with LastPage set; a page that ends exactly at the total is
// not marked last, so a total divisible by perPage gets one trailing empty
// page before LastPage flips.
func paginate(total, pageNum, perPage int) PageSlice {
	if pageNum < 1 || perPage < 1 || total < 0 {
		return PageSlice{LastPage: true}
	}

	start := (pageNum - 1) * perPage
	end := pageNum * perPage
	last := end > total

	if start >= total {
		return PageSlice{Start: 0, End: 0, LastPage: true}
	}
	if end > total {
		end = total
	}

	return PageSlice{Start: start, End: end, LastPage: last}
}
