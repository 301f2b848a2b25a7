// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import "testing"

func TestPaginate(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		pageNum int
		want    PageSlice
	}{
		{"first of many", 10, 1, PageSlice{Start: 0, End: 4, LastPage: false}},
		{"middle page", 10, 2, PageSlice{Start: 4, End: 8, LastPage: false}},
		{"remainder page", 10, 3, PageSlice{Start: 8, End: 10, LastPage: true}},
		{"beyond the end", 10, 4, PageSlice{Start: 0, End: 0, LastPage: true}},
		{"exact multiple, full page", 4, 1, PageSlice{Start: 0, End: 4, LastPage: false}},
		{"exact multiple, trailing empty page", 4, 2, PageSlice{Start: 0, End: 0, LastPage: true}},
		{"single short page", 3, 1, PageSlice{Start: 0, End: 3, LastPage: true}},
		{"no posts", 0, 1, PageSlice{Start: 0, End: 0, LastPage: true}},
		{"zero page number", 10, 0, PageSlice{LastPage: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paginate(tt.total, tt.pageNum, postsPerPage)
			if got != tt.want {
				t.Errorf("paginate(%d, %d, %d) = %+v; want %+v",
					tt.total, tt.pageNum, postsPerPage, got, tt.want)
			}
		})
	}
}
