// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

// PageLink is one entry of a numbered pager. Gap entries stand for
// skipped pages and carry no URL.
type PageLink struct {
	Number  int
	URL     string
	Current bool
	Gap     bool
}

// pagerWidth is how many numbered pages surround the current one.
const pagerWidth = 5

// PageLinks lays out the numbered links of a listing: a window of
// pagerWidth pages centred on current, with the first and last pages
// always present and gaps marked where pages are skipped.
func PageLinks(base, query string, current, total int) []PageLink {
	if total <= 1 {
		return nil
	}
	current = min(max(current, 1), total)

	start := current - pagerWidth/2
	end := current + pagerWidth/2
	if start < 1 {
		start = 1
		end = pagerWidth
	}
	if end > total {
		end = total
		start = max(end-pagerWidth+1, 1)
	}

	link := func(n int) PageLink {
		return PageLink{Number: n, URL: PageURL(base, query, n), Current: n == current}
	}

	var links []PageLink
	if start > 1 {
		links = append(links, link(1))
		if start > 2 {
			links = append(links, PageLink{Gap: true})
		}
	}
	for n := start; n <= end; n++ {
		links = append(links, link(n))
	}
	if end < total {
		if end < total-1 {
			links = append(links, PageLink{Gap: true})
		}
		links = append(links, link(total))
	}
	return links
}
