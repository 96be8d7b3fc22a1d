package posts

// TotalPages is ceil(n/pageSize), reported as 1 when there is nothing to
// show so page controls always have a page.
func TotalPages(n, pageSize int) int {
	if pageSize < 1 || n <= pageSize {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// ClampPage limits page to [1, max(1, totalPages)].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate returns the items of page (1-based) after clamping it. A
// pageSize below 1 puts everything on one page.
func Paginate[T any](items []T, pageSize, page int) []T {
	if pageSize < 1 {
		return items
	}
	page = ClampPage(page, TotalPages(len(items), pageSize))
	start := (page - 1) * pageSize
	if start >= len(items) {
		return items[:0]
	}
	end := min(start+pageSize, len(items))
	return items[start:end]
}
