package domain

// PageLink is one control in the pagination bar: a page number or a gap.
type PageLink struct {
	Number   int
	Ellipsis bool
}

const pageWindow = 2

// VisiblePages lists the pagination controls for the current page.
// The first and last pages are always shown, plus current±2, with a gap
// marker wherever pages are skipped. Nothing is shown for a single page.
func VisiblePages(current, total int) []PageLink {
	if total <= 1 {
		return nil
	}

	links := []PageLink{{Number: 1}}
	if current-pageWindow > 2 {
		links = append(links, PageLink{Ellipsis: true})
	}
	for i := max(2, current-pageWindow); i <= min(total-1, current+pageWindow); i++ {
		links = append(links, PageLink{Number: i})
	}
	if current+pageWindow < total-1 {
		links = append(links, PageLink{Ellipsis: true})
	}
	return append(links, PageLink{Number: total})
}

// HasPrev reports whether a previous page control is enabled.
func (p Pagination) HasPrev() bool {
	return p.CurrentPage > 1
}

// HasNext reports whether a next page control is enabled.
func (p Pagination) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}
