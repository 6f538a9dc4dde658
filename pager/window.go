package pager

import (
	"strconv"

	tabler "github.com/domonda/go-tabler"
)

// WindowSize is the maximum number of adjacent page links.
const WindowSize = 6

// State of a pager.
type State struct {
	CurrentPage  int
	PageSize     int
	TotalResults int
}

// TotalPages returns the number of pages needed for TotalResults.
func (s State) TotalPages() int {
	if s.PageSize <= 0 || s.TotalResults <= 0 {
		return 0
	}
	return (s.TotalResults + s.PageSize - 1) / s.PageSize
}

func (s State) OnLastPage() bool {
	return s.CurrentPage == s.TotalPages()-1
}

// LinkKind is the role of a Link within a pager.
type LinkKind int

const (
	LinkPrev LinkKind = iota
	LinkFirst
	LinkPage
	LinkLast
	LinkNext
)

// Link is a page link of a pager.
type Link struct {
	Kind LinkKind
	// Page is the zero based page index the link goes to.
	Page  int
	Label string

	Current bool
	// First and Last mark links to the first or last page.
	First bool
	Last  bool
	// Skipped marks a leading or trailing link
	// that is not adjacent to the window.
	Skipped bool
}

// ClassName returns the class attribute of the link.
func (l Link) ClassName() string {
	switch l.Kind {
	case LinkPrev:
		return "prev"
	case LinkNext:
		return "next"
	}
	var current, first, last, skipped string
	if l.Current {
		current = "current"
	}
	if l.First {
		first = "first"
	}
	if l.Last {
		last = "last"
	}
	if l.Skipped {
		skipped = "skipped"
	}
	return tabler.JoinClassNames(current, first, last, skipped)
}

// Window returns the links of a pager for s.
//
// At most WindowSize page links around the current page are returned,
// framed by a link to the previous page, a link to the first page,
// a link to the last page and a link to the next page where applicable.
// No links are returned if hideWhenOnePage is true and there
// is less than two pages.
func Window(s State, hideWhenOnePage bool) []Link {
	var (
		cur        = s.CurrentPage
		totalPages = s.TotalPages()
		startAt    = max(cur-2, 0)
		endAt      = min(totalPages, startAt+WindowSize)
		onLastPage = s.OnLastPage()
		links      []Link
	)
	if hideWhenOnePage && totalPages < 2 {
		return nil
	}

	if onLastPage {
		startAt = max(0, endAt-WindowSize)
	}
	if totalPages > 5 && !onLastPage && endAt >= totalPages-1 {
		startAt = max(startAt-1, 0)
		endAt--
	}

	if cur > 0 {
		links = append(links, Link{Kind: LinkPrev, Page: cur - 1, Label: "Previous"})
		if cur > 2 {
			if startAt == 0 {
				startAt++
			}
			links = append(links, Link{Kind: LinkFirst, Page: 0, Label: "1", First: true, Skipped: startAt > 1})
		}
	}

	for i := startAt; i < endAt; i++ {
		links = append(links, Link{
			Kind:    LinkPage,
			Page:    i,
			Label:   strconv.Itoa(i + 1),
			Current: i == cur,
			First:   i == 0,
			Last:    i == totalPages-1,
		})
	}

	if totalPages > 5 && !onLastPage {
		links = append(links, Link{
			Kind:    LinkLast,
			Page:    totalPages - 1,
			Label:   strconv.Itoa(totalPages),
			Last:    true,
			Skipped: endAt < totalPages-1,
		})
	}

	if cur < totalPages-1 {
		links = append(links, Link{Kind: LinkNext, Page: cur + 1, Label: "Next"})
	}
	return links
}
