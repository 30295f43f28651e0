package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// MaxVisiblePages is the width of the numbered page window.
const MaxVisiblePages = 5

// PaginationLink is one navigation control from a paginated response.
// A nil URL marks a control that cannot be followed.
type PaginationLink struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

// Page is the server's pagination envelope around a list of T.
type Page[T any] struct {
	CurrentPage  int              `json:"current_page"`
	Data         []T              `json:"data"`
	FirstPageURL string           `json:"first_page_url"`
	From         *int             `json:"from"`
	LastPage     int              `json:"last_page"`
	LastPageURL  string           `json:"last_page_url"`
	Links        []PaginationLink `json:"links"`
	NextPageURL  *string          `json:"next_page_url"`
	Path         string           `json:"path"`
	PerPage      int              `json:"per_page"`
	PrevPageURL  *string          `json:"prev_page_url"`
	To           *int             `json:"to"`
	Total        int              `json:"total"`
}

// ListResponse is the {success, message, data} wrapper every list endpoint
// returns.
type ListResponse[T any] struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Data    Page[T] `json:"data"`
}

// PageControl is a rendered navigation button.
type PageControl struct {
	Label    string `json:"label"`
	Page     int    `json:"page,omitempty"`
	Active   bool   `json:"active"`
	Disabled bool   `json:"disabled"`
}

// Target returns the page a click on c navigates to. ok is false for an
// inert control (disabled or without a page number).
func (c PageControl) Target() (page int, ok bool) {
	if c.Disabled || c.Page <= 0 {
		return 0, false
	}
	return c.Page, true
}

// PageControls is the resolved pagination bar: previous, a window of at most
// MaxVisiblePages numbered pages, and next. Prev and Next are nil when the
// response carried no such link.
type PageControls struct {
	Prev  *PageControl  `json:"prev,omitempty"`
	Pages []PageControl `json:"pages"`
	Next  *PageControl  `json:"next,omitempty"`
}

// IsPrevLabel matches "&laquo; Previous" style labels.
func IsPrevLabel(label string) bool {
	return strings.Contains(label, "Previous") || strings.Contains(label, "&laquo;") || strings.Contains(label, "«")
}

// IsNextLabel matches "Next &raquo;" style labels.
func IsNextLabel(label string) bool {
	return strings.Contains(label, "Next") || strings.Contains(label, "&raquo;") || strings.Contains(label, "»")
}

// LabelDigits strips every non-digit from a label.
func LabelDigits(label string) string {
	var b strings.Builder
	for _, r := range label {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NumberedLinks keeps the links whose label reduces to a digit string.
func NumberedLinks(links []PaginationLink) []PaginationLink {
	out := make([]PaginationLink, 0, len(links))
	for _, l := range links {
		if LabelDigits(l.Label) != "" {
			out = append(out, l)
		}
	}
	return out
}

// PageWindow returns the [start, end) window of at most MaxVisiblePages
// numbered links centred on active. A window clipped at the end is shifted
// left to keep its width when enough links exist.
func PageWindow(active, total int) (start, end int) {
	if total <= 0 {
		return 0, 0
	}
	start = max(0, active-MaxVisiblePages/2)
	end = min(total, start+MaxVisiblePages)
	if end-start < MaxVisiblePages {
		start = max(0, end-MaxVisiblePages)
	}
	return start, end
}

// PageFromURL reads the page query parameter of a link URL.
func PageFromURL(raw *string) (int, bool) {
	if raw == nil || *raw == "" {
		return 0, false
	}
	u, err := url.Parse(*raw)
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(u.Query().Get("page"))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// LinkPage extracts the page a link points to: the URL's page parameter,
// falling back to the digits of the label.
func LinkPage(l PaginationLink) (int, bool) {
	if n, ok := PageFromURL(l.URL); ok {
		return n, true
	}
	n, err := strconv.Atoi(LabelDigits(l.Label))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ResolvePagination turns the links of an envelope into page controls.
func ResolvePagination(links []PaginationLink) PageControls {
	var pc PageControls
	for _, l := range links {
		switch {
		case pc.Prev == nil && IsPrevLabel(l.Label):
			pc.Prev = navControl("«", l)
		case pc.Next == nil && IsNextLabel(l.Label):
			pc.Next = navControl("»", l)
		}
	}

	numbered := NumberedLinks(links)
	active := -1
	for i, l := range numbered {
		if l.Active {
			active = i
			break
		}
	}
	start, end := PageWindow(active, len(numbered))

	pc.Pages = make([]PageControl, 0, end-start)
	for _, l := range numbered[start:end] {
		c := PageControl{
			Label:    LabelDigits(l.Label),
			Active:   l.Active,
			Disabled: l.URL == nil,
		}
		if n, ok := LinkPage(l); ok {
			c.Page = n
		}
		pc.Pages = append(pc.Pages, c)
	}
	return pc
}

func navControl(label string, l PaginationLink) *PageControl {
	c := &PageControl{Label: label, Disabled: l.URL == nil}
	if n, ok := PageFromURL(l.URL); ok {
		c.Page = n
	}
	return c
}

// CurrentPage resolves the page the server considers current from the
// active link, falling back to the page the caller is viewing.
func CurrentPage(links []PaginationLink, viewing int) int {
	for _, l := range links {
		if !l.Active {
			continue
		}
		if n, ok := LinkPage(l); ok {
			return n
		}
		break
	}
	return viewing
}
