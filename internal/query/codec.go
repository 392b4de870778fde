package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Query-string parameter names.
const (
	paramSeller       = "seller"
	paramCategory     = "category"
	paramMainCategory = "main_category"
	paramQ            = "q"
	paramFavorite     = "favorite"
	paramShowHidden   = "show_hidden"
	paramShowEnded    = "show_ended"
	paramLast24h      = "last_24h"
	paramSort         = "sort"
	paramView         = "view"
	paramPage         = "page"
	paramPageSize     = "page_size"
)

// Parse reads a State from a query string. It never fails: every field falls
// back to its default independently, malformed pairs are skipped, and the
// result is already normalized. A leading "?" is accepted.
func Parse(search string) State {
	// ParseQuery rejects pairs holding a raw ";", so it is escaped first and
	// "q=a;b" reads as "a;b". Every other well-formed pair is kept even when
	// ParseQuery reports an error.
	raw := strings.ReplaceAll(strings.TrimPrefix(search, "?"), ";", "%3B")
	params, _ := url.ParseQuery(raw)

	s := State{
		Seller:       params[paramSeller],
		Category:     params[paramCategory],
		MainCategory: params[paramMainCategory],
		Q:            params.Get(paramQ),
		Favorite:     params.Get(paramFavorite) == "1",
		ShowHidden:   params.Get(paramShowHidden) == "1",
		ShowEnded:    params.Get(paramShowEnded) == "1",
		Last24h:      params.Get(paramLast24h) == "1",
		Sort:         Sort(params.Get(paramSort)),
		View:         View(params.Get(paramView)),
		Page:         parsePositiveInt(params.Get(paramPage), DefaultPage),
		PageSize:     parsePositiveInt(params.Get(paramPageSize), DefaultPageSize),
	}
	return s.Normalize()
}

// Serialize writes the minimal query string for s (no leading "?"): a field is
// emitted only when it differs from its default, multi-value fields as repeated
// keys in order.
func Serialize(s State) string {
	s = s.Normalize()

	var b strings.Builder
	add := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	for _, v := range s.Seller {
		add(paramSeller, v)
	}
	for _, v := range s.Category {
		add(paramCategory, v)
	}
	for _, v := range s.MainCategory {
		add(paramMainCategory, v)
	}
	if s.Q != "" {
		add(paramQ, s.Q)
	}
	if s.Favorite {
		add(paramFavorite, "1")
	}
	if s.ShowHidden {
		add(paramShowHidden, "1")
	}
	if s.ShowEnded {
		add(paramShowEnded, "1")
	}
	if s.Last24h {
		add(paramLast24h, "1")
	}
	if s.Sort != DefaultSort {
		add(paramSort, string(s.Sort))
	}
	if s.View != DefaultView {
		add(paramView, string(s.View))
	}
	if s.Page != DefaultPage {
		add(paramPage, strconv.Itoa(s.Page))
	}
	if s.PageSize != DefaultPageSize {
		add(paramPageSize, strconv.Itoa(s.PageSize))
	}
	return b.String()
}

// parsePositiveInt accepts base-10 integers >= 1 only; anything else,
// including trailing garbage, yields fallback.
func parsePositiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
