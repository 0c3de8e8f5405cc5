package listing

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryRequest carries the sort and filter parameters of one list request.
type QueryRequest struct {
	Sort    string
	Filters map[string]string
}

// RequestFromValues reads `sort` and every `filter[name]` parameter. Values of a
// repeated `filter[name][]` parameter are joined with commas; a repeated scalar
// `filter[name]` keeps its last value. The list form wins when both are sent.
func RequestFromValues(values url.Values) QueryRequest {
	req := QueryRequest{
		Sort:    strings.TrimSpace(values.Get("sort")),
		Filters: make(map[string]string),
	}
	lists := make(map[string]bool)
	for key, vals := range values {
		name, list, ok := filterName(key)
		if !ok || len(vals) == 0 {
			continue
		}
		switch {
		case list:
			req.Filters[name] = strings.Join(vals, ",")
			lists[name] = true
		case !lists[name]:
			req.Filters[name] = vals[len(vals)-1]
		}
	}
	return req
}

func filterName(key string) (name string, list bool, ok bool) {
	if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") {
		return "", false, false
	}
	name = key[len("filter[") : len(key)-1]
	if trimmed := strings.TrimSuffix(name, "]["); trimmed != name {
		name, list = trimmed, true
	}
	if name == "" || strings.ContainsAny(name, "[]") {
		return "", false, false
	}
	return name, list, true
}

// SortOr echoes the requested sort, or fallback when none was sent.
func (r QueryRequest) SortOr(fallback string) string {
	if r.Sort == "" {
		return fallback
	}
	return r.Sort
}

// PageFromValues reads the 1-based `page` parameter, defaulting to 1.
func PageFromValues(values url.Values) int {
	page, err := strconv.Atoi(strings.TrimSpace(values.Get("page")))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
