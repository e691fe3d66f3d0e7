package api

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Query is one encoded document-store query expression. The store accepts a
// list of these as repeated "queries[]" URL parameters.
type Query string

func encodeValues(values []string) string {
	data, _ := json.Marshal(values)
	return string(data)
}

// Equal matches documents whose attribute equals any of the values.
func Equal(attribute string, values ...string) Query {
	return Query(fmt.Sprintf("equal(%q,%s)", attribute, encodeValues(values)))
}

// Contains matches documents whose array attribute contains any of the values.
func Contains(attribute string, values ...string) Query {
	return Query(fmt.Sprintf("contains(%q,%s)", attribute, encodeValues(values)))
}

// IsNull matches documents where the attribute is unset.
func IsNull(attribute string) Query {
	return Query(fmt.Sprintf("isNull(%q)", attribute))
}

// Or matches documents satisfying any of the nested queries.
func Or(queries ...Query) Query {
	parts := make([]string, len(queries))
	for i, q := range queries {
		parts[i] = string(q)
	}
	return Query(fmt.Sprintf("or([%s])", strings.Join(parts, ",")))
}

// OrderAsc sorts results ascending by attribute.
func OrderAsc(attribute string) Query {
	return Query(fmt.Sprintf("orderAsc(%q)", attribute))
}

// OrderDesc sorts results descending by attribute.
func OrderDesc(attribute string) Query {
	return Query(fmt.Sprintf("orderDesc(%q)", attribute))
}

// Limit caps the number of documents returned in one page.
func Limit(n int) Query {
	return Query(fmt.Sprintf("limit(%d)", n))
}

// CursorAfter continues a paginated listing after the given document ID.
func CursorAfter(documentID string) Query {
	return Query(fmt.Sprintf("cursorAfter(%q)", documentID))
}

// queryString encodes queries as repeated queries[] URL parameters.
func queryString(queries []Query) string {
	if len(queries) == 0 {
		return ""
	}
	params := url.Values{}
	for _, q := range queries {
		params.Add("queries[]", string(q))
	}
	return "?" + params.Encode()
}
