// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package listing

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Extract returns the raw build specs per requested platform in document
// order. A platform without a table in the document maps to an empty slice.
func Extract(r io.Reader, platforms []string) (map[string][]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}

	want := make(map[string]bool, len(platforms))
	result := make(map[string][]string, len(platforms))
	for _, p := range platforms {
		want[p] = true
		result[p] = []string{}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Table {
			if id := attr(n, "id"); want[id] {
				result[id] = append(result[id], buildRows(n)...)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return result, nil
}

// buildRows collects data-version from the table's toprow rows. Rows belong
// to the table directly or through the tbody the parser inserts; nested
// tables are skipped.
func buildRows(table *html.Node) []string {
	var specs []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Table:
				continue
			case atom.Tr:
				if hasClass(c, "toprow") {
					if v, ok := lookup(c, "data-version"); ok {
						specs = append(specs, strings.TrimSpace(v))
					}
				}
			default:
				walk(c)
			}
		}
	}
	walk(table)

	return specs
}

func attr(n *html.Node, key string) string {
	v, _ := lookup(n, key)
	return v
}

func lookup(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
