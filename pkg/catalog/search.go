// SPDX-License-Identifier: Apache-2.0
package catalog

import (
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// appSource adapts a slice of apps to fuzzy.Source.
type appSource []App

func (s appSource) String(i int) string {
	a := s[i]
	return a.ID + " " + a.Name + " " + a.Description + " " + strings.Join(a.Tags, " ")
}

func (s appSource) Len() int { return len(s) }

// Search fuzzy-matches query against the whole catalog, best match first.
func Search(query string) []App {
	return SearchIn(builtin(), query)
}

// SearchIn fuzzy-matches query against apps. An empty query returns a copy
// of apps in their original order.
func SearchIn(apps []App, query string) []App {
	query = strings.TrimSpace(query)
	if query == "" {
		return slices.Clone(apps)
	}
	matches := fuzzy.FindFrom(query, appSource(apps))
	out := make([]App, 0, len(matches))
	for _, m := range matches {
		out = append(out, apps[m.Index])
	}
	return out
}
