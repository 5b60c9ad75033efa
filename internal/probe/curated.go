package probe

import (
	"context"
	"fmt"
	"slices"
)

// expectedCurated keeps the curated titles present in the catalog, in list
// order and without duplicates.
func expectedCurated(curated []string, catalog []Film) []string {
	present := make(map[string]struct{}, len(catalog))
	for _, f := range catalog {
		present[f.Title] = struct{}{}
	}
	out := make([]string, 0, len(curated))
	for _, t := range curated {
		if _, ok := present[t]; ok && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

// probeCurated checks that curated mode leads with the expected titles.
func probeCurated(ctx context.Context, c *client, curated []string) (CuratedReport, error) {
	rep := CuratedReport{Checked: true}
	refs, err := c.titles(ctx)
	if err != nil {
		return rep, fmt.Errorf("curated probe: %w", err)
	}
	rep.Expected = expectedCurated(curated, refs)

	page, err := c.curated(ctx, max(len(rep.Expected), 1))
	if err != nil {
		return rep, fmt.Errorf("curated probe: %w", err)
	}
	rep.Got = make([]string, 0, len(page.Movies))
	for _, f := range page.Movies[:min(len(rep.Expected), len(page.Movies))] {
		rep.Got = append(rep.Got, f.Title)
	}
	rep.OK = slices.Equal(rep.Expected, rep.Got)
	return rep, nil
}
