/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"context"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/mikeb26/ttswiss/internal"
	"github.com/mikeb26/ttswiss/swiss"
)

const maxConcurrentFetches = 4

// Fetch downloads a roster. JSON responses are decoded as a player array;
// anything else is parsed as an HTML members table.
func Fetch(ctx context.Context, client *http.Client,
	url string) ([]swiss.Entry, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "roster: request %v", url)
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "roster: fetch %v", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("roster: status %d fetching %v",
			resp.StatusCode, url)
	}

	var entries []swiss.Entry
	if strings.Contains(resp.Header.Get("Content-Type"), "json") ||
		strings.HasSuffix(req.URL.Path, ".json") {
		entries, err = LoadJSON(resp.Body)
	} else {
		entries, err = ParseMembersTable(resp.Body)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "roster: %v", url)
	}

	return entries, nil
}

// FetchAll downloads every roster concurrently and concatenates them in the
// order of urls. Players listed by more than one roster are kept once.
func FetchAll(ctx context.Context, client *http.Client,
	urls []string) ([]swiss.Entry, error) {

	results := make([][]swiss.Entry, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for idx, url := range urls {
		idx, url := idx, url
		g.Go(func() error {
			entries, err := Fetch(gctx, client, url)
			if err != nil {
				return err
			}
			results[idx] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var merged []swiss.Entry
	for _, entries := range results {
		for _, e := range entries {
			key := strings.ToLower(e.Name)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, e)
		}
	}

	return merged, nil
}
