/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package roster loads the player database a tournament is seeded from. A
// roster is a JSON array of players or an HTML page carrying a members
// table.
package roster

import (
	"encoding/json"
	"io"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/mikeb26/ttswiss/swiss"
)

var (
	ErrInvalidEntry  = errors.New("invalid roster entry")
	ErrUnknownPlayer = errors.New("player not in roster")
)

var validate = validator.New()

// Validate checks every entry's field constraints.
func Validate(entries []swiss.Entry) error {
	for idx := range entries {
		if err := validate.Struct(&entries[idx]); err != nil {
			return errors.Mark(errors.Wrapf(err, "roster: entry %d (%q)", idx,
				entries[idx].Name), ErrInvalidEntry)
		}
	}
	return nil
}

// LoadJSON decodes and validates a JSON array of players.
func LoadJSON(r io.Reader) ([]swiss.Entry, error) {
	var entries []swiss.Entry
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&entries); err != nil {
		return nil, errors.Wrap(err, "roster: decode")
	}
	normalize(entries)
	if err := Validate(entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// SortByRating orders entries by TTR, highest first. Equal ratings keep
// their relative order.
func SortByRating(entries []swiss.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TTR > entries[j].TTR
	})
}

// Select returns the entries whose names match the given names, in the
// order given. Matching ignores case and surrounding spaces.
func Select(entries []swiss.Entry, names []string) ([]swiss.Entry, error) {
	byName := make(map[string]swiss.Entry, len(entries))
	for _, e := range entries {
		byName[strings.ToLower(e.Name)] = e
	}

	selected := make([]swiss.Entry, 0, len(names))
	for _, n := range names {
		e, ok := byName[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownPlayer, "%q", n)
		}
		selected = append(selected, e)
	}

	return selected, nil
}

func normalize(entries []swiss.Entry) {
	for idx := range entries {
		entries[idx].Name = strings.Join(strings.Fields(entries[idx].Name), " ")
		entries[idx].Nickname = strings.TrimSpace(entries[idx].Nickname)
	}
}
