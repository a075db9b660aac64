/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

const (
	nameLevelFirst = iota
	nameLevelInitial
	nameLevelFull

	maxNamePasses = 3
	// names this close are easy to mix up, e.g. Stephan and Stefan
	maxNameDistance = 2
)

// DisambiguateNames returns a short display name per entry, lengthening the
// names of colliding players until they are distinguishable or fully
// spelled out.
func DisambiguateNames(entries []Entry, useNicknames bool) []string {
	levels := make([]int, len(entries))

	for pass := 0; pass < maxNamePasses; pass++ {
		colliding := collidingNames(entries, levels, useNicknames)
		if len(colliding) == 0 {
			break
		}
		for idx := range colliding {
			levels[idx]++
		}
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = displayName(e, levels[i], useNicknames)
	}

	return names
}

func displayName(e Entry, level int, useNicknames bool) string {
	if useNicknames && e.Nickname != "" {
		return e.Nickname
	}

	parts := strings.Fields(e.Name)
	if len(parts) == 0 {
		return e.Name
	}
	switch level {
	case nameLevelFirst:
		return parts[0]
	case nameLevelInitial:
		if len(parts) == 2 {
			return fmt.Sprintf("%s %c.", parts[0], []rune(parts[1])[0])
		}
	}

	return strings.Join(parts, " ")
}

func collidingNames(entries []Entry, levels []int,
	useNicknames bool) map[int]struct{} {

	colliding := make(map[int]struct{})
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = displayName(e, levels[i], useNicknames)
	}

	for i := range names {
		for k := i + 1; k < len(names); k++ {
			if namesCollide(names[i], names[k]) {
				colliding[i] = struct{}{}
				colliding[k] = struct{}{}
			}
		}
	}

	return colliding
}

func namesCollide(a, b string) bool {
	if a == b {
		return true
	}
	return levenshtein.ComputeDistance(strings.ToLower(a),
		strings.ToLower(b)) <= maxNameDistance
}
