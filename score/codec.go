/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package score converts table tennis set results between their "A:B" text
// form and a packed signed representation. The magnitude of a Score is the
// loser's points and its sign tells which side won; negative zero therefore
// means the second side won 11:0.
package score

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	// PointsToWin is the score needed to take a set without deuce.
	PointsToWin = 11
	// MaxEntry bounds the bare numeric shorthand accepted by ParseEntry.
	MaxEntry = 30
)

var ErrInvalidScore = errors.New("invalid set score")

// Score is a single set result. Positive means the first listed side won.
type Score float64

// New builds a Score from the loser's points and whether the first side won.
func New(loserPoints int, firstWon bool) Score {
	sign := 1.0
	if !firstWon {
		sign = -1.0
	}
	return Score(math.Copysign(float64(loserPoints), sign))
}

// Decode parses "A:B" into a Score.
func Decode(text string) (Score, error) {
	parts := strings.Split(text, ":")
	if len(parts) != 2 {
		return 0, errors.Wrapf(ErrInvalidScore, "%q: expected two parts", text)
	}

	first, err := parsePoints(parts[0])
	if err != nil {
		return 0, errors.Wrapf(err, "%q", text)
	}
	second, err := parsePoints(parts[1])
	if err != nil {
		return 0, errors.Wrapf(err, "%q", text)
	}
	if !validEnding(first, second) {
		return 0, errors.Wrapf(ErrInvalidScore, "%q: not a finished set", text)
	}

	return New(min(first, second), first > second), nil
}

// parsePoints accepts plain digits only; signs are rejected.
func parsePoints(s string) (int, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, errors.Wrapf(ErrInvalidScore, "signed part %q", s)
	}
	p, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidScore, "non-integer part %q", s)
	}
	return p, nil
}

func validEnding(a, b int) bool {
	if a == PointsToWin && b <= PointsToWin-2 {
		return true
	}
	if b == PointsToWin && a <= PointsToWin-2 {
		return true
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}

	return a >= PointsToWin-1 && b >= PointsToWin-1 && diff == 2
}

// ParseEntry accepts either "A:B" or a bare integer in [-30, 30]. The bare
// form is the signed shorthand used for handicap pre-fill; "-0" keeps its
// sign.
func ParseEntry(text string) (Score, error) {
	s := strings.TrimSpace(text)
	if strings.Contains(s, ":") {
		return Decode(s)
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidScore, "%q is not a number", text)
	}
	if v < -MaxEntry || v > MaxEntry {
		return 0, errors.Wrapf(ErrInvalidScore, "%q out of range", text)
	}
	if v == 0 && strings.HasPrefix(s, "-") {
		return Score(math.Copysign(0, -1)), nil
	}

	return Score(v), nil
}

// FirstWon reports whether the first listed side took the set.
func (s Score) FirstWon() bool {
	return !math.Signbit(float64(s))
}

// LoserPoints is the number of points scored by the side that lost the set.
func (s Score) LoserPoints() int {
	return int(math.Abs(float64(s)))
}

// WinnerPoints is the number of points scored by the side that won the set.
func (s Score) WinnerPoints() int {
	m := s.LoserPoints()
	if m <= PointsToWin-2 {
		return PointsToWin
	}
	return m + 2
}

// Points returns the points of the first and second side.
func (s Score) Points() (int, int) {
	if s.FirstWon() {
		return s.WinnerPoints(), s.LoserPoints()
	}
	return s.LoserPoints(), s.WinnerPoints()
}

// String encodes the score in its canonical "A : B" form.
func (s Score) String() string {
	first, second := s.Points()
	return fmt.Sprintf("%d : %d", first, second)
}

// Equal compares two scores including the sign of zero.
func (s Score) Equal(o Score) bool {
	return s == o && math.Signbit(float64(s)) == math.Signbit(float64(o))
}
