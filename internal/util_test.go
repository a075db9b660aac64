/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"testing"
	"time"
)

func TestParseDateOrZero(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "undated"},
		{"null", "undated"},
		{"2025-03-14", "2025-03-14"},
		{"03/14/2025", "2025-03-14"},
		{"March 14, 2025", "2025-03-14"},
	}
	for _, tc := range tests {
		got, err := ParseDateOrZero(tc.in)
		if err != nil {
			t.Fatalf("ParseDateOrZero(%q): %v", tc.in, err)
		}
		if DateKey(got) != tc.want {
			t.Errorf("ParseDateOrZero(%q) = %v; expected %v", tc.in,
				DateKey(got), tc.want)
		}
	}

	if _, err := ParseDateOrZero("not a date"); err == nil {
		t.Errorf("expected an error for garbage input")
	}
}

func TestDateKey(t *testing.T) {
	d := time.Date(2024, time.November, 2, 19, 30, 0, 0, time.UTC)
	if DateKey(d) != "2024-11-02" {
		t.Errorf("unexpected key %v", DateKey(d))
	}
}
