/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeb26/ttswiss/swiss"
)

const playersJSON = `[
  {"name": "Anna  Alt", "ttr": 1520, "handicap": 0, "nickname": null},
  {"name": "Bernd Bach", "ttr": 1610, "handicap": -4, "nickname": "BB"},
  {"name": "Carla Conrad", "ttr": 1390, "handicap": 6}
]`

const membersHTML = `<html><body>
<table id="members">
  <thead><tr><th>#</th><th>Name</th><th>Nickname</th><th>TTR</th><th>Handicap</th></tr></thead>
  <tbody>
    <tr><td>1</td><td> Dora   Dietz </td><td></td><td>1702</td><td>-2</td></tr>
    <tr><td>2</td><td>Emil Ernst</td><td>Em</td><td>1455</td><td>+3</td></tr>
    <tr><td>3</td><td>Bernd Bach</td><td>BB</td><td>-</td><td></td></tr>
  </tbody>
</table>
</body></html>`

func TestLoadJSON(t *testing.T) {
	entries, err := LoadJSON(strings.NewReader(playersJSON))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, swiss.Entry{Name: "Anna Alt", TTR: 1520}, entries[0])
	assert.Equal(t, "BB", entries[1].Nickname)

	SortByRating(entries)
	assert.Equal(t, "Bernd Bach", entries[0].Name)
	assert.Equal(t, "Carla Conrad", entries[2].Name)
}

func TestLoadJSONInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"missing name", `[{"ttr": 1200}]`},
		{"handicap out of range", `[{"name": "X", "ttr": 1, "handicap": 31}]`},
		{"negative ttr", `[{"name": "X", "ttr": -1}]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadJSON(strings.NewReader(tc.in))
			assert.True(t, errors.Is(err, ErrInvalidEntry), "%v", err)
		})
	}

	_, err := LoadJSON(strings.NewReader(`{"name": "not an array"}`))
	assert.Error(t, err)
	_, err = LoadJSON(strings.NewReader(`[{"name": "X", "rating": 5}]`))
	assert.Error(t, err)
}

func TestParseMembersTable(t *testing.T) {
	entries, err := ParseMembersTable(strings.NewReader(membersHTML))
	require.NoError(t, err)
	assert.Equal(t, []swiss.Entry{
		{Name: "Dora Dietz", TTR: 1702, Handicap: -2},
		{Name: "Emil Ernst", TTR: 1455, Handicap: 3, Nickname: "Em"},
		{Name: "Bernd Bach", Nickname: "BB"},
	}, entries)

	_, err = ParseMembersTable(strings.NewReader("<table id=\"other\"></table>"))
	assert.True(t, errors.Is(err, ErrInvalidEntry))

	bad := strings.Replace(membersHTML, "1455", "strong", 1)
	_, err = ParseMembersTable(strings.NewReader(bad))
	assert.True(t, errors.Is(err, ErrInvalidEntry))
}

func TestSelect(t *testing.T) {
	entries, err := LoadJSON(strings.NewReader(playersJSON))
	require.NoError(t, err)

	got, err := Select(entries, []string{"carla conrad", " Anna Alt"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Carla Conrad", got[0].Name)
	assert.Equal(t, "Anna Alt", got[1].Name)

	_, err = Select(entries, []string{"Nobody"})
	assert.True(t, errors.Is(err, ErrUnknownPlayer))
}

func TestFetchAll(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/players.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, playersJSON)
	})
	mux.HandleFunc("/members", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, membersHTML)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	entries, err := FetchAll(context.Background(), srv.Client(),
		[]string{srv.URL + "/players.json", srv.URL + "/members"})
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	// Bernd Bach appears in both rosters and is kept once
	assert.Equal(t, []string{"Anna Alt", "Bernd Bach", "Carla Conrad",
		"Dora Dietz", "Emil Ernst"}, names)

	_, err = FetchAll(context.Background(), srv.Client(),
		[]string{srv.URL + "/players.json", srv.URL + "/missing"})
	assert.Error(t, err)
}
