/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"

	"github.com/mikeb26/ttswiss/swiss"
)

// ParseMembersTable extracts players from the table#members element of an
// HTML page. Columns are located by their header text; only Name is
// required.
func ParseMembersTable(r io.Reader) ([]swiss.Entry, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "roster: parse html")
	}
	return parseMembers(doc)
}

func parseMembers(doc *goquery.Document) ([]swiss.Entry, error) {
	table := doc.Find("table#members").First()
	if table.Length() == 0 {
		return nil, errors.Wrap(ErrInvalidEntry, "roster: no members table")
	}

	cols := map[string]int{}
	table.Find("thead th").Each(func(idx int, s *goquery.Selection) {
		cols[strings.ToLower(strings.TrimSpace(s.Text()))] = idx
	})
	nameCol, ok := cols["name"]
	if !ok {
		return nil, errors.Wrap(ErrInvalidEntry, "roster: members table has no Name column")
	}

	var entries []swiss.Entry
	var rowErr error
	table.Find("tbody tr").EachWithBreak(func(rowIdx int,
		s *goquery.Selection) bool {

		cells := s.Find("td")
		cell := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= cells.Length() {
				return ""
			}
			return strings.TrimSpace(cells.Eq(idx).Text())
		}
		if nameCol >= cells.Length() {
			return true
		}

		e := swiss.Entry{
			Name:     strings.Join(strings.Fields(cell("name")), " "),
			Nickname: cell("nickname"),
		}
		if e.TTR, rowErr = atoiOrZero(cell("ttr")); rowErr != nil {
			rowErr = errors.Wrapf(rowErr, "row %d ttr", rowIdx)
			return false
		}
		if e.Handicap, rowErr = atoiOrZero(cell("handicap")); rowErr != nil {
			rowErr = errors.Wrapf(rowErr, "row %d handicap", rowIdx)
			return false
		}
		entries = append(entries, e)
		return true
	})
	if rowErr != nil {
		return nil, errors.Mark(errors.Wrap(rowErr, "roster"), ErrInvalidEntry)
	}
	if err := Validate(entries); err != nil {
		return nil, err
	}

	return entries, nil
}

func atoiOrZero(s string) (int, error) {
	if s == "" || s == "-" {
		return 0, nil
	}
	return strconv.Atoi(strings.TrimPrefix(s, "+"))
}
