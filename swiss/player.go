/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

const (
	ByeName   = "Freilos"
	ByeRating = -999999

	// NeverHadBye is the HadByeInRound value of players without a bye.
	NeverHadBye = -1
)

// Entry is one row of an input roster.
type Entry struct {
	Name     string `json:"name" validate:"required"`
	TTR      int    `json:"ttr" validate:"gte=0"`
	Handicap int    `json:"handicap" validate:"gte=-30,lte=30"`
	Nickname string `json:"nickname,omitempty"`
}

// RosterPlayer is the immutable identity of a participant.
type RosterPlayer struct {
	ID          int
	Name        string
	TTR         int
	Handicap    int
	Nickname    string
	DisplayName string

	bye bool
}

func (p *RosterPlayer) IsBye() bool {
	return p.bye
}

// TournamentPlayer adds the mutable tournament state to a RosterPlayer. Wins
// and Losses hold opponent ids and are only ever rebuilt from match results.
type TournamentPlayer struct {
	RosterPlayer

	Wins          map[int]struct{}
	Losses        map[int]struct{}
	Buchholz      int
	HadByeInRound int
}

func newTournamentPlayer(rp RosterPlayer) *TournamentPlayer {
	return &TournamentPlayer{
		RosterPlayer:  rp,
		Wins:          make(map[int]struct{}),
		Losses:        make(map[int]struct{}),
		HadByeInRound: NeverHadBye,
	}
}

func newByePlayer(id int) *TournamentPlayer {
	return newTournamentPlayer(RosterPlayer{
		ID:          id,
		Name:        ByeName,
		DisplayName: ByeName,
		TTR:         ByeRating,
		bye:         true,
	})
}

func (p *TournamentPlayer) WinCount() int {
	return len(p.Wins)
}

func (p *TournamentPlayer) LossCount() int {
	return len(p.Losses)
}

func (p *TournamentPlayer) HasPlayedAgainst(id int) bool {
	_, won := p.Wins[id]
	_, lost := p.Losses[id]
	return won || lost
}

func (p *TournamentPlayer) HasWonAgainst(id int) bool {
	_, ok := p.Wins[id]
	return ok
}

func (p *TournamentPlayer) HadBye() bool {
	return p.HadByeInRound != NeverHadBye
}

func (p *TournamentPlayer) resetResults() {
	clear(p.Wins)
	clear(p.Losses)
}
