package search

import (
	"fmt"
	"strings"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/move"
)

// PVLine is a principal variation: the line of best play the search
// expects from the root, starting with the side to move.
type PVLine struct {
	Moves []move.Move
	Value int
}

// Clear the principal variation line.
func (pvLine *PVLine) Clear() {
	pvLine.Moves = nil
}

func (pvLine PVLine) String() string {
	var s strings.Builder
	fmt.Fprintf(&s, "PV; val %d\n", pvLine.Value)
	for i, m := range pvLine.Moves {
		fmt.Fprintf(&s, "%d: %s\n", i+1, m.ShortDescription())
	}
	return s.String()
}

// NLBString is the line with no line breaks.
func (pvLine PVLine) NLBString() string {
	return fmt.Sprintf("PV; val %d; %s", pvLine.Value,
		strings.Join(moveStrings(pvLine.Moves), " "))
}

func moveStrings(moves []move.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.ShortDescription()
	}
	return out
}

// PrincipalVariation rebuilds the line behind res, the result of the last
// search of b for c, by following hash moves through the transposition
// table. The line stops at the first position the table has no move for,
// so it may be shorter than res.Depth. Without a table it is just the best
// move.
func (s *Solver) PrincipalVariation(b *board.Board, c board.Color, res Result, maxLen int) PVLine {
	pv := PVLine{Value: res.Value}
	if res.Move.IsPass() || !b.LegalMove(c, res.Move.X, res.Move.Y) {
		return pv
	}
	pv.Moves = append(pv.Moves, res.Move)
	if !s.transpositionTableOptim || s.zobrist.BoardDim() != b.Dim() {
		return pv
	}
	pos := b.Clone()
	flipped, _ := pos.ApplyFlips(res.Move.X, res.Move.Y, c, nil)
	key := s.zobrist.AddMove(s.zobrist.Hash(b, c), res.Move, c, flipped)
	toMove := c.Opponent()
	seen := map[uint64]bool{}
	for len(pv.Moves) < maxLen && !pos.IsTerminal() && !seen[key] {
		seen[key] = true
		if !pos.CanPlay(toMove) {
			pv.Moves = append(pv.Moves, move.PassMove)
			key = s.zobrist.AddMove(key, move.PassMove, toMove, nil)
			toMove = toMove.Opponent()
			continue
		}
		entry := s.ttable.lookup(key)
		if !entry.valid() {
			break
		}
		m := entry.move(pos.Dim())
		if m.IsPass() || !pos.LegalMove(toMove, m.X, m.Y) {
			break
		}
		flipped, _ = pos.ApplyFlips(m.X, m.Y, toMove, flipped[:0])
		key = s.zobrist.AddMove(key, m, toMove, flipped)
		pv.Moves = append(pv.Moves, m)
		toMove = toMove.Opponent()
	}
	return pv
}
