package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/move"
)

const bignum = 1<<63 - 2

// Zobrist hashes a Reversi position.
// https://en.wikipedia.org/wiki/Zobrist_hashing
//
// Each agent builds its own table; tables are never shared, so two agents
// will hash the same position differently.
type Zobrist struct {
	// posTable[square][0] is Black, [1] is White.
	posTable  [][2]uint64
	whiteTurn uint64

	boardDim int
}

// Initialize draws fresh random keys for a board of dimension boardDim.
func (z *Zobrist) Initialize(boardDim int) {
	z.boardDim = boardDim
	z.posTable = make([][2]uint64, boardDim*boardDim)
	for i := range z.posTable {
		z.posTable[i][0] = frand.Uint64n(bignum) + 1
		z.posTable[i][1] = frand.Uint64n(bignum) + 1
	}
	z.whiteTurn = frand.Uint64n(bignum) + 1
}

func (z *Zobrist) BoardDim() int {
	return z.boardDim
}

func colorIdx(c board.Color) int {
	if c == board.White {
		return 1
	}
	return 0
}

// Hash XORs together the keys of every occupied square, and the side to
// move key when White is to move.
func (z *Zobrist) Hash(b *board.Board, toMove board.Color) uint64 {
	key := uint64(0)
	for i, sq := range b.Squares() {
		if sq == board.Empty {
			continue
		}
		key ^= z.posTable[i][colorIdx(sq)]
	}
	if toMove == board.White {
		key ^= z.whiteTurn
	}
	return key
}

// AddMove updates key for color c placing a disc at m and flipping the
// squares in flipped. The side to move always toggles; a pass is a move
// with no placement and no flips.
func (z *Zobrist) AddMove(key uint64, m move.Move, c board.Color, flipped []int) uint64 {
	if !m.IsPass() {
		ci := colorIdx(c)
		oi := 1 - ci
		key ^= z.posTable[m.Index(z.boardDim)][ci]
		for _, sq := range flipped {
			key ^= z.posTable[sq][oi]
			key ^= z.posTable[sq][ci]
		}
	}
	key ^= z.whiteTurn
	return key
}
