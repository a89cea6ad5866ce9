package board

import (
	"fmt"
	"strconv"
)

// GenKind selects which class of pseudo-legal moves GenerateMoves produces.
type GenKind int

const (
	// Quiet moves: no capture, no castling, no promotion.
	Quiet GenKind = 1 << iota
	// Tactical moves: castling and under-promotions (including captures).
	Tactical
	// Violent moves: captures and queen promotions.
	Violent

	All = Quiet | Tactical | Violent
)

// FENStartPos is the FEN of the standard chess starting position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var lostCastleRights [SquareArraySize]Castle

func init() {
	lostCastleRights[SquareA1] = WhiteOOO
	lostCastleRights[SquareE1] = WhiteOOO | WhiteOO
	lostCastleRights[SquareH1] = WhiteOO
	lostCastleRights[SquareA8] = BlackOOO
	lostCastleRights[SquareE8] = BlackOOO | BlackOO
	lostCastleRights[SquareH8] = BlackOO
}

// ply holds the part of the board state that is cheaper to snapshot than to
// recompute on UndoMove: castling rights, the enpassant square and the
// incremental Zobrist key.
type ply struct {
	castle          Castle
	enpassant       Square
	irreversiblePly int
	zobrist         uint64
}

// Board is the chess rules engine: piece placement, side to move, castling
// and enpassant state, move generation and make/unmake. It knows nothing
// about search or evaluation.
type Board struct {
	ByFigure [FigureArraySize]Bitboard
	ByColor  [ColorArraySize]Bitboard
	SideToMove Color

	HalfMoveClock  int
	FullMoveNumber int
	Ply            int

	history []ply
	curr    *ply
}

// NewBoard returns an empty board positioned at move 1, white to move.
func NewBoard() *Board {
	b := &Board{FullMoveNumber: 1, history: make([]ply, 1)}
	b.curr = &b.history[0]
	return b
}

// FromFEN parses a FEN string into a new Board.
func FromFEN(fen string) (*Board, error) {
	var fields [6]string
	n := 0
	for i := 0; i < len(fen); {
		for i < len(fen) && fen[i] == ' ' {
			i++
		}
		start := i
		for i < len(fen) && fen[i] != ' ' {
			i++
		}
		if start == i {
			continue
		}
		if n >= len(fields) {
			return nil, fmt.Errorf("board: fen has too many fields")
		}
		fields[n] = fen[start:i]
		n++
	}
	if n < len(fields) {
		return nil, fmt.Errorf("board: fen has too few fields")
	}

	b := NewBoard()
	if err := parsePiecePlacement(fields[0], b); err != nil {
		return nil, err
	}
	if err := parseSideToMove(fields[1], b); err != nil {
		return nil, err
	}
	if err := parseCastlingAbility(fields[2], b); err != nil {
		return nil, err
	}
	if err := parseEnpassantSquare(fields[3], b); err != nil {
		return nil, err
	}
	var err error
	if b.HalfMoveClock, err = strconv.Atoi(fields[4]); err != nil {
		return nil, fmt.Errorf("board: bad halfmove clock: %w", err)
	}
	if b.FullMoveNumber, err = strconv.Atoi(fields[5]); err != nil {
		return nil, fmt.Errorf("board: bad fullmove number: %w", err)
	}
	return b, nil
}

// FEN renders the board back to Forsyth-Edwards notation.
func (b *Board) FEN() string {
	s := formatPiecePlacement(b)
	s += " " + formatSideToMove(b)
	s += " " + formatCastlingAbility(b)
	s += " " + formatEnpassantSquare(b)
	s += " " + strconv.Itoa(b.HalfMoveClock)
	s += " " + strconv.Itoa(b.FullMoveNumber)
	return s
}

func (b *Board) String() string { return b.FEN() }

func (b *Board) prevPly() *ply { return &b.history[b.Ply-1] }

func (b *Board) pushPly() {
	b.history = append(b.history, b.history[b.Ply])
	b.Ply++
	b.curr = &b.history[b.Ply]
}

func (b *Board) popPly() {
	b.history = b.history[:b.Ply]
	b.Ply--
	b.curr = &b.history[b.Ply]
}

// EnpassantSquare returns the current capturable enpassant target, or
// SquareA1 if there is none.
func (b *Board) EnpassantSquare() Square { return b.curr.enpassant }

// IsEnpassantSquare reports whether sq is the current enpassant target.
func (b *Board) IsEnpassantSquare(sq Square) bool {
	return sq != SquareA1 && sq == b.curr.enpassant
}

// CastlingAbility returns the remaining castling rights.
func (b *Board) CastlingAbility() Castle { return b.curr.castle }

// Zobrist returns the board's incremental Zobrist hash. The keys are
// pseudo-random numbers from a fixed seed, not the polyglot key table.
func (b *Board) Zobrist() uint64 { return b.curr.zobrist }

// Sides returns (side to move, opponent).
func (b *Board) Sides() (Color, Color) { return b.SideToMove, b.SideToMove.Other() }

// NumNonPawns returns the count of col's minor and major pieces.
func (b *Board) NumNonPawns(col Color) int {
	return int((b.ByColor[col] &^ b.ByFigure[Pawn] &^ b.ByFigure[King]).Count())
}

// HasNonPawns reports whether col has any minor or major piece left.
func (b *Board) HasNonPawns(col Color) bool {
	return b.ByColor[col]&^b.ByFigure[Pawn]&^b.ByFigure[King] != 0
}

// ByPiece is shorthand for ByColor[col]&ByFigure[fig].
func (b *Board) ByPiece(col Color, fig Figure) Bitboard { return b.ByColor[col] & b.ByFigure[fig] }

// Put places pi on sq, updating the Zobrist key. No-op for NoPiece.
func (b *Board) Put(sq Square, pi Piece) {
	if pi == NoPiece {
		return
	}
	b.curr.zobrist ^= zobristPiece[pi][sq]
	bb := sq.Bitboard()
	b.ByColor[pi.Color()] |= bb
	b.ByFigure[pi.Figure()] |= bb
}

// Remove clears pi from sq, updating the Zobrist key. No-op for NoPiece.
func (b *Board) Remove(sq Square, pi Piece) {
	if pi == NoPiece {
		return
	}
	b.curr.zobrist ^= zobristPiece[pi][sq]
	bb := ^sq.Bitboard()
	b.ByColor[pi.Color()] &= bb
	b.ByFigure[pi.Figure()] &= bb
}

// IsEmpty reports whether sq is unoccupied.
func (b *Board) IsEmpty(sq Square) bool {
	return (b.ByColor[White]|b.ByColor[Black])&sq.Bitboard() == 0
}

// Get returns the piece sitting at sq, or NoPiece.
func (b *Board) Get(sq Square) Piece {
	var col Color
	switch {
	case b.ByColor[White]&sq.Bitboard() != 0:
		col = White
	case b.ByColor[Black]&sq.Bitboard() != 0:
		col = Black
	default:
		return NoPiece
	}
	for fig := FigureMinValue; fig <= FigureMaxValue; fig++ {
		if b.ByFigure[fig]&sq.Bitboard() != 0 {
			return ColorFigure(col, fig)
		}
	}
	panic("board: occupied square has no figure")
}

// SetCastlingAbility updates castling rights, keeping the Zobrist key in sync.
func (b *Board) SetCastlingAbility(c Castle) {
	if b.curr.castle == c {
		return
	}
	b.curr.zobrist ^= zobristCastle[b.curr.castle]
	b.curr.castle = c
	b.curr.zobrist ^= zobristCastle[b.curr.castle]
}

// SetSideToMove updates the side to move, keeping the Zobrist key in sync.
func (b *Board) SetSideToMove(c Color) {
	b.curr.zobrist ^= zobristColor[b.SideToMove]
	b.SideToMove = c
	b.curr.zobrist ^= zobristColor[b.SideToMove]
}

// SetEnpassantSquare updates the enpassant target, keeping the Zobrist key in
// sync. Per the polyglot convention, the key only reflects the square when a
// capture is actually possible from it next move.
func (b *Board) SetEnpassantSquare(sq Square) {
	if sq == b.curr.enpassant {
		return
	}
	b.curr.zobrist ^= zobristEnpassant[b.curr.enpassant]
	target := sq
	if sq != SquareA1 {
		var theirs Bitboard
		var capturerRank int
		switch sq.Rank() {
		case 2:
			theirs, capturerRank = b.ByPiece(Black, Pawn), 3
		case 5:
			theirs, capturerRank = b.ByPiece(White, Pawn), 4
		default:
			panic("board: bad enpassant square")
		}
		capSq := RankFile(capturerRank, sq.File())
		left := capSq.File() != 0 && theirs&(capSq-1).Bitboard() != 0
		right := capSq.File() != 7 && theirs&(capSq+1).Bitboard() != 0
		if !left && !right {
			target = SquareA1
		}
	}
	b.curr.enpassant = target
	b.curr.zobrist ^= zobristEnpassant[b.curr.enpassant]
}

// DoMove plays a pseudo-legal move. Callers are responsible for filtering
// out moves that leave the mover's own king in check (IsChecked on the side
// that just moved, i.e. SideToMove.Other() after DoMove, as the search
// driver does after its doMove).
func (b *Board) DoMove(m Move) {
	b.pushPly()

	pi := m.Piece()
	if pi != NoPiece {
		b.SetCastlingAbility(b.curr.castle &^ lostCastleRights[m.From] &^ lostCastleRights[m.To])
	}
	if m.Capture != NoPiece || pi.Figure() == Pawn {
		b.curr.irreversiblePly = b.Ply
	}
	if m.MoveType == Castling {
		rook, start, end := CastlingRook(m.To)
		b.Remove(start, rook)
		b.Put(end, rook)
	}
	if pi.Figure() == Pawn && m.From.Bitboard()&(RankBb(1)|RankBb(6)) != 0 &&
		m.To.Bitboard()&(RankBb(3)|RankBb(4)) != 0 {
		b.SetEnpassantSquare((m.From + m.To) / 2)
	} else {
		b.SetEnpassantSquare(SquareA1)
	}

	b.Remove(m.From, pi)
	b.Remove(m.CaptureSquare(), m.Capture)
	b.Put(m.To, m.Target)
	b.SetSideToMove(b.SideToMove.Other())
}

// UndoMove reverses the last move played by DoMove.
func (b *Board) UndoMove(m Move) {
	b.SetCastlingAbility(b.prevPly().castle)
	b.SetEnpassantSquare(b.prevPly().enpassant)
	b.SetSideToMove(b.SideToMove.Other())

	pi := m.Piece()
	b.Put(m.From, pi)
	b.Remove(m.To, m.Target)
	b.Put(m.CaptureSquare(), m.Capture)

	if m.MoveType == Castling {
		rook, start, end := CastlingRook(m.To)
		b.Put(start, rook)
		b.Remove(end, rook)
	}

	b.popPly()
}

// IsThreeFoldRepetition reports whether the current position has occurred
// three times since the last irreversible move.
func (b *Board) IsThreeFoldRepetition() bool {
	if b.Ply-b.curr.irreversiblePly < 4 {
		return false
	}
	count, z := 0, b.Zobrist()
	for i := b.Ply; i >= b.curr.irreversiblePly; i -= 2 {
		if b.history[i].zobrist == z {
			if count++; count == 3 {
				return true
			}
		}
	}
	return false
}

// IsChecked reports whether side's king is attacked.
func (b *Board) IsChecked(side Color) bool {
	kingSq := b.ByPiece(side, King).AsSquare()
	return b.GetAttacker(kingSq, side.Other()) != NoFigure
}

// GetAttacker returns the figure kind of the cheapest attacker of color them
// on sq, or NoFigure if sq isn't attacked.
func (b *Board) GetAttacker(sq Square, them Color) Figure {
	enemy := b.ByColor[them]
	if enemy&pawnAttacks[sq][them.Other()]&b.ByFigure[Pawn] != 0 {
		return Pawn
	}
	if enemy&knightAttacks[sq]&b.ByFigure[Knight] != 0 {
		return Knight
	}
	if enemy&superAttacks[sq]&^b.ByFigure[Pawn] == 0 {
		return NoFigure
	}
	occ := b.ByColor[White] | b.ByColor[Black]
	bishopAtt := BishopAttacks(sq, occ)
	if enemy&b.ByFigure[Bishop]&bishopAtt != 0 {
		return Bishop
	}
	rookAtt := RookAttacks(sq, occ)
	if enemy&b.ByFigure[Rook]&rookAtt != 0 {
		return Rook
	}
	if enemy&b.ByFigure[Queen]&(bishopAtt|rookAtt) != 0 {
		return Queen
	}
	if enemy&kingAttacks[sq]&b.ByFigure[King] != 0 {
		return King
	}
	return NoFigure
}

// AttacksBy returns the union of every square attacked by col's pieces,
// including squares occupied by col's own pieces (defended squares).
func (b *Board) AttacksBy(col Color) Bitboard {
	occ := b.ByColor[White] | b.ByColor[Black]
	var att Bitboard
	for bb := b.ByPiece(col, Pawn); bb != 0; {
		att |= pawnAttacks[bb.Pop()][col]
	}
	for bb := b.ByPiece(col, Knight); bb != 0; {
		att |= knightAttacks[bb.Pop()]
	}
	for bb := b.ByPiece(col, Bishop) | b.ByPiece(col, Queen); bb != 0; {
		att |= BishopAttacks(bb.Pop(), occ)
	}
	for bb := b.ByPiece(col, Rook) | b.ByPiece(col, Queen); bb != 0; {
		att |= RookAttacks(bb.Pop(), occ)
	}
	att |= kingAttacks[b.ByPiece(col, King).AsSquare()]
	return att
}

// Verify checks internal consistency; intended for tests and debugging, not
// the hot path.
func (b *Board) Verify() error {
	if bb := b.ByColor[White] & b.ByColor[Black]; bb != 0 {
		return fmt.Errorf("board: square %v claimed by both colors", bb.AsSquare())
	}
	for col := ColorMinValue; col <= ColorMaxValue; col++ {
		bb := b.ByPiece(col, King)
		if bb == 0 {
			return fmt.Errorf("board: %v has no king", col)
		}
		sq := bb.Pop()
		if bb != 0 {
			return fmt.Errorf("board: %v has more than one king", col)
		}
		_ = sq
	}
	for col := ColorMinValue; col <= ColorMaxValue; col++ {
		for bb := b.ByColor[col]; bb != 0; {
			sq := bb.Pop()
			if b.Get(sq).Color() != col {
				return fmt.Errorf("board: square %v has wrong color", sq)
			}
		}
	}
	return nil
}
