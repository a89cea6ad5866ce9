package board

import (
	"fmt"
	"strings"
)

type castleInfo struct {
	castle Castle
	piece  [2]Piece
	square [2]Square
}

var (
	digitStrings      = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8"}
	colorSymbol       = []string{"", "w", "b"}
	symbolToCastle    = map[rune]castleInfo{
		'K': {castle: WhiteOO, piece: [2]Piece{WhiteKing, WhiteRook}, square: [2]Square{SquareE1, SquareH1}},
		'Q': {castle: WhiteOOO, piece: [2]Piece{WhiteKing, WhiteRook}, square: [2]Square{SquareE1, SquareA1}},
		'k': {castle: BlackOO, piece: [2]Piece{BlackKing, BlackRook}, square: [2]Square{SquareE8, SquareH8}},
		'q': {castle: BlackOOO, piece: [2]Piece{BlackKing, BlackRook}, square: [2]Square{SquareE8, SquareA8}},
	}
	symbolToColor = map[string]Color{"w": White, "b": Black}
	symbolToPiece = map[rune]Piece{
		'p': BlackPawn, 'n': BlackKnight, 'b': BlackBishop, 'r': BlackRook, 'q': BlackQueen, 'k': BlackKing,
		'P': WhitePawn, 'N': WhiteKnight, 'B': WhiteBishop, 'R': WhiteRook, 'Q': WhiteQueen, 'K': WhiteKing,
	}
)

func parsePiecePlacement(s string, b *Board) error {
	ranks := strings.Split(s, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("board: expected 8 ranks, got %d", len(ranks))
	}
	for r := range ranks {
		f := 0
		for _, ch := range ranks[r] {
			pi := symbolToPiece[ch]
			if pi == NoPiece {
				if '1' <= ch && ch <= '8' {
					f += int(ch-'0') - 1
				} else {
					return fmt.Errorf("board: expected piece or digit, got %q", ch)
				}
			}
			if f >= 8 {
				return fmt.Errorf("board: rank %d too long", 8-r)
			}
			b.Put(RankFile(7-r, f), pi)
			f++
		}
		if f < 8 {
			return fmt.Errorf("board: rank %d too short", r+1)
		}
	}
	return nil
}

func formatPiecePlacement(b *Board) string {
	var s strings.Builder
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			pi := b.Get(RankFile(r, f))
			if pi == NoPiece {
				empty++
				continue
			}
			if empty != 0 {
				s.WriteString(digitStrings[empty])
				empty = 0
			}
			s.WriteString(pi.String())
		}
		if empty != 0 {
			s.WriteString(digitStrings[empty])
		}
		if r != 0 {
			s.WriteByte('/')
		}
	}
	return s.String()
}

func parseEnpassantSquare(s string, b *Board) error {
	if s == "-" {
		b.SetEnpassantSquare(SquareA1)
		return nil
	}
	sq, err := SquareFromString(s)
	if err != nil {
		return err
	}
	b.SetEnpassantSquare(sq)
	return nil
}

func formatEnpassantSquare(b *Board) string {
	if sq := b.EnpassantSquare(); sq != SquareA1 {
		return sq.String()
	}
	return "-"
}

func parseSideToMove(s string, b *Board) error {
	col, ok := symbolToColor[s]
	if !ok {
		return fmt.Errorf("board: invalid color %q", s)
	}
	b.SetSideToMove(col)
	return nil
}

func formatSideToMove(b *Board) string { return colorSymbol[b.SideToMove] }

func parseCastlingAbility(s string, b *Board) error {
	if s == "-" {
		b.SetCastlingAbility(NoCastle)
		return nil
	}
	ability := NoCastle
	for _, ch := range s {
		info, ok := symbolToCastle[ch]
		if !ok {
			return fmt.Errorf("board: invalid castling ability %q", s)
		}
		ability |= info.castle
		for i := 0; i < 2; i++ {
			if info.piece[i] != b.Get(info.square[i]) {
				return fmt.Errorf("board: castling rights %q inconsistent with piece placement", s)
			}
		}
	}
	b.SetCastlingAbility(ability)
	return nil
}

func formatCastlingAbility(b *Board) string { return b.CastlingAbility().String() }

// UCIToMove parses a move given in UCI coordinate notation, e.g. "a2a4" or
// "h7h8q" for promotion, resolving it against the board's current state.
func (b *Board) UCIToMove(s string) (Move, error) {
	if len(s) < 4 {
		return Move{}, fmt.Errorf("board: move %q too short", s)
	}
	from, err := SquareFromString(s[0:2])
	if err != nil {
		return Move{}, err
	}
	to, err := SquareFromString(s[2:4])
	if err != nil {
		return Move{}, err
	}

	moveType := Normal
	capture := b.Get(to)
	pi := b.Get(from)
	target := pi

	if pi.Figure() == Pawn && b.curr.enpassant != SquareA1 && to == b.curr.enpassant {
		moveType = Enpassant
		capture = ColorFigure(b.SideToMove.Other(), Pawn)
	}
	if pi == WhiteKing && from == SquareE1 && (to == SquareC1 || to == SquareG1) {
		moveType = Castling
	}
	if pi == BlackKing && from == SquareE8 && (to == SquareC8 || to == SquareG8) {
		moveType = Castling
	}
	if pi.Figure() == Pawn && (to.Rank() == 0 || to.Rank() == 7) {
		if len(s) < 5 {
			return Move{}, fmt.Errorf("board: promotion move %q missing promotion piece", s)
		}
		moveType = Promotion
		fig, ok := promotionFigure[rune(s[4])]
		if !ok {
			return Move{}, fmt.Errorf("board: invalid promotion piece %q", s[4])
		}
		target = ColorFigure(b.SideToMove, fig)
	}

	return Move{MoveType: moveType, From: from, To: to, Capture: capture, Target: target}, nil
}

var promotionFigure = map[rune]Figure{'n': Knight, 'b': Bishop, 'r': Rook, 'q': Queen}
