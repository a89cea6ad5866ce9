package hce

import "corvid/board"

// isInsufficientForMate reports whether col alone cannot force mate: bare
// king, king+knight, or king+bishop.
func isInsufficientForMate(b *board.Board, col board.Color) bool {
	if b.ByPiece(col, board.Pawn) != 0 || b.ByPiece(col, board.Rook) != 0 || b.ByPiece(col, board.Queen) != 0 {
		return false
	}
	minors := b.ByPiece(col, board.Knight).Count() + b.ByPiece(col, board.Bishop).Count()
	return minors <= 1
}

// sameColorBishops reports whether both sides' sole bishops sit on the same
// square color, the classic dead-draw case even with extra material gone.
func sameColorBishops(b *board.Board) bool {
	wb := b.ByPiece(board.White, board.Bishop)
	bb := b.ByPiece(board.Black, board.Bishop)
	if wb.Count() != 1 || bb.Count() != 1 {
		return false
	}
	wSq, bSq := wb.AsSquare(), bb.AsSquare()
	wDark := (wSq.Rank()+wSq.File())%2 == 0
	bDark := (bSq.Rank()+bSq.File())%2 == 0
	return wDark == bDark
}

// CapDrawish caps score (White's perspective) at 0 from the side of each
// player that has insufficient material to force mate: a positive score
// becomes 0 when White is insufficient, a negative one when Black is. It
// also returns 0 when neither side has pawns, rooks or queens and each has a
// single bishop on the same square color, the K+B-vs-K+B case named
// explicitly in SPEC_FULL §C.1.
func CapDrawish(b *board.Board, score int32) int32 {
	if isInsufficientForMate(b, board.White) && score > 0 {
		score = 0
	}
	if isInsufficientForMate(b, board.Black) && score < 0 {
		score = 0
	}
	if b.ByPiece(board.White, board.Rook) == 0 && b.ByPiece(board.Black, board.Rook) == 0 &&
		b.ByPiece(board.White, board.Queen) == 0 && b.ByPiece(board.Black, board.Queen) == 0 &&
		b.ByPiece(board.White, board.Pawn) == 0 && b.ByPiece(board.Black, board.Pawn) == 0 &&
		sameColorBishops(b) {
		return 0
	}
	return score
}
