// see.go implements static exchange evaluation: the swap algorithm that
// answers "what is this square worth after every attacker and defender has
// taken their turn", used to order captures and to prune losing ones.

package engine

import "corvid/board"

// seeBonus are the figure values used only inside SEE; they approximate the
// midgame material bonus but are a fixed, separate scale from eval/hce's
// tuned weights.
var seeBonus = [board.FigureArraySize]int32{0, 100, 357, 377, 712, 1253, 20000}

func seeScore(m board.Move) int32 {
	s := seeBonus[m.Capture.Figure()]
	if m.MoveType == board.Promotion {
		s -= seeBonus[board.Pawn]
		s += seeBonus[m.Target.Figure()]
	}
	return s
}

// seeSign reports whether see(b, m) < 0, short-circuiting the common case
// where the moving figure is worth no more than what it captures.
func seeSign(b *board.Board, m board.Move) bool {
	if m.Piece().Figure() <= m.Capture.Figure() {
		return false
	}
	return see(b, m) < 0
}

// see returns the static exchange evaluation of playing m on b, which must
// still be in the pre-move position. The swap algorithm replays the capture
// sequence on sq figure-by-figure, cheapest attacker first, and backs up the
// best score each side could force by choosing whether to continue the
// exchange.
func see(b *board.Board, m board.Move) int32 {
	us := b.SideToMove
	sq := m.To
	bb := sq.Bitboard()
	target := m.Target
	bb27 := bb &^ (board.RankBb(0) | board.RankBb(7))
	bb18 := bb & (board.RankBb(0) | board.RankBb(7))

	var occ [board.ColorArraySize]board.Bitboard
	occ[board.White] = b.ByColor[board.White]
	occ[board.Black] = b.ByColor[board.Black]

	// Occupancy as if m were already played.
	occ[us] &^= m.From.Bitboard()
	occ[us] |= m.To.Bitboard()
	occ[us.Other()] &^= m.CaptureSquare().Bitboard()
	us = us.Other()

	all := occ[board.White] | occ[board.Black]

	score := seeScore(m)
	gain := make([]int32, 1, 16)
	gain[0] = score

	for score >= 0 {
		var fig board.Figure
		var att board.Bitboard
		var pawn, bishop, rook board.Bitboard

		ours := occ[us]
		mt := board.Normal

		pawn = board.Backward(us, board.West(bb27)|board.East(bb27))
		if att = pawn & ours & b.ByFigure[board.Pawn]; att != 0 {
			fig = board.Pawn
			goto makeMove
		}

		if att = board.KnightAttacks(sq) & ours & b.ByFigure[board.Knight]; att != 0 {
			fig = board.Knight
			goto makeMove
		}

		if board.SuperAttacks(sq)&ours == 0 {
			// No other figure can reach sq; give up early.
			break
		}

		bishop = board.BishopAttacks(sq, all)
		if att = bishop & ours & b.ByFigure[board.Bishop]; att != 0 {
			fig = board.Bishop
			goto makeMove
		}

		rook = board.RookAttacks(sq, all)
		if att = rook & ours & b.ByFigure[board.Rook]; att != 0 {
			fig = board.Rook
			goto makeMove
		}

		// Pawn promotions are treated as queens minus the pawn.
		pawn = board.Backward(us, board.West(bb18)|board.East(bb18))
		if att = pawn & ours & b.ByFigure[board.Pawn]; att != 0 {
			fig, mt = board.Queen, board.Promotion
			goto makeMove
		}

		if att = (rook | bishop) & ours & b.ByFigure[board.Queen]; att != 0 {
			fig = board.Queen
			goto makeMove
		}

		if att = board.KingAttacks(sq) & ours & b.ByFigure[board.King]; att != 0 {
			fig = board.King
			goto makeMove
		}

		break

	makeMove:
		from := att.LSB()
		attacker := board.ColorFigure(us, fig)
		next := board.Move{MoveType: mt, From: from.AsSquare(), To: sq, Capture: target, Target: attacker}
		target = attacker

		score = seeScore(next) - score
		gain = append(gain, score)

		occ[us] = occ[us] &^ from
		all = all &^ from

		us = us.Other()
	}

	for i := len(gain) - 2; i >= 0; i-- {
		if -gain[i+1] < gain[i] {
			gain[i] = -gain[i+1]
		}
	}
	return gain[0]
}
