package engine

// A handful of regression FENs carried over from the teacher's test
// fixtures (test_data.go, now removed): the standard perft stress
// positions plus a few small tactical/endgame scenes used by the search
// tests in this package. The teacher's companion game move-lists were
// dropped; they exercised notation/SAN concerns outside this package.

const fenKiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
const fenDuplain = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"

const fenMateInOne = "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"
const fenStalemate = "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"
const fenEnpassant = "4k3/8/8/8/3pP3/8/8/4K3 b - e3 0 1"
const fenUnderpromotion = "8/1P6/8/8/8/8/6k1/4K3 w - - 0 1"
