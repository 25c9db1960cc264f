package model

import "fmt"

// RecordSize is the length of a compact position record.
const RecordSize = 73

// Record is the compact position encoding:
//
//	0-63  squares, file-major and rank-ascending (see PieceCode)
//	64-65 en passant target file and rank, 0/0 when there is none
//	66-67 white kingside, queenside castling rights
//	68-69 black kingside, queenside castling rights
//	70    half-move clock
//	71    full-move counter
//	72    side to move, 0 white and 1 black
type Record [RecordSize]byte

const (
	recordEnPassantFile  = 64
	recordEnPassantRank  = 65
	recordWhiteKingside  = 66
	recordWhiteQueenside = 67
	recordBlackKingside  = 68
	recordBlackQueenside = 69
	recordHalfMove       = 70
	recordFullMove       = 71
	recordSideToMove     = 72
)

func RecordFromBytes(data []byte) (Record, error) {
	var r Record
	if len(data) != RecordSize {
		return r, fmt.Errorf("%w: %d bytes, want %d", ErrMalformedRecord, len(data), RecordSize)
	}
	copy(r[:], data)
	return r, nil
}

func (r Record) Bytes() []byte {
	out := make([]byte, RecordSize)
	copy(out, r[:])
	return out
}

func (r *Record) SetSquare(pos Position, pieceType PieceType, color Color) {
	r[(pos.File-1)*8+pos.Rank-1] = PieceCode(pieceType, color)
}

func (r *Record) SetEnPassant(target *Position) {
	if target == nil {
		r[recordEnPassantFile], r[recordEnPassantRank] = 0, 0
		return
	}
	r[recordEnPassantFile], r[recordEnPassantRank] = byte(target.File), byte(target.Rank)
}

func (r *Record) SetCastling(c CastlingRights) {
	r[recordWhiteKingside] = boolByte(c.WhiteKingside)
	r[recordWhiteQueenside] = boolByte(c.WhiteQueenside)
	r[recordBlackKingside] = boolByte(c.BlackKingside)
	r[recordBlackQueenside] = boolByte(c.BlackQueenside)
}

// SetClocks stores both counters. Values above 255 do not fit and wrap.
func (r *Record) SetClocks(halfMove, fullMove int) {
	r[recordHalfMove] = byte(halfMove)
	r[recordFullMove] = byte(fullMove)
}

func (r *Record) SetSideToMove(color Color) {
	r[recordSideToMove] = 0
	if color == Black {
		r[recordSideToMove] = 1
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func byteBool(b byte, field string) (bool, error) {
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("%w: %s flag is %d", ErrMalformedRecord, field, b)
}

// Record encodes the current position.
func (g *Game) Record() Record {
	var r Record
	squares := g.board.Encode()
	copy(r[:64], squares[:])
	r.SetEnPassant(g.enPassant)
	r.SetCastling(g.castling)
	r.SetClocks(g.halfMove, g.fullMove)
	r.SetSideToMove(g.sideToMove)
	return r
}

// FromRecord decodes a position. The history of the new game is empty.
func FromRecord(r Record) (*Game, error) {
	g := &Game{}
	if err := g.load(r); err != nil {
		return nil, err
	}
	return g, nil
}

// load replaces every field but the history with the decoded record. Nothing
// is changed when the record is rejected.
func (g *Game) load(r Record) error {
	var squares [64]byte
	copy(squares[:], r[:64])
	board, whiteKing, blackKing, err := DecodeBoard(squares)
	if err != nil {
		return err
	}

	var enPassant *Position
	if r[recordEnPassantFile] != 0 || r[recordEnPassantRank] != 0 {
		target := Position{File: int(r[recordEnPassantFile]), Rank: int(r[recordEnPassantRank])}
		if !target.Valid() {
			return fmt.Errorf("%w: en passant target %d/%d", ErrMalformedRecord, target.File, target.Rank)
		}
		enPassant = &target
	}

	var castling CastlingRights
	flags := []struct {
		index int
		name  string
		dst   *bool
	}{
		{recordWhiteKingside, "white kingside", &castling.WhiteKingside},
		{recordWhiteQueenside, "white queenside", &castling.WhiteQueenside},
		{recordBlackKingside, "black kingside", &castling.BlackKingside},
		{recordBlackQueenside, "black queenside", &castling.BlackQueenside},
	}
	for _, flag := range flags {
		if *flag.dst, err = byteBool(r[flag.index], flag.name); err != nil {
			return err
		}
	}

	black, err := byteBool(r[recordSideToMove], "side to move")
	if err != nil {
		return err
	}
	sideToMove := White
	if black {
		sideToMove = Black
	}

	g.board = board
	g.whiteKing = whiteKing
	g.blackKing = blackKing
	g.enPassant = enPassant
	g.castling = castling
	g.halfMove = int(r[recordHalfMove])
	g.fullMove = int(r[recordFullMove])
	g.sideToMove = sideToMove
	return nil
}
