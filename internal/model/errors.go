package model

import "errors"

// Contract violations. None of them can happen for a caller that only plays
// moves taken from LegalMoves and decodes well-formed records.
var (
	ErrIllegalMove     = errors.New("illegal move")
	ErrMissingKing     = errors.New("missing king")
	ErrEmptyHistory    = errors.New("empty history")
	ErrMalformedRecord = errors.New("malformed record")
	ErrEmptySquare     = errors.New("empty square")
)
