// Package board models go board positions and vertex notation.
//
// It provides the Board position type, the vertex string codec used by
// GTP commands (column letters skip "I"), and a parser for the textual
// board dumps returned by an engine's showboard command.
package board
