// Package fixture runs the triangle classifier against fixture files.
//
// A fixture file holds one case per line. Tokens are separated by
// whitespace; all but the last two tokens are the CLI arguments and the last
// two, joined by a single space, are the expected label:
//
//	3 4 5 simple triangle
//	2 2 2 equilateral triangle
//	1 2 3 not triangle
//	abc 4 5 unknown error
//
// Blank lines are skipped. A line with fewer than two tokens is a ParseError.
//
// The Harness runs every case through a Runner and reports "success" or
// "error" per case, in file order. DirectRunner calls the CLI wrapper
// in-process; ExecRunner spawns a built binary for black-box runs.
package fixture
