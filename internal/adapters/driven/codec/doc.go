// Package codec implements the instance text format shared with existing
// book-scanning corpora. Output is bit-exact: single spaces between numbers
// and a trailing newline on every line.
package codec
