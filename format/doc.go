// Package format enumerates the data encodings understood by the library's
// data parsers.
package format
