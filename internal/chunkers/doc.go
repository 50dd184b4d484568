// Package chunkers provides per-format chunking strategies and the
// registry that dispatches document formats to them.
//
// Each strategy splits extracted text into overlapping windows suitable
// for embedding. Splitting prefers natural boundaries - sentences and
// lines for prose, headings for markup, function and scenario boundaries
// for code and BDD text - over raw character counts. New formats register
// their own strategy without touching the dispatch loop.
package chunkers
