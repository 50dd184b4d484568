// Package bruteforce provides an exact, in-memory implementation of the
// VectorIndex driven port.
//
// Every query scans all stored entries and ranks them by cosine
// similarity. Embeddings are normalised once at insert time so a query
// reduces to a dot product per entry. Exact scan keeps recall at 100%
// and stays fast enough for corpus sizes in the tens of thousands of
// chunks; the index is rebuilt from the document store at startup.
package bruteforce
