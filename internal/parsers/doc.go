// Package parsers provides document parser implementations and the
// registry that selects one per file extension.
//
// Parsers are the upstream producers of raw text blocks: each block
// carries page/paragraph provenance that survives chunking and ends up
// in citations. Core services never touch binary formats directly.
package parsers
