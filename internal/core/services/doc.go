// Package services implements the core business logic as driving-port
// implementations over the driven ports.
//
// Services are constructed with their driven dependencies and hold no
// adapter-specific knowledge: the ingest pipeline chunks, embeds and
// indexes uploaded documents; the retriever and assembler turn a query
// into bounded prompt context; the generation service grounds chat and
// test-case completions in that context; the execution service runs
// generated scripts through the sandbox; the watcher keeps the registry
// in sync with a documents directory.
package services
