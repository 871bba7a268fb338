// Package library persists the reader's catalogue, reading statistics and
// the last page viewed in each document.
//
// A Store keeps everything in memory and mirrors it to a single JSON file.
// Mutations return immediately; a background writer saves the latest state,
// coalescing bursts of changes into one write. Flush and Close wait for the
// file to catch up.
//
// Store implements the reading session's listener interface, so progress and
// reading time reported by an open document land in the statistics without
// further wiring.
package library
