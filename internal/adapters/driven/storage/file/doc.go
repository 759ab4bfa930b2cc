// Package file persists the progress ledger as a single JSON document.
//
// The file holds {"version": 1, "processed_ids": [...]} with IDs sorted.
// Every save writes a temporary file next to the ledger and renames it into
// place, so a crash leaves either the old or the new ledger, never a torn one.
// The version field is optional on load for ledgers written by earlier tools.
package file
