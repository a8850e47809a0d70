// Package resource loads the schema, choices and data documents that back an
// editor session, and moves data documents in and out of the host through
// picker, file writer and clipboard collaborators.
//
// Paths are resolved into sources: http and https references are fetched
// remotely, everything else is read from disk or from the configured fs.FS.
// Documents ending in .yaml or .yml are parsed as YAML; every other document
// is parsed as JSON with numbers preserved verbatim.
package resource
