// Package editor defines the configuration value that tells the editor which
// schema, choices and data documents to load.
package editor
