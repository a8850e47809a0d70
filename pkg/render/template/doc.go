// Package template defines the engine seam the editor renderer relies on and
// the script-safe JSON primitive shared by every template that embeds data.
package template
