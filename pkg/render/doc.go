// Package render produces the documents installed into the editor surface:
// the form document with its injected data block, a loading placeholder and
// a sanitised error document.
//
// The form template is located on disk through an ordered list of install
// layouts. Data is injected before </head>, else before the first <script>,
// else appended to the document.
package render
