// Package table holds the in-memory model of the admin submissions table.
//
// A Table is what the exporter serialises and what the sorter reorders. It is
// produced either from a rendered HTML page (ParseHTML) or directly from
// stored submissions, and it can be written back out as HTML (RenderHTML).
//
// Cells carry visible text only. Rows shorter than the header are tolerated:
// Cell returns an empty string for any missing position.
package table
