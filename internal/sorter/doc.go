// Package sorter implements click-to-sort for table columns.
//
// A Controller keeps one ascending flag per header identity. Each Sort call
// flips the flag for the clicked header and stably reorders the table body
// by that column, so the first click sorts ascending and the second
// descending. Values are compared by Compare: numbers numerically, text with
// locale-aware collation, numbers ahead of text.
package sorter
