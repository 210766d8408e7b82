// Package exporter turns tables and submission listings into downloadable files.
//
// This package contains three main components:
//
// EncodeCSV / WriteDownload: the admin table export. Header labels are joined
// as-is, every data cell is quote-wrapped with interior quotes doubled, and
// the result is served as whatsflow_submissions.csv.
//
// CSVWriter: RFC 4180 file writing through encoding/csv with an optional
// UTF-8 BOM for Excel compatibility, used for server-side submission exports.
//
// ExcelWriter: xlsx workbook generation backed by excelize.
//
// Example usage:
//
//	// Serve the live admin table as a download
//	exporter.WriteDownload(w, tbl)
//
//	// Write all submissions to the exports directory
//	csvWriter := exporter.NewCSVWriter("/var/lib/whatsflow/exports")
//	_, err := csvWriter.WriteSimpleCSV("submissions.csv", headers, records)
package exporter
