package exporter

import (
	"net/http"
	"strconv"
	"strings"

	"whatsflow/internal/table"
)

const (
	// DownloadFilename is the name offered for the admin table export.
	DownloadFilename = "whatsflow_submissions.csv"
	// CSVContentType is the MIME type of the admin table export.
	CSVContentType = "text/csv"
)

// EncodeCSV serialises t. The header line joins labels unescaped; every data
// cell is wrapped in double quotes with interior quotes doubled. Lines are
// separated by "\n" with no trailing newline. Short rows are padded and long
// rows clamped so each data line has one field per header.
func EncodeCSV(t *table.Table) string {
	if t == nil {
		return ""
	}

	lines := make([]string, 0, len(t.Rows)+1)
	lines = append(lines, strings.Join(t.Labels(), ","))

	fields := make([]string, len(t.Headers))
	for _, row := range t.Rows {
		for col := range t.Headers {
			fields[col] = quoteField(table.CellAt(row, col))
		}
		lines = append(lines, strings.Join(fields, ","))
	}

	return strings.Join(lines, "\n")
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteDownload serves t as a CSV attachment. A nil table writes
// 204 No Content and nothing else.
func WriteDownload(w http.ResponseWriter, t *table.Table) error {
	if t == nil {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}

	return ServeCSV(w, EncodeCSV(t))
}

// ServeCSV writes an already encoded table CSV as the download.
func ServeCSV(w http.ResponseWriter, body string) error {
	SetAttachmentHeaders(w, CSVContentType, DownloadFilename)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, err := w.Write([]byte(body))
	return err
}

// SetAttachmentHeaders marks a response as a file download.
func SetAttachmentHeaders(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Cache-Control", "no-store")
}
