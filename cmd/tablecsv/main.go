// Command tablecsv extracts the admin table from a saved HTML page and
// writes it as CSV. Sorting by a header label may be applied first; each
// repeat of the same label flips its direction.
//
//	tablecsv [-class admin-table] [-sort Label]... [-o out.csv] [page.html]
//
// A page without the table produces no output and exits 0.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"whatsflow/internal/exporter"
	"whatsflow/internal/infrastructure"
	"whatsflow/internal/sorter"
	"whatsflow/internal/table"
	"whatsflow/internal/validation"
)

// labelList collects repeated -sort flags.
type labelList []string

func (l *labelList) String() string { return strings.Join(*l, ",") }

func (l *labelList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	logger := infrastructure.NewLogger(os.Stderr, "warn")
	if err := run(os.Args[1:], os.Stdin, os.Stdout, logger); err != nil {
		fmt.Fprintf(os.Stderr, "tablecsv: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	fs := flag.NewFlagSet("tablecsv", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var sorts labelList
	class := fs.String("class", table.DefaultClass, "CSS class of the table to extract")
	out := fs.String("o", "", "output file (defaults to stdout)")
	fs.Var(&sorts, "sort", "header label to sort by; repeat to toggle")
	if err := fs.Parse(args); err != nil {
		return err
	}

	files := validation.NewFileValidator(logger)
	if *out != "" {
		if err := files.ValidateOutputFile(*out); err != nil {
			return err
		}
	}

	in := stdin
	if fs.NArg() > 0 && fs.Arg(0) != "-" {
		if err := files.ValidateHTMLFile(fs.Arg(0)); err != nil {
			return err
		}
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			return fmt.Errorf("failed to open page: %w", err)
		}
		defer f.Close()
		in = f
	}

	t, err := table.ParseHTML(in, *class)
	if errors.Is(err, table.ErrTableNotFound) {
		logger.Debug("No table found", slog.String("class", *class))
		return nil
	}
	if err != nil {
		return err
	}

	ctrl := sorter.NewController()
	for _, label := range sorts {
		h, ok := t.HeaderByLabel(label)
		if !ok {
			logger.Warn("Ignoring unknown sort header", slog.String("label", label))
			continue
		}
		if _, err := ctrl.Sort(t, h.ID); err != nil {
			return err
		}
	}

	body := exporter.EncodeCSV(t)
	if *out == "" {
		_, err := io.WriteString(stdout, body)
		return err
	}
	if err := os.WriteFile(*out, []byte(body), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", *out, err)
	}
	logger.Info("Table exported",
		slog.String("file", *out),
		slog.Int("rows", len(t.Rows)))
	return nil
}
