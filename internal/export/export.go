// Package export writes the full cleaned table as CSV, XLSX or SQLite.
package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"negociosverdes/pkg/model"
)

type Format string

const (
	CSV    Format = "csv"
	XLSX   Format = "xlsx"
	SQLite Format = "sqlite"

	// BaseName is the file name, without extension, downloads are offered under.
	BaseName = "negocios_verdes_normalizados"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return CSV, nil
	case "xlsx", "excel":
		return XLSX, nil
	case "sqlite", "db":
		return SQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatForPath infers the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return CSV, nil
	case ".xlsx":
		return XLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
	}
}

func (f Format) ContentType() string {
	switch f {
	case CSV:
		return "text/csv; charset=utf-8"
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case SQLite:
		return "application/vnd.sqlite3"
	default:
		return "application/octet-stream"
	}
}

func (f Format) Filename() string {
	if f == SQLite {
		return BaseName + ".db"
	}
	return BaseName + "." + string(f)
}

// Write streams t to w. SQLite is staged through a temporary file.
func Write(ctx context.Context, w io.Writer, f Format, t *model.Table) error {
	switch f {
	case CSV:
		return WriteCSV(w, t)
	case XLSX:
		return WriteXLSX(w, t)
	case SQLite:
		return streamSQLite(ctx, w, t)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// WriteFile writes t to path in the format its extension names.
func WriteFile(ctx context.Context, path string, t *model.Table) error {
	f, err := FormatForPath(path)
	if err != nil {
		return err
	}
	if f == SQLite {
		return WriteSQLite(ctx, path, t)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(ctx, out, f, t); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// WriteCSV writes a header row and one line per record. Null cells are empty.
func WriteCSV(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for j := range record {
			record[j] = ""
			if j < len(row) {
				record[j] = row[j].Text()
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func streamSQLite(ctx context.Context, w io.Writer, t *model.Table) error {
	dir, err := os.MkdirTemp("", "negocios-verdes-export-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, SQLite.Filename())
	if err := WriteSQLite(ctx, path, t); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
