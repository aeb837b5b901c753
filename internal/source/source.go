// Package source loads the raw green business registry as a table.
package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"negociosverdes/pkg/client"
	"negociosverdes/pkg/model"
)

var (
	ErrEmptyTable       = errors.New("source has no header row")
	ErrBadStatus        = errors.New("unexpected response status")
	ErrUnreadable       = errors.New("source is not valid CSV")
	utf8BOM             = []byte{0xEF, 0xBB, 0xBF}
	defaultFetchTimeout = 30 * time.Second
)

// Source yields a fresh raw table on every Fetch. Callers own the returned table.
type Source interface {
	Fetch(ctx context.Context) (*model.Table, error)
	Name() string
}

// New picks an HTTP source for http(s) locations and a file source for anything else.
func New(location string, timeout time.Duration) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTP(location, timeout)
	}
	return NewFile(location)
}

// Parse reads a comma-separated table with a header row. Empty cells become null and
// short or long rows are padded or cut to the header width.
func Parse(r io.Reader) (*model.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], string(utf8BOM))
	}

	table := model.NewTable(header)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
		}
		row := make(model.Row, len(record))
		for i, cell := range record {
			if cell != "" {
				row[i] = model.String(cell)
			}
		}
		table.Append(row)
	}
	return table, nil
}

type HTTPSource struct {
	url    string
	client *client.HttpClient
}

func NewHTTP(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &HTTPSource{
		url:    url,
		client: client.NewHttpClientWithTimeout(url, timeout),
	}
}

func (s *HTTPSource) Name() string {
	return s.url
}

func (s *HTTPSource) Fetch(ctx context.Context) (*model.Table, error) {
	resp, err := s.client.GET(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", s.url, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrBadStatus, s.url, resp.StatusCode)
	}
	return Parse(bytes.NewReader(resp.Body))
}

type FileSource struct {
	path string
}

func NewFile(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string {
	return s.path
}

func (s *FileSource) Fetch(ctx context.Context) (*model.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Static serves copies of an in-memory table.
type Static struct {
	name  string
	table *model.Table
}

func NewStatic(name string, table *model.Table) *Static {
	return &Static{name: name, table: table}
}

func (s *Static) Name() string {
	return s.name
}

func (s *Static) Fetch(ctx context.Context) (*model.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.table == nil {
		return nil, ErrEmptyTable
	}
	return s.table.Clone(), nil
}
