package model

import "slices"

// Column names of the green business registry after header repair.
const (
	ColumnYear        = "AÑO"
	ColumnRegion      = "REGIÓN"
	ColumnDepartment  = "DEPARTAMENTO"
	ColumnSector      = "SECTOR"
	ColumnSubsector   = "SUBSECTOR"
	ColumnCategory    = "CATEGORÍA"
	ColumnDescription = "DESCRIPCIÓN"
	ColumnAuthority   = "AUTORIDAD AMBIENTAL"
	ColumnProduct     = "PRODUCTO PRINCIPAL"

	ColumnAlignmentCategories = "RELACIÓN BASURA CERO"
	ColumnAligned             = "BASURA 0"
)

const (
	AlignedYes = "Sí"
	AlignedNo  = "No"
)

type Row []Value

// Table is a column-ordered, nullable string/int table. Rows are positional: Rows[i][j]
// belongs to Columns[j]. When two columns share a name the first one wins on lookup.
// Change the header through SetColumns or AddColumn so the lookup index stays current.
type Table struct {
	Columns []string
	Rows    []Row

	index map[string]int
}

func NewTable(columns []string) *Table {
	t := &Table{Columns: slices.Clone(columns)}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, ok := t.index[c]; !ok {
			t.index[c] = i
		}
	}
}

func (t *Table) Len() int {
	return len(t.Rows)
}

func (t *Table) Has(column string) bool {
	_, ok := t.ColumnIndex(column)
	return ok
}

func (t *Table) HasAll(columns ...string) bool {
	for _, c := range columns {
		if !t.Has(c) {
			return false
		}
	}
	return true
}

func (t *Table) ColumnIndex(column string) (int, bool) {
	if t.index == nil {
		t.reindex()
	}
	i, ok := t.index[column]
	return i, ok
}

// SetColumns replaces the header row. Row widths are not touched.
func (t *Table) SetColumns(columns []string) {
	t.Columns = columns
	t.reindex()
}

// AddColumn appends a column filled with nulls, or returns the existing index.
func (t *Table) AddColumn(column string) int {
	if i, ok := t.ColumnIndex(column); ok {
		return i
	}
	t.Columns = append(t.Columns, column)
	t.reindex()
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], Null())
	}
	return len(t.Columns) - 1
}

// Append adds a row, padding or truncating it to the table width.
func (t *Table) Append(row Row) {
	width := len(t.Columns)
	switch {
	case len(row) < width:
		padded := make(Row, width)
		copy(padded, row)
		row = padded
	case len(row) > width:
		row = row[:width]
	}
	t.Rows = append(t.Rows, row)
}

// Get returns the cell of row i in column, or null when the column is absent.
func (t *Table) Get(i int, column string) Value {
	j, ok := t.ColumnIndex(column)
	if !ok || i < 0 || i >= len(t.Rows) || j >= len(t.Rows[i]) {
		return Null()
	}
	return t.Rows[i][j]
}

func (t *Table) Set(i int, column string, v Value) bool {
	j, ok := t.ColumnIndex(column)
	if !ok || i < 0 || i >= len(t.Rows) || j >= len(t.Rows[i]) {
		return false
	}
	t.Rows[i][j] = v
	return true
}

// Column returns a copy of every cell of a column.
func (t *Table) Column(column string) []Value {
	j, ok := t.ColumnIndex(column)
	if !ok {
		return nil
	}
	out := make([]Value, len(t.Rows))
	for i, r := range t.Rows {
		if j < len(r) {
			out[i] = r[j]
		}
	}
	return out
}

// Clone deep-copies the table so that callers can transform it without aliasing.
func (t *Table) Clone() *Table {
	c := NewTable(t.Columns)
	c.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		c.Rows[i] = slices.Clone(r)
	}
	return c
}

// Filter returns a new table sharing the column set and holding copies of the rows
// for which keep reports true.
func (t *Table) Filter(keep func(i int) bool) *Table {
	out := NewTable(t.Columns)
	for i, r := range t.Rows {
		if keep(i) {
			out.Rows = append(out.Rows, slices.Clone(r))
		}
	}
	return out
}

// Slice returns rows [offset, offset+limit) as a new table.
func (t *Table) Slice(offset, limit int) *Table {
	out := NewTable(t.Columns)
	if offset < 0 {
		offset = 0
	}
	if offset >= len(t.Rows) || limit <= 0 {
		return out
	}
	end := min(offset+limit, len(t.Rows))
	for _, r := range t.Rows[offset:end] {
		out.Rows = append(out.Rows, slices.Clone(r))
	}
	return out
}

// Records converts rows to column-keyed maps, the shape served to the presentation layer.
func (t *Table) Records() []map[string]Value {
	out := make([]map[string]Value, 0, len(t.Rows))
	for i := range t.Rows {
		rec := make(map[string]Value, len(t.Columns))
		for _, c := range t.Columns {
			if _, dup := rec[c]; dup {
				continue
			}
			rec[c] = t.Get(i, c)
		}
		out = append(out, rec)
	}
	return out
}
