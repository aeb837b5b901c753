package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"

	"negociosverdes/pkg/model"

	_ "modernc.org/sqlite"
)

// TableName is the SQLite table the registry is written to.
const TableName = "negocios_verdes"

// integerColumns are declared INTEGER; everything else is TEXT.
var integerColumns = map[string]bool{
	model.ColumnYear: true,
}

// WriteSQLite replaces the file at path with a database holding t.
func WriteSQLite(ctx context.Context, path string, t *model.Table) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	cols := sqliteColumns(t.Columns)
	defs := make([]string, len(cols))
	quoted := make([]string, len(cols))
	for i, c := range cols {
		kind := "TEXT"
		if integerColumns[c] {
			kind = "INTEGER"
		}
		quoted[i] = quoteIdent(c)
		defs[i] = quoted[i] + " " + kind
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `CREATE TABLE `+quoteIdent(TableName)+` (`+strings.Join(defs, ", ")+`)`); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(cols)), ",")
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+quoteIdent(TableName)+` (`+strings.Join(quoted, ", ")+`) VALUES (`+placeholders+`)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	for i, r := range t.Rows {
		for j := range args {
			args[j] = nil
			if j < len(r) {
				args[j] = r[j].Any()
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// sqliteColumns makes column names unique, suffixing repeats with _2, _3 and so on.
func sqliteColumns(columns []string) []string {
	seen := make(map[string]int, len(columns))
	out := make([]string, len(columns))
	for i, c := range columns {
		if c == "" {
			c = "COLUMN_" + strconv.Itoa(i+1)
		}
		key := strings.ToLower(c)
		seen[key]++
		if n := seen[key]; n > 1 {
			c = c + "_" + strconv.Itoa(n)
		}
		out[i] = c
	}
	return out
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
