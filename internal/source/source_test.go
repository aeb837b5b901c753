package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"negociosverdes/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "\xEF\xBB\xBFAÑO,\"REGIÓN\nREGION\",DEPARTAMENTO\n" +
	"\"2,023\",pacifico,Valle del Cauca\n" +
	"2024,,\n" +
	"2022\n"

func TestParse(t *testing.T) {
	table, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"AÑO", "REGIÓN\nREGION", "DEPARTAMENTO"}, table.Columns)
	require.Equal(t, 3, table.Len())
	assert.Equal(t, model.String("2,023"), table.Get(0, "AÑO"))
	assert.True(t, table.Get(1, "DEPARTAMENTO").IsNull(), "empty cells are null")
	assert.True(t, table.Get(2, "DEPARTAMENTO").IsNull(), "short rows are padded")
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyTable)
}

func TestHTTPSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.csv" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(sample))
	}))
	defer server.Close()

	t.Run("ok", func(t *testing.T) {
		table, err := New(server.URL+"/data.csv", 0).Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, table.Len())
	})

	t.Run("bad status", func(t *testing.T) {
		_, err := New(server.URL+"/missing.csv", 0).Fetch(context.Background())
		assert.ErrorIs(t, err, ErrBadStatus)
	})
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "negocios.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	src := New(path, 0)
	assert.IsType(t, &FileSource{}, src)

	table, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	_, err = NewFile(filepath.Join(t.TempDir(), "absent.csv")).Fetch(context.Background())
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestStatic_ReturnsCopies(t *testing.T) {
	base := model.NewTable([]string{"A"})
	base.Append(model.Row{model.String("x")})

	src := NewStatic("memory", base)
	first, err := src.Fetch(context.Background())
	require.NoError(t, err)
	first.Set(0, "A", model.String("changed"))

	second, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.String("x"), second.Get(0, "A"))
}
