package metastore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const data = "../../testdata"

func TestServiceProvider_Open(t *testing.T) {
	tests := []struct {
		catalog string
	}{
		{"metadata.txt"},
		{"metastore/metastore.json"},
	}

	expected := []*TableMetadata{
		NewTableMetadata("table1", "A", "B", "C"),
		NewTableMetadata("table2", "D", "E"),
	}

	for _, tt := range tests {
		t.Run(tt.catalog, func(t *testing.T) {
			teardown, _, meta := setupSuite(t, filepath.Join(data, tt.catalog))
			defer teardown(t)

			if diff := cmp.Diff(expected, meta.GetTables()); diff != "" {
				t.Errorf("catalog does not match (-expected, +received):\n%s", diff)
			}

			tbl, err := meta.GetTable("table2")
			require.NoError(t, err)
			require.Equal(t, []string{"D", "E"}, tbl.Columns)

			_, err = meta.GetTable("table3")
			require.ErrorIs(t, err, Error{ErrorCode: NoSuchTable})
		})
	}
}

func TestServiceProvider_ResolveColumnOwner(t *testing.T) {
	teardown, _, meta := setupSuite(t, filepath.Join(data, "metadata.txt"))
	defer teardown(t)

	tests := []struct {
		column string
		owner  string
		err    error
	}{
		{"A", "table1", nil},
		{"C", "table1", nil},
		{"D", "table2", nil},
		{"E", "table2", nil},
		{"Z", "", Error{ErrorCode: NoSuchColumn}},
		{"a", "", Error{ErrorCode: NoSuchColumn}},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			owner, err := meta.ResolveColumnOwner(tt.column)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.owner, owner)
		})
	}
}

func TestServiceProvider_DuplicateColumn(t *testing.T) {
	dir := t.TempDir()
	src, err := os.ReadFile(filepath.Join(data, "metastore", "duplicate.txt"))
	require.NoError(t, err)
	path := filepath.Join(dir, "metadata.txt")
	require.NoError(t, os.WriteFile(path, src, 0644))

	meta := NewService(NewConfig(WithPath(path)))
	err = meta.Open()
	require.ErrorIs(t, err, Error{ErrorCode: ColumnExists})
}

func TestServiceProvider_CreateAndPersist(t *testing.T) {
	tests := []struct {
		catalog string
	}{
		{"metadata.txt"},
		{"metastore/metastore.json"},
	}

	for _, tt := range tests {
		t.Run(tt.catalog, func(t *testing.T) {
			teardown, path, meta := setupSuite(t, filepath.Join(data, tt.catalog))
			defer teardown(t)

			table := NewTableMetadata("table3", "F", "G")
			require.NoError(t, meta.CreateTable(context.Background(), table))

			err := meta.CreateTable(context.Background(), NewTableMetadata("table3", "H"))
			require.ErrorIs(t, err, Error{ErrorCode: TableExists})
			err = meta.CreateTable(context.Background(), NewTableMetadata("table4", "H", "A"))
			require.ErrorIs(t, err, Error{ErrorCode: ColumnExists})
			_, err = meta.GetTable("table4")
			require.ErrorIs(t, err, Error{ErrorCode: NoSuchTable})

			require.NoError(t, meta.Persist())

			// read newly persisted catalog into a new service
			meta2 := NewService(NewConfig(WithPath(path)))
			require.NoError(t, meta2.Open())
			if diff := cmp.Diff(meta.GetTables(), meta2.GetTables()); diff != "" {
				t.Errorf("catalog does not match (-expected, +received):\n%s", diff)
			}
			owner, err := meta2.ResolveColumnOwner("G")
			require.NoError(t, err)
			require.Equal(t, "table3", owner)
		})
	}
}

func TestTextFormat_Decode(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected []*TableMetadata
		err      bool
	}{
		{
			name: "padded",
			src:  "  <begin_table>\n\n  t1 \n A\n\tB\n<end_table>  \n",
			expected: []*TableMetadata{
				NewTableMetadata("t1", "A", "B"),
			},
		},
		{name: "unterminated", src: "<begin_table>\nt1\nA\n", err: true},
		{name: "stray column", src: "A\n", err: true},
		{name: "nested", src: "<begin_table>\nt1\n<begin_table>\n", err: true},
		{name: "empty", src: "", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables, err := textFormat{}.decode(strings.NewReader(tt.src))
			if tt.err {
				require.ErrorIs(t, err, Error{ErrorCode: MalformedCatalog})
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.expected, tables); diff != "" {
				t.Errorf("tables do not match (-expected, +received):\n%s", diff)
			}
		})
	}
}

func TestTextFormat_Encode(t *testing.T) {
	var buf bytes.Buffer
	tables := []*TableMetadata{NewTableMetadata("t1", "A", "B"), NewTableMetadata("t2", "C")}
	require.NoError(t, textFormat{}.encode(&buf, tables))
	require.Equal(t, "<begin_table>\nt1\nA\nB\n<end_table>\n<begin_table>\nt2\nC\n<end_table>\n", buf.String())
}

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Error{ErrorCode: NoSuchTable, Message: "table t does not exist"})
	require.True(t, errors.Is(err, Error{ErrorCode: NoSuchTable}))
	require.True(t, errors.Is(err, Error{Message: "table t does not exist"}))
	require.False(t, errors.Is(err, Error{ErrorCode: NoSuchColumn}))
}

func setupSuite(tb testing.TB, catalog string) (func(tb testing.TB), string, Service) {
	path, err := createTempCatalog(catalog)
	if err != nil {
		tb.Fatal(err)
	}

	ms := NewService(NewConfig(WithPath(path)))
	if err := ms.Open(); err != nil {
		tb.Fatal(err)
	}
	return func(tb testing.TB) { os.RemoveAll(filepath.Dir(path)) }, path, ms
}

func createTempCatalog(srcFile string) (string, error) {
	tempDir, err := os.MkdirTemp("", "metastore-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}

	src, err := os.Open(srcFile)
	if err != nil {
		os.RemoveAll(tempDir)
		return "", fmt.Errorf("failed to open source file: %w", err)
	}
	defer src.Close()

	destPath := filepath.Join(tempDir, filepath.Base(srcFile))
	dest, err := os.Create(destPath)
	if err != nil {
		os.RemoveAll(tempDir)
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dest.Close()

	if _, err = io.Copy(dest, src); err != nil {
		os.RemoveAll(tempDir)
		return "", fmt.Errorf("failed to copy data: %w", err)
	}
	return destPath, nil
}
