package storage

import (
	"context"
	"github.com/aleph-zero/tinysql/engine"
	"github.com/aleph-zero/tinysql/service/metastore"
	"github.com/segmentio/parquet-go"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

var (
	table1 = metastore.NewTableMetadata("table1", "A", "B", "C")
	table2 = metastore.NewTableMetadata("table2", "D", "E")
)

func TestServiceProvider_LoadTable(t *testing.T) {
	svc, err := NewService(NewConfig(WithDirectory("../../testdata/tables")))
	require.NoError(t, err)

	rows, err := svc.LoadTable(context.Background(), table2)
	require.NoError(t, err)
	require.Equal(t, []engine.Tuple{
		engine.NewTuple(158, 11191),
		engine.NewTuple(773, 14421),
		engine.NewTuple(85, 5117),
	}, rows)

	rows, err = svc.LoadTable(context.Background(), table1)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	require.Equal(t, engine.NewTuple(-952, 311, 1318), rows[4])
}

func TestServiceProvider_LoadColumn(t *testing.T) {
	svc, err := NewService(NewConfig(WithDirectory("../../testdata/tables")))
	require.NoError(t, err)

	values, err := svc.LoadColumn(context.Background(), table2, "E")
	require.NoError(t, err)
	require.Equal(t, []engine.Value{engine.NewIntValue(11191), engine.NewIntValue(14421), engine.NewIntValue(5117)}, values)

	_, err = svc.LoadColumn(context.Background(), table2, "A")
	require.ErrorIs(t, err, metastore.Error{ErrorCode: metastore.NoSuchColumn})
}

func TestServiceProvider_CSVErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		code     ErrorCode
	}{
		{"quoted and padded", "\"1\", 2\n 3 ,\"-4\"\n", 0},
		{"empty file", "", 0},
		{"not an integer", "1,2\n3,x\n", InvalidRecord},
		{"float", "1,2.5\n", InvalidRecord},
		{"too few fields", "1,2\n3\n", InvalidRecord},
		{"too many fields", "1,2,3\n", InvalidRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "t.csv"), []byte(tt.contents), 0644))
			svc, err := NewService(NewConfig(WithDirectory(dir)))
			require.NoError(t, err)

			_, err = svc.LoadTable(context.Background(), metastore.NewTableMetadata("t", "X", "Y"))
			if tt.code == 0 {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, Error{ErrorCode: tt.code})
		})
	}
}

func TestServiceProvider_MissingTable(t *testing.T) {
	for _, format := range []Format{CSV, Parquet} {
		t.Run(string(format), func(t *testing.T) {
			svc, err := NewService(NewConfig(WithDirectory(t.TempDir()), WithFormat(format)))
			require.NoError(t, err)

			_, err = svc.LoadTable(context.Background(), table1)
			require.ErrorIs(t, err, Error{ErrorCode: MissingTable})
		})
	}

	_, err := NewService(NewConfig(WithFormat("xml")))
	require.Error(t, err)
}

func TestServiceProvider_Parquet(t *testing.T) {
	type row struct {
		D     int64  `parquet:"D"`
		E     int32  `parquet:"E"`
		Label string `parquet:"label"`
	}

	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "table2.parquet"))
	require.NoError(t, err)
	writer := parquet.NewGenericWriter[row](f)
	_, err = writer.Write([]row{{158, 11191, "a"}, {773, 14421, "b"}, {85, 5117, "c"}})
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	require.NoError(t, f.Close())

	svc, err := NewService(NewConfig(WithDirectory(dir), WithFormat(Parquet)))
	require.NoError(t, err)

	rows, err := svc.LoadTable(context.Background(), table2)
	require.NoError(t, err)
	require.Equal(t, []engine.Tuple{
		engine.NewTuple(158, 11191),
		engine.NewTuple(773, 14421),
		engine.NewTuple(85, 5117),
	}, rows)

	_, err = svc.LoadTable(context.Background(), metastore.NewTableMetadata("table2", "D", "label"))
	require.ErrorIs(t, err, Error{ErrorCode: InvalidRecord})
}
