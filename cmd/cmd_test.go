package cmd

import (
	"bytes"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func TestQueryCommand(t *testing.T) {
	tests := []struct {
		args     []string
		expected string
	}{
		{
			[]string{"query", "SELECT A, D FROM table1, table2 WHERE B = D ORDER BY A;"},
			"table1.A,table2.D\n640,773\n775,85\n922,158\n",
		},
		{
			[]string{"query", "--output.format", "json", "SELECT count(*) FROM table2;"},
			"[\n  {\n    \"count(*)\": 3\n  }\n]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.args[len(tt.args)-1], func(t *testing.T) {
			out := run(t, append(tt.args, "--catalog.path", "../testdata/metadata.txt", "--storage.dir", "../testdata/tables")...)
			require.Equal(t, tt.expected, out)
		})
	}
}

func TestCatalogCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tables":[{"table":"table1","columns":["A","B"]}]}`), 0644))

	run(t, "catalog", "add", "table2", "C", "D", "--catalog.path", path)
	out := run(t, "catalog", "--catalog.path", path)
	require.Equal(t, "table1: A, B\ntable2: C, D\n", out)
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}
