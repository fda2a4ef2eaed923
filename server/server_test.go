package server

import (
	"encoding/json"
	"github.com/aleph-zero/tinysql/service/metastore"
	"github.com/aleph-zero/tinysql/service/query"
	"github.com/aleph-zero/tinysql/service/storage"
	"github.com/aleph-zero/tinysql/telemetry"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestNewRouter(t *testing.T) {
	metaSvc := metastore.NewService(metastore.NewConfig(metastore.WithPath("../testdata/metadata.txt")))
	require.NoError(t, metaSvc.Open())
	storageSvc, err := storage.NewService(storage.NewConfig(storage.WithDirectory("../testdata/tables")))
	require.NoError(t, err)

	logger := telemetry.NewLogger(serviceName, telemetry.LogConfig{Level: "error"})
	server := httptest.NewServer(NewRouter(logger, metaSvc, storageSvc, query.NewService(metaSvc, storageSvc)))
	defer server.Close()

	tests := []struct {
		path   string
		status int
	}{
		{"/heartbeat", http.StatusOK},
		{"/catalog", http.StatusOK},
		{"/catalog/table1/A", http.StatusOK},
		{"/sql?q=" + url.QueryEscape("SELECT count(*) FROM table1, table2;"), http.StatusOK},
		{"/sql?q=" + url.QueryEscape("SELECT count(*) FROM table1"), http.StatusBadRequest},
		{"/missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			res, err := server.Client().Get(server.URL + tt.path)
			require.NoError(t, err)
			defer res.Body.Close()
			require.Equal(t, tt.status, res.StatusCode)
		})
	}

	res, err := server.Client().Get(server.URL + "/sql?q=" + url.QueryEscape("SELECT count(*) FROM table1, table2;"))
	require.NoError(t, err)
	defer res.Body.Close()

	var body struct {
		Header []string  `json:"header"`
		Rows   [][]int64 `json:"rows"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Equal(t, []string{"count(*)"}, body.Header)
	require.Equal(t, [][]int64{{15}}, body.Rows)
}
