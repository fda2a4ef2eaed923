package api

import (
	"errors"
	"github.com/aleph-zero/tinysql/engine"
	"github.com/aleph-zero/tinysql/service/metastore"
	"github.com/aleph-zero/tinysql/service/query"
	"github.com/aleph-zero/tinysql/service/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"net/http"
	"strings"
)

/* *** Query API *** */

type QueryHandler struct {
	service query.Service
}

func NewQueryHandler(svc query.Service) QueryHandler {
	return QueryHandler{service: svc}
}

func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		render.Render(w, r, ErrInvalidRequest(errors.New("missing query parameter 'q'")))
		return
	}

	result, err := h.service.Execute(r.Context(), q)
	if err != nil {
		render.Render(w, r, ErrQuery(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.Render(w, r, &QueryResponse{result})
}

type QueryResponse struct {
	*query.QueryResult
}

func (q *QueryResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

/* *** Catalog API *** */

type CatalogHandler struct {
	metaSvc    metastore.Service
	storageSvc storage.Service
}

func NewCatalogHandler(metaSvc metastore.Service, storageSvc storage.Service) CatalogHandler {
	return CatalogHandler{metaSvc: metaSvc, storageSvc: storageSvc}
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.Render(w, r, &CatalogResponse{Tables: h.metaSvc.GetTables()})
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	data := &CreateTableRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	if err := h.metaSvc.CreateTable(r.Context(), data.TableMetadata); err != nil {
		if errors.Is(err, metastore.Error{ErrorCode: metastore.TableExists}) ||
			errors.Is(err, metastore.Error{ErrorCode: metastore.ColumnExists}) {
			render.Render(w, r, ErrConflict(err))
			return
		}
		render.Render(w, r, ErrInternalServerError(err))
		return
	}

	if err := h.metaSvc.Persist(); err != nil {
		render.Render(w, r, ErrInternalServerError(err))
		return
	}

	render.Status(r, http.StatusCreated)
	render.Render(w, r, &CreateTableResponse{data.TableMetadata})
}

func (h *CatalogHandler) Column(w http.ResponseWriter, r *http.Request) {
	table, err := h.metaSvc.GetTable(chi.URLParam(r, "table"))
	if err != nil {
		render.Render(w, r, ErrQuery(err))
		return
	}

	column := chi.URLParam(r, "column")
	values, err := h.storageSvc.LoadColumn(r.Context(), table, column)
	if err != nil {
		render.Render(w, r, ErrQuery(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.Render(w, r, &ColumnResponse{Table: table.TableName, Column: column, Values: values})
}

type CatalogResponse struct {
	Tables []*metastore.TableMetadata `json:"tables"`
}

func (c *CatalogResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type CreateTableRequest struct {
	*metastore.TableMetadata
}

func (c *CreateTableRequest) Bind(r *http.Request) error {
	if c.TableMetadata == nil || c.TableName == "" {
		return errors.New("missing required table definition")
	}
	if len(c.Columns) == 0 {
		return errors.New("table definition has no columns")
	}
	return nil
}

type CreateTableResponse struct {
	*metastore.TableMetadata
}

func (c *CreateTableResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type ColumnResponse struct {
	Table  string         `json:"table"`
	Column string         `json:"column"`
	Values []engine.Value `json:"values"`
}

func (c *ColumnResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
