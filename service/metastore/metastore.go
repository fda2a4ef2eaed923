package metastore

import (
	"context"
	"fmt"
	"github.com/aleph-zero/tinysql/engine"
	"os"
	"slices"
	"sync"
)

// Service is the catalog: an ordered registry of tables and their ordered columns,
// plus the reverse index from a column to its owning table. Column names are unique
// across the whole catalog.
type Service interface {
	Open() error
	Persist() error
	CreateTable(ctx context.Context, table *TableMetadata) error
	GetTable(name string) (*TableMetadata, error)
	GetTables() []*TableMetadata
	ResolveColumnOwner(column string) (string, error)
}

type ServiceProvider struct {
	filestore *filestore
}

func NewService(config *Config) Service {
	return &ServiceProvider{
		filestore: newFileStore(config.Path),
	}
}

type filestore struct {
	lock    sync.RWMutex
	path    string
	Tables  []*TableMetadata `json:"tables"`
	symbols *SymbolTable
}

func newFileStore(path string) *filestore {
	return &filestore{
		path:    path,
		symbols: NewSymbolTable(),
	}
}

func (s *ServiceProvider) Open() error {
	s.filestore.lock.Lock()
	defer s.filestore.lock.Unlock()

	f, err := os.Open(s.filestore.path)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	tables, err := formatOf(s.filestore.path).decode(f)
	if err != nil {
		return fmt.Errorf("reading catalog %s: %w", s.filestore.path, err)
	}

	symbols := NewSymbolTable()
	for _, table := range tables {
		if err := symbols.Add(table); err != nil {
			return err
		}
	}

	s.filestore.Tables = tables
	s.filestore.symbols = symbols
	return nil
}

func (s *ServiceProvider) Persist() error {
	s.filestore.lock.RLock()
	defer s.filestore.lock.RUnlock()

	f, err := os.Create(s.filestore.path)
	if err != nil {
		return fmt.Errorf("persisting catalog: %w", err)
	}
	defer f.Close()

	if err = formatOf(s.filestore.path).encode(f, s.filestore.Tables); err != nil {
		return fmt.Errorf("persisting catalog: %w", err)
	}
	return nil
}

func (s *ServiceProvider) CreateTable(ctx context.Context, table *TableMetadata) error {
	s.filestore.lock.Lock()
	defer s.filestore.lock.Unlock()

	if err := s.filestore.symbols.Add(table); err != nil {
		engine.Logger(ctx).Error("Failed to create table", "table", table.TableName, "error", err)
		return err
	}
	s.filestore.Tables = append(s.filestore.Tables, table)
	return nil
}

func (s *ServiceProvider) GetTable(name string) (*TableMetadata, error) {
	s.filestore.lock.RLock()
	defer s.filestore.lock.RUnlock()

	i := slices.IndexFunc(s.filestore.Tables, func(t *TableMetadata) bool { return t.TableName == name })
	if i < 0 {
		return nil, Error{
			ErrorCode: NoSuchTable,
			Message:   fmt.Sprintf("table %s does not exist", name),
		}
	}
	return s.filestore.Tables[i], nil
}

// GetTables returns the tables in declaration order.
func (s *ServiceProvider) GetTables() []*TableMetadata {
	s.filestore.lock.RLock()
	defer s.filestore.lock.RUnlock()
	return slices.Clone(s.filestore.Tables)
}

func (s *ServiceProvider) ResolveColumnOwner(column string) (string, error) {
	s.filestore.lock.RLock()
	defer s.filestore.lock.RUnlock()

	entry, ok := s.filestore.symbols.ColumnScopeSymbols[column]
	if !ok {
		return "", Error{
			ErrorCode: NoSuchColumn,
			Message:   fmt.Sprintf("column %s does not exist", column),
		}
	}
	return entry.TableName, nil
}

func NewTableMetadata(name string, columns ...string) *TableMetadata {
	return &TableMetadata{
		TableName: name,
		Columns:   columns,
	}
}

type TableMetadata struct {
	TableName string   `json:"table"`
	Columns   []string `json:"columns"`
}

// Schema returns the table's columns in declaration order.
func (t *TableMetadata) Schema() engine.Schema {
	return slices.Clone(engine.Schema(t.Columns))
}

/* *** Metastore  Config *** */

type Config struct {
	Path string
}

type Option func(*Config)

func NewConfig(options ...Option) *Config {
	cfg := &Config{Path: "metadata.txt"}
	for _, option := range options {
		option(cfg)
	}
	return cfg
}

func WithPath(path string) Option {
	return func(config *Config) {
		config.Path = path
	}
}

/* *** Errors *** */

type ErrorCode int

const (
	TableExists ErrorCode = iota + 1
	NoSuchTable
	ColumnExists
	NoSuchColumn
	MalformedCatalog
)

type Error struct {
	ErrorCode ErrorCode
	Message   string
	Err       error
}

func (e Error) Error() string {
	return e.Message
}

func (e Error) Unwrap() error {
	return e.Err
}

func (e Error) Is(target error) bool {
	if other, ok := target.(Error); ok {
		ignoreErrorCode := other.ErrorCode == 0
		ignoreMessage := other.Message == ""
		matchErrorCode := other.ErrorCode == e.ErrorCode
		matchMessage := other.Message == e.Message

		return matchMessage && matchErrorCode || matchMessage && ignoreErrorCode || ignoreMessage && matchErrorCode
	}
	return false
}

func (e Error) Kind() string {
	return "CatalogError"
}
