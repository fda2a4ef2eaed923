package storage

import (
	"context"
	"errors"
	"fmt"
	"github.com/aleph-zero/tinysql/engine"
	"github.com/aleph-zero/tinysql/service/metastore"
	"github.com/aleph-zero/tinysql/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"io/fs"
	"path/filepath"
	"slices"
)

// Service is the row source: every table is a file of integer records, one record
// per row, one field per catalog column.
type Service interface {
	LoadTable(ctx context.Context, table *metastore.TableMetadata) ([]engine.Tuple, error)
	LoadColumn(ctx context.Context, table *metastore.TableMetadata, column string) ([]engine.Value, error)
}

type rowReader interface {
	extension() string
	read(path string, columns []string) ([]engine.Tuple, error)
}

type ServiceProvider struct {
	directory string
	reader    rowReader
}

func NewService(config *Config) (*ServiceProvider, error) {
	var reader rowReader
	switch config.Format {
	case CSV:
		reader = csvReader{}
	case Parquet:
		reader = parquetReader{}
	default:
		return nil, fmt.Errorf("unknown storage format '%s'", config.Format)
	}
	return &ServiceProvider{directory: config.Directory, reader: reader}, nil
}

// LoadTable returns all rows of the table in file order.
func (s *ServiceProvider) LoadTable(ctx context.Context, table *metastore.TableMetadata) ([]engine.Tuple, error) {
	ctx, span := telemetry.StartSpan(ctx, "storage.LoadTable", trace.WithAttributes(
		attribute.String("queryId", engine.QueryIdFromContext(ctx)),
		attribute.String("table", table.TableName)))
	defer span.End()

	path := s.path(table.TableName)
	rows, err := s.reader.read(path, table.Columns)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = Error{
				ErrorCode: MissingTable,
				Message:   fmt.Sprintf("no data file for table %s", table.TableName),
				Err:       err,
			}
		}
		engine.Logger(ctx).Error("Error loading table", "table", table.TableName, "path", path, "error", err)
		span.RecordError(err)
		return nil, err
	}

	engine.Logger(ctx).Debug("Loaded table", "table", table.TableName, "rows", len(rows))
	return rows, nil
}

// LoadColumn returns the values of a single column in file order.
func (s *ServiceProvider) LoadColumn(ctx context.Context, table *metastore.TableMetadata, column string) ([]engine.Value, error) {
	i := slices.Index(table.Columns, column)
	if i < 0 {
		return nil, metastore.Error{
			ErrorCode: metastore.NoSuchColumn,
			Message:   fmt.Sprintf("column %s does not exist in table %s", column, table.TableName),
		}
	}

	rows, err := s.LoadTable(ctx, table)
	if err != nil {
		return nil, err
	}

	values := make([]engine.Value, 0, len(rows))
	for _, row := range rows {
		values = append(values, row[i])
	}
	return values, nil
}

func (s *ServiceProvider) path(table string) string {
	return filepath.Join(s.directory, table+s.reader.extension())
}

/* *** Storage Config *** */

type Format string

const (
	CSV     Format = "csv"
	Parquet Format = "parquet"
)

type Config struct {
	Directory string
	Format    Format
}

type Option func(*Config)

func NewConfig(options ...Option) *Config {
	cfg := &Config{Directory: ".", Format: CSV}
	for _, option := range options {
		option(cfg)
	}
	return cfg
}

func WithDirectory(directory string) Option {
	return func(config *Config) {
		config.Directory = directory
	}
}

func WithFormat(format Format) Option {
	return func(config *Config) {
		config.Format = format
	}
}

/* *** Errors *** */

type ErrorCode int

const (
	MissingTable ErrorCode = iota + 1
	InvalidRecord
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
	return "StorageError"
}
