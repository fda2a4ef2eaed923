package metastore

import "fmt"

// SymbolTable indexes the catalog by table and by column. Every column has exactly
// one owning table.
type SymbolTable struct {
	TableScopeSymbols  map[string]TableScopeSymbolTableEntry
	ColumnScopeSymbols map[string]ColumnScopeSymbolTableEntry
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		TableScopeSymbols:  make(map[string]TableScopeSymbolTableEntry),
		ColumnScopeSymbols: make(map[string]ColumnScopeSymbolTableEntry),
	}
}

type TableScopeSymbolTableEntry struct {
	TableName          string
	ColumnScopeSymbols []ColumnScopeSymbolTableEntry
}

type ColumnScopeSymbolTableEntry struct {
	TableName  string
	ColumnName string
	Position   int
}

// Add registers a table and its columns. The table is rejected as a whole if its
// name or any of its columns is already known.
func (s *SymbolTable) Add(table *TableMetadata) error {
	if _, ok := s.TableScopeSymbols[table.TableName]; ok {
		return Error{
			ErrorCode: TableExists,
			Message:   fmt.Sprintf("table %s already exists", table.TableName),
		}
	}

	entry := TableScopeSymbolTableEntry{TableName: table.TableName}
	seen := make(map[string]bool, len(table.Columns))
	for i, column := range table.Columns {
		if owner, ok := s.ColumnScopeSymbols[column]; ok || seen[column] {
			if !ok {
				owner.TableName = table.TableName
			}
			return Error{
				ErrorCode: ColumnExists,
				Message:   fmt.Sprintf("column %s of table %s already declared by table %s", column, table.TableName, owner.TableName),
			}
		}
		seen[column] = true
		entry.ColumnScopeSymbols = append(entry.ColumnScopeSymbols, ColumnScopeSymbolTableEntry{
			TableName:  table.TableName,
			ColumnName: column,
			Position:   i,
		})
	}

	s.TableScopeSymbols[table.TableName] = entry
	for _, column := range entry.ColumnScopeSymbols {
		s.ColumnScopeSymbols[column.ColumnName] = column
	}
	return nil
}
