package dataset

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sheet-diff/core/database"
	"sheet-diff/core/diff"
	"sheet-diff/core/utils"

	"gorm.io/gorm"
)

// TableSource loads a dataset from a database table.
type TableSource struct {
	// DB is the open connection.
	DB *gorm.DB

	// Table is the table to read.
	Table string

	// OrderBy lists columns that fix row order. When empty the declared primary key
	// is used, and without one rows come back in storage order.
	OrderBy []string
}

// NewTableSource creates a TableSource.
func NewTableSource(db *gorm.DB, table string) *TableSource {
	return &TableSource{DB: db, Table: table}
}

// Name returns the table name.
func (s *TableSource) Name() string {
	return s.Table
}

// PrimaryKeys returns the declared primary-key columns of the table.
func (s *TableSource) PrimaryKeys(ctx context.Context) ([]string, error) {
	columns, err := s.columns(ctx)
	if err != nil {
		return nil, err
	}
	return database.PrimaryKeyColumns(columns), nil
}

func (s *TableSource) columns(ctx context.Context) ([]database.ColumnInfo, error) {
	columns, err := database.GetTableColumns(s.DB.WithContext(ctx), s.Table)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, s.Table)
	}
	return columns, nil
}

// Load reads every row of the table.
func (s *TableSource) Load(ctx context.Context) (diff.Dataset, error) {
	columns, err := s.columns(ctx)
	if err != nil {
		return diff.Dataset{}, err
	}

	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Field
	}

	query := s.DB.WithContext(ctx).Table(s.Table).Select(names)
	order := s.OrderBy
	if len(order) == 0 {
		order = database.PrimaryKeyColumns(columns)
	}
	for _, col := range order {
		query = query.Order(col)
	}

	rows, err := query.Rows()
	if err != nil {
		return diff.Dataset{}, fmt.Errorf("failed to query table %s: %w", s.Table, err)
	}
	defer rows.Close()

	ds := diff.Dataset{Name: s.Table, Records: []diff.Record{}}
	for rows.Next() {
		raw := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return diff.Dataset{}, fmt.Errorf("failed to scan table %s: %w", s.Table, err)
		}

		values := make([]diff.Value, len(columns))
		for i, c := range columns {
			values[i] = cellValue(raw[i], c.IsNumeric())
		}
		ds.Records = append(ds.Records, diff.NewRecord(names, values))
	}
	if err := rows.Err(); err != nil {
		return diff.Dataset{}, fmt.Errorf("failed to read table %s: %w", s.Table, err)
	}

	return ds, nil
}

// cellValue converts a scanned database value to a diff.Value.
// Drivers return DECIMAL and BIGINT columns as text; numeric columns keep that
// text verbatim instead of rounding it through float64.
func cellValue(v any, numeric bool) diff.Value {
	switch x := v.(type) {
	case nil:
		return diff.Null()
	case int64:
		return diff.Int(x)
	case int32:
		return diff.Int(int64(x))
	case int:
		return diff.Int(int64(x))
	case uint64:
		n, _ := diff.Number(strconv.FormatUint(x, 10))
		return n
	case float64:
		return diff.Float(x)
	case float32:
		return diff.Float(float64(x))
	case bool:
		return diff.Bool(x)
	case time.Time:
		return diff.String(x.Format(time.RFC3339Nano))
	}

	s := utils.ToString(v)
	if numeric {
		if n, err := diff.Number(strings.TrimSpace(s)); err == nil {
			return n
		}
	}
	return diff.String(s)
}
