package dataset

import (
	"context"
	"testing"
	"time"

	"sheet-diff/core/database"
	"sheet-diff/core/diff"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func sqliteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	return db
}

func TestTableSource_SQLite(t *testing.T) {
	db := sqliteDB(t)
	require.NoError(t, db.Exec("CREATE TABLE products (sku TEXT PRIMARY KEY, price REAL, stock INTEGER, note TEXT)").Error)
	require.NoError(t, db.Exec("INSERT INTO products VALUES ('B', 2.5, 3, NULL), ('A', 10, 0, 'x')").Error)

	src := NewTableSource(db, "products")
	assert.Equal(t, "products", src.Name())

	keys, err := src.PrimaryKeys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"sku"}, keys)

	ds, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"sku", "price", "stock", "note"}, ds.Headers())

	// Ordered by primary key.
	first := ds.Records[0]
	assert.Equal(t, "A", first.Get("sku").String())
	assert.Equal(t, diff.KindNumber, first.Get("price").Kind())
	assert.Equal(t, "10", first.Get("price").String())
	assert.Equal(t, "0", first.Get("stock").String())
	assert.True(t, ds.Records[1].Get("note").IsNull())
}

func TestTableSource_Missing(t *testing.T) {
	_, err := NewTableSource(sqliteDB(t), "nope").Load(context.Background())
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestTableSource_MySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mock.ExpectQuery("SHOW COLUMNS FROM `orders`").
		WillReturnRows(sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
			AddRow("id", "INT(11)", "NO", "PRI", nil, "auto_increment").
			AddRow("total", "DECIMAL(10,2)", "YES", "", nil, ""))
	mock.ExpectQuery("SELECT `id`,`total` FROM `orders` ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "total"}).
			AddRow(int64(1), []byte("12.50")).
			AddRow(int64(2), nil))

	src := &TableSource{DB: db, Table: "orders"}
	ds, err := src.Load(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, ds.Len())
	assert.Equal(t, diff.Int(1), ds.Records[0].Get("id"))
	assert.Equal(t, number(t, "12.50"), ds.Records[0].Get("total"))
	assert.True(t, ds.Records[1].Get("total").IsNull())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func number(t *testing.T, text string) diff.Value {
	t.Helper()
	v, err := diff.Number(text)
	require.NoError(t, err)
	return v
}

func TestCellValue(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		numeric bool
		want    diff.Value
	}{
		{"Nil", nil, false, diff.Null()},
		{"Int64", int64(7), false, diff.Int(7)},
		{"Float", 1.25, false, diff.Float(1.25)},
		{"Bool", true, false, diff.Bool(true)},
		{"NumericBytes", []byte("3.0"), true, number(t, "3.0")},
		{"WideDecimal", []byte("12345678901234567.81"), true, number(t, "12345678901234567.81")},
		{"BigIntKey", "9007199254740993", true, number(t, "9007199254740993")},
		{"Uint64", uint64(18446744073709551615), false, number(t, "18446744073709551615")},
		{"TextBytes", []byte("3.0"), false, diff.String("3.0")},
		{"NumericGarbage", "n/a", true, diff.String("n/a")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cellValue(tt.in, tt.numeric))
		})
	}
}

func TestCellValue_KeepsPrecision(t *testing.T) {
	t.Run("Decimals", func(t *testing.T) {
		a := cellValue([]byte("12345678901234567.81"), true)
		b := cellValue([]byte("12345678901234567.89"), true)
		assert.NotEqual(t, a.String(), b.String())
		assert.False(t, diff.ValuesEqual(a, b, diff.Options{}))
	})

	t.Run("BigIntKeys", func(t *testing.T) {
		a := cellValue([]byte("9007199254740992"), true)
		b := cellValue([]byte("9007199254740993"), true)
		assert.NotEqual(t, a.String(), b.String())
	})

	t.Run("SubSecondTimes", func(t *testing.T) {
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		a := cellValue(base.Add(100*time.Millisecond), false)
		b := cellValue(base.Add(900*time.Millisecond), false)
		assert.Equal(t, "2024-01-01T00:00:00.1Z", a.String())
		assert.NotEqual(t, a.String(), b.String())
		assert.False(t, diff.ValuesEqual(a, b, diff.Options{TypeAware: true}))
	})
}
