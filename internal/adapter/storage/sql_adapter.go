package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/rl1809/stock-service/internal/core/domain"
)

const (
	DialectSQLite = "sqlite"
	DialectMySQL  = "mysql"
)

// SQLAdapter persists items and sales through database/sql. The same
// statements run on SQLite and MySQL.
type SQLAdapter struct {
	db      *sqlx.DB
	dialect string
}

type itemRow struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	Quantity  int    `db:"quantity"`
	CreatedAt int64  `db:"created_at"`
	UpdatedAt int64  `db:"updated_at"`
}

func (r itemRow) toDomain() domain.Item {
	return domain.Item{
		ID:        r.ID,
		Name:      r.Name,
		Quantity:  r.Quantity,
		CreatedAt: fromMillis(r.CreatedAt),
		UpdatedAt: fromMillis(r.UpdatedAt),
	}
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// OpenSQL connects to the database, applies pending migrations and returns the adapter.
func OpenSQL(ctx context.Context, dialect, dsn string, maxOpenConns int) (*SQLAdapter, error) {
	adapter, err := ConnectSQL(ctx, dialect, dsn, maxOpenConns)
	if err != nil {
		return nil, err
	}
	if _, err := adapter.Migrate(ctx); err != nil {
		adapter.Close()
		return nil, err
	}
	return adapter, nil
}

// ConnectSQL opens and pings the database without touching the schema.
func ConnectSQL(ctx context.Context, dialect, dsn string, maxOpenConns int) (*SQLAdapter, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("database dsn is required")
	}

	switch dialect {
	case DialectSQLite:
		dsn = sqliteDSN(dsn)
	case DialectMySQL:
	default:
		return nil, errors.Errorf("unsupported database driver %q", dialect)
	}

	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", dialect)
	}

	if dialect == DialectSQLite {
		// one writer at a time, concurrent transactions would fail with SQLITE_BUSY
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxOpenConns / 2)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "ping %s", dialect)
	}

	return NewSQLAdapter(db, dialect), nil
}

func NewSQLAdapter(db *sql.DB, dialect string) *SQLAdapter {
	return &SQLAdapter{db: sqlx.NewDb(db, dialect), dialect: dialect}
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "_pragma=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
}

func (a *SQLAdapter) Dialect() string {
	return a.dialect
}

func (a *SQLAdapter) Close() error {
	return a.db.Close()
}

func (a *SQLAdapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func (a *SQLAdapter) CreateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	result, err := a.db.ExecContext(ctx, `
		INSERT INTO items (name, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		item.Name, item.Quantity, toMillis(item.CreatedAt), toMillis(item.UpdatedAt),
	)
	if err != nil {
		return domain.Item{}, errors.Wrap(err, "insert item")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.Item{}, errors.Wrap(err, "insert item id")
	}

	item.ID = id
	item.CreatedAt = fromMillis(toMillis(item.CreatedAt))
	item.UpdatedAt = fromMillis(toMillis(item.UpdatedAt))
	return item, nil
}

func (a *SQLAdapter) ListItems(ctx context.Context) ([]domain.Item, error) {
	var rows []itemRow
	if err := a.db.SelectContext(ctx, &rows, `
		SELECT id, name, quantity, created_at, updated_at
		FROM items ORDER BY id`,
	); err != nil {
		return nil, errors.Wrap(err, "query items")
	}

	items := make([]domain.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, nil
}

func (a *SQLAdapter) GetItem(ctx context.Context, id int64) (domain.Item, error) {
	return getItem(ctx, a.db, id)
}

func (a *SQLAdapter) UpdateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Item{}, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	current, err := getItem(ctx, tx, item.ID)
	if err != nil {
		return domain.Item{}, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE items
		SET name = ?, quantity = ?, updated_at = ?
		WHERE id = ?`,
		item.Name, item.Quantity, toMillis(item.UpdatedAt), item.ID,
	); err != nil {
		return domain.Item{}, errors.Wrap(err, "update item")
	}

	if err := tx.Commit(); err != nil {
		return domain.Item{}, errors.Wrap(err, "commit")
	}

	current.Name = item.Name
	current.Quantity = item.Quantity
	current.UpdatedAt = fromMillis(toMillis(item.UpdatedAt))
	return current, nil
}

func (a *SQLAdapter) DeleteItem(ctx context.Context, id int64) error {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete item")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrItemNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sales WHERE item_id = ?`, id); err != nil {
		return errors.Wrap(err, "delete sales")
	}

	return errors.Wrap(tx.Commit(), "commit")
}

func (a *SQLAdapter) PurchaseItem(ctx context.Context, id int64, at time.Time) (domain.Sale, error) {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Sale{}, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE items
		SET quantity = quantity - 1, updated_at = ?
		WHERE id = ? AND quantity > 0`,
		toMillis(at), id,
	)
	if err != nil {
		return domain.Sale{}, errors.Wrap(err, "update item")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		var exists int
		if err := tx.GetContext(ctx, &exists, `SELECT COUNT(*) FROM items WHERE id = ?`, id); err != nil {
			return domain.Sale{}, errors.Wrap(err, "query item")
		}
		if exists == 0 {
			return domain.Sale{}, domain.ErrItemNotFound
		}
		return domain.Sale{}, domain.ErrInsufficientStock
	}

	result, err = tx.ExecContext(ctx, `
		INSERT INTO sales (item_id, created_at)
		VALUES (?, ?)`,
		id, toMillis(at),
	)
	if err != nil {
		return domain.Sale{}, errors.Wrap(err, "insert sale")
	}

	saleID, err := result.LastInsertId()
	if err != nil {
		return domain.Sale{}, errors.Wrap(err, "insert sale id")
	}

	if err := tx.Commit(); err != nil {
		return domain.Sale{}, errors.Wrap(err, "commit")
	}

	return domain.Sale{ID: saleID, ItemID: id, CreatedAt: fromMillis(toMillis(at))}, nil
}

func (a *SQLAdapter) CountSales(ctx context.Context, itemID int64) (int, error) {
	var count int
	if err := a.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM sales WHERE item_id = ?`, itemID); err != nil {
		return 0, errors.Wrap(err, "count sales")
	}
	return count, nil
}

func getItem(ctx context.Context, q sqlx.QueryerContext, id int64) (domain.Item, error) {
	var row itemRow
	err := sqlx.GetContext(ctx, q, &row, `
		SELECT id, name, quantity, created_at, updated_at
		FROM items WHERE id = ?`, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Item{}, domain.ErrItemNotFound
	}
	if err != nil {
		return domain.Item{}, errors.Wrap(err, "query item")
	}
	return row.toDomain(), nil
}
