package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/arbor/internal/db"
	"github.com/alexanderramin/arbor/internal/domain"
)

// SQLiteListRepo implements ListRepo using a SQLite database. Multi-statement
// writes run inside the configured UnitOfWork; multi-statement reads use one
// of its snapshots.
type SQLiteListRepo struct {
	conn db.DBTX
	uow  db.UnitOfWork
}

// NewSQLiteListRepo creates a new SQLiteListRepo.
func NewSQLiteListRepo(database *sql.DB) *SQLiteListRepo {
	return &SQLiteListRepo{conn: database, uow: db.NewSQLiteUnitOfWork(database)}
}

// NewSQLiteListRepoWithUoW creates a SQLiteListRepo whose writes go through uow.
func NewSQLiteListRepoWithUoW(database *sql.DB, uow db.UnitOfWork) *SQLiteListRepo {
	return &SQLiteListRepo{conn: database, uow: uow}
}

const listColumns = `id, title, position, created_at, updated_at`

const itemColumns = `id, list_id, parent_id, title, completed, position`

func (r *SQLiteListRepo) List(ctx context.Context) ([]*domain.List, error) {
	var lists []*domain.List
	err := r.uow.WithinSnapshot(ctx, func(ctx context.Context, q db.DBTX) error {
		rows, err := q.QueryContext(ctx, `SELECT `+listColumns+` FROM lists ORDER BY position, created_at`)
		if err != nil {
			return fmt.Errorf("listing lists: %w", err)
		}
		for rows.Next() {
			l, err := scanList(rows)
			if err != nil {
				rows.Close()
				return err
			}
			lists = append(lists, l)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("iterating lists: %w", err)
		}
		rows.Close()

		records, err := queryItemRecords(ctx, q, `SELECT `+itemColumns+` FROM items`)
		if err != nil {
			return err
		}
		byList := make(map[string][]ItemRecord)
		for _, rec := range records {
			byList[rec.ListID] = append(byList[rec.ListID], rec)
		}
		for _, l := range lists {
			l.Items = BuildTreeFromRecords(byList[l.ID])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lists, nil
}

func (r *SQLiteListRepo) ListSummaries(ctx context.Context) ([]domain.ListSummary, error) {
	rows, err := r.conn.QueryContext(ctx, `SELECT id, title FROM lists ORDER BY position, created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing list summaries: %w", err)
	}
	defer rows.Close()

	summaries := []domain.ListSummary{}
	for rows.Next() {
		var s domain.ListSummary
		if err := rows.Scan(&s.ID, &s.Title); err != nil {
			return nil, fmt.Errorf("scanning list summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating list summaries: %w", err)
	}
	return summaries, nil
}

func (r *SQLiteListRepo) GetByID(ctx context.Context, id string) (*domain.List, error) {
	var l *domain.List
	err := r.uow.WithinSnapshot(ctx, func(ctx context.Context, q db.DBTX) error {
		var err error
		l, err = scanList(q.QueryRowContext(ctx, `SELECT `+listColumns+` FROM lists WHERE id = ?`, id))
		if err != nil {
			return err
		}
		records, err := queryItemRecords(ctx, q, `SELECT `+itemColumns+` FROM items WHERE list_id = ?`, id)
		if err != nil {
			return err
		}
		l.Items = BuildTreeFromRecords(records)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *SQLiteListRepo) Create(ctx context.Context, l *domain.List) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = l.CreatedAt
	}
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var next int
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), -1) + 1 FROM lists`).Scan(&next); err != nil {
			return fmt.Errorf("reading next list position: %w", err)
		}
		l.Position = next

		_, err := tx.ExecContext(ctx,
			`INSERT INTO lists (id, title, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			l.ID, l.Title, l.Position,
			l.CreatedAt.Format(time.RFC3339),
			l.UpdatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting list: %w", err)
		}

		now := l.CreatedAt.Format(time.RFC3339)
		for _, rec := range FlattenTreeToRecords(l.ID, l.Items) {
			if err := insertItem(ctx, tx, rec, now); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLiteListRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting list: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting list: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteListRepo) UpdateTitle(ctx context.Context, id, title string) error {
	res, err := r.conn.ExecContext(ctx, `UPDATE lists SET title = ?, updated_at = ? WHERE id = ?`, title, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating list title: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating list title: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("list: %w", ErrNotFound)
	}
	return nil
}

// SaveItems diffs forest against the stored rows of listID. Inserts run in
// pre-order so parents exist before their children; updates run before
// deletes so a moved node is not taken by its old parent's cascade.
func (r *SQLiteListRepo) SaveItems(ctx context.Context, listID string, forest domain.Forest) error {
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM lists WHERE id = ?`, listID).Scan(&exists); err != nil {
			return fmt.Errorf("checking list: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("list: %w", ErrNotFound)
		}

		current, err := queryItemRecords(ctx, tx, `SELECT `+itemColumns+` FROM items WHERE list_id = ?`, listID)
		if err != nil {
			return err
		}
		stored := make(map[string]ItemRecord, len(current))
		for _, rec := range current {
			stored[rec.ID] = rec
		}

		desired := FlattenTreeToRecords(listID, forest)
		keep := make(map[string]bool, len(desired))
		var inserts, updates []ItemRecord
		for _, rec := range desired {
			if keep[rec.ID] {
				// Duplicate id: first occurrence wins.
				continue
			}
			keep[rec.ID] = true
			old, ok := stored[rec.ID]
			switch {
			case !ok:
				inserts = append(inserts, rec)
			case !old.equalRow(rec):
				updates = append(updates, rec)
			}
		}
		var deletes []string
		for _, rec := range current {
			if !keep[rec.ID] {
				deletes = append(deletes, rec.ID)
			}
		}

		if len(inserts)+len(updates)+len(deletes) == 0 {
			return nil
		}

		now := nowUTC()
		for _, rec := range inserts {
			if err := insertItem(ctx, tx, rec, now); err != nil {
				return err
			}
		}
		for _, rec := range updates {
			_, err := tx.ExecContext(ctx,
				`UPDATE items SET parent_id = ?, title = ?, completed = ?, position = ?, updated_at = ? WHERE id = ?`,
				nullableString(rec.ParentID), rec.Title, boolToInt(rec.Completed), rec.Position, now, rec.ID,
			)
			if err != nil {
				return fmt.Errorf("updating item %s: %w", rec.ID, err)
			}
		}
		for _, id := range deletes {
			if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
				return fmt.Errorf("deleting item %s: %w", id, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `UPDATE lists SET updated_at = ? WHERE id = ?`, now, listID); err != nil {
			return fmt.Errorf("touching list: %w", err)
		}
		return nil
	})
}

func insertItem(ctx context.Context, tx db.DBTX, rec ItemRecord, now string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO items (id, list_id, parent_id, title, completed, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ListID, nullableString(rec.ParentID), rec.Title, boolToInt(rec.Completed), rec.Position, now, now,
	)
	if err != nil {
		return fmt.Errorf("inserting item %s: %w", rec.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanList scans a single list row (without items).
func scanList(row rowScanner) (*domain.List, error) {
	var l domain.List
	var createdAtStr, updatedAtStr string
	err := row.Scan(&l.ID, &l.Title, &l.Position, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("list: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning list: %w", err)
	}

	var parseErr error
	l.CreatedAt, parseErr = parseTime(createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	l.UpdatedAt, parseErr = parseTime(updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	l.Items = domain.Forest{}
	return &l, nil
}

func queryItemRecords(ctx context.Context, q db.DBTX, query string, args ...any) ([]ItemRecord, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var records []ItemRecord
	for rows.Next() {
		var rec ItemRecord
		var parentID sql.NullString
		var completed int
		if err := rows.Scan(&rec.ID, &rec.ListID, &parentID, &rec.Title, &completed, &rec.Position); err != nil {
			return nil, fmt.Errorf("scanning item row: %w", err)
		}
		rec.ParentID = stringPtr(parentID)
		rec.Completed = intToBool(completed)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return records, nil
}
