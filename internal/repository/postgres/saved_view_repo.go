// internal/repository/postgres/saved_view_repo.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"estate-portal/internal/collection"
	"estate-portal/internal/domain/savedview"
	xerrors "estate-portal/internal/pkg/errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const savedViewColumns = `id, owner, collection, name, search_term, status_filter,
		       sort_field, sort_direction, tie_break, page_size, tags, is_default,
		       created_at, updated_at`

type SavedViewRepository struct {
	db *DB
}

func NewSavedViewRepository(db *DB) *SavedViewRepository {
	return &SavedViewRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSavedView(row rowScanner) (*savedview.SavedView, error) {
	var v savedview.SavedView
	var field, direction, tieBreak string
	err := row.Scan(
		&v.ID, &v.Owner, &v.Collection, &v.Name, &v.Filter.SearchTerm, &v.Filter.StatusFilter,
		&field, &direction, &tieBreak, &v.PageSize, pq.Array(&v.Tags), &v.IsDefault,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.Sort = collection.SortCriteria{
		Field:     collection.SortField(field),
		Direction: collection.SortDirection(direction),
		TieBreak:  collection.SortField(tieBreak),
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	return &v, nil
}

// Create inserts v. When v is the default for its collection, the previous
// default is cleared in the same transaction.
func (r *SavedViewRepository) Create(ctx context.Context, v *savedview.SavedView) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}

	query := `
		INSERT INTO saved_views (
			id, owner, collection, name, search_term, status_filter,
			sort_field, sort_direction, tie_break, page_size, tags, is_default
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if v.IsDefault {
			if err := clearDefault(ctx, tx, v.Owner, v.Collection); err != nil {
				return err
			}
		}
		return tx.QueryRowContext(
			ctx, query,
			v.ID, v.Owner, v.Collection, v.Name, v.Filter.SearchTerm, v.Filter.StatusFilter,
			string(v.Sort.Field), string(v.Sort.Direction), string(v.Sort.TieBreak), v.PageSize,
			pq.Array(v.Tags), v.IsDefault,
		).Scan(&v.CreatedAt, &v.UpdatedAt)
	})
	if err != nil {
		return fmt.Errorf("failed to create saved view: %w", classify(err))
	}
	return nil
}

// FindByID retrieves one of owner's views.
func (r *SavedViewRepository) FindByID(ctx context.Context, owner string, id uuid.UUID) (*savedview.SavedView, error) {
	query := `SELECT ` + savedViewColumns + `
		FROM saved_views
		WHERE id = $1 AND owner = $2
	`

	v, err := scanSavedView(r.db.conn.QueryRowContext(ctx, query, id, owner))
	if err != nil {
		return nil, fmt.Errorf("failed to find saved view: %w", classify(err))
	}
	return v, nil
}

// FindDefault returns owner's default view for a collection.
func (r *SavedViewRepository) FindDefault(ctx context.Context, owner, coll string) (*savedview.SavedView, error) {
	query := `SELECT ` + savedViewColumns + `
		FROM saved_views
		WHERE owner = $1 AND collection = $2 AND is_default
		LIMIT 1
	`

	v, err := scanSavedView(r.db.conn.QueryRowContext(ctx, query, owner, coll))
	if err != nil {
		return nil, fmt.Errorf("failed to find default view: %w", classify(err))
	}
	return v, nil
}

// List returns owner's views, optionally narrowed to a collection or tag.
func (r *SavedViewRepository) List(ctx context.Context, owner string, filters savedview.ListFilters) ([]savedview.SavedView, error) {
	conditions := []string{"owner = $1"}
	args := []interface{}{owner}
	argPos := 2

	if filters.Collection != "" {
		conditions = append(conditions, fmt.Sprintf("collection = $%d", argPos))
		args = append(args, filters.Collection)
		argPos++
	}

	if filters.Tag != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(tags)", argPos))
		args = append(args, filters.Tag)
		argPos++
	}

	query := fmt.Sprintf(`SELECT %s
		FROM saved_views
		WHERE %s
		ORDER BY collection, name
	`, savedViewColumns, strings.Join(conditions, " AND "))

	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved views: %w", err)
	}
	defer rows.Close()

	views := []savedview.SavedView{}
	for rows.Next() {
		v, err := scanSavedView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan saved view: %w", err)
		}
		views = append(views, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list saved views: %w", err)
	}

	return views, nil
}

// SetDefault makes id the only default view of its collection.
func (r *SavedViewRepository) SetDefault(ctx context.Context, owner string, id uuid.UUID) error {
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		var coll string
		err := tx.QueryRowContext(ctx,
			`SELECT collection FROM saved_views WHERE id = $1 AND owner = $2`,
			id, owner,
		).Scan(&coll)
		if err != nil {
			return err
		}

		if err := clearDefault(ctx, tx, owner, coll); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE saved_views SET is_default = TRUE, updated_at = $1 WHERE id = $2`,
			time.Now(), id,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to set default view: %w", classify(err))
	}
	return nil
}

// Delete removes one of owner's views.
func (r *SavedViewRepository) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	result, err := r.db.conn.ExecContext(ctx,
		`DELETE FROM saved_views WHERE id = $1 AND owner = $2`,
		id, owner,
	)
	if err != nil {
		return fmt.Errorf("failed to delete saved view: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete saved view: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("saved view %s: %w", id, xerrors.ErrNotFound)
	}
	return nil
}

func clearDefault(ctx context.Context, tx *sql.Tx, owner, coll string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE saved_views SET is_default = FALSE, updated_at = $1
		 WHERE owner = $2 AND collection = $3 AND is_default`,
		time.Now(), owner, coll,
	)
	return err
}
