package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// Repository persists comics and their panels.
type Repository interface {
	CreateComic(ctx context.Context, comic *Comic) error
	CreatePanels(ctx context.Context, panels []*Panel) error
	// ListComics returns the newest comics first, panels in panel order.
	ListComics(ctx context.Context, limit int) ([]*Comic, error)
	GetComic(ctx context.Context, id int64) (*Comic, error)
}

type comicRepository struct {
	db *bun.DB
}

func NewComicRepository(db *bun.DB) *comicRepository {
	return &comicRepository{db: db}
}

func (r *comicRepository) CreateComic(ctx context.Context, comic *Comic) error {
	_, err := r.db.NewInsert().
		Model(comic).
		Returning("id, created_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("saving comic: %w", err)
	}
	return nil
}

func (r *comicRepository) CreatePanels(ctx context.Context, panels []*Panel) error {
	if len(panels) == 0 {
		return nil
	}
	_, err := r.db.NewInsert().
		Model(&panels).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("saving %d panels: %w", len(panels), err)
	}
	return nil
}

func orderPanels(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Order("p.panel_number ASC")
}

func (r *comicRepository) ListComics(ctx context.Context, limit int) ([]*Comic, error) {
	var comics []*Comic
	err := r.db.NewSelect().
		Model(&comics).
		Relation("Panels", orderPanels).
		Order("c.created_at DESC", "c.id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing comics: %w", err)
	}
	return comics, nil
}

func (r *comicRepository) GetComic(ctx context.Context, id int64) (*Comic, error) {
	var comic Comic
	err := r.db.NewSelect().
		Model(&comic).
		Relation("Panels", orderPanels).
		Where("c.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching comic %d: %w", id, err)
	}
	return &comic, nil
}

// Migrate applies pending migrations; applied ones are skipped.
func (r *comicRepository) Migrate(_ context.Context) error {
	return runMigrations(r.db.DB)
}

// MissingTables reports which expected tables are absent from the database.
func (r *comicRepository) MissingTables(ctx context.Context) ([]string, error) {
	var missing []string
	for _, table := range Tables {
		var name sql.NullString
		if err := r.db.NewRaw("SELECT to_regclass(?)::text", "public."+table).Scan(ctx, &name); err != nil {
			return nil, fmt.Errorf("checking table %s: %w", table, err)
		}
		if !name.Valid {
			missing = append(missing, table)
		}
	}
	return missing, nil
}
