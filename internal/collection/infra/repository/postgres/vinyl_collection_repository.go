package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianortiz/vinylAuction/internal/collection/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VinylCollectionRepository implements domain.VinylCollectionRepository for PostgreSQL.
type VinylCollectionRepository struct {
	db *pgxpool.Pool
}

// NewVinylCollectionRepository creates a new instance of VinylCollectionRepository.
func NewVinylCollectionRepository(db *pgxpool.Pool) *VinylCollectionRepository {
	return &VinylCollectionRepository{db: db}
}

// GetByUserID returns (nil, nil) when the user has no collection.
func (r *VinylCollectionRepository) GetByUserID(ctx context.Context, userID string) (*domain.VinylCollection, error) {
	var id string
	err := r.db.QueryRow(ctx, `SELECT user_id FROM vinyl_collections WHERE user_id = $1`, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	query := `
        SELECT id, title, artist
        FROM vinyls
        WHERE collection_id = $1
        ORDER BY position ASC
    `
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	vinyls, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Vinyl, error) {
		var vid, title, artist string
		if err := row.Scan(&vid, &title, &artist); err != nil {
			return nil, err
		}
		return domain.NewVinyl(vid, title, artist, id), nil
	})
	if err != nil {
		return nil, err
	}

	c := domain.NewVinylCollection(id)
	for _, v := range vinyls {
		if added := c.AddVinyl(v); added.IsFailure() {
			return nil, fmt.Errorf("collection %s: %w", id, added.Err())
		}
	}
	return c, nil
}

func (r *VinylCollectionRepository) Save(ctx context.Context, collection *domain.VinylCollection) error {
	return r.SaveAll(ctx, collection)
}

// SaveAll writes every collection in one transaction, so a vinyl transfer
// either lands in both collections or in neither.
func (r *VinylCollectionRepository) SaveAll(ctx context.Context, collections ...*domain.VinylCollection) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, c := range collections {
			if err := saveCollection(ctx, tx, c); err != nil {
				return fmt.Errorf("failed to save collection %s: %w", c.ID(), err)
			}
		}
		return nil
	})
}

func saveCollection(ctx context.Context, tx pgx.Tx, c *domain.VinylCollection) error {
	if _, err := tx.Exec(ctx,
		`INSERT INTO vinyl_collections (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		c.ID(),
	); err != nil {
		return err
	}

	vinyls := c.Vinyls()
	ids := make([]string, 0, len(vinyls))
	for _, v := range vinyls {
		ids = append(ids, v.ID())
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM vinyls WHERE collection_id = $1 AND NOT (id = ANY($2))`,
		c.ID(), ids,
	); err != nil {
		return err
	}

	upsert := `
        INSERT INTO vinyls (collection_id, id, position, title, artist)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (collection_id, id) DO UPDATE
        SET
            position = EXCLUDED.position,
            title = EXCLUDED.title,
            artist = EXCLUDED.artist;
    `
	batch := &pgx.Batch{}
	for i, v := range vinyls {
		batch.Queue(upsert, c.ID(), v.ID(), i, v.Title(), v.Artist())
	}
	return tx.SendBatch(ctx, batch).Close()
}
