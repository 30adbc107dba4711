package repositories

import (
	"context"

	"whimsicalfrog/internal/models"

	"github.com/google/uuid"
)

type ItemImageRepository interface {
	Create(ctx context.Context, image *models.ItemImage) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ItemImage, error)
	ListBySKU(ctx context.Context, sku string) ([]*models.ItemImage, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// SetPrimary marks one image as primary and clears the flag on every
	// other image of the same SKU, in one transaction.
	SetPrimary(ctx context.Context, sku string, id uuid.UUID) error
}

type itemImageRepo struct {
	db DB
}

func NewItemImageRepo(db DB) ItemImageRepository {
	return &itemImageRepo{db: db}
}

func (r *itemImageRepo) Create(ctx context.Context, image *models.ItemImage) error {
	query := `
		INSERT INTO item_images (id, sku, object_key, is_primary, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, image.ID, image.SKU, image.ObjectKey, image.IsPrimary)
	return err
}

func (r *itemImageRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ItemImage, error) {
	image := &models.ItemImage{}
	query := `SELECT id, sku, object_key, is_primary, created_at FROM item_images WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&image.ID, &image.SKU, &image.ObjectKey,
		&image.IsPrimary, &image.CreatedAt)
	if err != nil {
		return nil, err
	}
	return image, nil
}

func (r *itemImageRepo) ListBySKU(ctx context.Context, sku string) ([]*models.ItemImage, error) {
	query := `
		SELECT id, sku, object_key, is_primary, created_at
		FROM item_images
		WHERE sku = $1
		ORDER BY is_primary DESC, created_at
	`
	rows, err := r.db.Query(ctx, query, sku)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []*models.ItemImage
	for rows.Next() {
		image := &models.ItemImage{}
		if err := rows.Scan(&image.ID, &image.SKU, &image.ObjectKey,
			&image.IsPrimary, &image.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, rows.Err()
}

func (r *itemImageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM item_images WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *itemImageRepo) SetPrimary(ctx context.Context, sku string, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE item_images SET is_primary = FALSE WHERE sku = $1`, sku); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE item_images SET is_primary = TRUE WHERE id = $1 AND sku = $2`, id, sku); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
