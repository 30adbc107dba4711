package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"whimsicalfrog/internal/caching"
	"whimsicalfrog/internal/models"
	"whimsicalfrog/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

// StockService keeps the three-level stock hierarchy (item, color, size)
// consistent. Every sync cascade runs in one transaction with the item row
// locked, and sale decrements are atomic floor-at-zero updates, so two
// concurrent sales against the same SKU serialize instead of losing an
// update.
type StockService interface {
	SyncColorStockWithSizes(ctx context.Context, colorID uuid.UUID) (int, error)
	SyncTotalStockWithColors(ctx context.Context, itemSKU string) (int, error)
	SyncTotalStockWithSizes(ctx context.Context, itemSKU string) (int, error)
	ReduceStockForSale(ctx context.Context, itemSKU string, quantity int, colorName, sizeCode string) error
	GetStockLevel(ctx context.Context, itemSKU, colorName, sizeCode string) (int, error)
	HasStockAvailable(ctx context.Context, itemSKU string, required int, colorName, sizeCode string) (bool, error)
	GetStockBreakdown(ctx context.Context, itemSKU string) (*models.StockBreakdown, error)
}

type stockService struct {
	db    repositories.DB
	cache caching.CacheService
}

func NewStockService(db repositories.DB, cache caching.CacheService) StockService {
	return &stockService{db: db, cache: cache}
}

// lockItem takes a row lock on the item so concurrent cascades against the
// same SKU serialize.
func lockItem(ctx context.Context, q repositories.Querier, itemSKU string) error {
	_, err := q.Exec(ctx, `SELECT 1 FROM items WHERE sku = $1 FOR UPDATE`, itemSKU)
	return err
}

func syncColorFromSizes(ctx context.Context, q repositories.Querier, colorID uuid.UUID) (int, error) {
	var total int
	err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(stock_level), 0)
		FROM item_sizes
		WHERE color_id = $1 AND is_active = TRUE
	`, colorID).Scan(&total)
	if err != nil {
		return 0, err
	}
	_, err = q.Exec(ctx, `UPDATE item_colors SET stock_level = $1 WHERE id = $2`, total, colorID)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func syncItemFromColors(ctx context.Context, q repositories.Querier, itemSKU string) (int, error) {
	var total int
	err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(stock_level), 0)
		FROM item_colors
		WHERE item_sku = $1 AND is_active = TRUE
	`, itemSKU).Scan(&total)
	if err != nil {
		return 0, err
	}
	_, err = q.Exec(ctx, `UPDATE items SET stock_quantity = $1, updated_at = NOW() WHERE sku = $2`, total, itemSKU)
	if err != nil {
		return 0, err
	}
	return total, nil
}

// syncItemFromSizes resynchronizes sizes upward: every color referenced by
// the item's sizes first, then the item total. The ordering matters; the
// item total must not be read before the colors are consistent.
func syncItemFromSizes(ctx context.Context, q repositories.Querier, itemSKU string) (int, error) {
	rows, err := q.Query(ctx, `
		SELECT DISTINCT color_id
		FROM item_sizes
		WHERE item_sku = $1 AND color_id IS NOT NULL
	`, itemSKU)
	if err != nil {
		return 0, err
	}
	var colorIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		colorIDs = append(colorIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, colorID := range colorIDs {
		if _, err := syncColorFromSizes(ctx, q, colorID); err != nil {
			return 0, err
		}
	}

	var total int
	err = q.QueryRow(ctx, `
		SELECT COALESCE(SUM(stock_level), 0)
		FROM item_sizes
		WHERE item_sku = $1 AND is_active = TRUE
	`, itemSKU).Scan(&total)
	if err != nil {
		return 0, err
	}
	_, err = q.Exec(ctx, `UPDATE items SET stock_quantity = $1, updated_at = NOW() WHERE sku = $2`, total, itemSKU)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (s *stockService) SyncColorStockWithSizes(ctx context.Context, colorID uuid.UUID) (int, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var itemSKU string
	if err := tx.QueryRow(ctx, `SELECT item_sku FROM item_colors WHERE id = $1`, colorID).Scan(&itemSKU); err != nil {
		return 0, err
	}
	if err := lockItem(ctx, tx, itemSKU); err != nil {
		return 0, err
	}

	total, err := syncColorFromSizes(ctx, tx, colorID)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	s.invalidate(ctx, itemSKU)
	return total, nil
}

func (s *stockService) SyncTotalStockWithColors(ctx context.Context, itemSKU string) (int, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if err := lockItem(ctx, tx, itemSKU); err != nil {
		return 0, err
	}
	total, err := syncItemFromColors(ctx, tx, itemSKU)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	s.invalidate(ctx, itemSKU)
	return total, nil
}

func (s *stockService) SyncTotalStockWithSizes(ctx context.Context, itemSKU string) (int, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if err := lockItem(ctx, tx, itemSKU); err != nil {
		return 0, err
	}
	total, err := syncItemFromSizes(ctx, tx, itemSKU)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	s.invalidate(ctx, itemSKU)
	return total, nil
}

// ReduceStockForSale decrements stock at the most specific granularity the
// caller supplied: size+color, then size, then color, then the flat item
// total. The matched dimension is authoritative; coarser dimensions are
// re-synced upward afterwards rather than decremented directly, so nothing
// is double-counted. Decrements floor at zero.
func (s *stockService) ReduceStockForSale(ctx context.Context, itemSKU string, quantity int, colorName, sizeCode string) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := lockItem(ctx, tx, itemSKU); err != nil {
		return err
	}

	reduced := false

	if sizeCode != "" {
		var colorID *uuid.UUID
		if colorName != "" {
			var id uuid.UUID
			err := tx.QueryRow(ctx, `
				SELECT id FROM item_colors
				WHERE item_sku = $1 AND color_name = $2 AND is_active = TRUE
			`, itemSKU, colorName).Scan(&id)
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return err
			}
			if err == nil {
				colorID = &id
			}
		}

		var tag int64
		if colorID != nil {
			t, err := tx.Exec(ctx, `
				UPDATE item_sizes
				SET stock_level = GREATEST(stock_level - $1, 0)
				WHERE item_sku = $2 AND size_code = $3 AND color_id = $4 AND is_active = TRUE
			`, quantity, itemSKU, sizeCode, *colorID)
			if err != nil {
				return err
			}
			tag = t.RowsAffected()
		} else {
			t, err := tx.Exec(ctx, `
				UPDATE item_sizes
				SET stock_level = GREATEST(stock_level - $1, 0)
				WHERE item_sku = $2 AND size_code = $3 AND color_id IS NULL AND is_active = TRUE
			`, quantity, itemSKU, sizeCode)
			if err != nil {
				return err
			}
			tag = t.RowsAffected()
		}

		if tag > 0 {
			if _, err := syncItemFromSizes(ctx, tx, itemSKU); err != nil {
				return err
			}
			reduced = true
			logrus.WithFields(logrus.Fields{
				"sku": itemSKU, "size_code": sizeCode, "color_name": colorName, "quantity": quantity,
			}).Info("stock reduced by size")
		}
	}

	if !reduced && colorName != "" {
		tag, err := tx.Exec(ctx, `
			UPDATE item_colors
			SET stock_level = GREATEST(stock_level - $1, 0)
			WHERE item_sku = $2 AND color_name = $3 AND is_active = TRUE
		`, quantity, itemSKU, colorName)
		if err != nil {
			return err
		}
		if tag.RowsAffected() > 0 {
			if _, err := syncItemFromColors(ctx, tx, itemSKU); err != nil {
				return err
			}
			reduced = true
			logrus.WithFields(logrus.Fields{
				"sku": itemSKU, "color_name": colorName, "quantity": quantity,
			}).Info("stock reduced by color")
		}
	}

	if !reduced {
		if _, err := tx.Exec(ctx, `
			UPDATE items
			SET stock_quantity = GREATEST(stock_quantity - $1, 0), updated_at = NOW()
			WHERE sku = $2
		`, quantity, itemSKU); err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{"sku": itemSKU, "quantity": quantity}).Info("flat stock reduced")
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.invalidate(ctx, itemSKU)
	return nil
}

// GetStockLevel resolves stock at the most specific granularity available:
// size+color, size without color, color, the active-size aggregate, then
// the flat item total.
func (s *stockService) GetStockLevel(ctx context.Context, itemSKU, colorName, sizeCode string) (int, error) {
	var level int

	if sizeCode != "" && colorName != "" {
		err := s.db.QueryRow(ctx, `
			SELECT s.stock_level
			FROM item_sizes s
			JOIN item_colors c ON s.color_id = c.id
			WHERE s.item_sku = $1 AND c.color_name = $2 AND s.size_code = $3
			  AND s.is_active = TRUE AND c.is_active = TRUE
		`, itemSKU, colorName, sizeCode).Scan(&level)
		if err == nil {
			return level, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, err
		}
	}

	if sizeCode != "" {
		err := s.db.QueryRow(ctx, `
			SELECT stock_level
			FROM item_sizes
			WHERE item_sku = $1 AND size_code = $2 AND color_id IS NULL AND is_active = TRUE
		`, itemSKU, sizeCode).Scan(&level)
		if err == nil {
			return level, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, err
		}
	}

	if colorName != "" {
		err := s.db.QueryRow(ctx, `
			SELECT stock_level
			FROM item_colors
			WHERE item_sku = $1 AND color_name = $2 AND is_active = TRUE
		`, itemSKU, colorName).Scan(&level)
		if err == nil {
			return level, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return 0, err
		}
	}

	// Prefer the size aggregate when it shows real availability.
	var sizeTotal int
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(stock_level), 0)
		FROM item_sizes
		WHERE item_sku = $1 AND is_active = TRUE
	`, itemSKU).Scan(&sizeTotal)
	if err != nil {
		return 0, err
	}
	if sizeTotal > 0 {
		return sizeTotal, nil
	}

	err = s.db.QueryRow(ctx, `SELECT stock_quantity FROM items WHERE sku = $1`, itemSKU).Scan(&level)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return level, nil
}

func (s *stockService) HasStockAvailable(ctx context.Context, itemSKU string, required int, colorName, sizeCode string) (bool, error) {
	level, err := s.GetStockLevel(ctx, itemSKU, colorName, sizeCode)
	if err != nil {
		return false, err
	}
	return level >= required, nil
}

func (s *stockService) GetStockBreakdown(ctx context.Context, itemSKU string) (*models.StockBreakdown, error) {
	if cached, err := s.cache.GetStockBreakdown(ctx, itemSKU); err == nil && cached != nil {
		return cached, nil
	}

	breakdown := &models.StockBreakdown{SKU: itemSKU}

	err := s.db.QueryRow(ctx, `SELECT stock_quantity FROM items WHERE sku = $1`, itemSKU).Scan(&breakdown.Total)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT color_name, stock_level FROM item_colors
		WHERE item_sku = $1 AND is_active = TRUE
		ORDER BY display_order, color_name
	`, itemSKU)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var cs models.ColorStock
		if err := rows.Scan(&cs.ColorName, &cs.StockLevel); err != nil {
			rows.Close()
			return nil, err
		}
		breakdown.Colors = append(breakdown.Colors, cs)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(ctx, `
		SELECT size_code, stock_level FROM item_sizes
		WHERE item_sku = $1 AND color_id IS NULL AND is_active = TRUE
		ORDER BY display_order, size_code
	`, itemSKU)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var ss models.SizeStock
		if err := rows.Scan(&ss.SizeCode, &ss.StockLevel); err != nil {
			rows.Close()
			return nil, err
		}
		breakdown.Sizes = append(breakdown.Sizes, ss)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(ctx, `
		SELECT c.color_name, s.size_code, s.stock_level
		FROM item_sizes s
		JOIN item_colors c ON s.color_id = c.id
		WHERE s.item_sku = $1 AND s.is_active = TRUE AND c.is_active = TRUE
		ORDER BY c.display_order, c.color_name, s.display_order, s.size_code
	`, itemSKU)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var css models.ColorSizeStock
		if err := rows.Scan(&css.ColorName, &css.SizeCode, &css.StockLevel); err != nil {
			rows.Close()
			return nil, err
		}
		breakdown.ColorSizes = append(breakdown.ColorSizes, css)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if cacheErr := s.cache.SetStockBreakdown(ctx, breakdown, 5*time.Minute); cacheErr != nil {
		logrus.WithError(cacheErr).WithField("sku", itemSKU).Warn("failed to cache stock breakdown")
	}
	return breakdown, nil
}

func (s *stockService) invalidate(ctx context.Context, itemSKU string) {
	if err := s.cache.InvalidateItem(ctx, itemSKU); err != nil {
		logrus.WithError(err).WithField("sku", itemSKU).Warn("failed to invalidate stock cache")
	}
}
