package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"whimsicalfrog/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// UpsellRulesetTTL bounds how stale a cached recommendation map may be. The
// ruleset is a pure function of items × order_items, so a short TTL keeps
// request-scoped semantics without rebuilding on every cart render.
const UpsellRulesetTTL = 60 * time.Second

type CacheService interface {
	// Item caching
	GetItem(ctx context.Context, sku string) (*models.Item, error)
	SetItem(ctx context.Context, item *models.Item, ttl time.Duration) error
	DeleteItem(ctx context.Context, sku string) error

	// Stock breakdown caching
	GetStockBreakdown(ctx context.Context, sku string) (*models.StockBreakdown, error)
	SetStockBreakdown(ctx context.Context, breakdown *models.StockBreakdown, ttl time.Duration) error
	DeleteStockBreakdown(ctx context.Context, sku string) error

	// Upsell ruleset caching
	GetUpsellRuleset(ctx context.Context) (*models.UpsellRuleset, error)
	SetUpsellRuleset(ctx context.Context, ruleset *models.UpsellRuleset, ttl time.Duration) error
	DeleteUpsellRuleset(ctx context.Context) error

	// InvalidateItem drops every cached shape derived from one SKU plus the
	// upsell ruleset (which ranks over all items).
	InvalidateItem(ctx context.Context, sku string) error

	// Generic string operations
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		logrus.WithError(pingErr).WithField("addr", parsedAddr).Warn("redis ping failed on initialization")
	}

	return &redisCacheService{client: client}
}

func itemKey(sku string) string {
	return fmt.Sprintf("wf:item:%s", strings.ToUpper(sku))
}

func stockBreakdownKey(sku string) string {
	return fmt.Sprintf("wf:stock:%s", strings.ToUpper(sku))
}

const upsellRulesetKey = "wf:upsell:ruleset"

func (r *redisCacheService) GetItem(ctx context.Context, sku string) (*models.Item, error) {
	data, err := r.client.Get(ctx, itemKey(sku)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var item models.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *redisCacheService) SetItem(ctx context.Context, item *models.Item, ttl time.Duration) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, itemKey(item.SKU), data, ttl).Err()
}

func (r *redisCacheService) DeleteItem(ctx context.Context, sku string) error {
	return r.client.Del(ctx, itemKey(sku)).Err()
}

func (r *redisCacheService) GetStockBreakdown(ctx context.Context, sku string) (*models.StockBreakdown, error) {
	data, err := r.client.Get(ctx, stockBreakdownKey(sku)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var breakdown models.StockBreakdown
	if err := json.Unmarshal(data, &breakdown); err != nil {
		return nil, err
	}
	return &breakdown, nil
}

func (r *redisCacheService) SetStockBreakdown(ctx context.Context, breakdown *models.StockBreakdown, ttl time.Duration) error {
	data, err := json.Marshal(breakdown)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, stockBreakdownKey(breakdown.SKU), data, ttl).Err()
}

func (r *redisCacheService) DeleteStockBreakdown(ctx context.Context, sku string) error {
	return r.client.Del(ctx, stockBreakdownKey(sku)).Err()
}

func (r *redisCacheService) GetUpsellRuleset(ctx context.Context) (*models.UpsellRuleset, error) {
	data, err := r.client.Get(ctx, upsellRulesetKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var ruleset models.UpsellRuleset
	if err := json.Unmarshal(data, &ruleset); err != nil {
		return nil, err
	}
	return &ruleset, nil
}

func (r *redisCacheService) SetUpsellRuleset(ctx context.Context, ruleset *models.UpsellRuleset, ttl time.Duration) error {
	data, err := json.Marshal(ruleset)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, upsellRulesetKey, data, ttl).Err()
}

func (r *redisCacheService) DeleteUpsellRuleset(ctx context.Context) error {
	return r.client.Del(ctx, upsellRulesetKey).Err()
}

func (r *redisCacheService) InvalidateItem(ctx context.Context, sku string) error {
	return r.client.Del(ctx, itemKey(sku), stockBreakdownKey(sku), upsellRulesetKey).Err()
}

func (r *redisCacheService) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
