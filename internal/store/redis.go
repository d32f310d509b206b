package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/recipebox/backend/internal/model"
)

// maxUpdateAttempts bounds optimistic transaction retries on concurrent writes
const maxUpdateAttempts = 3

// RedisStore keeps each recipe in a hash and the set of ids in an index set
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a store whose keys live under the table name
func NewRedisStore(client redis.UniversalClient, table string) *RedisStore {
	if table == "" {
		table = DefaultTableName
	}
	return &RedisStore{client: client, prefix: strings.ToLower(table)}
}

func (s *RedisStore) recipeKey(id string) string {
	return fmt.Sprintf("%s:recipe:%s", s.prefix, id)
}

func (s *RedisStore) indexKey() string {
	return s.prefix + ":ids"
}

func encodeRecipe(recipe *model.Recipe) (map[string]interface{}, error) {
	ingredients, err := json.Marshal([]string(recipe.Ingredients))
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		model.FieldID:          recipe.ID,
		model.FieldTitle:       recipe.Title,
		model.FieldIngredients: string(ingredients),
		model.FieldCreatedAt:   recipe.CreatedAt.Format(time.RFC3339Nano),
		model.FieldUpdatedAt:   recipe.UpdatedAt.Format(time.RFC3339Nano),
	}, nil
}

func decodeRecipe(fields map[string]string) (*model.Recipe, error) {
	recipe := &model.Recipe{
		ID:          fields[model.FieldID],
		Title:       fields[model.FieldTitle],
		Ingredients: model.StringList{},
	}
	if raw := fields[model.FieldIngredients]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &recipe.Ingredients); err != nil {
			return nil, fmt.Errorf("invalid ingredients for recipe %s: %w", recipe.ID, err)
		}
	}
	// Timestamps are bookkeeping; a malformed value is left zero.
	recipe.CreatedAt, _ = time.Parse(time.RFC3339Nano, fields[model.FieldCreatedAt])
	recipe.UpdatedAt, _ = time.Parse(time.RFC3339Nano, fields[model.FieldUpdatedAt])
	return recipe, nil
}

// Put replaces the hash and adds the id to the index in one transaction
func (s *RedisStore) Put(ctx context.Context, recipe *model.Recipe) error {
	fields, err := encodeRecipe(recipe)
	if err != nil {
		return fmt.Errorf("failed to encode recipe %s: %w", recipe.ID, err)
	}

	key := s.recipeKey(recipe.ID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		pipe.SAdd(ctx, s.indexKey(), recipe.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to put recipe %s: %w", recipe.ID, err)
	}
	return nil
}

// Get reads the hash of the given id
func (s *RedisStore) Get(ctx context.Context, id string) (*model.Recipe, error) {
	fields, err := s.client.HGetAll(ctx, s.recipeKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return decodeRecipe(fields)
}

// Scan reads every id in the index and fetches the hashes in one pipeline
func (s *RedisStore) Scan(ctx context.Context) ([]model.Recipe, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to scan recipe ids: %w", err)
	}

	recipes := []model.Recipe{}
	if len(ids) == 0 {
		return recipes, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, s.recipeKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan recipes: %w", err)
	}

	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// deleted between SMEMBERS and HGETALL
			continue
		}
		recipe, err := decodeRecipe(fields)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, *recipe)
	}
	return recipes, nil
}

// Update sets title and ingredients while watching the key, so the write
// only lands on a record that still exists.
func (s *RedisStore) Update(ctx context.Context, id string, title string, ingredients []string) error {
	encoded, err := json.Marshal(ingredients)
	if err != nil {
		return fmt.Errorf("failed to encode ingredients for recipe %s: %w", id, err)
	}

	key := s.recipeKey(id)
	txf := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key,
				model.FieldTitle, title,
				model.FieldIngredients, string(encoded),
				model.FieldUpdatedAt, nowFunc().Format(time.RFC3339Nano),
			)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err = s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to update recipe %s: %w", id, err)
		}
		return nil
	}
	return fmt.Errorf("failed to update recipe %s: %w", id, err)
}

// Delete removes the hash and the index entry
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.recipeKey(id))
		pipe.SRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete recipe %s: %w", id, err)
	}
	return nil
}

// Ping checks the connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
