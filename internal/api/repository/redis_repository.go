package repository

import (
	"context"
	"ctchen222/todo-api/internal/api/models"
	"fmt"
	"sort"
	"strconv"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Redis layout:
//
//	seq:user, seq:item      INCR counters, ids start at 1
//	user:{id}               hash: id, username, password
//	user:name:{username}    sorted set of ids registered under username, scored by id
//	user:{id}:items         set of owned item ids
//	item:{id}               hash: id, name, is_completed, user_id (absent field = NULL)
const (
	fieldID          = "id"
	fieldUsername    = "username"
	fieldPassword    = "password"
	fieldName        = "name"
	fieldIsCompleted = "is_completed"
	fieldUserID      = "user_id"
)

func userKey(id int64) string            { return fmt.Sprintf("user:%d", id) }
func usernameKey(username string) string { return fmt.Sprintf("user:name:%s", username) }
func userItemsKey(userID int64) string   { return fmt.Sprintf("user:%d:items", userID) }
func itemKey(id int64) string            { return fmt.Sprintf("item:%d", id) }

type redisUserRepository struct {
	rdb *redis.Client
}

// NewRedisUserRepository creates a new Redis-based UserRepository.
func NewRedisUserRepository(rdb *redis.Client) UserRepository {
	return &redisUserRepository{rdb: rdb}
}

func (r *redisUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	ctx, span := tracer.Start(ctx, "RedisUserRepository.CreateUser")
	defer span.End()

	id, err := r.rdb.Incr(ctx, "seq:user").Result()
	if err != nil {
		span.RecordError(err)
		return storageErr("create user", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, userKey(id), map[string]interface{}{
			fieldID:       id,
			fieldUsername: user.Username,
			fieldPassword: user.Password,
		})
		pipe.ZAdd(ctx, usernameKey(user.Username), &redis.Z{Score: float64(id), Member: id})
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return storageErr("create user", err)
	}
	user.ID = id
	return nil
}

func (r *redisUserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "RedisUserRepository.GetUserByID")
	defer span.End()

	data, err := r.rdb.HGetAll(ctx, userKey(id)).Result()
	if err != nil {
		span.RecordError(err)
		return nil, storageErr("get user by id", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &models.User{
		ID:       id,
		Username: data[fieldUsername],
		Password: data[fieldPassword],
	}, nil
}

func (r *redisUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "RedisUserRepository.GetUserByUsername")
	defer span.End()

	ids, err := r.idsByUsername(ctx, username)
	if err != nil {
		span.RecordError(err)
		return nil, storageErr("get user by username", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return r.GetUserByID(ctx, ids[0])
}

func (r *redisUserRepository) GetUserByCredentials(ctx context.Context, username, password string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "RedisUserRepository.GetUserByCredentials")
	defer span.End()

	ids, err := r.idsByUsername(ctx, username)
	if err != nil {
		span.RecordError(err)
		return nil, storageErr("get user by credentials", err)
	}
	for _, id := range ids {
		user, err := r.GetUserByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user != nil && user.Password == password {
			return user, nil
		}
	}
	return nil, nil
}

// idsByUsername lists the ids registered under username, oldest first.
func (r *redisUserRepository) idsByUsername(ctx context.Context, username string) ([]int64, error) {
	members, err := r.rdb.ZRange(ctx, usernameKey(username), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("username index %q: %w", m, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

type redisItemRepository struct {
	rdb *redis.Client
}

// NewRedisItemRepository creates a new Redis-based ItemRepository.
func NewRedisItemRepository(rdb *redis.Client) ItemRepository {
	return &redisItemRepository{rdb: rdb}
}

func (r *redisItemRepository) CreateItem(ctx context.Context, item *models.Item) error {
	ctx, span := tracer.Start(ctx, "RedisItemRepository.CreateItem")
	defer span.End()

	id, err := r.rdb.Incr(ctx, "seq:item").Result()
	if err != nil {
		span.RecordError(err)
		return storageErr("create item", err)
	}

	stored := *item
	stored.ID = id
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, itemKey(id), encodeItem(&stored))
		if stored.UserID != nil {
			pipe.SAdd(ctx, userItemsKey(*stored.UserID), id)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return storageErr("create item", err)
	}
	item.ID = id
	span.SetAttributes(attribute.Int64("item.id", id))
	return nil
}

func (r *redisItemRepository) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	ctx, span := tracer.Start(ctx, "RedisItemRepository.GetItemByID", trace.WithAttributes(attribute.Int64("item.id", id)))
	defer span.End()

	data, err := r.rdb.HGetAll(ctx, itemKey(id)).Result()
	if err != nil {
		span.RecordError(err)
		return nil, storageErr("get item by id", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	item, err := decodeItem(data)
	if err != nil {
		return nil, storageErr("get item by id", err)
	}
	return item, nil
}

func (r *redisItemRepository) ListItemsByUser(ctx context.Context, userID int64) ([]models.Item, error) {
	ctx, span := tracer.Start(ctx, "RedisItemRepository.ListItemsByUser", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()

	members, err := r.rdb.SMembers(ctx, userItemsKey(userID)).Result()
	if err != nil {
		span.RecordError(err)
		return nil, storageErr("list items", err)
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, storageErr("list items", fmt.Errorf("bad item id %q in %s: %w", m, userItemsKey(userID), err))
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	pipe := r.rdb.Pipeline()
	cmds := make([]*redis.StringStringMapCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, itemKey(id))
	}
	if len(ids) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			span.RecordError(err)
			return nil, storageErr("list items", err)
		}
	}

	items := make([]models.Item, 0, len(ids))
	for _, cmd := range cmds {
		data := cmd.Val()
		if len(data) == 0 {
			continue
		}
		item, err := decodeItem(data)
		if err != nil {
			return nil, storageErr("list items", err)
		}
		items = append(items, *item)
	}
	return items, nil
}

// UpdateItem rewrites an existing item. The item key is watched so an item
// deleted concurrently is not recreated; updating a missing item is a no-op.
func (r *redisItemRepository) UpdateItem(ctx context.Context, item *models.Item) error {
	ctx, span := tracer.Start(ctx, "RedisItemRepository.UpdateItem", trace.WithAttributes(attribute.Int64("item.id", item.ID)))
	defer span.End()

	key := itemKey(item.ID)
	txf := func(tx *redis.Tx) error {
		current, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		if len(current) == 0 {
			return nil
		}
		old, err := decodeItem(current)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.HSet(ctx, key, encodeItem(item))
			if old.UserID != nil && !item.OwnedBy(*old.UserID) {
				pipe.SRem(ctx, userItemsKey(*old.UserID), item.ID)
			}
			if item.UserID != nil {
				pipe.SAdd(ctx, userItemsKey(*item.UserID), item.ID)
			}
			return nil
		})
		return err
	}

	if err := r.rdb.Watch(ctx, txf, key); err != nil {
		span.RecordError(err)
		return storageErr("update item", err)
	}
	return nil
}

func (r *redisItemRepository) DeleteItem(ctx context.Context, item *models.Item) error {
	ctx, span := tracer.Start(ctx, "RedisItemRepository.DeleteItem", trace.WithAttributes(attribute.Int64("item.id", item.ID)))
	defer span.End()

	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, itemKey(item.ID))
		if item.UserID != nil {
			pipe.SRem(ctx, userItemsKey(*item.UserID), item.ID)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return storageErr("delete item", err)
	}
	return nil
}

func encodeItem(item *models.Item) map[string]interface{} {
	fields := map[string]interface{}{fieldID: item.ID}
	if item.Name != nil {
		fields[fieldName] = *item.Name
	}
	if item.IsCompleted != nil {
		fields[fieldIsCompleted] = *item.IsCompleted
	}
	if item.UserID != nil {
		fields[fieldUserID] = *item.UserID
	}
	return fields
}

func decodeItem(data map[string]string) (*models.Item, error) {
	id, err := strconv.ParseInt(data[fieldID], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad item id %q: %w", data[fieldID], err)
	}
	item := &models.Item{ID: id}
	if name, ok := data[fieldName]; ok {
		item.Name = &name
	}
	if raw, ok := data[fieldIsCompleted]; ok {
		done, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("bad is_completed %q on item %d: %w", raw, id, err)
		}
		item.IsCompleted = &done
	}
	if raw, ok := data[fieldUserID]; ok {
		owner, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad user_id %q on item %d: %w", raw, id, err)
		}
		item.UserID = &owner
	}
	return item, nil
}
