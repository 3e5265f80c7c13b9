package repository

import (
	"context"
	"ctchen222/todo-api/internal/api/models"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ItemRepository defines the interface for todo item data operations.
// GetItemByID returns (nil, nil) when the item does not exist.
type ItemRepository interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	ListItemsByUser(ctx context.Context, userID int64) ([]models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, item *models.Item) error
}

type sqliteItemRepository struct {
	db *sqlx.DB
}

// NewItemRepository creates a new SQLite-based ItemRepository.
func NewItemRepository(db *sqlx.DB) ItemRepository {
	return &sqliteItemRepository{db: db}
}

func (r *sqliteItemRepository) CreateItem(ctx context.Context, item *models.Item) error {
	ctx, span := tracer.Start(ctx, "ItemRepository.CreateItem")
	defer span.End()

	query := `INSERT INTO items (name, is_completed, user_id) VALUES (:name, :is_completed, :user_id)`
	res, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		span.RecordError(err)
		return storageErr("create item", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storageErr("create item", err)
	}
	item.ID = id
	span.SetAttributes(attribute.Int64("item.id", id))
	return nil
}

func (r *sqliteItemRepository) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	ctx, span := tracer.Start(ctx, "ItemRepository.GetItemByID", trace.WithAttributes(attribute.Int64("item.id", id)))
	defer span.End()

	var item models.Item
	query := `SELECT id, name, is_completed, user_id FROM items WHERE id = ?`
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, storageErr("get item by id", err)
	}
	return &item, nil
}

func (r *sqliteItemRepository) ListItemsByUser(ctx context.Context, userID int64) ([]models.Item, error) {
	ctx, span := tracer.Start(ctx, "ItemRepository.ListItemsByUser", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()

	items := []models.Item{}
	query := `SELECT id, name, is_completed, user_id FROM items WHERE user_id = ? ORDER BY id`
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		span.RecordError(err)
		return nil, storageErr("list items", err)
	}
	return items, nil
}

// UpdateItem writes back every column of an existing item.
func (r *sqliteItemRepository) UpdateItem(ctx context.Context, item *models.Item) error {
	ctx, span := tracer.Start(ctx, "ItemRepository.UpdateItem", trace.WithAttributes(attribute.Int64("item.id", item.ID)))
	defer span.End()

	query := `UPDATE items SET name = :name, is_completed = :is_completed, user_id = :user_id WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		span.RecordError(err)
		return storageErr("update item", err)
	}
	return nil
}

func (r *sqliteItemRepository) DeleteItem(ctx context.Context, item *models.Item) error {
	ctx, span := tracer.Start(ctx, "ItemRepository.DeleteItem", trace.WithAttributes(attribute.Int64("item.id", item.ID)))
	defer span.End()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, item.ID); err != nil {
		span.RecordError(err)
		return storageErr("delete item", err)
	}
	return nil
}
