package service

import (
	"context"
	"ctchen222/todo-api/internal/api/models"
	"ctchen222/todo-api/internal/api/repository"
	"log/slog"
)

// ItemService holds the per-stage operations behind the /items routes.
// Every stage takes the caller resolved by the previous one.
type ItemService interface {
	ResolveCaller(ctx context.Context, userID int64) (*models.User, error)
	ResolveOwnedItem(ctx context.Context, caller *models.User, itemID int64) (*models.Item, error)
	List(ctx context.Context, caller *models.User) ([]models.TodoModel, error)
	Create(ctx context.Context, caller *models.User, todo models.TodoModel) error
	SetCompleted(ctx context.Context, item *models.Item, isCompleted *bool) (models.TodoModel, error)
	Delete(ctx context.Context, item *models.Item) error
}

type itemService struct {
	userRepo repository.UserRepository
	itemRepo repository.ItemRepository
}

// NewItemService creates a new ItemService.
func NewItemService(userRepo repository.UserRepository, itemRepo repository.ItemRepository) ItemService {
	return &itemService{userRepo: userRepo, itemRepo: itemRepo}
}

// ResolveCaller loads the user named by the token's id claim.
func (s *itemService) ResolveCaller(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnknownCaller
	}
	return user, nil
}

// ResolveOwnedItem loads an item and checks that caller owns it.
func (s *itemService) ResolveOwnedItem(ctx context.Context, caller *models.User, itemID int64) (*models.Item, error) {
	item, err := s.itemRepo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || !item.OwnedBy(caller.ID) {
		return nil, ErrForbidden
	}
	return item, nil
}

func (s *itemService) List(ctx context.Context, caller *models.User) ([]models.TodoModel, error) {
	items, err := s.itemRepo.ListItemsByUser(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	todos := make([]models.TodoModel, 0, len(items))
	for _, item := range items {
		todos = append(todos, item.ToTodoModel())
	}
	return todos, nil
}

// Create stores a new item owned by caller. The submitted id is ignored.
func (s *itemService) Create(ctx context.Context, caller *models.User, todo models.TodoModel) error {
	ownerID := caller.ID
	item := &models.Item{
		Name:        todo.Name,
		IsCompleted: todo.IsCompleted,
		UserID:      &ownerID,
	}
	if err := s.itemRepo.CreateItem(ctx, item); err != nil {
		return err
	}
	slog.DebugContext(ctx, "item created", "item_id", item.ID, "user_id", caller.ID)
	return nil
}

// SetCompleted overwrites only the completion flag; the name is never updated.
func (s *itemService) SetCompleted(ctx context.Context, item *models.Item, isCompleted *bool) (models.TodoModel, error) {
	item.IsCompleted = isCompleted
	if err := s.itemRepo.UpdateItem(ctx, item); err != nil {
		return models.TodoModel{}, err
	}
	return item.ToTodoModel(), nil
}

func (s *itemService) Delete(ctx context.Context, item *models.Item) error {
	if err := s.itemRepo.DeleteItem(ctx, item); err != nil {
		return err
	}
	slog.DebugContext(ctx, "item deleted", "item_id", item.ID)
	return nil
}
