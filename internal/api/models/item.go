package models

// Item is a todo entry owned by a user. Name, IsCompleted and UserID are
// nullable columns.
type Item struct {
	ID          int64   `db:"id"`
	Name        *string `db:"name"`
	IsCompleted *bool   `db:"is_completed"`
	UserID      *int64  `db:"user_id"`
}

// OwnedBy reports whether the item belongs to the user with the given id.
func (i Item) OwnedBy(userID int64) bool {
	return i.UserID != nil && *i.UserID == userID
}

// TodoModel is the JSON projection of an Item, used both as request body
// and as response.
type TodoModel struct {
	ID          int64   `json:"id"`
	Name        *string `json:"name"`
	IsCompleted *bool   `json:"isCompleted"`
}

// ToTodoModel projects an item to its public shape, dropping the owner.
func (i Item) ToTodoModel() TodoModel {
	return TodoModel{
		ID:          i.ID,
		Name:        i.Name,
		IsCompleted: i.IsCompleted,
	}
}
