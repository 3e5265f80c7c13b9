package controller

import (
	"ctchen222/todo-api/internal/api/middleware"
	"ctchen222/todo-api/internal/api/models"
	"ctchen222/todo-api/internal/api/response"
	"ctchen222/todo-api/internal/api/service"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	callerKey = "items.caller"
	itemIDKey = "items.id"
	itemKey   = "items.item"
)

// ItemController serves /items. Routes are built from stages: ItemID and
// Caller, then OwnedItem for routes addressing one item, then the operation
// itself. Each
// stage either aborts with a terminal status or passes on to the next.
type ItemController struct {
	itemService service.ItemService
}

// NewItemController creates a new ItemController.
func NewItemController(itemService service.ItemService) *ItemController {
	return &ItemController{itemService: itemService}
}

// Caller resolves the token's id claim to a stored user. When it does not
// resolve the request ends with the given status.
func (ic *ItemController) Caller(unresolved int) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.ClaimsFrom(c)
		user, err := ic.itemService.ResolveCaller(c.Request.Context(), claims.UserID())
		if err != nil {
			if errors.Is(err, service.ErrUnknownCaller) {
				response.Abort(c, unresolved, err)
				return
			}
			response.InternalError(c, err)
			return
		}
		c.Set(callerKey, user)
		c.Next()
	}
}

// ItemID binds the :id path parameter. A value that is not an integer is
// rejected with 400 before the caller is looked up.
func (ic *ItemController) ItemID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Abort(c, http.StatusBadRequest, fmt.Errorf("item id %q: %w", c.Param("id"), err))
		return
	}
	c.Set(itemIDKey, id)
	c.Next()
}

// OwnedItem loads the item bound by ItemID and checks the caller owns it.
// Missing and foreign items both yield 403.
func (ic *ItemController) OwnedItem(c *gin.Context) {
	item, err := ic.itemService.ResolveOwnedItem(c.Request.Context(), caller(c), c.GetInt64(itemIDKey))
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			response.Abort(c, http.StatusForbidden, err)
			return
		}
		response.InternalError(c, err)
		return
	}
	c.Set(itemKey, item)
	c.Next()
}

// List returns the caller's items.
func (ic *ItemController) List(c *gin.Context) {
	todos, err := ic.itemService.List(c.Request.Context(), caller(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, todos)
}

// Get returns the resolved item.
func (ic *ItemController) Get(c *gin.Context) {
	response.OK(c, ownedItem(c).ToTodoModel())
}

// Create stores a new item for the caller and echoes the submitted body,
// including whatever id it carried.
func (ic *ItemController) Create(c *gin.Context) {
	var todo models.TodoModel
	if err := c.ShouldBindJSON(&todo); err != nil {
		response.Abort(c, http.StatusBadRequest, err)
		return
	}

	if err := ic.itemService.Create(c.Request.Context(), caller(c), todo); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, todo)
}

// Update applies isCompleted from the body to the resolved item.
func (ic *ItemController) Update(c *gin.Context) {
	var todo models.TodoModel
	if err := c.ShouldBindJSON(&todo); err != nil {
		response.Abort(c, http.StatusBadRequest, err)
		return
	}

	updated, err := ic.itemService.SetCompleted(c.Request.Context(), ownedItem(c), todo.IsCompleted)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, updated)
}

// Delete removes the resolved item.
func (ic *ItemController) Delete(c *gin.Context) {
	if err := ic.itemService.Delete(c.Request.Context(), ownedItem(c)); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Empty(c)
}

func caller(c *gin.Context) *models.User {
	return c.MustGet(callerKey).(*models.User)
}

func ownedItem(c *gin.Context) *models.Item {
	return c.MustGet(itemKey).(*models.Item)
}
