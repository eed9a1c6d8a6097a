package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/booktracker/internal/entities"
)

// UserStore defines the user database operations the controller uses.
type UserStore interface {
	CreateUser(name, email string) (*entities.User, error)
	GetUserByID(id uint) (*entities.User, error)
	DeleteUser(id uint) error
}

type UsersController struct {
	store UserStore
}

func NewUsersController(store UserStore) *UsersController {
	return &UsersController{store: store}
}

// CreateUser registers a new user. Email is required and unique.
// POST /users
func (uc *UsersController) CreateUser(c *gin.Context) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid JSON")
		return
	}

	if strings.TrimSpace(req.Email) == "" {
		respondUnprocessable(c, []string{"email is required"})
		return
	}

	user, err := uc.store.CreateUser(req.Name, req.Email)
	if err != nil {
		// The unique index on email turns duplicates into a constraint
		// violation; surface it as a validation failure.
		if strings.Contains(err.Error(), "UNIQUE") {
			respondUnprocessable(c, []string{"email has already been taken"})
			return
		}
		respondInternalError(c, err, "create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

// DeleteUser removes a user and cascades the delete to their books.
// DELETE /users/:id
func (uc *UsersController) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := uc.store.GetUserByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c)
			return
		}
		respondInternalError(c, err, "get user")
		return
	}

	if err := uc.store.DeleteUser(id); err != nil {
		respondInternalError(c, err, "delete user")
		return
	}

	c.Status(http.StatusNoContent)
}
