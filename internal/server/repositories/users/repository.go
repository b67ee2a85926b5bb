// Package users persists administrator accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/linkdrop/internal/server/models"
)

type Repository interface {
	// Create stores user and fills its ID and CreatedAt. A taken user name
	// yields common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}
