package repository

import (
	"context"

	"shopapi/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
	UpdateRole(ctx context.Context, id int64, role model.Role) error
}
