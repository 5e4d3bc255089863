package port

import (
	"context"

	"github.com/armando/shop-api/internal/core/domain"
)

type UserRepository interface {
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	InsertUser(ctx context.Context, u *domain.User) error
}
