package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	TokenRepository        *TokenRepository
	ClassroomRepository    *ClassroomRepository
	LeaveRequestRepository *LeaveRequestRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		TokenRepository:        NewTokenRepository(db),
		ClassroomRepository:    NewClassroomRepository(db),
		LeaveRequestRepository: NewLeaveRequestRepository(db),
	}
}
