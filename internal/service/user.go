package service

import (
	"fmt"
	"log/slog"

	"github.com/steadyapp/steady/internal/model"
	"github.com/steadyapp/steady/internal/repository"
)

type UserService struct {
	userRepository repository.UserRepository
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{userRepository: userRepository}
}

func (s *UserService) ByID(id string) (*model.User, error) {
	return s.userRepository.ByID(id)
}

// DeleteAccount removes the user; goals and completions follow via the
// database cascade.
func (s *UserService) DeleteAccount(userID string) error {
	err := s.userRepository.Delete(userID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	slog.Info("account deleted", "user_id", userID)
	return nil
}
