package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/BenjaminKobjolke/beaverprime/internal/model"
	"github.com/BenjaminKobjolke/beaverprime/internal/repository"
	"github.com/BenjaminKobjolke/beaverprime/internal/validation"
)

type ListService struct {
	repo repository.ListRepository
}

func NewListService(repo repository.ListRepository) *ListService {
	return &ListService{repo: repo}
}

func (s *ListService) Create(userID, name string, order int) (*model.List, error) {
	err := validation.ValidateName(name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	list := &model.List{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.repo.Create(list)
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	slog.Info("list created", "list_id", list.ID, "user_id", userID)
	return list, nil
}

func (s *ListService) ByID(userID, listID string) (*model.List, error) {
	return s.repo.ByID(userID, listID)
}

func (s *ListService) Lists(userID string) ([]*model.List, error) {
	return s.repo.Lists(userID)
}

func (s *ListService) Update(userID, listID string, name *string, order *int) (*model.List, error) {
	list, err := s.repo.ByID(userID, listID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		err = validation.ValidateName(*name)
		if err != nil {
			return nil, err
		}
		list.Name = *name
	}
	if order != nil {
		list.Order = *order
	}

	list.UpdatedAt = time.Now()
	err = s.repo.Update(list)
	if err != nil {
		return nil, err
	}

	return list, nil
}

// Delete removes the list; its habits survive and become unassigned.
func (s *ListService) Delete(userID, listID string) error {
	err := s.repo.Delete(userID, listID)
	if err != nil {
		return err
	}

	slog.Info("list deleted", "list_id", listID, "user_id", userID)
	return nil
}
