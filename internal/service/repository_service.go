package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/scoutdb/codescout/internal/model"
	appErr "github.com/scoutdb/codescout/internal/pkg/errors"
)

type IRepositoryStore interface {
	Create(ctx context.Context, repo *model.Repository) error
	Get(ctx context.Context, id string) (*model.Repository, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Repository, error)
	Delete(ctx context.Context, id string) error
}

// IRepositoryPurge removes rows owned by a repository when it is deleted.
type IRepositoryPurge interface {
	DeleteByRepository(ctx context.Context, repositoryID string) error
}

type RepositoryService struct {
	repos  IRepositoryStore
	chunks IRepositoryPurge
	grants IRepositoryPurge
}

func NewRepositoryService(repos IRepositoryStore, chunks, grants IRepositoryPurge) *RepositoryService {
	return &RepositoryService{repos: repos, chunks: chunks, grants: grants}
}

func (s *RepositoryService) Create(ctx context.Context, ownerID, name, primaryLanguage string) (*model.Repository, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", appErr.ErrInvalid)
	}
	repo := &model.Repository{
		ID:              newID(),
		OwnerID:         ownerID,
		Name:            name,
		PrimaryLanguage: strings.ToLower(strings.TrimSpace(primaryLanguage)),
		Ctime:           time.Now().Unix(),
	}
	if err := s.repos.Create(ctx, repo); err != nil {
		return nil, fmt.Errorf("create repository: %w: %v", appErr.ErrStore, err)
	}
	return repo, nil
}

func (s *RepositoryService) Get(ctx context.Context, id string) (*model.Repository, error) {
	repo, err := s.repos.Get(ctx, id)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, appErr.ErrNotFound
		}
		return nil, fmt.Errorf("load repository: %w: %v", appErr.ErrStore, err)
	}
	return repo, nil
}

// Delete removes a repository together with its indexed chunks and access
// grants. Only the owner may delete.
func (s *RepositoryService) Delete(ctx context.Context, userID, id string) error {
	repo, err := s.repos.Get(ctx, id)
	if err != nil {
		if appErr.IsNotFound(err) {
			return appErr.ErrNotFound
		}
		return fmt.Errorf("load repository: %w: %v", appErr.ErrStore, err)
	}
	if repo.OwnerID != userID {
		return fmt.Errorf("only the owner may delete a repository: %w", appErr.ErrUnauthorized)
	}
	if err := s.chunks.DeleteByRepository(ctx, id); err != nil {
		return fmt.Errorf("purge chunks: %w: %v", appErr.ErrStore, err)
	}
	if err := s.grants.DeleteByRepository(ctx, id); err != nil {
		return fmt.Errorf("purge grants: %w: %v", appErr.ErrStore, err)
	}
	if err := s.repos.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete repository: %w: %v", appErr.ErrStore, err)
	}
	return nil
}

func (s *RepositoryService) ListMine(ctx context.Context, ownerID string) ([]model.Repository, error) {
	repos, err := s.repos.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list repositories: %w: %v", appErr.ErrStore, err)
	}
	return repos, nil
}
