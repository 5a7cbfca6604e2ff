package cases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service applies case business rules on top of the repository.
type Service struct {
	Repo Repo
}

// CreateInput describes a new case.
type CreateInput struct {
	Title       string
	CaseNumber  string
	Description string
	CreatedBy   string
}

// UpdateInput carries the mutable case fields. Nil means leave unchanged.
type UpdateInput struct {
	Title       *string
	CaseNumber  *string
	Description *string
	Status      *string
}

// Create validates and persists a new case.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Case, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	now := time.Now().UTC()
	c := &Case{
		ID:          uuid.NewString(),
		Title:       title,
		CaseNumber:  strings.TrimSpace(in.CaseNumber),
		Description: strings.TrimSpace(in.Description),
		Status:      StatusOpen,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update applies the given fields and bumps the update timestamp.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Case, error) {
	c, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		c.Title = title
	}
	if in.CaseNumber != nil {
		c.CaseNumber = strings.TrimSpace(*in.CaseNumber)
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		if !ValidStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		c.Status = *in.Status
	}
	c.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
