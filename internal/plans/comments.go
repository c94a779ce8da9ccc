package plans

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shoedler/tabletop-gather/internal/models"
)

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	FindComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	FindCommentsByPlan(ctx context.Context, planID uuid.UUID) ([]*models.Comment, error)
	UpdateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, id uuid.UUID) error
}

// CommentView is a plan comment as returned to clients.
type CommentView struct {
	ID        uuid.UUID `json:"id"`
	PlanID    uuid.UUID `json:"planId"`
	Author    UserView  `json:"user"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCommentView(c *models.Comment) (CommentView, error) {
	if c.Author == nil {
		return CommentView{}, fmt.Errorf("comment %s has no author: %w", c.ID, ErrInvariant)
	}
	return CommentView{
		ID:        c.ID,
		PlanID:    c.PlanID,
		Author:    ToUserView(c.Author),
		Comment:   c.Body,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}, nil
}

// Comments lists the comments of a plan, oldest first.
func (s *Service) Comments(ctx context.Context, planID uuid.UUID) ([]CommentView, error) {
	if _, err := s.loadPlan(ctx, planID); err != nil {
		return nil, err
	}
	comments, err := s.comments.FindCommentsByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("fetch comments of plan %s: %w", planID, err)
	}
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		v, err := toCommentView(c)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *Service) AddComment(ctx context.Context, planID, authorID uuid.UUID, body string) (CommentView, error) {
	if err := validateInput(models.CommentInput{Comment: body}); err != nil {
		return CommentView{}, err
	}
	if _, err := s.loadPlan(ctx, planID); err != nil {
		return CommentView{}, err
	}
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return CommentView{}, fmt.Errorf("fetch user %s: %w", authorID, err)
	}
	if author == nil {
		return CommentView{}, fmt.Errorf("user %s: %w", authorID, ErrNotFound)
	}

	now := s.now().UTC()
	comment := &models.Comment{
		ID:        uuid.New(),
		PlanID:    planID,
		Author:    author,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return CommentView{}, fmt.Errorf("create comment: %w", err)
	}
	return toCommentView(comment)
}

// EditComment replaces the text of a comment. Only its author may edit it.
func (s *Service) EditComment(ctx context.Context, id, actorID uuid.UUID, body string) (CommentView, error) {
	if err := validateInput(models.CommentInput{Comment: body}); err != nil {
		return CommentView{}, err
	}
	comment, err := s.loadAuthoredComment(ctx, id, actorID)
	if err != nil {
		return CommentView{}, err
	}
	comment.Body = body
	comment.UpdatedAt = s.now().UTC()
	if err := s.comments.UpdateComment(ctx, comment); err != nil {
		return CommentView{}, fmt.Errorf("update comment %s: %w", id, err)
	}
	return toCommentView(comment)
}

func (s *Service) DeleteComment(ctx context.Context, id, actorID uuid.UUID) error {
	if _, err := s.loadAuthoredComment(ctx, id, actorID); err != nil {
		return err
	}
	if err := s.comments.DeleteComment(ctx, id); err != nil {
		return fmt.Errorf("delete comment %s: %w", id, err)
	}
	return nil
}

func (s *Service) loadAuthoredComment(ctx context.Context, id, actorID uuid.UUID) (*models.Comment, error) {
	comment, err := s.comments.FindComment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch comment %s: %w", id, err)
	}
	if comment == nil {
		return nil, fmt.Errorf("comment %s: %w", id, ErrNotFound)
	}
	if comment.Author == nil {
		return nil, fmt.Errorf("comment %s has no author: %w", id, ErrInvariant)
	}
	if comment.Author.ID != actorID {
		return nil, fmt.Errorf("comment %s is not authored by %s: %w", id, actorID, ErrForbidden)
	}
	return comment, nil
}
