package service

import (
	"context"

	"github.com/ashherx/coin-bounce/internal/db"
	"github.com/ashherx/coin-bounce/internal/logging"
	"github.com/ashherx/coin-bounce/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) (*model.Comment, error)
	ListCommentsByBlog(ctx context.Context, blogID string) ([]model.CommentDetails, error)
}

type CommentService struct {
	repo     CommentRepository
	validate *validator.Validate
	log      logging.Logger
}

func NewCommentService(repo CommentRepository, log logging.Logger) *CommentService {
	return &CommentService{repo: repo, validate: newValidator(), log: log}
}

func (s *CommentService) Create(ctx context.Context, req model.CreateCommentRequest) error {
	if err := validateStruct(s.validate, req); err != nil {
		return err
	}

	_, err := s.repo.CreateComment(ctx, &model.Comment{
		ID:       uuid.NewString(),
		Content:  req.Content,
		BlogID:   req.Blog,
		AuthorID: req.Author,
	})
	if err != nil {
		if db.IsNoRows(err) {
			return newError(ErrNotFound, "Blog or author not found")
		}
		return storageError(err)
	}
	return nil
}

// ListByBlog returns the comments of a blog, oldest first.
func (s *CommentService) ListByBlog(ctx context.Context, blogID string) ([]model.CommentDTO, error) {
	if err := s.validate.Var(blogID, "required,uuid"); err != nil {
		return nil, newError(ErrInvalidInput, `"id" must be a valid id`)
	}

	comments, err := s.repo.ListCommentsByBlog(ctx, blogID)
	if err != nil {
		return nil, storageError(err)
	}
	out := make([]model.CommentDTO, 0, len(comments))
	for i := range comments {
		out = append(out, comments[i].DTO())
	}
	return out, nil
}
