package service

import (
	"context"

	"github.com/ashherx/coin-bounce/internal/db"
	"github.com/ashherx/coin-bounce/internal/logging"
	"github.com/ashherx/coin-bounce/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const msgBlogNotFound = "Blog not found"

type BlogRepository interface {
	CreateBlog(ctx context.Context, blog *model.Blog) (*model.Blog, error)
	ListBlogs(ctx context.Context) ([]model.Blog, error)
	GetBlogByID(ctx context.Context, id string) (*model.Blog, error)
	GetBlogDetails(ctx context.Context, id string) (*model.BlogDetails, error)
	UpdateBlog(ctx context.Context, id, title, content string, photoPath *string) error
	DeleteBlog(ctx context.Context, id string) error
}

type BlogService struct {
	repo     BlogRepository
	images   *ImageStore
	validate *validator.Validate
	log      logging.Logger
}

func NewBlogService(repo BlogRepository, images *ImageStore, log logging.Logger) *BlogService {
	return &BlogService{
		repo:     repo,
		images:   images,
		validate: newValidator(),
		log:      log,
	}
}

func (s *BlogService) Create(ctx context.Context, req model.CreateBlogRequest) (*model.BlogDTO, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	photoURL, err := s.images.Save(req.Photo)
	if err != nil {
		return nil, err
	}

	blog, err := s.repo.CreateBlog(ctx, &model.Blog{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Content:   req.Content,
		PhotoPath: photoURL,
		AuthorID:  req.Author,
	})
	if err != nil {
		s.discardImage(ctx, photoURL)
		if db.IsNoRows(err) {
			return nil, newError(ErrNotFound, "Author not found")
		}
		return nil, storageError(err)
	}

	dto := blog.DTO()
	return &dto, nil
}

func (s *BlogService) List(ctx context.Context) ([]model.BlogDTO, error) {
	blogs, err := s.repo.ListBlogs(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	out := make([]model.BlogDTO, 0, len(blogs))
	for i := range blogs {
		out = append(out, blogs[i].DTO())
	}
	return out, nil
}

func (s *BlogService) Get(ctx context.Context, id string) (*model.BlogDetailsDTO, error) {
	if err := s.validate.Var(id, "required,uuid"); err != nil {
		return nil, newError(ErrInvalidInput, `"id" must be a valid id`)
	}

	details, err := s.repo.GetBlogDetails(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, newError(ErrNotFound, msgBlogNotFound)
		}
		return nil, storageError(err)
	}

	dto := details.DTO()
	return &dto, nil
}

// Update rewrites title and content. A non-empty photo replaces the stored
// image and deletes the previous file.
func (s *BlogService) Update(ctx context.Context, req model.UpdateBlogRequest) error {
	if err := validateStruct(s.validate, req); err != nil {
		return err
	}

	blog, err := s.repo.GetBlogByID(ctx, req.BlogID)
	if err != nil {
		if db.IsNoRows(err) {
			return newError(ErrNotFound, msgBlogNotFound)
		}
		return storageError(err)
	}

	var photoPath *string
	if req.Photo != "" {
		photoURL, err := s.images.Save(req.Photo)
		if err != nil {
			return err
		}
		photoPath = &photoURL
	}

	if err := s.repo.UpdateBlog(ctx, blog.ID, req.Title, req.Content, photoPath); err != nil {
		if photoPath != nil {
			s.discardImage(ctx, *photoPath)
		}
		if db.IsNoRows(err) {
			return newError(ErrNotFound, msgBlogNotFound)
		}
		return storageError(err)
	}

	if photoPath != nil {
		s.discardImage(ctx, blog.PhotoPath)
	}
	return nil
}

// Delete removes the blog, its comments and its photo.
func (s *BlogService) Delete(ctx context.Context, id string) error {
	if err := s.validate.Var(id, "required,uuid"); err != nil {
		return newError(ErrInvalidInput, `"id" must be a valid id`)
	}

	blog, err := s.repo.GetBlogByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return newError(ErrNotFound, msgBlogNotFound)
		}
		return storageError(err)
	}

	if err := s.repo.DeleteBlog(ctx, id); err != nil {
		if db.IsNoRows(err) {
			return newError(ErrNotFound, msgBlogNotFound)
		}
		return storageError(err)
	}

	s.discardImage(ctx, blog.PhotoPath)
	return nil
}

func (s *BlogService) discardImage(ctx context.Context, photoURL string) {
	if err := s.images.Delete(photoURL); err != nil {
		s.log.Warn(ctx, "failed to delete blog image", "photo", photoURL, "error", err)
	}
}
