package model

import "time"

type CreateBlogRequest struct {
	Title   string `json:"title" validate:"required"`
	Author  string `json:"author" validate:"required,uuid"`
	Content string `json:"content" validate:"required"`
	Photo   string `json:"photo" validate:"required"`
}

type UpdateBlogRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	Author  string `json:"author" validate:"required,uuid"`
	BlogID  string `json:"blogId" validate:"required,uuid"`
	Photo   string `json:"photo"`
}

type Blog struct {
	ID        string
	Title     string
	Content   string
	PhotoPath string
	AuthorID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BlogDetails is a blog joined with its author.
type BlogDetails struct {
	Blog
	AuthorName     string
	AuthorUsername string
}

type BlogDTO struct {
	ID      string `json:"_id"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Photo   string `json:"photo"`
}

type BlogDetailsDTO struct {
	ID             string    `json:"_id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Photo          string    `json:"photo"`
	CreatedAt      time.Time `json:"createdAt"`
	AuthorName     string    `json:"authorName"`
	AuthorUsername string    `json:"authorUsername"`
}

func (b *Blog) DTO() BlogDTO {
	return BlogDTO{
		ID:      b.ID,
		Author:  b.AuthorID,
		Title:   b.Title,
		Content: b.Content,
		Photo:   b.PhotoPath,
	}
}

func (b *BlogDetails) DTO() BlogDetailsDTO {
	return BlogDetailsDTO{
		ID:             b.ID,
		Title:          b.Title,
		Content:        b.Content,
		Photo:          b.PhotoPath,
		CreatedAt:      b.CreatedAt,
		AuthorName:     b.AuthorName,
		AuthorUsername: b.AuthorUsername,
	}
}
