package model

import "time"

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
	Author  string `json:"author" validate:"required,uuid"`
	Blog    string `json:"blog" validate:"required,uuid"`
}

type Comment struct {
	ID        string
	Content   string
	BlogID    string
	AuthorID  string
	CreatedAt time.Time
}

// CommentDetails is a comment joined with its author's username.
type CommentDetails struct {
	Comment
	AuthorUsername string
}

type CommentDTO struct {
	ID             string    `json:"_id"`
	CreatedAt      time.Time `json:"createdAt"`
	Content        string    `json:"content"`
	AuthorUsername string    `json:"authorUsername"`
}

func (c *CommentDetails) DTO() CommentDTO {
	return CommentDTO{
		ID:             c.ID,
		CreatedAt:      c.CreatedAt,
		Content:        c.Content,
		AuthorUsername: c.AuthorUsername,
	}
}
