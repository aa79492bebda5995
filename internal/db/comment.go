package db

import (
	"context"

	"github.com/ashherx/coin-bounce/internal/model"
)

// CreateComment returns ErrNotFound when the blog or author does not exist.
func (db *Postgres) CreateComment(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	created := *comment
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO comments (id, content, blog_id, author_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`, comment.ID, comment.Content, comment.BlogID, comment.AuthorID).Scan(&created.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

func (db *Postgres) ListCommentsByBlog(ctx context.Context, blogID string) ([]model.CommentDetails, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT c.id, c.content, c.blog_id, c.author_id, c.created_at, u.username
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.blog_id = $1
		ORDER BY c.created_at ASC
	`, blogID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	list := []model.CommentDetails{}
	for rows.Next() {
		var c model.CommentDetails
		if err := rows.Scan(&c.ID, &c.Content, &c.BlogID, &c.AuthorID, &c.CreatedAt, &c.AuthorUsername); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
