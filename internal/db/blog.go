package db

import (
	"context"

	"github.com/ashherx/coin-bounce/internal/model"
)

const blogColumns = `b.id, b.title, b.content, b.photo_path, b.author_id, b.created_at, b.updated_at`

func (db *Postgres) CreateBlog(ctx context.Context, blog *model.Blog) (*model.Blog, error) {
	created := *blog
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO blogs (id, title, content, photo_path, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`, blog.ID, blog.Title, blog.Content, blog.PhotoPath, blog.AuthorID).Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

func (db *Postgres) ListBlogs(ctx context.Context) ([]model.Blog, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+blogColumns+` FROM blogs b ORDER BY b.created_at DESC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	list := []model.Blog{}
	for rows.Next() {
		var b model.Blog
		if err := rows.Scan(&b.ID, &b.Title, &b.Content, &b.PhotoPath, &b.AuthorID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func (db *Postgres) GetBlogByID(ctx context.Context, id string) (*model.Blog, error) {
	var b model.Blog
	err := db.Pool.QueryRow(ctx, `SELECT `+blogColumns+` FROM blogs b WHERE b.id = $1`, id).Scan(
		&b.ID, &b.Title, &b.Content, &b.PhotoPath, &b.AuthorID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &b, nil
}

func (db *Postgres) GetBlogDetails(ctx context.Context, id string) (*model.BlogDetails, error) {
	query := `
		SELECT ` + blogColumns + `, u.name, u.username
		FROM blogs b
		JOIN users u ON u.id = b.author_id
		WHERE b.id = $1
	`
	var d model.BlogDetails
	err := db.Pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Title, &d.Content, &d.PhotoPath, &d.AuthorID, &d.CreatedAt, &d.UpdatedAt,
		&d.AuthorName, &d.AuthorUsername,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &d, nil
}

// UpdateBlog keeps the stored photo when photoPath is nil.
func (db *Postgres) UpdateBlog(ctx context.Context, id, title, content string, photoPath *string) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE blogs
		SET title = $2, content = $3, photo_path = COALESCE($4, photo_path), updated_at = NOW()
		WHERE id = $1
	`, id, title, content, photoPath)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBlog removes the blog together with its comments.
func (db *Postgres) DeleteBlog(ctx context.Context, id string) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM comments WHERE blog_id = $1`, id); err != nil {
		return mapError(err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}
