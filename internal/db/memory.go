package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ashherx/coin-bounce/internal/model"
)

// Memory is a process-local store with the same contract as Postgres.
// Data is lost on restart; it backs STORE_DRIVER=memory and the tests.
type Memory struct {
	mu       sync.Mutex
	users    map[string]model.User
	tokens   map[string]model.RefreshToken
	blogs    map[string]model.Blog
	comments []model.Comment
	seq      int64
	now      func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		users:  make(map[string]model.User),
		tokens: make(map[string]model.RefreshToken),
		blogs:  make(map[string]model.Blog),
		now:    time.Now,
	}
}

// tick returns a strictly increasing timestamp so ordering by time is stable.
func (m *Memory) tick() time.Time {
	m.seq++
	return m.now().Add(time.Duration(m.seq) * time.Microsecond)
}

func (m *Memory) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.findUser(func(u model.User) bool { return u.Email == email })
	return ok, nil
}

func (m *Memory) UserExistsByUsername(ctx context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.findUser(func(u model.User) bool { return u.Username == username })
	return ok, nil
}

func (m *Memory) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.findUser(func(u model.User) bool { return u.Username == username })
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) findUser(match func(model.User) bool) (model.User, bool) {
	for _, u := range m.users {
		if match(u) {
			return u, true
		}
	}
	return model.User{}, false
}

func (m *Memory) CreateUserWithRefreshToken(ctx context.Context, user *model.User, tokenHash string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; ok {
		return nil, &DuplicateError{Field: "id"}
	}
	if _, ok := m.findUser(func(u model.User) bool { return u.Username == user.Username }); ok {
		return nil, &DuplicateError{Field: "username"}
	}
	if _, ok := m.findUser(func(u model.User) bool { return u.Email == user.Email }); ok {
		return nil, &DuplicateError{Field: "email"}
	}

	created := *user
	created.CreatedAt = m.tick()
	created.UpdatedAt = created.CreatedAt
	m.users[created.ID] = created
	m.tokens[created.ID] = model.RefreshToken{UserID: created.ID, TokenHash: tokenHash, UpdatedAt: created.CreatedAt}
	return &created, nil
}

func (m *Memory) UpsertRefreshToken(ctx context.Context, userID, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return ErrNotFound
	}
	m.tokens[userID] = model.RefreshToken{UserID: userID, TokenHash: tokenHash, UpdatedAt: m.tick()}
	return nil
}

func (m *Memory) FindRefreshToken(ctx context.Context, userID, tokenHash string) (*model.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[userID]
	if !ok || token.TokenHash != tokenHash {
		return nil, ErrNotFound
	}
	return &token, nil
}

func (m *Memory) RotateRefreshToken(ctx context.Context, userID, oldHash, newHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[userID]
	if !ok || token.TokenHash != oldHash {
		return false, nil
	}
	m.tokens[userID] = model.RefreshToken{UserID: userID, TokenHash: newHash, UpdatedAt: m.tick()}
	return true, nil
}

func (m *Memory) DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for userID, token := range m.tokens {
		if token.TokenHash == tokenHash {
			delete(m.tokens, userID)
		}
	}
	return nil
}

func (m *Memory) CreateBlog(ctx context.Context, blog *model.Blog) (*model.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[blog.AuthorID]; !ok {
		return nil, ErrNotFound
	}
	if _, ok := m.blogs[blog.ID]; ok {
		return nil, &DuplicateError{Field: "id"}
	}
	created := *blog
	created.CreatedAt = m.tick()
	created.UpdatedAt = created.CreatedAt
	m.blogs[created.ID] = created
	return &created, nil
}

func (m *Memory) ListBlogs(ctx context.Context) ([]model.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]model.Blog, 0, len(m.blogs))
	for _, b := range m.blogs {
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (m *Memory) GetBlogByID(ctx context.Context, id string) (*model.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blogs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (m *Memory) GetBlogDetails(ctx context.Context, id string) (*model.BlogDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blogs[id]
	if !ok {
		return nil, ErrNotFound
	}
	author, ok := m.users[b.AuthorID]
	if !ok {
		return nil, ErrNotFound
	}
	return &model.BlogDetails{Blog: b, AuthorName: author.Name, AuthorUsername: author.Username}, nil
}

func (m *Memory) UpdateBlog(ctx context.Context, id, title, content string, photoPath *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blogs[id]
	if !ok {
		return ErrNotFound
	}
	b.Title = title
	b.Content = content
	if photoPath != nil {
		b.PhotoPath = *photoPath
	}
	b.UpdatedAt = m.tick()
	m.blogs[id] = b
	return nil
}

func (m *Memory) DeleteBlog(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blogs[id]; !ok {
		return ErrNotFound
	}
	delete(m.blogs, id)
	kept := m.comments[:0]
	for _, c := range m.comments {
		if c.BlogID != id {
			kept = append(kept, c)
		}
	}
	m.comments = kept
	return nil
}

func (m *Memory) CreateComment(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blogs[comment.BlogID]; !ok {
		return nil, ErrNotFound
	}
	if _, ok := m.users[comment.AuthorID]; !ok {
		return nil, ErrNotFound
	}
	created := *comment
	created.CreatedAt = m.tick()
	m.comments = append(m.comments, created)
	return &created, nil
}

func (m *Memory) ListCommentsByBlog(ctx context.Context, blogID string) ([]model.CommentDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := []model.CommentDetails{}
	for _, c := range m.comments {
		if c.BlogID != blogID {
			continue
		}
		list = append(list, model.CommentDetails{Comment: c, AuthorUsername: m.users[c.AuthorID].Username})
	}
	return list, nil
}
