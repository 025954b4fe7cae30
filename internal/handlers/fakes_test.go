package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/compass/backend/internal/identity"
	"github.com/anonto42/compass/backend/internal/middleware"
	"github.com/anonto42/compass/backend/internal/models"
	"github.com/anonto42/compass/backend/internal/repositories"
	"github.com/anonto42/compass/backend/internal/response"
	"github.com/anonto42/compass/backend/internal/validators"
	"github.com/labstack/echo/v4"
)

// memStore is an in-memory stand-in for the three repositories. It enforces
// the same uniqueness and ownership rules as the Postgres schema.
type memStore struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	posts  map[uint]*models.Post
	votes  map[uint]*models.Vote
	nextID uint
	calls  int
	failOn error
}

func newMemStore() *memStore {
	return &memStore{
		users: map[uint]*models.User{},
		posts: map[uint]*models.Post{},
		votes: map[uint]*models.Vote{},
	}
}

func (s *memStore) touch() error {
	s.calls++
	return s.failOn
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

type memUsers struct{ *memStore }
type memPosts struct{ *memStore }
type memVotes struct{ *memStore }

func (r memUsers) CreateIfAbsent(ctx context.Context, user *models.User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.touch(); err != nil {
		return false, err
	}
	for _, u := range r.users {
		if u.ExternalID == user.ExternalID {
			*user = *u
			return false, nil
		}
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return false, repositories.ErrDuplicate
		}
	}
	now := time.Now()
	user.ID = r.id()
	user.CreatedAt, user.UpdatedAt = now, now
	stored := *user
	r.users[user.ID] = &stored
	return true, nil
}

func (r memUsers) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.touch(); err != nil {
		return nil, err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.touch(); err != nil {
		return nil, err
	}
	for _, u := range r.users {
		if u.ExternalID == externalID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r memPosts) Create(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.touch(); err != nil {
		return err
	}
	if _, ok := r.users[post.CreatedBy]; !ok {
		return repositories.ErrReferenceMissing
	}
	now := time.Now()
	post.ID = r.id()
	post.CreatedAt, post.LastUpdatedAt = now, now
	stored := *post
	r.posts[post.ID] = &stored
	return nil
}

func (r memPosts) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.touch(); err != nil {
		return nil, err
	}
	p, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memPosts) ListByCreator(ctx context.Context, userID uint) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.touch(); err != nil {
		return nil, err
	}
	posts := []models.Post{}
	for _, p := range r.posts {
		if p.CreatedBy == userID {
			posts = append(posts, *p)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
	return posts, nil
}

func (r memPosts) UpdateOwned(ctx context.Context, id, ownerID uint, changes repositories.PostChanges) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.touch(); err != nil {
		return nil, err
	}
	p, ok := r.posts[id]
	if !ok || p.CreatedBy != ownerID {
		return nil, repositories.ErrNotFound
	}
	if changes.Title != "" {
		p.Title = changes.Title
	}
	if changes.Content != "" {
		p.Content = changes.Content
	}
	p.LastUpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (r memPosts) DeleteOwned(ctx context.Context, id, ownerID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.touch(); err != nil {
		return err
	}
	p, ok := r.posts[id]
	if !ok || p.CreatedBy != ownerID {
		return repositories.ErrNotFound
	}
	delete(r.posts, id)
	for vid, v := range r.votes {
		if v.PostID == id {
			delete(r.votes, vid)
		}
	}
	return nil
}

func (r memVotes) Upsert(ctx context.Context, vote *models.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.touch(); err != nil {
		return err
	}
	if _, ok := r.posts[vote.PostID]; !ok {
		return repositories.ErrReferenceMissing
	}
	for _, v := range r.votes {
		if v.PostID == vote.PostID && v.VotedBy == vote.VotedBy {
			v.Type = vote.Type
			v.VotedAt = time.Now()
			*vote = *v
			return nil
		}
	}
	vote.ID = r.id()
	vote.VotedAt = time.Now()
	stored := *vote
	r.votes[vote.ID] = &stored
	return nil
}

func (r memVotes) DeleteByVoter(ctx context.Context, postID, voterID uint) (uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.touch(); err != nil {
		return 0, err
	}
	for id, v := range r.votes {
		if v.PostID == postID && v.VotedBy == voterID {
			delete(r.votes, id)
			return id, nil
		}
	}
	return 0, repositories.ErrNotFound
}

func (r memVotes) tally(postID uint) models.VoteTally {
	t := models.VoteTally{PostID: postID}
	for _, v := range r.votes {
		if v.PostID != postID {
			continue
		}
		switch v.Type {
		case models.VoteUp:
			t.UpvoteCount++
		case models.VoteDown:
			t.DownvoteCount++
		}
	}
	return t
}

func (r memVotes) Tally(ctx context.Context, postID uint) (models.VoteTally, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.touch(); err != nil {
		return models.VoteTally{}, err
	}
	return r.tally(postID), nil
}

func (r memVotes) TallyMany(ctx context.Context, postIDs []uint) (map[uint]models.VoteTally, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.touch(); err != nil {
		return nil, err
	}
	out := make(map[uint]models.VoteTally, len(postIDs))
	for _, id := range postIDs {
		out[id] = r.tally(id)
	}
	return out, nil
}

func (s *memStore) voteRows(postID uint) []models.Vote {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []models.Vote
	for _, v := range s.votes {
		if v.PostID == postID {
			rows = append(rows, *v)
		}
	}
	return rows
}

// stubProvider accepts "token-<uid>" bearer tokens.
type stubProvider struct {
	profiles map[string]*identity.Profile
}

func (p *stubProvider) Verify(ctx context.Context, token string) (*identity.Identity, error) {
	uid, ok := strings.CutPrefix(token, "token-")
	if !ok || uid == "" {
		return nil, identity.ErrInvalidToken
	}
	return &identity.Identity{UID: uid}, nil
}

func (p *stubProvider) Profile(ctx context.Context, id *identity.Identity) (*identity.Profile, error) {
	profile, ok := p.profiles[id.UID]
	if !ok {
		return nil, identity.ErrUnknownUser
	}
	cp := *profile
	return &cp, nil
}

type testServer struct {
	echo     *echo.Echo
	store    *memStore
	provider *stubProvider
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := newMemStore()
	provider := &stubProvider{profiles: map[string]*identity.Profile{}}
	users, posts, votes := memUsers{store}, memPosts{store}, memVotes{store}

	e := echo.New()
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = response.ErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))

	api := e.Group("", middleware.Authenticate(provider))
	NewUserHandler(users, posts, votes, provider).RegisterUserRoutes(api.Group("/user"))
	NewPostHandler(posts, users, votes).RegisterPostRoutes(api.Group("/posts"))
	NewVoteHandler(votes, users).RegisterVoteRoutes(api.Group("/vote"))

	return &testServer{echo: e, store: store, provider: provider}
}

func (s *testServer) addProfile(uid, email, name string) {
	s.provider.profiles[uid] = &identity.Profile{
		UID:         uid,
		Email:       email,
		DisplayName: name,
		CreatedAt:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func (s *testServer) do(method, path, uid, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if uid != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer token-"+uid)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

// mustSync creates the local user row for uid and returns its id.
func (s *testServer) mustSync(t *testing.T, uid string, native bool) uint {
	t.Helper()
	s.addProfile(uid, uid+"@example.com", uid)
	body := `{"isNative":false}`
	if native {
		body = `{"isNative":true}`
	}
	rec := s.do(http.MethodPost, "/user/sync", uid, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("sync %s: status %d body %s", uid, rec.Code, rec.Body.String())
	}
	u, err := memUsers{s.store}.GetByExternalID(context.Background(), uid)
	if err != nil {
		t.Fatalf("sync %s: %v", uid, err)
	}
	return u.ID
}
