package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"blog/assets"
	"blog/auth"
	"blog/database/memory"
	"blog/handlers"
	"blog/models"
	"blog/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router   *gin.Engine
	users    *memory.UserStore
	comments *memory.CommentStore
	gateway  *assets.Memory
	tokens   *auth.TokenManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	posts := memory.NewPostStore()
	s := &testServer{
		users:    memory.NewUserStore(),
		comments: memory.NewCommentStore(),
		gateway:  assets.NewMemory(),
		tokens:   auth.NewTokenManager("test-secret", time.Hour),
	}

	authService := services.NewAuthService(s.users, s.tokens)
	commentService := services.NewCommentService(s.comments, s.users, nil)
	h := &handlers.Handler{
		Posts:          services.NewPostService(posts, s.users, commentService, s.gateway, nil),
		Comments:       commentService,
		Categories:     services.NewCategoryService(memory.NewCategoryStore()),
		Auth:           authService,
		Subscriptions:  memory.NewSubscriptionStore(),
		Stager:         assets.NewStager(t.TempDir()),
		VAPIDPublicKey: "public-key",
	}
	s.router = SetupRouter(h, Options{Auth: authService})
	return s
}

// login creates a user directly in the store and returns a bearer token.
func (s *testServer) login(t *testing.T, name string, admin bool) (primitive.ObjectID, string) {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", PasswordHash: "x", IsAdmin: admin}
	require.NoError(t, s.users.Create(context.Background(), u))
	token, err := s.tokens.Issue(u.ID, admin)
	require.NoError(t, err)
	return u.ID, token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) upload(t *testing.T, method, path, token string, fields map[string]string, withImage bool) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withImage {
		part, err := mw.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG fake"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

var postFields = map[string]string{
	"title":       "Hello world",
	"description": "a description long enough",
	"category":    "go",
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostLifecycle(t *testing.T) {
	s := newTestServer(t)
	ownerID, owner := s.login(t, "alice", false)
	_, other := s.login(t, "bob", false)

	w := s.upload(t, http.MethodPost, "/api/posts", owner, postFields, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var post models.Post
	decode(t, w, &post)
	assert.Equal(t, ownerID, post.UserID)
	require.NotNil(t, post.Image.PublicID)
	postPath := "/api/posts/" + post.ID.Hex()

	w = s.do(t, http.MethodGet, postPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"comments":[]`)
	assert.Contains(t, w.Body.String(), `"userId":"`+ownerID.Hex()+`"`)

	w = s.do(t, http.MethodGet, "/api/posts/count", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Body.String())

	w = s.do(t, http.MethodPut, "/api/posts/like/"+post.ID.Hex(), other, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var liked models.Post
	decode(t, w, &liked)
	assert.Len(t, liked.Likes, 1)

	w = s.do(t, http.MethodPost, "/api/comments", other, map[string]string{"postId": post.ID.Hex(), "text": "nice"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, postPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched models.PostDetail
	decode(t, w, &fetched)
	require.Len(t, fetched.Comments, 1)
	assert.Equal(t, "bob", fetched.Comments[0].Username)
	require.NotNil(t, fetched.User)
	assert.Equal(t, "alice", fetched.User.Username)

	w = s.do(t, http.MethodPut, postPath, other, map[string]string{"title": "Stolen"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPut, postPath, owner, map[string]string{"title": "Renamed"})
	require.Equal(t, http.StatusOK, w.Code)
	var renamed models.Post
	decode(t, w, &renamed)
	assert.Equal(t, "Renamed", renamed.Title)

	w = s.upload(t, http.MethodPut, "/api/posts/update-image/"+post.ID.Hex(), owner, nil, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, s.gateway.Has(*post.Image.PublicID))

	w = s.do(t, http.MethodDelete, postPath, other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, postPath, owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted map[string]string
	decode(t, w, &deleted)
	assert.Equal(t, post.ID.Hex(), deleted["postId"])

	w = s.do(t, http.MethodGet, postPath, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	left, err := s.comments.FindByPostID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestCreatePostWithoutImage(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login(t, "alice", false)

	w := s.upload(t, http.MethodPost, "/api/posts", token, postFields, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"no image provided"}`, w.Body.String())
}

func TestCreatePostValidation(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login(t, "alice", false)

	fields := map[string]string{"title": "H", "description": "a description long enough", "category": "go"}
	w := s.upload(t, http.MethodPost, "/api/posts", token, fields, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title")
	assert.Zero(t, s.gateway.Len())
}

func TestGetPostsPagination(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login(t, "alice", false)
	for i := 0; i < 4; i++ {
		w := s.upload(t, http.MethodPost, "/api/posts", token, postFields, true)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var page []models.Post
	w := s.do(t, http.MethodGet, "/api/posts?pageNumber=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &page)
	assert.Len(t, page, 1)

	w = s.do(t, http.MethodGet, "/api/posts?pageNumber=zero", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/posts?category=rust", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestRouteGuards(t *testing.T) {
	s := newTestServer(t)
	_, user := s.login(t, "alice", false)
	_, admin := s.login(t, "root", true)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		want   int
	}{
		{"malformed post id", http.MethodGet, "/api/posts/abc", "", nil, http.StatusBadRequest},
		{"malformed id before auth", http.MethodDelete, "/api/posts/abc", "", nil, http.StatusBadRequest},
		{"unknown post", http.MethodGet, "/api/posts/" + primitive.NewObjectID().Hex(), "", nil, http.StatusNotFound},
		{"missing token", http.MethodPost, "/api/comments", "", map[string]string{"text": "x"}, http.StatusUnauthorized},
		{"comment without post id", http.MethodPost, "/api/comments", user, map[string]string{"text": "x"}, http.StatusBadRequest},
		{"non-admin creates category", http.MethodPost, "/api/categories", user, map[string]string{"title": "go"}, http.StatusForbidden},
		{"admin creates category", http.MethodPost, "/api/categories", admin, map[string]string{"title": "go"}, http.StatusCreated},
		{"non-admin lists comments", http.MethodGet, "/api/comments", user, nil, http.StatusForbidden},
		{"admin lists comments", http.MethodGet, "/api/comments", admin, nil, http.StatusOK},
		{"public categories", http.MethodGet, "/api/categories", "", nil, http.StatusOK},
		{"unknown category", http.MethodDelete, "/api/categories/" + primitive.NewObjectID().Hex(), admin, nil, http.StatusNotFound},
		{"like unknown post", http.MethodPut, "/api/posts/like/" + primitive.NewObjectID().Hex(), user, nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestCommentPermissions(t *testing.T) {
	s := newTestServer(t)
	_, author := s.login(t, "alice", false)
	_, stranger := s.login(t, "mallory", false)
	_, admin := s.login(t, "root", true)

	create := func() string {
		w := s.do(t, http.MethodPost, "/api/comments", author, map[string]string{
			"postId": primitive.NewObjectID().Hex(),
			"text":   "hello",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		var c models.Comment
		decode(t, w, &c)
		return "/api/comments/" + c.ID.Hex()
	}

	path := create()
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPut, path, stranger, map[string]string{"text": "x"}).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPut, path, admin, map[string]string{"text": "moderated"}).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, path, stranger, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, path, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, path, admin, nil).Code)

	path = create()
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, path, author, nil).Code)
}

func TestAuthEndpoints(t *testing.T) {
	s := newTestServer(t)

	register := map[string]string{"username": "alice", "email": "alice@example.com", "password": "password123"}
	w := s.do(t, http.MethodPost, "/api/auth/register", "", register)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "password123")

	w = s.do(t, http.MethodPost, "/api/auth/register", "", register)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	var session struct {
		Token string               `json:"token"`
		User  models.PublicProfile `json:"user"`
	}
	decode(t, w, &session)
	require.NotEmpty(t, session.Token)

	w = s.do(t, http.MethodGet, "/api/users/profile/"+session.User.ID.Hex(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)

	w = s.do(t, http.MethodPost, "/api/subscribe", session.Token, map[string]interface{}{
		"endpoint": "https://push.example/1",
		"keys":     map[string]string{"p256dh": "k", "auth": "a"},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/vapid-public-key", "", nil)
	assert.JSONEq(t, `{"publicKey":"public-key"}`, w.Body.String())
}
