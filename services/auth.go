package services

import (
	"context"
	"errors"
	"log"

	"blog/auth"
	"blog/database"
	"blog/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session is what a successful login hands back to the client.
type Session struct {
	Token   string               `json:"token"`
	Profile models.PublicProfile `json:"user"`
}

type AuthService struct {
	users  database.UserStore
	tokens *auth.TokenManager
}

func NewAuthService(users database.UserStore, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.PublicProfile, error) {
	valid, err := req.Validate()
	if err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(valid.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     valid.Username,
		Email:        valid.Email,
		PasswordHash: hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, &ConflictError{Message: "user already exists"}
		}
		return nil, err
	}

	log.Printf("[AuthService] registered user %s", user.ID.Hex())
	profile := user.Public()
	return &profile, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	valid, err := req.Validate()
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, valid.Email)
	if errors.Is(err, database.ErrNotFound) {
		return nil, &UnauthorizedError{Message: "invalid email or password"}
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, valid.Password) {
		return nil, &UnauthorizedError{Message: "invalid email or password"}
	}

	token, err := s.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, Profile: user.Public()}, nil
}

func (s *AuthService) Profile(ctx context.Context, id primitive.ObjectID) (*models.PublicProfile, error) {
	profile, err := s.users.GetPublicProfile(ctx, id)
	if err != nil {
		return nil, translate(err, "user")
	}
	return profile, nil
}

// Authenticate turns a bearer token into an Identity.
func (s *AuthService) Authenticate(token string) (Identity, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return Identity{}, err
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return Identity{}, auth.ErrInvalidToken
	}
	return Identity{ID: id, IsAdmin: claims.IsAdmin}, nil
}
