package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"blog/database"
	"blog/models"

	"github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStore struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]*models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.Email = strings.ToLower(user.Email)
	for _, u := range s.users {
		if u.Email == user.Email {
			return database.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	u := *user
	s.users[u.ID] = &u
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(email)
	for _, user := range s.users {
		if user.Email == email {
			u := *user
			return &u, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *UserStore) GetPublicProfile(ctx context.Context, id primitive.ObjectID) (*models.PublicProfile, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := user.Public()
	return &profile, nil
}

func (s *UserStore) GetPublicProfiles(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.PublicProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := make(map[primitive.ObjectID]models.PublicProfile, len(ids))
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			profiles[id] = user.Public()
		}
	}
	return profiles, nil
}

type SubscriptionStore struct {
	mu   sync.RWMutex
	subs map[primitive.ObjectID]models.PushSubscription
}

func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{subs: make(map[primitive.ObjectID]models.PushSubscription)}
}

func (s *SubscriptionStore) Upsert(ctx context.Context, userID primitive.ObjectID, sub webpush.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.subs[userID]
	if !ok {
		existing = models.PushSubscription{ID: primitive.NewObjectID(), UserID: userID}
	}
	existing.Sub = sub
	s.subs[userID] = existing
	return nil
}

func (s *SubscriptionStore) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.PushSubscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[userID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &sub, nil
}

func (s *SubscriptionStore) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, userID)
	return nil
}
