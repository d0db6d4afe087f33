// Package push sends web-push notifications to post owners when other
// users interact with their posts.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"
	"unicode/utf8"

	"blog/database"
	"blog/models"

	"github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	sendTimeout  = 5 * time.Second
	maxBodyRunes = 100
)

// SendFunc matches webpush.SendNotification.
type SendFunc func(message []byte, s *webpush.Subscription, options *webpush.Options) (*http.Response, error)

type Config struct {
	PublicKey  string
	PrivateKey string
	Subject    string
}

// Notifier implements services.EventPublisher.
type Notifier struct {
	subs  database.SubscriptionStore
	posts database.PostStore
	cfg   Config
	send  SendFunc
}

func NewNotifier(subs database.SubscriptionStore, posts database.PostStore, cfg Config) *Notifier {
	if cfg.Subject == "" {
		cfg.Subject = "mailto:admin@example.com"
	}
	return &Notifier{subs: subs, posts: posts, cfg: cfg, send: webpush.SendNotification}
}

// WithSender replaces the transport, mainly for tests.
func (n *Notifier) WithSender(send SendFunc) *Notifier {
	n.send = send
	return n
}

func (n *Notifier) PostCreated(*models.Post) {}

func (n *Notifier) PostDeleted(primitive.ObjectID) {}

func (n *Notifier) PostLiked(post *models.Post, userID primitive.ObjectID, liked bool) {
	if !liked || userID == post.UserID {
		return
	}
	n.notify(post.UserID, "New like ❤️", "Someone liked your post \""+post.Title+"\"", "/posts/details/"+post.ID.Hex())
}

func (n *Notifier) CommentCreated(comment *models.Comment) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		post, err := n.posts.FindByID(ctx, comment.PostID)
		if err != nil {
			if !errors.Is(err, database.ErrNotFound) {
				log.Printf("[push] lookup of post %s failed: %v", comment.PostID.Hex(), err)
			}
			return
		}
		if post.UserID == comment.UserID {
			return
		}

		n.deliver(ctx, post.UserID, comment.Username+" commented on your post", truncate(comment.Text, maxBodyRunes), "/posts/details/"+post.ID.Hex())
	}()
}

// truncate cuts s to at most limit runes, marking the cut with "...".
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}

func (n *Notifier) notify(userID primitive.ObjectID, title, body, url string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		n.deliver(ctx, userID, title, body, url)
	}()
}

func (n *Notifier) deliver(ctx context.Context, userID primitive.ObjectID, title, body, url string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in push notification: %v", r)
		}
	}()

	sub, err := n.subs.FindByUser(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return
	}
	if err != nil {
		log.Printf("Failed to find subscription for user %s: %v", userID.Hex(), err)
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"title": title,
		"body":  body,
		"data": map[string]interface{}{
			"url":       url,
			"timestamp": time.Now().Unix(),
		},
	})
	if err != nil {
		log.Printf("Failed to marshal push payload: %v", err)
		return
	}

	resp, err := n.send(payload, &sub.Sub, &webpush.Options{
		Subscriber:      n.cfg.Subject,
		VAPIDPublicKey:  n.cfg.PublicKey,
		VAPIDPrivateKey: n.cfg.PrivateKey,
		TTL:             30,
	})
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err == nil && resp != nil && resp.StatusCode == http.StatusGone {
		err = errors.New("subscription gone")
	}
	if err != nil {
		log.Printf("Failed to send push notification to user %s: %v", userID.Hex(), err)
	}

	// If subscription is invalid (410), delete it
	if resp != nil && resp.StatusCode == http.StatusGone {
		if delErr := n.subs.DeleteByUser(ctx, userID); delErr != nil {
			log.Printf("Failed to delete expired subscription: %v", delErr)
		}
	}
}
