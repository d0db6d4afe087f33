package services

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"blog/database"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PostTitleMin       = 2
	PostTitleMax       = 220
	PostDescriptionMin = 10
	UsernameMin        = 2
	UsernameMax        = 100
	PasswordMin        = 8
)

type CreatePostRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Category    string `json:"category" form:"category"`
}

// Validate returns the trimmed request or the first validation failure.
func (r CreatePostRequest) Validate() (CreatePostRequest, error) {
	out := CreatePostRequest{
		Title:       strings.TrimSpace(r.Title),
		Description: strings.TrimSpace(r.Description),
		Category:    strings.TrimSpace(r.Category),
	}
	if err := checkTitle(out.Title, true); err != nil {
		return out, err
	}
	if err := checkDescription(out.Description, true); err != nil {
		return out, err
	}
	if out.Category == "" {
		return out, required("category")
	}
	return out, nil
}

// UpdatePostRequest holds optional fields; nil means "leave as is".
type UpdatePostRequest struct {
	Title       *string `json:"title" form:"title"`
	Description *string `json:"description" form:"description"`
	Category    *string `json:"category" form:"category"`
}

func (r UpdatePostRequest) Validate() (database.PostUpdate, error) {
	var out database.PostUpdate
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		if err := checkTitle(title, false); err != nil {
			return out, err
		}
		out.Title = &title
	}
	if r.Description != nil {
		description := strings.TrimSpace(*r.Description)
		if err := checkDescription(description, false); err != nil {
			return out, err
		}
		out.Description = &description
	}
	if r.Category != nil {
		category := strings.TrimSpace(*r.Category)
		if category == "" {
			return out, empty("category")
		}
		out.Category = &category
	}
	return out, nil
}

type CreateCommentRequest struct {
	PostID string `json:"postId"`
	Text   string `json:"text"`
}

func (r CreateCommentRequest) Validate() (primitive.ObjectID, string, error) {
	if strings.TrimSpace(r.PostID) == "" {
		return primitive.NilObjectID, "", required("Post ID")
	}
	postID, err := primitive.ObjectIDFromHex(strings.TrimSpace(r.PostID))
	if err != nil {
		return primitive.NilObjectID, "", invalid(`"Post ID" must be a valid id`)
	}
	text := strings.TrimSpace(r.Text)
	if text == "" {
		return primitive.NilObjectID, "", required("Text")
	}
	return postID, text, nil
}

type UpdateCommentRequest struct {
	Text string `json:"text"`
}

func (r UpdateCommentRequest) Validate() (string, error) {
	text := strings.TrimSpace(r.Text)
	if text == "" {
		return "", required("text")
	}
	return text, nil
}

type CreateCategoryRequest struct {
	Title string `json:"title"`
}

func (r CreateCategoryRequest) Validate() (string, error) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return "", required("title")
	}
	return title, nil
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() (RegisterRequest, error) {
	out := RegisterRequest{
		Username: strings.TrimSpace(r.Username),
		Email:    strings.ToLower(strings.TrimSpace(r.Email)),
		Password: r.Password,
	}
	if out.Username == "" {
		return out, required("username")
	}
	if n := utf8.RuneCountInString(out.Username); n < UsernameMin || n > UsernameMax {
		return out, invalid(fmt.Sprintf(`"username" length must be between %d and %d characters long`, UsernameMin, UsernameMax))
	}
	if out.Email == "" {
		return out, required("email")
	}
	if addr, err := mail.ParseAddress(out.Email); err != nil || addr.Address != out.Email {
		return out, invalid(`"email" must be a valid email`)
	}
	if len(out.Password) < PasswordMin {
		return out, invalid(fmt.Sprintf(`"password" length must be at least %d characters long`, PasswordMin))
	}
	return out, nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() (LoginRequest, error) {
	out := LoginRequest{Email: strings.ToLower(strings.TrimSpace(r.Email)), Password: r.Password}
	if out.Email == "" {
		return out, required("email")
	}
	if out.Password == "" {
		return out, required("password")
	}
	return out, nil
}

func checkTitle(title string, mandatory bool) error {
	if title == "" {
		if mandatory {
			return required("title")
		}
		return empty("title")
	}
	n := utf8.RuneCountInString(title)
	if n < PostTitleMin {
		return invalid(fmt.Sprintf(`"title" length must be at least %d characters long`, PostTitleMin))
	}
	if n > PostTitleMax {
		return invalid(fmt.Sprintf(`"title" length must be less than or equal to %d characters long`, PostTitleMax))
	}
	return nil
}

func checkDescription(description string, mandatory bool) error {
	if description == "" {
		if mandatory {
			return required("description")
		}
		return empty("description")
	}
	if utf8.RuneCountInString(description) < PostDescriptionMin {
		return invalid(fmt.Sprintf(`"description" length must be at least %d characters long`, PostDescriptionMin))
	}
	return nil
}

func required(field string) error {
	return invalid(fmt.Sprintf("%q is required", field))
}

func empty(field string) error {
	return invalid(fmt.Sprintf("%q is not allowed to be empty", field))
}
