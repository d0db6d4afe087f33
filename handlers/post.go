package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"blog/assets"
	"blog/services"

	"github.com/gin-gonic/gin"
)

// stageImage saves the multipart "image" field. A missing field yields an
// empty path, which the service rejects as "no image provided".
func (h *Handler) stageImage(c *gin.Context) (string, error) {
	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", &services.ValidationError{Message: "invalid multipart form"}
	}
	return h.Stager.Save(header)
}

// CreatePost handles POST /api/posts (multipart: title, description,
// category, image).
func (h *Handler) CreatePost(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}

	path, err := h.stageImage(c)
	if err != nil {
		respondError(c, "CreatePost", "Error creating post", err)
		return
	}

	var req services.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		assets.RemoveLocal(path)
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx, cancel := requestContext(c, uploadTimeout)
	defer cancel()

	post, err := h.Posts.Create(ctx, req, caller, path)
	if err != nil {
		respondError(c, "CreatePost", "Error creating post", err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// GetPosts handles GET /api/posts?pageNumber=&category=
func (h *Handler) GetPosts(c *gin.Context) {
	var q services.ListPostsQuery
	if raw, ok := c.GetQuery("pageNumber"); ok && raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "pageNumber must be a positive integer"})
			return
		}
		q.PageNumber = page
	}
	q.Category = c.Query("category")

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	posts, err := h.Posts.List(ctx, q)
	if err != nil {
		respondError(c, "GetPosts", "Error fetching posts", err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *Handler) GetPost(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	post, err := h.Posts.Get(ctx, id)
	if err != nil {
		respondError(c, "GetPost", "Error fetching post", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) GetPostCount(c *gin.Context) {
	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	count, err := h.Posts.Count(ctx)
	if err != nil {
		respondError(c, "GetPostCount", "Error counting posts", err)
		return
	}
	c.JSON(http.StatusOK, count)
}

func (h *Handler) DeletePost(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, uploadTimeout)
	defer cancel()

	if err := h.Posts.Delete(ctx, id, caller); err != nil {
		respondError(c, "DeletePost", "Error deleting post", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "post has been deleted successfully",
		"postId":  id.Hex(),
	})
}

func (h *Handler) UpdatePost(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req services.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON body"})
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	post, err := h.Posts.Update(ctx, id, req, caller)
	if err != nil {
		respondError(c, "UpdatePost", "Error updating post", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) UpdatePostImage(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	path, err := h.stageImage(c)
	if err != nil {
		respondError(c, "UpdatePostImage", "Error updating post image", err)
		return
	}

	ctx, cancel := requestContext(c, uploadTimeout)
	defer cancel()

	post, err := h.Posts.UpdateImage(ctx, id, path, caller)
	if err != nil {
		respondError(c, "UpdatePostImage", "Error updating post image", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) ToggleLike(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	post, err := h.Posts.ToggleLike(ctx, id, caller)
	if err != nil {
		respondError(c, "ToggleLike", "Error toggling like", err)
		return
	}
	c.JSON(http.StatusOK, post)
}
