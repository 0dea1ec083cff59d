package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"inkwell/cmd/api/middleware"
	"inkwell/services"
)

// blogForm is the create/update payload. It binds from multipart form
// fields or from a JSON body; the featured image only arrives as a
// multipart file part.
type blogForm struct {
	Title            string `form:"title" json:"title"`
	Content          string `form:"content" json:"content"`
	Excerpt          string `form:"excerpt" json:"excerpt"`
	MetaDescription  string `form:"meta_description" json:"meta_description"`
	Categories       string `form:"categories" json:"categories"`
	Tags             string `form:"tags" json:"tags"`
	Keywords         string `form:"keywords" json:"keywords"`
	IsCommentEnabled *bool  `form:"is_comment_enabled" json:"is_comment_enabled"`
}

func formImage(c *gin.Context) (*services.ImageUpload, io.Closer, error) {
	header, err := c.FormFile("featured_image")
	if err != nil {
		// Missing file is fine; the field is optional.
		return nil, nil, nil
	}
	f, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	return &services.ImageUpload{
		Reader:      f,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}, f, nil
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return page, pageSize
}

// ListBlogsHandler godoc
// @Summary      List published blogs
// @Description  Paginated listing of published blogs with optional category/tag filters
// @Tags         blogs
// @Param        page       query  int     false  "Page number (1-based)"
// @Param        page_size  query  int     false  "Page size (<=100)"
// @Param        category   query  string  false  "Category filter"
// @Param        tag        query  string  false  "Tag filter"
// @Param        sort_by    query  string  false  "Sort field (created_at, published_at, updated_at, view_count, title)"
// @Produce      json
// @Success      200  {object}  dto.APIResponse
// @Router       /blogs [get]
func ListBlogsHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize := pageParams(c)
		result, err := svc.List(c.Request.Context(), services.ListInput{
			Category: strings.ToLower(c.Query("category")),
			Tag:      strings.ToLower(c.Query("tag")),
			SortBy:   c.Query("sort_by"),
			Page:     page,
			PageSize: pageSize,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, result, "Blogs fetched successfully")
	}
}

// SearchBlogsHandler godoc
// @Summary      Search published blogs
// @Description  Full-text search over title and content, ranked by relevance
// @Tags         blogs
// @Param        q          query  string  true   "Search query"
// @Param        page       query  int     false  "Page number (1-based)"
// @Param        page_size  query  int     false  "Page size (<=100)"
// @Produce      json
// @Success      200  {object}  dto.APIResponse
// @Failure      400  {object}  dto.APIErrorResponse
// @Router       /blogs/search [get]
func SearchBlogsHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize := pageParams(c)
		result, err := svc.Search(c.Request.Context(), c.Query("q"), page, pageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, result, "Search results fetched successfully")
	}
}

// BlogsByCategoryHandler godoc
// @Summary      List published blogs in a category
// @Tags         blogs
// @Param        category   path   string  true   "Category"
// @Param        page       query  int     false  "Page number (1-based)"
// @Param        page_size  query  int     false  "Page size (<=100)"
// @Produce      json
// @Success      200  {object}  dto.APIResponse
// @Router       /blogs/category/{category} [get]
func BlogsByCategoryHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize := pageParams(c)
		result, err := svc.ByCategory(c.Request.Context(), strings.ToLower(c.Param("category")), page, pageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, result, "Blogs fetched successfully")
	}
}

// BlogsByTagHandler godoc
// @Summary      List published blogs carrying a tag
// @Tags         blogs
// @Param        tag        path   string  true   "Tag"
// @Param        page       query  int     false  "Page number (1-based)"
// @Param        page_size  query  int     false  "Page size (<=100)"
// @Produce      json
// @Success      200  {object}  dto.APIResponse
// @Router       /blogs/tag/{tag} [get]
func BlogsByTagHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize := pageParams(c)
		result, err := svc.ByTag(c.Request.Context(), strings.ToLower(c.Param("tag")), page, pageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, result, "Blogs fetched successfully")
	}
}

// GetBlogBySlugHandler godoc
// @Summary      Get a published blog by slug
// @Tags         blogs
// @Param        slug  path  string  true  "Slug"
// @Produce      json
// @Success      200  {object}  dto.APIResponse
// @Failure      404  {object}  dto.APIErrorResponse
// @Router       /blogs/slug/{slug} [get]
func GetBlogBySlugHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		blog, err := svc.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, blog, "Blog fetched successfully")
	}
}

// GetBlogHandler godoc
// @Summary      Get a blog by id
// @Tags         blogs
// @Param        id  path  string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.APIResponse
// @Failure      404  {object}  dto.APIErrorResponse
// @Router       /blogs/{id} [get]
func GetBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		blog, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, blog, "Blog fetched successfully")
	}
}

// IncrementBlogViewsHandler godoc
// @Summary      Increment a blog's view count
// @Tags         blogs
// @Param        id  path  string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.APIResponse
// @Failure      404  {object}  dto.APIErrorResponse
// @Router       /blogs/{id}/view [patch]
func IncrementBlogViewsHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := svc.IncrementViews(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"view_count": count}, "View count incremented successfully")
	}
}

// CreateBlogHandler godoc
// @Summary      Create a blog
// @Description  Creates a draft blog owned by the authenticated user
// @Tags         blogs
// @Security     BearerAuth
// @Accept       mpfd
// @Produce      json
// @Success      201  {object}  dto.APIResponse
// @Failure      400  {object}  dto.APIErrorResponse
// @Failure      401  {object}  dto.APIErrorResponse
// @Router       /blogs/create [post]
func CreateBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var form blogForm
		if err := c.ShouldBind(&form); err != nil {
			respond400(c, "Invalid request body")
			return
		}
		image, file, err := formImage(c)
		if err != nil {
			respond400(c, "Invalid featured image")
			return
		}
		if file != nil {
			defer file.Close()
		}

		blog, err := svc.Create(c.Request.Context(), userID, services.CreateBlogInput{
			Title:            form.Title,
			Content:          form.Content,
			Excerpt:          form.Excerpt,
			MetaDescription:  form.MetaDescription,
			Categories:       form.Categories,
			Tags:             form.Tags,
			Keywords:         form.Keywords,
			IsCommentEnabled: form.IsCommentEnabled,
			Image:            image,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusCreated, blog, "Blog created successfully")
	}
}

// UpdateBlogHandler godoc
// @Summary      Update a blog
// @Description  Partial update; only provided fields change, the slug never does
// @Tags         blogs
// @Security     BearerAuth
// @Param        id  path  string  true  "ObjectID"
// @Accept       mpfd
// @Produce      json
// @Success      200  {object}  dto.APIResponse
// @Failure      403  {object}  dto.APIErrorResponse
// @Failure      404  {object}  dto.APIErrorResponse
// @Router       /blogs/{id}/update [patch]
func UpdateBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var form blogForm
		if err := c.ShouldBind(&form); err != nil {
			respond400(c, "Invalid request body")
			return
		}
		image, file, err := formImage(c)
		if err != nil {
			respond400(c, "Invalid featured image")
			return
		}
		if file != nil {
			defer file.Close()
		}

		blog, err := svc.Update(c.Request.Context(), c.Param("id"), userID, services.UpdateBlogInput{
			Title:            form.Title,
			Content:          form.Content,
			Excerpt:          form.Excerpt,
			MetaDescription:  form.MetaDescription,
			Categories:       form.Categories,
			Tags:             form.Tags,
			Keywords:         form.Keywords,
			IsCommentEnabled: form.IsCommentEnabled,
			Image:            image,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, blog, "Blog updated successfully")
	}
}

// DeleteBlogHandler godoc
// @Summary      Delete a blog
// @Tags         blogs
// @Security     BearerAuth
// @Param        id  path  string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.APIResponse
// @Failure      403  {object}  dto.APIErrorResponse
// @Failure      404  {object}  dto.APIErrorResponse
// @Router       /blogs/{id}/delete [delete]
func DeleteBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		if err := svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, nil, "Blog deleted successfully")
	}
}

// PublishBlogHandler godoc
// @Summary      Publish a blog
// @Description  Transitions to published; the publish timestamp is set only on the first publish
// @Tags         blogs
// @Security     BearerAuth
// @Param        id  path  string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.APIResponse
// @Failure      403  {object}  dto.APIErrorResponse
// @Router       /blogs/{id}/publish [patch]
func PublishBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		blog, err := svc.Publish(c.Request.Context(), c.Param("id"), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, blog, "Blog published successfully")
	}
}

// UnpublishBlogHandler godoc
// @Summary      Unpublish a blog
// @Description  Moves the blog back to draft; the publish timestamp is kept
// @Tags         blogs
// @Security     BearerAuth
// @Param        id  path  string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.APIResponse
// @Failure      403  {object}  dto.APIErrorResponse
// @Router       /blogs/{id}/unpublish [patch]
func UnpublishBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		blog, err := svc.Unpublish(c.Request.Context(), c.Param("id"), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, blog, "Blog unpublished successfully")
	}
}

// BlogsByUserHandler godoc
// @Summary      List a user's blogs
// @Description  Everyone sees the user's published blogs; the author also sees drafts and can filter by status
// @Tags         blogs
// @Param        userId     path   string  true   "Author ObjectID"
// @Param        status     query  string  false  "Status filter (author only)"
// @Param        page       query  int     false  "Page number (1-based)"
// @Param        page_size  query  int     false  "Page size (<=100)"
// @Produce      json
// @Success      200  {object}  dto.APIResponse
// @Router       /blogs/user/{userId} [get]
func BlogsByUserHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester, _ := middleware.UserID(c)
		page, pageSize := pageParams(c)
		result, err := svc.GetByAuthor(c.Request.Context(), c.Param("userId"), requester, c.Query("status"), page, pageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, result, "Blogs fetched successfully")
	}
}

// MyBlogsHandler godoc
// @Summary      List the authenticated user's blogs
// @Description  Includes drafts and archived blogs; optional status filter
// @Tags         blogs
// @Security     BearerAuth
// @Param        status     query  string  false  "Status filter"
// @Param        page       query  int     false  "Page number (1-based)"
// @Param        page_size  query  int     false  "Page size (<=100)"
// @Produce      json
// @Success      200  {object}  dto.APIResponse
// @Failure      401  {object}  dto.APIErrorResponse
// @Router       /blogs/my-blogs [get]
func MyBlogsHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		page, pageSize := pageParams(c)
		result, err := svc.GetByAuthor(c.Request.Context(), userID.Hex(), userID, c.Query("status"), page, pageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, result, "Blogs fetched successfully")
	}
}

// LikeBlogHandler godoc
// @Summary      Like a blog
// @Description  Idempotent; liking twice has no effect
// @Tags         blogs
// @Security     BearerAuth
// @Param        id  path  string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.APIResponse
// @Failure      404  {object}  dto.APIErrorResponse
// @Router       /blogs/{id}/like [post]
func LikeBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		count, err := svc.Like(c.Request.Context(), c.Param("id"), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"like_count": count}, "Blog liked successfully")
	}
}

// UnlikeBlogHandler godoc
// @Summary      Unlike a blog
// @Description  Idempotent; removing an absent like has no effect
// @Tags         blogs
// @Security     BearerAuth
// @Param        id  path  string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.APIResponse
// @Failure      404  {object}  dto.APIErrorResponse
// @Router       /blogs/{id}/unlike [post]
func UnlikeBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		count, err := svc.Unlike(c.Request.Context(), c.Param("id"), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"like_count": count}, "Blog unliked successfully")
	}
}

// AddCommentHandler godoc
// @Summary      Comment on a blog
// @Tags         blogs
// @Security     BearerAuth
// @Param        id  path  string  true  "ObjectID"
// @Accept       json
// @Produce      json
// @Success      201  {object}  dto.APIResponse
// @Failure      400  {object}  dto.APIErrorResponse
// @Failure      404  {object}  dto.APIErrorResponse
// @Router       /blogs/{id}/comment [post]
func AddCommentHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var body struct {
			Content string `json:"content"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			respond400(c, "Invalid request body")
			return
		}

		comments, err := svc.AddComment(c.Request.Context(), c.Param("id"), userID, body.Content)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusCreated, gin.H{"comments": comments}, "Comment added successfully")
	}
}

// DeleteCommentHandler godoc
// @Summary      Delete a comment
// @Description  Allowed for the comment's author and the blog's author
// @Tags         blogs
// @Security     BearerAuth
// @Param        id         path  string  true  "Blog ObjectID"
// @Param        commentId  path  string  true  "Comment ObjectID"
// @Produce      json
// @Success      200  {object}  dto.APIResponse
// @Failure      403  {object}  dto.APIErrorResponse
// @Failure      404  {object}  dto.APIErrorResponse
// @Router       /blogs/{id}/comment/{commentId} [delete]
func DeleteCommentHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		if err := svc.DeleteComment(c.Request.Context(), c.Param("id"), c.Param("commentId"), userID); err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, nil, "Comment deleted successfully")
	}
}
