package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/dto"
	"inkwell/errs"
	"inkwell/internal/logger"
	"inkwell/markdown"
	"inkwell/models"
	"inkwell/repositories"
	"inkwell/storage"
)

// BlogService owns the blog lifecycle: validation, derived fields, image
// upload orchestration, ownership checks and DTO mapping. Validation always
// runs before the image upload so invalid input never leaves an orphaned
// object in the bucket.
type BlogService struct {
	blogs    *repositories.BlogRepository
	queries  *repositories.BlogQueries
	users    *repositories.UserRepository
	uploader storage.Uploader
}

func NewBlogService(blogs *repositories.BlogRepository, queries *repositories.BlogQueries, users *repositories.UserRepository, uploader storage.Uploader) *BlogService {
	return &BlogService{blogs: blogs, queries: queries, users: users, uploader: uploader}
}

// ImageUpload is an incoming featured image from a multipart request.
type ImageUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// CreateBlogInput carries the create form. Categories/tags/keywords are
// comma-delimited strings, split and lowercased before persistence.
type CreateBlogInput struct {
	Title            string
	Content          string
	Excerpt          string
	MetaDescription  string
	Categories       string
	Tags             string
	Keywords         string
	IsCommentEnabled *bool
	Image            *ImageUpload
}

func validateCreate(in CreateBlogInput) *errs.ApiErr {
	if in.Title == "" || in.Content == "" {
		return errs.NewValidationError("Title and content are required")
	}
	// Caps are in characters, not bytes; multibyte titles count per rune.
	if utf8.RuneCountInString(in.Title) > models.TitleMaxLen {
		return errs.NewValidationError(fmt.Sprintf("Title cannot exceed %d characters", models.TitleMaxLen))
	}
	if utf8.RuneCountInString(in.Excerpt) > models.ExcerptMaxLen {
		return errs.NewValidationError(fmt.Sprintf("Excerpt cannot exceed %d characters", models.ExcerptMaxLen))
	}
	if utf8.RuneCountInString(in.MetaDescription) > models.MetaDescriptionMaxLen {
		return errs.NewValidationError(fmt.Sprintf("Meta description cannot exceed %d characters", models.MetaDescriptionMaxLen))
	}
	return nil
}

// Create validates, uploads the featured image if any, and persists a new
// draft blog. Returns the created blog with its author summary populated.
func (s *BlogService) Create(ctx context.Context, author primitive.ObjectID, in CreateBlogInput) (*dto.BlogDetailDTO, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	featuredImage := ""
	if in.Image != nil {
		url, err := s.uploadImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		featuredImage = url
	}

	isCommentEnabled := true
	if in.IsCommentEnabled != nil {
		isCommentEnabled = *in.IsCommentEnabled
	}

	blog := &models.Blog{
		Title:            in.Title,
		Content:          in.Content,
		Excerpt:          in.Excerpt,
		FeaturedImage:    featuredImage,
		Author:           author,
		Categories:       models.SplitList(in.Categories),
		Tags:             models.SplitList(in.Tags),
		Keywords:         models.SplitList(in.Keywords),
		MetaDescription:  in.MetaDescription,
		Status:           models.StatusDraft,
		IsCommentEnabled: isCommentEnabled,
	}

	if err := s.blogs.Create(ctx, blog); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return nil, errs.NewConflictError("A blog with this slug already exists")
		}
		return nil, err
	}

	return s.detailDTO(ctx, blog)
}

// UpdateBlogInput carries a partial update. Only truthy (non-empty) fields
// are applied; a field cannot be cleared by sending an empty value, matching
// the create/update form semantics.
type UpdateBlogInput struct {
	Title            string
	Content          string
	Excerpt          string
	MetaDescription  string
	Categories       string
	Tags             string
	Keywords         string
	IsCommentEnabled *bool
	Image            *ImageUpload
}

// buildBlogPatch translates the input into a $set document containing only
// the provided keys. Reading time follows content whenever content changes.
func buildBlogPatch(in UpdateBlogInput) (bson.M, *errs.ApiErr) {
	set := bson.M{}
	if in.Title != "" {
		if utf8.RuneCountInString(in.Title) > models.TitleMaxLen {
			return nil, errs.NewValidationError(fmt.Sprintf("Title cannot exceed %d characters", models.TitleMaxLen))
		}
		set["title"] = in.Title
	}
	if in.Content != "" {
		set["content"] = in.Content
		set["reading_time"] = models.ComputeReadingTime(in.Content)
	}
	if in.Excerpt != "" {
		if utf8.RuneCountInString(in.Excerpt) > models.ExcerptMaxLen {
			return nil, errs.NewValidationError(fmt.Sprintf("Excerpt cannot exceed %d characters", models.ExcerptMaxLen))
		}
		set["excerpt"] = in.Excerpt
	}
	if in.MetaDescription != "" {
		if utf8.RuneCountInString(in.MetaDescription) > models.MetaDescriptionMaxLen {
			return nil, errs.NewValidationError(fmt.Sprintf("Meta description cannot exceed %d characters", models.MetaDescriptionMaxLen))
		}
		set["meta_description"] = in.MetaDescription
	}
	if in.Categories != "" {
		set["categories"] = models.SplitList(in.Categories)
	}
	if in.Tags != "" {
		set["tags"] = models.SplitList(in.Tags)
	}
	if in.Keywords != "" {
		set["keywords"] = models.SplitList(in.Keywords)
	}
	if in.IsCommentEnabled != nil {
		set["is_comment_enabled"] = *in.IsCommentEnabled
	}
	return set, nil
}

// Update applies a partial update to the requester's own blog.
func (s *BlogService) Update(ctx context.Context, id string, requester primitive.ObjectID, in UpdateBlogInput) (*dto.BlogDetailDTO, error) {
	set, apiErr := buildBlogPatch(in)
	if apiErr != nil {
		return nil, apiErr
	}

	blog, err := s.ownedBlog(ctx, id, requester, "You can only update your own blogs")
	if err != nil {
		return nil, err
	}

	if in.Image != nil {
		url, err := s.uploadImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		set["featured_image"] = url
	}

	if len(set) > 0 {
		blog, err = s.blogs.Update(ctx, blog.ID, set)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return nil, errs.NewNotFoundError("Blog not found")
			}
			return nil, err
		}
	}

	return s.detailDTO(ctx, blog)
}

// Delete hard-removes the requester's own blog, then removes its featured
// image from the image host best-effort.
func (s *BlogService) Delete(ctx context.Context, id string, requester primitive.ObjectID) error {
	blog, err := s.ownedBlog(ctx, id, requester, "You can only delete your own blogs")
	if err != nil {
		return err
	}

	if err := s.blogs.Delete(ctx, blog.ID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.NewNotFoundError("Blog not found")
		}
		return err
	}

	if blog.FeaturedImage != "" && s.uploader != nil {
		if err := s.uploader.Delete(ctx, blog.FeaturedImage); err != nil {
			logger.Log.Warnf("failed to delete featured image %s: %v", blog.FeaturedImage, err)
		}
	}
	return nil
}

// Publish transitions the blog to published. The publish timestamp is set
// exactly once, on the first transition.
func (s *BlogService) Publish(ctx context.Context, id string, requester primitive.ObjectID) (*dto.BlogDetailDTO, error) {
	return s.setStatus(ctx, id, requester, models.StatusPublished, "You can only publish your own blogs")
}

// Unpublish moves the blog back to draft. The publish timestamp is kept.
func (s *BlogService) Unpublish(ctx context.Context, id string, requester primitive.ObjectID) (*dto.BlogDetailDTO, error) {
	return s.setStatus(ctx, id, requester, models.StatusDraft, "You can only unpublish your own blogs")
}

func (s *BlogService) setStatus(ctx context.Context, id string, requester primitive.ObjectID, status models.BlogStatus, forbiddenMsg string) (*dto.BlogDetailDTO, error) {
	blog, err := s.ownedBlog(ctx, id, requester, forbiddenMsg)
	if err != nil {
		return nil, err
	}

	blog, err = s.blogs.SetStatus(ctx, blog.ID, status)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NewNotFoundError("Blog not found")
		}
		return nil, err
	}
	return s.detailDTO(ctx, blog)
}

// Like adds the user to the like set; liking twice is a no-op.
// Returns the resulting like count.
func (s *BlogService) Like(ctx context.Context, id string, user primitive.ObjectID) (int, error) {
	oid, err := parseBlogID(id)
	if err != nil {
		return 0, err
	}
	blog, err := s.blogs.AddLike(ctx, oid, user)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return 0, errs.NewNotFoundError("Blog not found")
		}
		return 0, err
	}
	return blog.LikeCount(), nil
}

// Unlike removes the user from the like set; removing an absent like is a
// no-op. Returns the resulting like count.
func (s *BlogService) Unlike(ctx context.Context, id string, user primitive.ObjectID) (int, error) {
	oid, err := parseBlogID(id)
	if err != nil {
		return 0, err
	}
	blog, err := s.blogs.RemoveLike(ctx, oid, user)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return 0, errs.NewNotFoundError("Blog not found")
		}
		return 0, err
	}
	return blog.LikeCount(), nil
}

// validateComment trims the content and checks the character cap. The
// trimmed form is what gets persisted.
func validateComment(content string) (string, *errs.ApiErr) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errs.NewValidationError("Comment content is required")
	}
	if utf8.RuneCountInString(content) > models.CommentMaxLen {
		return "", errs.NewValidationError(fmt.Sprintf("Comment cannot exceed %d characters", models.CommentMaxLen))
	}
	return content, nil
}

// AddComment appends a comment and returns the blog's comments with their
// authors populated.
func (s *BlogService) AddComment(ctx context.Context, id string, user primitive.ObjectID, content string) ([]dto.CommentDTO, error) {
	content, apiErr := validateComment(content)
	if apiErr != nil {
		return nil, apiErr
	}

	oid, err := parseBlogID(id)
	if err != nil {
		return nil, err
	}

	if _, err := s.blogs.AddComment(ctx, oid, user, content); err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			return nil, errs.NewNotFoundError("Blog not found")
		case errors.Is(err, errs.ErrCommentsDisabled):
			return nil, errs.NewValidationError("Comments are disabled for this blog")
		}
		return nil, err
	}

	blog, err := s.blogs.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	detail, err := s.detailDTO(ctx, blog)
	if err != nil {
		return nil, err
	}
	return detail.Comments, nil
}

// DeleteComment removes a comment. Allowed for the comment's author and for
// the blog's author.
func (s *BlogService) DeleteComment(ctx context.Context, id, commentID string, requester primitive.ObjectID) error {
	oid, err := parseBlogID(id)
	if err != nil {
		return err
	}
	cid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return errs.NewValidationError("Invalid comment id")
	}

	blog, err := s.blogs.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.NewNotFoundError("Blog not found")
		}
		return err
	}

	comment := blog.FindComment(cid)
	if comment == nil {
		return errs.NewNotFoundError("Comment not found")
	}
	if comment.User != requester && blog.Author != requester {
		return errs.NewForbiddenError("You can only delete your own comments or comments on your blog")
	}

	if err := s.blogs.PullComment(ctx, oid, cid); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.NewNotFoundError("Blog not found")
		}
		return err
	}
	return nil
}

// IncrementViews bumps the view counter; no auth required.
func (s *BlogService) IncrementViews(ctx context.Context, id string) (int64, error) {
	oid, err := parseBlogID(id)
	if err != nil {
		return 0, err
	}
	count, err := s.blogs.IncrementViews(ctx, oid)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return 0, errs.NewNotFoundError("Blog not found")
		}
		return 0, err
	}
	return count, nil
}

// ListInput are the public listing parameters.
type ListInput struct {
	Category string
	Tag      string
	SortBy   string
	Page     int
	PageSize int
}

// List returns the paginated public listing of published blogs.
func (s *BlogService) List(ctx context.Context, in ListInput) (dto.Pagination[dto.BlogListItemDTO], error) {
	items, total, err := s.queries.List(ctx, repositories.ListOptions{
		Category: in.Category,
		Tag:      in.Tag,
		SortBy:   in.SortBy,
		Page:     in.Page,
		PageSize: in.PageSize,
	})
	if err != nil {
		return dto.Pagination[dto.BlogListItemDTO]{}, err
	}
	return dto.NewBlogListPage(items, in.Page, in.PageSize, total), nil
}

// GetByID returns a blog by id with author, likers and comment authors
// populated. There is no publish gate on id lookups.
func (s *BlogService) GetByID(ctx context.Context, id string) (*dto.BlogDetailDTO, error) {
	oid, err := parseBlogID(id)
	if err != nil {
		return nil, err
	}
	blog, err := s.blogs.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NewNotFoundError("Blog not found")
		}
		return nil, err
	}
	return s.detailDTO(ctx, blog)
}

// GetBySlug resolves a published blog by slug. Unpublished blogs are not
// resolvable by slug, only by id.
func (s *BlogService) GetBySlug(ctx context.Context, slug string) (*dto.BlogDetailDTO, error) {
	blog, err := s.blogs.FindBySlugPublished(ctx, slug)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NewNotFoundError("Blog not found")
		}
		return nil, err
	}
	return s.detailDTO(ctx, blog)
}

// GetByAuthor lists a user's blogs. Anyone other than the author only ever
// sees published posts, regardless of the requested status filter.
func (s *BlogService) GetByAuthor(ctx context.Context, authorID string, requester primitive.ObjectID, status string, page, pageSize int) (dto.Pagination[dto.BlogListItemDTO], error) {
	author, err := primitive.ObjectIDFromHex(authorID)
	if err != nil {
		return dto.Pagination[dto.BlogListItemDTO]{}, errs.NewValidationError("Invalid user id")
	}

	publishedOnly := requester.IsZero() || requester != author
	items, total, err := s.queries.ByAuthor(ctx, author, models.BlogStatus(status), publishedOnly, page, pageSize)
	if err != nil {
		return dto.Pagination[dto.BlogListItemDTO]{}, err
	}
	return dto.NewBlogListPage(items, page, pageSize, total), nil
}

// Search runs a relevance-ranked full-text search over published blogs.
func (s *BlogService) Search(ctx context.Context, query string, page, pageSize int) (dto.Pagination[dto.BlogListItemDTO], error) {
	if query == "" {
		return dto.Pagination[dto.BlogListItemDTO]{}, errs.NewValidationError("Search query is required")
	}
	items, total, err := s.queries.Search(ctx, query, page, pageSize)
	if err != nil {
		return dto.Pagination[dto.BlogListItemDTO]{}, err
	}
	return dto.NewBlogListPage(items, page, pageSize, total), nil
}

// ByCategory lists published blogs in a category.
func (s *BlogService) ByCategory(ctx context.Context, category string, page, pageSize int) (dto.Pagination[dto.BlogListItemDTO], error) {
	items, total, err := s.queries.ByCategory(ctx, category, page, pageSize)
	if err != nil {
		return dto.Pagination[dto.BlogListItemDTO]{}, err
	}
	return dto.NewBlogListPage(items, page, pageSize, total), nil
}

// ByTag lists published blogs carrying a tag.
func (s *BlogService) ByTag(ctx context.Context, tag string, page, pageSize int) (dto.Pagination[dto.BlogListItemDTO], error) {
	items, total, err := s.queries.ByTag(ctx, tag, page, pageSize)
	if err != nil {
		return dto.Pagination[dto.BlogListItemDTO]{}, err
	}
	return dto.NewBlogListPage(items, page, pageSize, total), nil
}

// ownedBlog loads a blog and verifies the requester is its author.
func (s *BlogService) ownedBlog(ctx context.Context, id string, requester primitive.ObjectID, forbiddenMsg string) (*models.Blog, error) {
	oid, err := parseBlogID(id)
	if err != nil {
		return nil, err
	}
	blog, err := s.blogs.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NewNotFoundError("Blog not found")
		}
		return nil, err
	}
	if blog.Author != requester {
		return nil, errs.NewForbiddenError(forbiddenMsg)
	}
	return blog, nil
}

func (s *BlogService) uploadImage(ctx context.Context, img *ImageUpload) (string, error) {
	if s.uploader == nil {
		return "", errs.NewValidationError("Image uploads are not configured")
	}
	url, err := s.uploader.Upload(ctx, img.Reader, img.Filename, img.ContentType)
	if err != nil {
		return "", errs.NewValidationError("Error while uploading featured image")
	}
	return url, nil
}

// detailDTO populates every user reference on the blog and renders the
// markdown content.
func (s *BlogService) detailDTO(ctx context.Context, blog *models.Blog) (*dto.BlogDetailDTO, error) {
	ids := make([]primitive.ObjectID, 0, 1+len(blog.Likes)+len(blog.Comments))
	ids = append(ids, blog.Author)
	ids = append(ids, blog.Likes...)
	for _, c := range blog.Comments {
		ids = append(ids, c.User)
	}

	users, err := s.users.FindSummariesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	contentHTML, err := markdown.Render(blog.Content)
	if err != nil {
		logger.Log.Warnf("failed to render blog %s content: %v", blog.ID.Hex(), err)
		contentHTML = ""
	}

	detail := dto.NewBlogDetailDTO(blog, users, contentHTML)
	return &detail, nil
}

func parseBlogID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errs.NewValidationError("Invalid blog id")
	}
	return oid, nil
}
