package dto

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/models"
	"inkwell/repositories"
)

// BlogListItemDTO is one row of a paginated listing: author summary joined,
// like/comment counts computed, embedded arrays omitted.
type BlogListItemDTO struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Slug            string            `json:"slug"`
	Excerpt         string            `json:"excerpt,omitempty"`
	FeaturedImage   string            `json:"featured_image,omitempty"`
	Author          UserSummaryDTO    `json:"author"`
	Categories      []string          `json:"categories"`
	Tags            []string          `json:"tags"`
	Status          models.BlogStatus `json:"status"`
	PublishedAt     *time.Time        `json:"published_at,omitempty"`
	ViewCount       int64             `json:"view_count"`
	ReadingTime     int               `json:"reading_time"`
	MetaDescription string            `json:"meta_description,omitempty"`
	LikeCount       int64             `json:"like_count"`
	CommentCount    int64             `json:"comment_count"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func NewBlogListItemDTO(b repositories.AggregatedBlog) BlogListItemDTO {
	return BlogListItemDTO{
		ID:              b.ID.Hex(),
		Title:           b.Title,
		Slug:            b.Slug,
		Excerpt:         b.Excerpt,
		FeaturedImage:   b.FeaturedImage,
		Author:          NewUserSummaryDTO(b.Author),
		Categories:      b.Categories,
		Tags:            b.Tags,
		Status:          b.Status,
		PublishedAt:     b.PublishedAt,
		ViewCount:       b.ViewCount,
		ReadingTime:     b.ReadingTime,
		MetaDescription: b.MetaDescription,
		LikeCount:       b.LikeCount,
		CommentCount:    b.CommentCount,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func NewBlogListPage(items []repositories.AggregatedBlog, page, pageSize int, total int64) Pagination[BlogListItemDTO] {
	out := make([]BlogListItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, NewBlogListItemDTO(it))
	}
	return NewPagination(out, page, pageSize, total)
}

// CommentDTO is an embedded comment with its author populated.
type CommentDTO struct {
	ID        string         `json:"id"`
	User      UserSummaryDTO `json:"user"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
}

// BlogDetailDTO is the full single-blog view: author, likers and comment
// authors populated, markdown content rendered to sanitized HTML.
type BlogDetailDTO struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Slug             string            `json:"slug"`
	Content          string            `json:"content"`
	ContentHTML      string            `json:"content_html,omitempty"`
	Excerpt          string            `json:"excerpt,omitempty"`
	FeaturedImage    string            `json:"featured_image,omitempty"`
	Author           UserSummaryDTO    `json:"author"`
	Categories       []string          `json:"categories"`
	Tags             []string          `json:"tags"`
	Keywords         []string          `json:"keywords"`
	Status           models.BlogStatus `json:"status"`
	PublishedAt      *time.Time        `json:"published_at,omitempty"`
	ViewCount        int64             `json:"view_count"`
	Likes            []UserSummaryDTO  `json:"likes"`
	Comments         []CommentDTO      `json:"comments"`
	LikeCount        int               `json:"like_count"`
	CommentCount     int               `json:"comment_count"`
	ReadingTime      int               `json:"reading_time"`
	MetaDescription  string            `json:"meta_description,omitempty"`
	IsCommentEnabled bool              `json:"is_comment_enabled"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// NewBlogDetailDTO maps a blog and the users referenced by it. References
// to deleted accounts fall back to a bare id summary.
func NewBlogDetailDTO(b *models.Blog, users map[primitive.ObjectID]models.UserSummary, contentHTML string) BlogDetailDTO {
	summary := func(id primitive.ObjectID) UserSummaryDTO {
		if s, ok := users[id]; ok {
			return NewUserSummaryDTO(s)
		}
		return UserSummaryDTO{ID: id.Hex()}
	}

	likes := make([]UserSummaryDTO, 0, len(b.Likes))
	for _, id := range b.Likes {
		likes = append(likes, summary(id))
	}

	comments := make([]CommentDTO, 0, len(b.Comments))
	for _, c := range b.Comments {
		comments = append(comments, CommentDTO{
			ID:        c.ID.Hex(),
			User:      summary(c.User),
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		})
	}

	return BlogDetailDTO{
		ID:               b.ID.Hex(),
		Title:            b.Title,
		Slug:             b.Slug,
		Content:          b.Content,
		ContentHTML:      contentHTML,
		Excerpt:          b.Excerpt,
		FeaturedImage:    b.FeaturedImage,
		Author:           summary(b.Author),
		Categories:       b.Categories,
		Tags:             b.Tags,
		Keywords:         b.Keywords,
		Status:           b.Status,
		PublishedAt:      b.PublishedAt,
		ViewCount:        b.ViewCount,
		Likes:            likes,
		Comments:         comments,
		LikeCount:        b.LikeCount(),
		CommentCount:     b.CommentCount(),
		ReadingTime:      b.ReadingTime,
		MetaDescription:  b.MetaDescription,
		IsCommentEnabled: b.IsCommentEnabled,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}
