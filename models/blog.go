package models

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BlogStatus string

const (
	StatusDraft     BlogStatus = "draft"
	StatusPublished BlogStatus = "published"
	StatusArchived  BlogStatus = "archived"
)

// Field length caps enforced before persistence.
const (
	TitleMaxLen           = 200
	ExcerptMaxLen         = 300
	MetaDescriptionMaxLen = 160
	CommentMaxLen         = 1000
)

// WordsPerMinute is the reading speed used for the reading_time estimate.
const WordsPerMinute = 200

// Comment is an embedded comment on a blog. Each comment gets its own
// ObjectID so it can be removed individually.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Blog represents a blog document.
// Collection: blogs
//
// likes is a set of user ids (no duplicates, maintained via $addToSet) and
// comments an ordered embedded array. like_count/comment_count are never
// stored; they are computed in queries or from the arrays.
type Blog struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	CreatedAt        time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time            `bson:"updated_at" json:"updated_at"`
	Title            string               `bson:"title" json:"title"`
	Slug             string               `bson:"slug" json:"slug"`
	Content          string               `bson:"content" json:"content"`
	Excerpt          string               `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	FeaturedImage    string               `bson:"featured_image,omitempty" json:"featured_image,omitempty"`
	Author           primitive.ObjectID   `bson:"author" json:"author"`
	Categories       []string             `bson:"categories" json:"categories"`
	Tags             []string             `bson:"tags" json:"tags"`
	Keywords         []string             `bson:"keywords" json:"keywords"`
	Status           BlogStatus           `bson:"status" json:"status"`
	PublishedAt      *time.Time           `bson:"published_at,omitempty" json:"published_at,omitempty"`
	ViewCount        int64                `bson:"view_count" json:"view_count"`
	Likes            []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments         []Comment            `bson:"comments" json:"comments"`
	ReadingTime      int                  `bson:"reading_time" json:"reading_time"`
	MetaDescription  string               `bson:"meta_description,omitempty" json:"meta_description,omitempty"`
	IsCommentEnabled bool                 `bson:"is_comment_enabled" json:"is_comment_enabled"`
}

// LikeCount returns the number of distinct users that liked the blog.
func (b *Blog) LikeCount() int { return len(b.Likes) }

// CommentCount returns the number of comments on the blog.
func (b *Blog) CommentCount() int { return len(b.Comments) }

// FindComment returns the embedded comment with the given id, or nil.
func (b *Blog) FindComment(id primitive.ObjectID) *Comment {
	for i := range b.Comments {
		if b.Comments[i].ID == id {
			return &b.Comments[i]
		}
	}
	return nil
}

var (
	slugStripRe  = regexp.MustCompile(`[^a-z0-9\s]+`)
	slugHyphenRe = regexp.MustCompile(`\s+`)
)

// Slugify derives a URL-safe slug from a title: lowercase, non-alphanumeric
// characters stripped, whitespace collapsed to hyphens, leading/trailing
// hyphens trimmed. A slug is assigned at most once per blog; later title
// edits never regenerate it.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugStripRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = slugHyphenRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ComputeReadingTime estimates reading minutes at WordsPerMinute words per
// minute, rounded up. Empty content yields 0.
func ComputeReadingTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return (words + WordsPerMinute - 1) / WordsPerMinute
}

// SplitList turns a comma-delimited string into a list of trimmed,
// lowercased entries, dropping empties. Used for categories/tags/keywords.
func SplitList(csv string) []string {
	out := []string{}
	for _, part := range strings.Split(csv, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
