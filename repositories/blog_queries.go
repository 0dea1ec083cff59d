package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inkwell/models"
)

// BlogQueries builds and runs the read-side aggregation pipelines: public
// listings, per-author listings, category/tag filters and full-text search.
// Every variant is composed from the same listQuery primitives instead of
// five near-duplicate pipelines.
type BlogQueries struct {
	col *mongo.Collection
}

func NewBlogQueries(db *mongo.Database) *BlogQueries {
	return &BlogQueries{col: db.Collection("blogs")}
}

// AggregatedBlog is a blog row as produced by the list pipelines: the author
// reference replaced by its joined summary, with like/comment counts
// computed inline and the embedded arrays left out.
type AggregatedBlog struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
	Title           string             `bson:"title" json:"title"`
	Slug            string             `bson:"slug" json:"slug"`
	Excerpt         string             `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	FeaturedImage   string             `bson:"featured_image,omitempty" json:"featured_image,omitempty"`
	Author          models.UserSummary `bson:"author" json:"author"`
	Categories      []string           `bson:"categories" json:"categories"`
	Tags            []string           `bson:"tags" json:"tags"`
	Status          models.BlogStatus  `bson:"status" json:"status"`
	PublishedAt     *time.Time         `bson:"published_at,omitempty" json:"published_at,omitempty"`
	ViewCount       int64              `bson:"view_count" json:"view_count"`
	ReadingTime     int                `bson:"reading_time" json:"reading_time"`
	MetaDescription string             `bson:"meta_description,omitempty" json:"meta_description,omitempty"`
	LikeCount       int64              `bson:"like_count" json:"like_count"`
	CommentCount    int64              `bson:"comment_count" json:"comment_count"`
}

// listQuery is a small query-builder value: a match filter plus a sort,
// expanded into the shared lookup/addFields pipeline by stages().
type listQuery struct {
	match      bson.D
	sort       bson.D
	textSearch bool
}

// newListQuery starts an unfiltered query sorted by creation time.
func newListQuery() listQuery {
	return listQuery{sort: bson.D{{Key: "created_at", Value: -1}}}
}

// publishedQuery restricts results to published blogs whose publish time is
// not in the future. Drafts, archived and future-scheduled posts never
// appear in public listings.
func publishedQuery() listQuery {
	q := newListQuery()
	q.match = append(q.match,
		bson.E{Key: "status", Value: models.StatusPublished},
		bson.E{Key: "published_at", Value: bson.D{{Key: "$lte", Value: time.Now()}}},
	)
	return q
}

func (q listQuery) withCategory(category string) listQuery {
	q.match = append(q.match, bson.E{Key: "categories", Value: category})
	return q
}

func (q listQuery) withTag(tag string) listQuery {
	q.match = append(q.match, bson.E{Key: "tags", Value: tag})
	return q
}

func (q listQuery) withAuthor(author primitive.ObjectID) listQuery {
	q.match = append(q.match, bson.E{Key: "author", Value: author})
	return q
}

func (q listQuery) withStatus(status models.BlogStatus) listQuery {
	q.match = append(q.match, bson.E{Key: "status", Value: status})
	return q
}

// searching turns the query into a full-text search ranked by relevance.
// The $text predicate has to be the first stage of the pipeline, so it is
// folded into the match document.
func (q listQuery) searching(text string) listQuery {
	q.match = append(bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: text}}}}, q.match...)
	q.textSearch = true
	q.sort = bson.D{{Key: "score", Value: -1}}
	return q
}

// sortableFields whitelists the caller-specified sort keys.
var sortableFields = map[string]struct{}{
	"created_at":   {},
	"published_at": {},
	"updated_at":   {},
	"view_count":   {},
	"title":        {},
}

// sortedBy sorts descending by the given field, falling back to creation
// time for unknown fields.
func (q listQuery) sortedBy(field string) listQuery {
	if _, ok := sortableFields[field]; !ok {
		field = "created_at"
	}
	q.sort = bson.D{{Key: field, Value: -1}}
	return q
}

// authorLookupStage joins the author summary (username, full name, avatar
// only — never credentials) from the users collection.
func authorLookupStage() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: "users"},
		{Key: "localField", Value: "author"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "author"},
		{Key: "pipeline", Value: mongo.Pipeline{
			{{Key: "$project", Value: bson.D{
				{Key: "username", Value: 1},
				{Key: "full_name", Value: 1},
				{Key: "avatar", Value: 1},
			}}},
		}},
	}}}
}

// stages expands the query into the full aggregation pipeline.
func (q listQuery) stages() mongo.Pipeline {
	p := mongo.Pipeline{
		bson.D{{Key: "$match", Value: q.match}},
	}
	if q.textSearch {
		p = append(p, bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "textScore"}}},
		}}})
	}
	p = append(p,
		authorLookupStage(),
		bson.D{{Key: "$unwind", Value: "$author"}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "like_count", Value: bson.D{{Key: "$size", Value: "$likes"}}},
			{Key: "comment_count", Value: bson.D{{Key: "$size", Value: "$comments"}}},
		}}},
		bson.D{{Key: "$sort", Value: q.sort}},
	)
	return p
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// run counts the matching documents, then executes the pipeline with
// skip/limit appended. Page numbers are 1-based.
func (r *BlogQueries) run(ctx context.Context, q listQuery, page, pageSize int) ([]AggregatedBlog, int64, error) {
	page, pageSize = normalizePage(page, pageSize)

	match := q.match
	if match == nil {
		match = bson.D{}
	}
	total, err := r.col.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, err
	}

	pipeline := append(q.stages(),
		bson.D{{Key: "$skip", Value: int64((page - 1) * pageSize)}},
		bson.D{{Key: "$limit", Value: int64(pageSize)}},
	)
	cur, err := r.col.Aggregate(ctx, pipeline, options.Aggregate())
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	items := []AggregatedBlog{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListOptions are the public listing filters.
type ListOptions struct {
	Category string
	Tag      string
	SortBy   string
	Page     int
	PageSize int
}

// List returns the public, published listing.
func (r *BlogQueries) List(ctx context.Context, opts ListOptions) ([]AggregatedBlog, int64, error) {
	q := publishedQuery()
	if opts.Category != "" {
		q = q.withCategory(opts.Category)
	}
	if opts.Tag != "" {
		q = q.withTag(opts.Tag)
	}
	if opts.SortBy != "" {
		q = q.sortedBy(opts.SortBy)
	}
	return r.run(ctx, q, opts.Page, opts.PageSize)
}

// ByAuthor lists an author's blogs. When publishedOnly is set (a requester
// viewing someone else's blogs) the published gate is forced regardless of
// any requested status; otherwise an optional status filter applies.
func (r *BlogQueries) ByAuthor(ctx context.Context, author primitive.ObjectID, status models.BlogStatus, publishedOnly bool, page, pageSize int) ([]AggregatedBlog, int64, error) {
	var q listQuery
	if publishedOnly {
		q = publishedQuery().withAuthor(author)
	} else {
		q = newListQuery().withAuthor(author)
		if status != "" {
			q = q.withStatus(status)
		}
	}
	return r.run(ctx, q, page, pageSize)
}

// ByCategory lists published blogs in a category, newest publication first.
func (r *BlogQueries) ByCategory(ctx context.Context, category string, page, pageSize int) ([]AggregatedBlog, int64, error) {
	q := publishedQuery().withCategory(category).sortedBy("published_at")
	return r.run(ctx, q, page, pageSize)
}

// ByTag lists published blogs with a tag, newest publication first.
func (r *BlogQueries) ByTag(ctx context.Context, tag string, page, pageSize int) ([]AggregatedBlog, int64, error) {
	q := publishedQuery().withTag(tag).sortedBy("published_at")
	return r.run(ctx, q, page, pageSize)
}

// Search runs a relevance-ranked full-text search over published blogs.
func (r *BlogQueries) Search(ctx context.Context, text string, page, pageSize int) ([]AggregatedBlog, int64, error) {
	q := publishedQuery().searching(text)
	return r.run(ctx, q, page, pageSize)
}
