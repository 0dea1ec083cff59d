package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inkwell/errs"
	"inkwell/models"
)

type BlogRepository struct {
	col *mongo.Collection
}

func NewBlogRepository(db *mongo.Database) *BlogRepository {
	return &BlogRepository{col: db.Collection("blogs")}
}

// Create inserts a new blog after applying the derived fields
// (slug, reading time, publish timestamp).
func (r *BlogRepository) Create(ctx context.Context, b *models.Blog) error {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	applyDerived(b)
	if b.Categories == nil {
		b.Categories = []string{}
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if b.Keywords == nil {
		b.Keywords = []string{}
	}
	if b.Likes == nil {
		b.Likes = []primitive.ObjectID{}
	}
	if b.Comments == nil {
		b.Comments = []models.Comment{}
	}

	res, err := r.col.InsertOne(ctx, b)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.ErrConflict
		}
		return err
	}
	b.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// applyDerived recomputes derived fields as part of a persisting write.
// The slug is assigned at most once; reading time follows content; the
// publish timestamp is stamped only on the first transition to published.
func applyDerived(b *models.Blog) {
	if b.Slug == "" && b.Title != "" {
		b.Slug = models.Slugify(b.Title)
	}
	b.ReadingTime = models.ComputeReadingTime(b.Content)
	if b.Status == models.StatusPublished && b.PublishedAt == nil {
		now := time.Now()
		b.PublishedAt = &now
	}
}

// FindByID returns a blog by its id.
func (r *BlogRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	var b models.Blog
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindBySlugPublished returns a published blog by its slug. Drafts and
// archived blogs are not resolvable by slug.
func (r *BlogRepository) FindBySlugPublished(ctx context.Context, slug string) (*models.Blog, error) {
	var b models.Blog
	filter := bson.M{"slug": slug, "status": models.StatusPublished}
	if err := r.col.FindOne(ctx, filter).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Update applies the given $set document and returns the updated blog.
// Callers build the set document so that only provided fields change.
func (r *BlogRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Blog, error) {
	set["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var b models.Blog
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Delete hard-removes the blog document.
func (r *BlogRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// setStatusUpdate builds the pipeline update for a status transition. The
// $ifNull guard stamps published_at only when it has never been set, so
// republishing never overwrites the original publish time.
func setStatusUpdate(status models.BlogStatus) mongo.Pipeline {
	set := bson.D{
		{Key: "status", Value: status},
		{Key: "updated_at", Value: "$$NOW"},
	}
	if status == models.StatusPublished {
		set = append(set, bson.E{Key: "published_at", Value: bson.D{
			{Key: "$ifNull", Value: bson.A{"$published_at", "$$NOW"}},
		}})
	}
	return mongo.Pipeline{{{Key: "$set", Value: set}}}
}

// SetStatus transitions the blog's lifecycle status.
func (r *BlogRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status models.BlogStatus) (*models.Blog, error) {
	update := setStatusUpdate(status)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var b models.Blog
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// addLikeUpdate builds the like update. $addToSet makes the operation
// idempotent and race-free; liking twice is a no-op.
func addLikeUpdate(userID primitive.ObjectID) bson.M {
	return bson.M{
		"$addToSet": bson.M{"likes": userID},
		"$set":      bson.M{"updated_at": time.Now()},
	}
}

// AddLike adds the user to the like set.
func (r *BlogRepository) AddLike(ctx context.Context, id, userID primitive.ObjectID) (*models.Blog, error) {
	update := addLikeUpdate(userID)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var b models.Blog
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// removeLikeUpdate builds the unlike update. $pull of an absent value is a
// no-op, not an error.
func removeLikeUpdate(userID primitive.ObjectID) bson.M {
	return bson.M{
		"$pull": bson.M{"likes": userID},
		"$set":  bson.M{"updated_at": time.Now()},
	}
}

// RemoveLike pulls the user from the like set.
func (r *BlogRepository) RemoveLike(ctx context.Context, id, userID primitive.ObjectID) (*models.Blog, error) {
	update := removeLikeUpdate(userID)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var b models.Blog
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// AddComment appends a comment with a server-assigned id and timestamp.
// The filter only matches blogs that still accept comments, so the
// append and the is_comment_enabled check are a single atomic operation.
func (r *BlogRepository) AddComment(ctx context.Context, id, userID primitive.ObjectID, content string) (*models.Comment, error) {
	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		User:      userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	filter := bson.M{"_id": id, "is_comment_enabled": true}
	update := bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing blog from one with comments disabled.
		if err := r.col.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, errs.ErrNotFound
			}
			return nil, err
		}
		return nil, errs.ErrCommentsDisabled
	}
	return &comment, nil
}

// PullComment removes the embedded comment with the given id.
func (r *BlogRepository) PullComment(ctx context.Context, id, commentID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{"comments": bson.M{"_id": commentID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// IncrementViews bumps view_count by one and returns the new value.
// No auth is required for this, so it is a single $inc with no read.
func (r *BlogRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) (int64, error) {
	update := bson.M{"$inc": bson.M{"view_count": 1}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"view_count": 1})
	var out struct {
		ViewCount int64 `bson:"view_count"`
	}
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, errs.ErrNotFound
		}
		return 0, err
	}
	return out.ViewCount, nil
}
