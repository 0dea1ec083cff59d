package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"inkwell/models"
)

func setStage(t *testing.T, update mongo.Pipeline) bson.D {
	t.Helper()
	if len(update) != 1 {
		t.Fatalf("expected a single pipeline stage, got %d", len(update))
	}
	stage := update[0]
	if stage[0].Key != "$set" {
		t.Fatalf("expected $set stage, got %q", stage[0].Key)
	}
	return stage[0].Value.(bson.D)
}

func TestSetStatusUpdatePublishGuardsPublishedAt(t *testing.T) {
	set := setStage(t, setStatusUpdate(models.StatusPublished))

	fields := map[string]interface{}{}
	for _, e := range set {
		fields[e.Key] = e.Value
	}
	assert.Equal(t, models.StatusPublished, fields["status"])
	assert.Equal(t, "$$NOW", fields["updated_at"])

	// published_at is guarded by $ifNull so a second publish never
	// overwrites the original timestamp.
	guard, ok := fields["published_at"].(bson.D)
	if !ok {
		t.Fatalf("expected published_at expression, got %T", fields["published_at"])
	}
	assert.Equal(t, "$ifNull", guard[0].Key)
	assert.Equal(t, bson.A{"$published_at", "$$NOW"}, guard[0].Value)
}

func TestSetStatusUpdateNonPublishLeavesPublishedAtAlone(t *testing.T) {
	for _, status := range []models.BlogStatus{models.StatusDraft, models.StatusArchived} {
		set := setStage(t, setStatusUpdate(status))
		for _, e := range set {
			if e.Key == "published_at" {
				t.Fatalf("%s transition must not touch published_at", status)
			}
		}
	}
}

func TestAddLikeUpdateUsesAddToSet(t *testing.T) {
	user := primitive.NewObjectID()
	update := addLikeUpdate(user)

	// $addToSet, not $push: liking twice must not grow the array.
	assert.Contains(t, update, "$addToSet")
	assert.NotContains(t, update, "$push")
	assert.Equal(t, bson.M{"likes": user}, update["$addToSet"])
}

func TestRemoveLikeUpdateUsesPull(t *testing.T) {
	user := primitive.NewObjectID()
	update := removeLikeUpdate(user)

	assert.Contains(t, update, "$pull")
	assert.Equal(t, bson.M{"likes": user}, update["$pull"])
}
