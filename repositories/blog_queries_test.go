package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"inkwell/models"
)

func matchKeys(q listQuery) []string {
	keys := make([]string, 0, len(q.match))
	for _, e := range q.match {
		keys = append(keys, e.Key)
	}
	return keys
}

func TestPublishedQueryGatesStatusAndPublishTime(t *testing.T) {
	q := publishedQuery()

	assert.Contains(t, matchKeys(q), "status")
	assert.Contains(t, matchKeys(q), "published_at")

	for _, e := range q.match {
		switch e.Key {
		case "status":
			assert.Equal(t, models.StatusPublished, e.Value)
		case "published_at":
			cond, ok := e.Value.(bson.D)
			assert.True(t, ok)
			assert.Equal(t, "$lte", cond[0].Key)
			bound, ok := cond[0].Value.(time.Time)
			assert.True(t, ok)
			assert.WithinDuration(t, time.Now(), bound, time.Minute)
		}
	}
}

func TestWithCategoryAndTagAddEqualityFilters(t *testing.T) {
	q := publishedQuery().withCategory("golang").withTag("mongodb")

	keys := matchKeys(q)
	assert.Contains(t, keys, "categories")
	assert.Contains(t, keys, "tags")
}

func TestWithAuthorAndStatus(t *testing.T) {
	author := primitive.NewObjectID()
	q := newListQuery().withAuthor(author).withStatus(models.StatusDraft)

	assert.Equal(t, bson.D{
		{Key: "author", Value: author},
		{Key: "status", Value: models.StatusDraft},
	}, q.match)
}

func TestSortedByWhitelistsFields(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "view_count", Value: -1}}, newListQuery().sortedBy("view_count").sort)
	assert.Equal(t, bson.D{{Key: "published_at", Value: -1}}, newListQuery().sortedBy("published_at").sort)

	// unknown fields fall back to creation time
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}}, newListQuery().sortedBy("likes; drop").sort)
}

func TestSearchingPutsTextPredicateFirst(t *testing.T) {
	q := publishedQuery().searching("generics")

	assert.Equal(t, "$text", q.match[0].Key)
	assert.True(t, q.textSearch)
	assert.Equal(t, bson.D{{Key: "score", Value: -1}}, q.sort)
}

func TestStagesOrder(t *testing.T) {
	stages := publishedQuery().withCategory("go").stages()

	var names []string
	for _, st := range stages {
		names = append(names, st[0].Key)
	}
	assert.Equal(t, []string{"$match", "$lookup", "$unwind", "$addFields", "$sort"}, names)
}

func TestStagesIncludeScoreForTextSearch(t *testing.T) {
	stages := publishedQuery().searching("generics").stages()

	var names []string
	for _, st := range stages {
		names = append(names, st[0].Key)
	}
	// the relevance score is materialized before the sort
	assert.Equal(t, []string{"$match", "$addFields", "$lookup", "$unwind", "$addFields", "$sort"}, names)
}

func TestAuthorLookupProjectsOnlyPublicFields(t *testing.T) {
	stage := authorLookupStage()

	lookup, ok := stage[0].Value.(bson.D)
	assert.True(t, ok)

	var projected bson.D
	for _, e := range lookup {
		if e.Key == "pipeline" {
			pipeline := e.Value.(mongo.Pipeline)
			projected = pipeline[0][0].Value.(bson.D)
		}
	}

	var fields []string
	for _, e := range projected {
		fields = append(fields, e.Key)
	}
	assert.ElementsMatch(t, []string{"username", "full_name", "avatar"}, fields)
}

func TestNormalizePage(t *testing.T) {
	page, size := normalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, defaultPageSize, size)

	page, size = normalizePage(3, 500)
	assert.Equal(t, 3, page)
	assert.Equal(t, maxPageSize, size)
}
