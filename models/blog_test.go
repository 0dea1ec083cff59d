package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"punctuation stripped", "Go 1.22: What's New?", "go-122-whats-new"},
		{"multiple spaces collapsed", "a   b\t c", "a-b-c"},
		{"leading and trailing whitespace", "  trimmed title  ", "trimmed-title"},
		{"already safe", "plain", "plain"},
		{"only punctuation", "!!!", ""},
		{"uppercase", "UPPER Case", "upper-case"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.title))
		})
	}
}

func TestSlugifyProducesOnlySafeCharacters(t *testing.T) {
	slug := Slugify("Ünicode & Symbols #42 — Ready!")
	for _, r := range slug {
		ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
		assert.Truef(t, ok, "unexpected character %q in slug %q", r, slug)
	}
}

func TestComputeReadingTime(t *testing.T) {
	words := func(n int) string {
		return strings.TrimSpace(strings.Repeat("word ", n))
	}

	assert.Equal(t, 0, ComputeReadingTime(""))
	assert.Equal(t, 0, ComputeReadingTime("   "))
	assert.Equal(t, 1, ComputeReadingTime(words(1)))
	assert.Equal(t, 1, ComputeReadingTime(words(200)))
	assert.Equal(t, 2, ComputeReadingTime(words(201)))
	assert.Equal(t, 2, ComputeReadingTime(words(400)))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"go", "mongodb", "web"}, SplitList("Go, MongoDB , web"))
	assert.Equal(t, []string{"solo"}, SplitList("solo"))
	assert.Equal(t, []string{}, SplitList(""))
	assert.Equal(t, []string{"a", "b"}, SplitList("a,,b,"))
}

func TestFindComment(t *testing.T) {
	target := primitive.NewObjectID()
	b := Blog{Comments: []Comment{
		{ID: primitive.NewObjectID(), Content: "first"},
		{ID: target, Content: "second"},
	}}

	found := b.FindComment(target)
	assert.NotNil(t, found)
	assert.Equal(t, "second", found.Content)

	assert.Nil(t, b.FindComment(primitive.NewObjectID()))
}

func TestLikeAndCommentCounts(t *testing.T) {
	b := Blog{
		Likes:    []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()},
		Comments: []Comment{{ID: primitive.NewObjectID()}},
	}
	assert.Equal(t, 2, b.LikeCount())
	assert.Equal(t, 1, b.CommentCount())
}
