package services

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkwell/errs"
)

// recordingUploader counts calls so tests can assert that validation runs
// before any upload happens.
type recordingUploader struct {
	uploads int
	deletes int
}

func (u *recordingUploader) Upload(_ context.Context, _ io.Reader, _, _ string) (string, error) {
	u.uploads++
	return "https://images.example.com/blogs/test.png", nil
}

func (u *recordingUploader) Delete(_ context.Context, _ string) error {
	u.deletes++
	return nil
}

func apiStatus(t *testing.T, err error) int {
	t.Helper()
	apiErr, ok := err.(*errs.ApiErr)
	if !ok {
		t.Fatalf("expected *errs.ApiErr, got %T: %v", err, err)
	}
	return apiErr.StatusCode
}

func TestCreateValidatesBeforeUpload(t *testing.T) {
	uploader := &recordingUploader{}
	svc := NewBlogService(nil, nil, nil, uploader)

	tests := []struct {
		name  string
		input CreateBlogInput
	}{
		{
			name:  "missing title",
			input: CreateBlogInput{Content: "body"},
		},
		{
			name:  "missing content",
			input: CreateBlogInput{Title: "title"},
		},
		{
			name:  "title too long",
			input: CreateBlogInput{Title: strings.Repeat("a", 201), Content: "body"},
		},
		{
			name:  "excerpt too long",
			input: CreateBlogInput{Title: "title", Content: "body", Excerpt: strings.Repeat("a", 301)},
		},
		{
			name:  "meta description too long",
			input: CreateBlogInput{Title: "title", Content: "body", MetaDescription: strings.Repeat("a", 161)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			in.Image = &ImageUpload{Reader: strings.NewReader("png"), Filename: "a.png", ContentType: "image/png"}

			_, err := svc.Create(context.Background(), primitive.NewObjectID(), in)
			assert.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))
			assert.Equal(t, 0, uploader.uploads, "upload must not run for invalid input")
		})
	}
}

func TestCreateBoundaryLengthsPassValidation(t *testing.T) {
	assert.Nil(t, validateCreate(CreateBlogInput{
		Title:           strings.Repeat("a", 200),
		Content:         "body",
		Excerpt:         strings.Repeat("b", 300),
		MetaDescription: strings.Repeat("c", 160),
	}))

	// Caps count characters, not bytes; a 200-rune multibyte title is valid
	// even though it is 400 bytes.
	assert.Nil(t, validateCreate(CreateBlogInput{
		Title:           strings.Repeat("é", 200),
		Content:         "body",
		Excerpt:         strings.Repeat("ü", 300),
		MetaDescription: strings.Repeat("ß", 160),
	}))

	err := validateCreate(CreateBlogInput{Title: strings.Repeat("é", 201), Content: "body"})
	assert.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
}

func TestBuildBlogPatchOnlyIncludesProvidedFields(t *testing.T) {
	set, err := buildBlogPatch(UpdateBlogInput{Title: "New Title"})
	assert.Nil(t, err)
	assert.Equal(t, "New Title", set["title"])
	assert.NotContains(t, set, "content")
	assert.NotContains(t, set, "excerpt")
	assert.NotContains(t, set, "is_comment_enabled")
}

func TestBuildBlogPatchEmptyInputYieldsEmptySet(t *testing.T) {
	set, err := buildBlogPatch(UpdateBlogInput{})
	assert.Nil(t, err)
	assert.Empty(t, set)
}

func TestBuildBlogPatchRecomputesReadingTimeWithContent(t *testing.T) {
	set, err := buildBlogPatch(UpdateBlogInput{Content: strings.Repeat("word ", 201)})
	assert.Nil(t, err)
	assert.Equal(t, 2, set["reading_time"])
}

func TestBuildBlogPatchNeverTouchesSlug(t *testing.T) {
	set, err := buildBlogPatch(UpdateBlogInput{Title: "Completely Different Title"})
	assert.Nil(t, err)
	assert.NotContains(t, set, "slug")
}

func TestBuildBlogPatchSplitsListFields(t *testing.T) {
	set, err := buildBlogPatch(UpdateBlogInput{Categories: "Go, Backend", Tags: "mongodb"})
	assert.Nil(t, err)
	assert.Equal(t, []string{"go", "backend"}, set["categories"])
	assert.Equal(t, []string{"mongodb"}, set["tags"])
}

func TestBuildBlogPatchHonorsCommentToggle(t *testing.T) {
	disabled := false
	set, err := buildBlogPatch(UpdateBlogInput{IsCommentEnabled: &disabled})
	assert.Nil(t, err)
	assert.Equal(t, false, set["is_comment_enabled"])
}

func TestBuildBlogPatchRejectsOverlongFields(t *testing.T) {
	tests := []struct {
		name  string
		input UpdateBlogInput
	}{
		{"title", UpdateBlogInput{Title: strings.Repeat("a", 201)}},
		{"excerpt", UpdateBlogInput{Excerpt: strings.Repeat("a", 301)}},
		{"meta description", UpdateBlogInput{MetaDescription: strings.Repeat("a", 161)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := buildBlogPatch(tt.input)
			assert.Nil(t, set)
			assert.NotNil(t, err)
			assert.Equal(t, http.StatusBadRequest, err.StatusCode)
		})
	}
}

func TestAddCommentValidatesContent(t *testing.T) {
	svc := NewBlogService(nil, nil, nil, nil)

	_, err := svc.AddComment(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID(), "")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))

	// Whitespace-only content trims down to empty.
	_, err = svc.AddComment(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID(), "   \n\t ")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))

	_, err = svc.AddComment(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID(), strings.Repeat("a", 1001))
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))
}

func TestValidateCommentTrimsAndCountsRunes(t *testing.T) {
	content, err := validateComment("  hello  ")
	assert.Nil(t, err)
	assert.Equal(t, "hello", content)

	// 1000 multibyte characters are within the cap even at 2000 bytes.
	content, err = validateComment(strings.Repeat("é", 1000))
	assert.Nil(t, err)
	assert.Equal(t, 1000, len([]rune(content)))

	_, err = validateComment(strings.Repeat("é", 1001))
	assert.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
}

func TestSearchRequiresQuery(t *testing.T) {
	svc := NewBlogService(nil, nil, nil, nil)

	_, err := svc.Search(context.Background(), "", 1, 10)
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))
}

func TestInvalidBlogIDsAreRejected(t *testing.T) {
	svc := NewBlogService(nil, nil, nil, nil)
	user := primitive.NewObjectID()

	_, err := svc.GetByID(context.Background(), "not-an-object-id")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))

	_, err = svc.Like(context.Background(), "not-an-object-id", user)
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))

	_, err = svc.IncrementViews(context.Background(), "not-an-object-id")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))

	err = svc.DeleteComment(context.Background(), "not-an-object-id", primitive.NewObjectID().Hex(), user)
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))
}

func TestGetByAuthorRejectsInvalidUserID(t *testing.T) {
	svc := NewBlogService(nil, nil, nil, nil)

	_, err := svc.GetByAuthor(context.Background(), "nope", primitive.NilObjectID, "", 1, 10)
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))
}
