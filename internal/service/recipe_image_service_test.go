package service

import (
	"context"
	"errors"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/repository/memory"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (f *fakeStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://storage.test/put/" + objectKey, nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://storage.test/get/" + objectKey, nil
}

func (f *fakeStorage) DeleteObject(ctx context.Context, objectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func newImageFixture() (RecipeImageService, *memory.RecipeRepository, *fakeStorage) {
	repo := memory.NewRecipeRepository(
		domain.Recipe{ID: "r1", Title: "Soup", AuthorID: "u1"},
		domain.Recipe{ID: "r2", Title: "Toast", AuthorID: "u2", ImageURL: "https://cdn.test/toast.jpg"},
	)
	fs := &fakeStorage{}
	return NewRecipeImageService(repo, NewRecipeStore(repo), fs), repo, fs
}

func TestRecipeImageUploadFlow(t *testing.T) {
	ctx := context.Background()
	svc, repo, fs := newImageFixture()

	up, err := svc.RequestUploadURL(ctx, "u1", "r1", "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up.ObjectKey, "recipes/r1/"))
	assert.True(t, strings.HasSuffix(up.ObjectKey, ".png"))
	assert.Contains(t, up.UploadURL, up.ObjectKey)

	recipe, err := svc.ConfirmUpload(ctx, "u1", "r1", up.ObjectKey)
	require.NoError(t, err)
	assert.Equal(t, up.ObjectKey, recipe.ImageURL)

	stored, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, up.ObjectKey, stored.ImageURL)

	url, err := svc.DownloadURL(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.test/get/"+up.ObjectKey, url)

	// a second upload replaces and deletes the first object
	next, err := svc.RequestUploadURL(ctx, "u1", "r1", "image/jpeg")
	require.NoError(t, err)
	_, err = svc.ConfirmUpload(ctx, "u1", "r1", next.ObjectKey)
	require.NoError(t, err)
	assert.Equal(t, []string{up.ObjectKey}, fs.deleted)
}

func TestRecipeImageRejections(t *testing.T) {
	ctx := context.Background()
	svc, _, fs := newImageFixture()

	_, err := svc.RequestUploadURL(ctx, "u1", "r1", "application/pdf")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.RequestUploadURL(ctx, "u1", "r2", "image/png")
	assert.ErrorIs(t, err, ErrRecipeAccessDenied)
	_, err = svc.RequestUploadURL(ctx, "u1", "missing", "image/png")
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	_, err = svc.ConfirmUpload(ctx, "u1", "r1", "recipes/r2/x.png")
	assert.ErrorIs(t, err, ErrInvalidObjectKey)
	_, err = svc.ConfirmUpload(ctx, "u1", "r1", "recipes/r1/../r2/x.png")
	assert.ErrorIs(t, err, ErrInvalidObjectKey)

	_, err = svc.DownloadURL(ctx, "r1")
	assert.ErrorIs(t, err, ErrNoRecipeImage)

	fs.err = errors.New("signing failed")
	_, err = svc.RequestUploadURL(ctx, "u1", "r1", "image/png")
	assert.ErrorIs(t, err, ErrUploadURLError)
}

func TestRecipeImageAbsoluteURLIsReturnedAsIs(t *testing.T) {
	svc, _, _ := newImageFixture()
	url, err := svc.DownloadURL(context.Background(), "r2")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/toast.jpg", url)
}
