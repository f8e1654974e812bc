package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/repository"
	"recipehub/meal-planner/internal/storage"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrRecipeAccessDenied = errors.New("access denied: recipe belongs to another author")
	ErrNoRecipeImage      = errors.New("recipe has no image")
	ErrInvalidObjectKey   = errors.New("object key does not belong to this recipe")
	ErrUploadURLError     = errors.New("could not generate upload URL")
)

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/heic": "heic",
}

// ImageUploadURL is handed to the client, which PUTs the file directly to
// object storage and then confirms with ObjectKey.
type ImageUploadURL struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// RecipeImageService attaches pictures stored in object storage to recipes.
type RecipeImageService interface {
	RequestUploadURL(ctx context.Context, userID, recipeID, contentType string) (*ImageUploadURL, error)
	// ConfirmUpload points the recipe's imageUrl at objectKey (full recipe
	// overwrite) and removes the previous stored image.
	ConfirmUpload(ctx context.Context, userID, recipeID, objectKey string) (*domain.Recipe, error)
	// DownloadURL returns a presigned URL, or imageUrl itself when it is
	// already an absolute http(s) URL.
	DownloadURL(ctx context.Context, recipeID string) (string, error)
}

type recipeImageService struct {
	recipeRepo  repository.RecipeRepository
	store       RecipeStore
	fileStorage storage.FileStorage
}

// NewRecipeImageService creates a new instance of recipeImageService.
func NewRecipeImageService(recipeRepo repository.RecipeRepository, store RecipeStore, fileStorage storage.FileStorage) RecipeImageService {
	return &recipeImageService{recipeRepo: recipeRepo, store: store, fileStorage: fileStorage}
}

func recipeImagePrefix(recipeID string) string {
	return path.Join("recipes", recipeID) + "/"
}

// ownedRecipe reads the live document; the cache may lag behind writes.
func (s *recipeImageService) ownedRecipe(ctx context.Context, userID, recipeID string) (*domain.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, transportError("get recipe "+recipeID, err)
	}
	if userID != "" && recipe.AuthorID != userID {
		return nil, ErrRecipeAccessDenied
	}
	return recipe, nil
}

func (s *recipeImageService) RequestUploadURL(ctx context.Context, userID, recipeID, contentType string) (*ImageUploadURL, error) {
	if userID == "" || recipeID == "" {
		return nil, validationErrorf("user id and recipe id are required")
	}
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return nil, validationErrorf("unsupported image content type %q", contentType)
	}
	if _, err := s.ownedRecipe(ctx, userID, recipeID); err != nil {
		return nil, err
	}

	objectKey := recipeImagePrefix(recipeID) + fmt.Sprintf("%s.%s", uuid.NewString(), ext)
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}
	return &ImageUploadURL{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

func (s *recipeImageService) ConfirmUpload(ctx context.Context, userID, recipeID, objectKey string) (*domain.Recipe, error) {
	if userID == "" || recipeID == "" || objectKey == "" {
		return nil, validationErrorf("user id, recipe id and object key are required")
	}
	if !strings.HasPrefix(objectKey, recipeImagePrefix(recipeID)) || strings.Contains(objectKey, "..") {
		return nil, ErrInvalidObjectKey
	}
	recipe, err := s.ownedRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	previous := recipe.ImageURL
	recipe.ImageURL = objectKey
	if err := s.store.AddRecipe(ctx, recipe); err != nil {
		return nil, err
	}

	if previous != "" && previous != objectKey && strings.HasPrefix(previous, recipeImagePrefix(recipeID)) {
		if err := s.fileStorage.DeleteObject(ctx, previous); err != nil {
			// orphaned object; the recipe already points at the new one
			log.Printf("WARN: Could not delete previous image %s of recipe %s: %v", previous, recipeID, err)
		}
	}
	return recipe, nil
}

func (s *recipeImageService) DownloadURL(ctx context.Context, recipeID string) (string, error) {
	if recipeID == "" {
		return "", validationErrorf("recipe id is required")
	}
	recipe, err := s.ownedRecipe(ctx, "", recipeID)
	if err != nil {
		return "", err
	}
	if recipe.ImageURL == "" {
		return "", ErrNoRecipeImage
	}
	if strings.HasPrefix(recipe.ImageURL, "http://") || strings.HasPrefix(recipe.ImageURL, "https://") {
		return recipe.ImageURL, nil
	}
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, recipe.ImageURL, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", transportError("presign image download", err)
	}
	return url, nil
}
