package api

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/service"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type RecipeHandler struct {
	store        service.RecipeStore
	imageService service.RecipeImageService
	cacheTTL     time.Duration
}

func NewRecipeHandler(store service.RecipeStore, imageService service.RecipeImageService, cacheTTL time.Duration) *RecipeHandler {
	return &RecipeHandler{store: store, imageService: imageService, cacheTTL: cacheTTL}
}

// --- DTOs ---

type IngredientRequest struct {
	Name     string `json:"name" binding:"required"`
	Amount   string `json:"amount"`
	Calories int    `json:"calories" binding:"min=0"`
}

type RecipeRequest struct {
	Title         string              `json:"title" binding:"required"`
	Description   string              `json:"description"`
	Ingredients   []IngredientRequest `json:"ingredients" binding:"dive"`
	CookTime      string              `json:"cookTime"`
	Servings      int                 `json:"servings" binding:"min=0"`
	TotalCalories int                 `json:"totalCalories" binding:"min=0"`
	ImageURL      string              `json:"imageUrl"`
	Category      string              `json:"category"`
	Instructions  []string            `json:"instructions"`
}

type ImageUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmImageRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

func (r *RecipeRequest) toDomain(id, authorID string) *domain.Recipe {
	recipe := &domain.Recipe{
		ID:            id,
		Title:         r.Title,
		Description:   r.Description,
		CookTime:      r.CookTime,
		Servings:      r.Servings,
		TotalCalories: r.TotalCalories,
		AuthorID:      authorID,
		ImageURL:      r.ImageURL,
		Category:      r.Category,
		Instructions:  r.Instructions,
	}
	for _, ing := range r.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, domain.Ingredient{Name: ing.Name, Amount: ing.Amount, Calories: ing.Calories})
	}
	return recipe
}

// freshen refreshes an expired cache. A failed refresh keeps serving the
// previous snapshot.
func (h *RecipeHandler) freshen(c *gin.Context) {
	if err := h.store.EnsureFresh(c.Request.Context(), h.cacheTTL); err != nil {
		log.Printf("WARN: Serving cached recipes after failed refresh: %v", err)
	}
}

// ListRecipes godoc
// @Summary List recipes
// @Description Filters the recipe catalogue by title text, category and author. trending=true shuffles the result; pass seed for a reproducible order.
// @Tags Recipes
// @Produce json
// @Security BearerAuth
// @Param q query string false "Title contains (case-insensitive)"
// @Param category query string false "Exact category"
// @Param mine query bool false "Only recipes authored by the caller"
// @Param trending query bool false "Shuffle the result"
// @Param seed query int false "Shuffle seed"
// @Success 200 {array} domain.Recipe
// @Failure 400 {object} gin.H "Invalid query"
// @Router /recipes [get]
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	q := service.RecipeQuery{Text: c.Query("q"), Category: c.Query("category")}
	if mine, _ := strconv.ParseBool(c.Query("mine")); mine {
		q.AuthorID = userID
	}

	h.freshen(c)

	trending, _ := strconv.ParseBool(c.Query("trending"))
	if !trending {
		c.JSON(http.StatusOK, h.store.Search(q))
		return
	}

	seed := uint64(time.Now().UnixNano())
	if raw := c.Query("seed"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "seed must be a non-negative integer")
			return
		}
		seed = parsed
	}
	c.JSON(http.StatusOK, h.store.Trending(q, rand.New(rand.NewPCG(seed, seed))))
}

// GetCategories godoc
// @Summary List recipe categories
// @Description Distinct categories in first-seen order. Uncategorised recipes contribute an empty string.
// @Tags Recipes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Router /recipes/categories [get]
func (h *RecipeHandler) GetCategories(c *gin.Context) {
	h.freshen(c)
	c.JSON(http.StatusOK, h.store.Categories())
}

// GetRecipe godoc
// @Summary Get a recipe by ID
// @Tags Recipes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Recipe ID"
// @Success 200 {object} domain.Recipe
// @Failure 404 {object} gin.H "Recipe not found"
// @Router /recipes/{id} [get]
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	h.freshen(c)
	recipe, ok := h.store.GetByID(c.Param("id"))
	if !ok {
		abortWithError(c, http.StatusNotFound, service.ErrRecipeNotFound.Error())
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// CreateRecipe godoc
// @Summary Create a recipe
// @Description The caller becomes the author. A new ID is assigned.
// @Tags Recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param recipe body RecipeRequest true "Recipe"
// @Success 201 {object} domain.Recipe
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 502 {object} gin.H "Backend unavailable"
// @Router /recipes [post]
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	recipe := req.toDomain("", userID)
	if err := h.store.AddRecipe(c.Request.Context(), recipe); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// UpdateRecipe godoc
// @Summary Replace a recipe
// @Description Overwrites every field of the recipe. Only its author or an admin may do this.
// @Tags Recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Recipe ID"
// @Param recipe body RecipeRequest true "Recipe"
// @Success 200 {object} domain.Recipe
// @Failure 403 {object} gin.H "Not the author"
// @Failure 404 {object} gin.H "Recipe not found"
// @Router /recipes/{id} [put]
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	h.freshen(c)
	id := c.Param("id")
	existing, found := h.store.GetByID(id)
	if !found {
		abortWithError(c, http.StatusNotFound, service.ErrRecipeNotFound.Error())
		return
	}
	role, _ := getUserRoleFromContext(c)
	if existing.AuthorID != userID && role != domain.RoleAdmin {
		abortWithError(c, http.StatusForbidden, service.ErrRecipeAccessDenied.Error())
		return
	}

	recipe := req.toDomain(id, existing.AuthorID)
	if err := h.store.AddRecipe(c.Request.Context(), recipe); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// RequestImageUpload godoc
// @Summary Get a presigned URL for uploading a recipe image
// @Tags Recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Recipe ID"
// @Param request body ImageUploadRequest true "Image content type"
// @Success 200 {object} service.ImageUploadURL
// @Failure 400 {object} gin.H "Unsupported content type"
// @Failure 403 {object} gin.H "Not the author"
// @Router /recipes/{id}/image [post]
func (h *RecipeHandler) RequestImageUpload(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	upload, err := h.imageService.RequestUploadURL(c.Request.Context(), userID, c.Param("id"), req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrUploadURLError) {
			abortWithError(c, http.StatusInternalServerError, err.Error())
			return
		}
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

// ConfirmImageUpload godoc
// @Summary Attach an uploaded image to a recipe
// @Tags Recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Recipe ID"
// @Param request body ConfirmImageRequest true "Uploaded object key"
// @Success 200 {object} domain.Recipe
// @Failure 403 {object} gin.H "Not the author, or key of another recipe"
// @Router /recipes/{id}/image [put]
func (h *RecipeHandler) ConfirmImageUpload(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req ConfirmImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	recipe, err := h.imageService.ConfirmUpload(c.Request.Context(), userID, c.Param("id"), req.ObjectKey)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// GetImageURL godoc
// @Summary Get a download URL for a recipe image
// @Tags Recipes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Recipe ID"
// @Success 200 {object} gin.H "url"
// @Failure 404 {object} gin.H "Recipe or image not found"
// @Router /recipes/{id}/image [get]
func (h *RecipeHandler) GetImageURL(c *gin.Context) {
	url, err := h.imageService.DownloadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// RefreshCache godoc
// @Summary Reload the recipe cache from the backend
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "count"
// @Failure 502 {object} gin.H "Backend unavailable"
// @Router /admin/recipes/refresh [post]
func (h *RecipeHandler) RefreshCache(c *gin.Context) {
	recipes, err := h.store.Refresh(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(recipes)})
}

// DeleteRecipe godoc
// @Summary Remove a recipe
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "Recipe ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Recipe not found"
// @Router /admin/recipes/{id} [delete]
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	if err := h.store.DeleteRecipe(c.Request.Context(), c.Param("id")); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
