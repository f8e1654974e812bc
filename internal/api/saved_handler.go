package api

import (
	"net/http"
	"recipehub/meal-planner/internal/service"

	"github.com/gin-gonic/gin"
)

type SavedHandler struct {
	savedService service.SavedRecipeService
}

func NewSavedHandler(savedService service.SavedRecipeService) *SavedHandler {
	return &SavedHandler{savedService: savedService}
}

type SavedStateResponse struct {
	RecipeID string `json:"recipeId"`
	Saved    bool   `json:"saved"`
}

// ListSaved godoc
// @Summary The caller's saved recipes
// @Description Oldest bookmark first, narrowed by title text and category.
// @Tags Saved
// @Produce json
// @Security BearerAuth
// @Param q query string false "Title contains (case-insensitive)"
// @Param category query string false "Exact category"
// @Success 200 {array} domain.Recipe
// @Router /saved [get]
func (h *SavedHandler) ListSaved(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	recipes, err := h.savedService.ListSaved(c.Request.Context(), userID, service.RecipeQuery{
		Text:     c.Query("q"),
		Category: c.Query("category"),
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// IsSaved godoc
// @Summary Whether a recipe is saved
// @Tags Saved
// @Produce json
// @Security BearerAuth
// @Param recipeId path string true "Recipe ID"
// @Success 200 {object} SavedStateResponse
// @Router /saved/{recipeId} [get]
func (h *SavedHandler) IsSaved(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	recipeID := c.Param("recipeId")
	saved, err := h.savedService.IsSaved(c.Request.Context(), userID, recipeID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SavedStateResponse{RecipeID: recipeID, Saved: saved})
}

// Save godoc
// @Summary Save a recipe
// @Description Idempotent.
// @Tags Saved
// @Produce json
// @Security BearerAuth
// @Param recipeId path string true "Recipe ID"
// @Success 200 {object} SavedStateResponse
// @Router /saved/{recipeId} [put]
func (h *SavedHandler) Save(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	recipeID := c.Param("recipeId")
	if err := h.savedService.Save(c.Request.Context(), userID, recipeID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SavedStateResponse{RecipeID: recipeID, Saved: true})
}

// Unsave godoc
// @Summary Remove a recipe from the saved list
// @Description Idempotent.
// @Tags Saved
// @Produce json
// @Security BearerAuth
// @Param recipeId path string true "Recipe ID"
// @Success 200 {object} SavedStateResponse
// @Router /saved/{recipeId} [delete]
func (h *SavedHandler) Unsave(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	recipeID := c.Param("recipeId")
	if err := h.savedService.Unsave(c.Request.Context(), userID, recipeID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SavedStateResponse{RecipeID: recipeID, Saved: false})
}

// Toggle godoc
// @Summary Flip a recipe's saved state
// @Tags Saved
// @Produce json
// @Security BearerAuth
// @Param recipeId path string true "Recipe ID"
// @Success 200 {object} SavedStateResponse "New state"
// @Router /saved/{recipeId}/toggle [post]
func (h *SavedHandler) Toggle(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	recipeID := c.Param("recipeId")
	saved, err := h.savedService.Toggle(c.Request.Context(), userID, recipeID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SavedStateResponse{RecipeID: recipeID, Saved: saved})
}
