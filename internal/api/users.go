package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bharathbhent-backend/internal/repository"
)

type updateProfileRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email" binding:"omitempty,email"`
	Mobile string `json:"mobile"`
}

func (h *handler) getProfile(c *gin.Context) {
	user, err := h.accounts.Profile(c.Request.Context(), identity(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}

func (h *handler) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	user, err := h.accounts.UpdateProfile(c.Request.Context(), identity(c).ID, repository.ProfilePatch{
		Name: req.Name, Email: req.Email, Mobile: req.Mobile,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}

func (h *handler) savedProducts(c *gin.Context) {
	products, err := h.accounts.SavedProducts(c.Request.Context(), identity(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	respondList(c, products, len(products))
}

func (h *handler) saveProduct(c *gin.Context) {
	productID, ok := objectIDParam(c, "productId")
	if !ok {
		return
	}
	ids, err := h.accounts.SaveProduct(c.Request.Context(), identity(c).ID, productID)
	if err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Product saved", ids)
}

func (h *handler) unsaveProduct(c *gin.Context) {
	productID, ok := objectIDParam(c, "productId")
	if !ok {
		return
	}
	ids, err := h.accounts.RemoveSavedProduct(c.Request.Context(), identity(c).ID, productID)
	if err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Product removed from saved", ids)
}

func (h *handler) listUsers(c *gin.Context) {
	users, err := h.accounts.ListUsers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respondList(c, users, len(users))
}

func (h *handler) getUser(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.accounts.GetUser(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}
