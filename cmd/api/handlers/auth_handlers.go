package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell/cmd/api/middleware"
	"inkwell/services"
)

// RegisterHandler godoc
// @Summary      Register an account
// @Tags         users
// @Accept       json
// @Produce      json
// @Success      201  {object}  dto.APIResponse
// @Failure      400  {object}  dto.APIErrorResponse
// @Failure      409  {object}  dto.APIErrorResponse
// @Router       /users/register [post]
func RegisterHandler(svc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			FullName string `json:"full_name"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			respond400(c, "Invalid request body")
			return
		}

		result, err := svc.Register(c.Request.Context(), services.RegisterInput{
			Username: body.Username,
			Email:    body.Email,
			FullName: body.FullName,
			Password: body.Password,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusCreated, result, "User registered successfully")
	}
}

// LoginHandler godoc
// @Summary      Log in
// @Tags         users
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.APIResponse
// @Failure      401  {object}  dto.APIErrorResponse
// @Router       /users/login [post]
func LoginHandler(svc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			respond400(c, "Invalid request body")
			return
		}

		result, err := svc.Login(c.Request.Context(), body.Email, body.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, result, "Logged in successfully")
	}
}

// MeHandler godoc
// @Summary      Get the authenticated account
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.APIResponse
// @Failure      401  {object}  dto.APIErrorResponse
// @Router       /users/me [get]
func MeHandler(svc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		user, err := svc.CurrentUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, user, "User fetched successfully")
	}
}
