package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/services"
	"github.com/gin-gonic/gin"
)

// AccountController serves registration, login and activation for every role.
type AccountController struct {
	service services.AccountService
}

// NewAccountController creates a new instance of AccountController
func NewAccountController(service services.AccountService) *AccountController {
	return &AccountController{service: service}
}

// Register returns the registration handler for users or chefs.
//
// @Summary Register an account
// @Description Create a user or chef account. The account number is assigned by the server.
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body services.RegisterInput true "Account details"
// @Success 201 {object} models.APIResponse{data=models.Account}
// @Failure 400 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /api/users/register [post]
// @Router /api/chef/register [post]
func (ac *AccountController) Register(role models.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var in services.RegisterInput
		if err := ctx.ShouldBindJSON(&in); err != nil {
			badRequest(ctx, "Invalid request body")
			return
		}

		account, err := ac.service.Register(ctx.Request.Context(), role, in)
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusCreated, models.NewSuccessResponse(role.Label()+" registered successfully", account))
	}
}

// Login returns the login handler for role.
//
// @Summary Log in
// @Description Exchange credentials for a bearer token signed with the role's secret
// @Tags accounts
// @Accept json
// @Produce json
// @Param credentials body services.LoginInput true "Credentials"
// @Success 200 {object} models.APIResponse{data=services.AuthResult}
// @Failure 401 {object} models.APIResponse
// @Failure 403 {object} models.APIResponse
// @Router /api/users/login [post]
// @Router /api/chef/login [post]
// @Router /api/admin/login [post]
func (ac *AccountController) Login(role models.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var in services.LoginInput
		if err := ctx.ShouldBindJSON(&in); err != nil {
			badRequest(ctx, "Invalid request body")
			return
		}

		result, err := ac.service.Login(ctx.Request.Context(), role, in)
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, models.NewSuccessResponse("Login successful", result))
	}
}

// RegisterAdmin godoc
// @Summary Register the admin
// @Description Create the single admin account. Fails once an admin exists.
// @Tags admin
// @Accept json
// @Produce json
// @Param account body services.RegisterInput true "Admin details"
// @Success 201 {object} models.APIResponse{data=services.AuthResult}
// @Failure 400 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /api/admin/register [post]
func (ac *AccountController) RegisterAdmin(ctx *gin.Context) {
	var in services.RegisterInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}

	result, err := ac.service.RegisterAdmin(ctx.Request.Context(), in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, models.NewSuccessResponse("Admin registered successfully", result))
}

// SetActive returns the admin handler that deactivates or reactivates the
// account whose number is in the named path parameter.
//
// @Summary Deactivate or reactivate an account
// @Tags admin
// @Produce json
// @Param userNumber path string true "Account number, e.g. USER001"
// @Success 200 {object} models.APIResponse{data=models.Account}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Security AdminAuth
// @Router /api/admin/deactivate-user/{userNumber} [patch]
// @Router /api/admin/reactivate-user/{userNumber} [patch]
func (ac *AccountController) SetActive(role models.Role, active bool, param string) gin.HandlerFunc {
	verb := "deactivated"
	if active {
		verb = "reactivated"
	}
	return func(ctx *gin.Context) {
		account, err := ac.service.SetActive(ctx.Request.Context(), role, ctx.Param(param), active)
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, models.NewSuccessResponse(role.Label()+" "+verb+" successfully", account))
	}
}
