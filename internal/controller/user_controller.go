package controller

import (
	"errors"

	"course_platform_backend/internal/model"
	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// UserController covers the admin-only account management surface plus the
// public instructor directory.
type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=student instructor admin"`
}

func (c *UserController) Create(ctx *gin.Context) {
	var req CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.UserRole(req.Role),
	}

	if err := c.UserService.Create(user); err != nil {
		switch {
		case errors.Is(err, util.ErrEmailRegistered):
			util.Conflict(ctx, "Email already registered")
		case errors.Is(err, util.ErrUsernameTaken):
			util.Conflict(ctx, "Username already taken")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, user)
}

func (c *UserController) List(ctx *gin.Context) {
	users, err := c.UserService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, users)
}

func (c *UserController) ListInstructors(ctx *gin.Context) {
	instructors, err := c.UserService.ListInstructors()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, instructors)
}

func (c *UserController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	user, err := c.UserService.Get(id)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "User not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=8"`
	Role     *string `json:"role" binding:"omitempty,oneof=student instructor admin"`
}

func (c *UserController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	var req UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	update := service.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Role != nil {
		role := model.UserRole(*req.Role)
		update.Role = &role
	}

	user, err := c.UserService.Update(id, update)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "User not found")
		case errors.Is(err, util.ErrEmailRegistered):
			util.Conflict(ctx, "Email already registered")
		case errors.Is(err, util.ErrUsernameTaken):
			util.Conflict(ctx, "Username already taken")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}

// UpdateProfile lets the authenticated user edit their own account. The role
// field is deliberately absent; only admins change roles.
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.Update(claims.UserID, service.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "User not found")
		case errors.Is(err, util.ErrEmailRegistered):
			util.Conflict(ctx, "Email already registered")
		case errors.Is(err, util.ErrUsernameTaken):
			util.Conflict(ctx, "Username already taken")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

func (c *UserController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	if err := c.UserService.Delete(id); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "User not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}
