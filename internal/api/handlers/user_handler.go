package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pnt-health-station-api-server/internal/auth"
	"pnt-health-station-api-server/internal/core"
	"pnt-health-station-api-server/internal/models"
	"pnt-health-station-api-server/internal/store"
)

type UserHandler struct {
	Users         store.UserStore
	Log           *core.ActivityLog
	AllowedDomain string
}

type LoginPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login xác thực bằng email tổ chức + mật khẩu và trả về JWT.
func (h *UserHandler) Login(c *gin.Context) {
	var payload LoginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if !auth.AllowedEmailDomain(email, h.AllowedDomain) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Vui lòng sử dụng email của trường (@" + h.AllowedDomain + ")"})
		return
	}

	user, err := h.Users.GetUser(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Email hoặc mật khẩu không đúng"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !auth.CheckPasswordHash(payload.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email hoặc mật khẩu không đúng"})
		return
	}

	token, err := auth.GenerateJWT(user.Email, user.Name, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// GetProfile trả về hồ sơ của người dùng đang đăng nhập.
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.Users.GetUser(c.Request.Context(), c.GetString("user_email"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type UpdateProfilePayload struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Unit  string `json:"unit"`
}

// UpdateProfile cập nhật hồ sơ cá nhân. Cả ba trường đều bắt buộc để
// phiếu yêu cầu sau này có đủ thông tin liên hệ.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var payload UpdateProfilePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if strings.TrimSpace(payload.Name) == "" ||
		strings.TrimSpace(payload.Phone) == "" ||
		strings.TrimSpace(payload.Unit) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vui lòng điền đầy đủ thông tin: Họ tên, Số điện thoại, Đơn vị/Lớp."})
		return
	}

	email := c.GetString("user_email")
	role := c.GetString("user_role")
	if existing, err := h.Users.GetUser(c.Request.Context(), email); err == nil {
		// Giữ role đã có trong store, token có thể cũ hơn.
		role = existing.Role
	}
	if role == "" {
		role = models.RoleEmployee
	}

	user := &models.User{
		Email: email,
		Name:  strings.TrimSpace(payload.Name),
		Role:  role,
		Phone: strings.TrimSpace(payload.Phone),
		Unit:  strings.TrimSpace(payload.Unit),
	}
	if err := h.Users.UpsertUser(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	h.Log.Record(c.Request.Context(), email, core.ActionLogUpdateProfile, "Cập nhật hồ sơ cá nhân")
	c.JSON(http.StatusOK, user)
}

type CreateUserPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	Unit     string `json:"unit"`
}

// CreateUser (admin) tạo tài khoản mới với email thuộc domain của trường.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var payload CreateUserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if !auth.AllowedEmailDomain(email, h.AllowedDomain) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email phải thuộc domain @" + h.AllowedDomain})
		return
	}

	role := payload.Role
	switch role {
	case "":
		role = models.RoleEmployee
	case models.RoleEmployee, models.RoleStaff, models.RoleAdmin:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vai trò không hợp lệ"})
		return
	}

	if _, err := h.Users.GetUser(c.Request.Context(), email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email đã được đăng ký"})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	hashed, err := auth.HashPassword(payload.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := &models.User{
		Email:    email,
		Name:     payload.Name,
		Password: hashed,
		Role:     role,
		Phone:    payload.Phone,
		Unit:     payload.Unit,
	}
	if err := h.Users.UpsertUser(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	h.Log.Record(c.Request.Context(), c.GetString("user_email"), core.ActionLogCreateUser, "Tạo tài khoản "+email+" ("+role+")")
	c.JSON(http.StatusCreated, user)
}

// GetAllUsers (admin) liệt kê toàn bộ tài khoản.
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.Users.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query users"})
		return
	}
	c.JSON(http.StatusOK, users)
}
