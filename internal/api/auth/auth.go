package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/golang-jwt/jwt/v5"

	"github.com/krana10454/todo-app/internal/model"
)

// tempPasswordLength 是密码重置时签发的临时密码长度。
const tempPasswordLength = 10

// UserStore 是 Handler 依赖的用户存储接口。
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (uint, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUserPassword(ctx context.Context, email, newHash string) (int64, error)
}

// Mailer 发送密码重置邮件。
type Mailer interface {
	SendTemporaryPassword(toEmail, tempPassword string) error
}

// Handler 提供注册、登录、注销与密码重置接口。
type Handler struct {
	store         UserStore
	mailer        Mailer
	jwtSecret     []byte
	allowedDomain string
	logger        *slog.Logger
}

// NewHandler 创建 Auth Handler。
func NewHandler(store UserStore, allowedDomain, jwtSecret string, mailer Mailer, logger *slog.Logger) *Handler {
	return &Handler{
		store:         store,
		mailer:        mailer,
		jwtSecret:     []byte(jwtSecret),
		allowedDomain: strings.TrimSpace(allowedDomain),
		logger:        logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// Signup 创建新用户。
//
// 校验顺序与响应消息保持对外契约：缺字段 / 邮箱域名 / 密码强度
// 均为 400，邮箱已注册为 409。
func (h *Handler) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required."})
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required."})
		return
	}
	if !strings.HasSuffix(email, h.allowedDomain) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please use a Gmail address for registration."})
		return
	}
	if !ValidatePassword(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password requirements not met."})
		return
	}

	existing, err := h.store.FindUserByEmail(c.Request.Context(), email)
	if err != nil {
		h.logger.Error("query user failed", slog.String("email", email), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during signup."})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists."})
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		h.logger.Error("hash password failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during signup."})
		return
	}

	if _, err := h.store.CreateUser(c.Request.Context(), email, hash); err != nil {
		// 先查后插不是原子的，并发注册同一邮箱会竞争到这里，
		// 由唯一索引兜底并按冲突上报。
		if isDuplicateKey(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "User already exists."})
			return
		}
		h.logger.Error("create user failed", slog.String("email", email), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during signup."})
		return
	}

	h.logger.Info("user registered", slog.String("email", email))
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully!"})
}

// Login 校验凭据，返回用户 ID 与 JWT。
func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))

	user, err := h.store.FindUserByEmail(c.Request.Context(), email)
	if err != nil {
		h.logger.Error("query user failed", slog.String("email", email), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during login."})
		return
	}
	if user == nil || !VerifyPassword(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := h.issueToken(user.ID)
	if err != nil {
		h.logger.Error("sign token failed", slog.String("email", email), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during login."})
		return
	}

	h.logger.Info("user logged in", slog.String("email", email))
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful!",
		"userID":  strconv.FormatUint(uint64(user.ID), 10),
		"token":   token,
	})
}

// Logout 处理注销请求（API 无服务端会话，直接返回成功）。
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully!"})
}

// ForgotPassword 为指定邮箱签发临时密码并尝试发信。
//
// 发信失败只记日志不上抛：只要密码已经重置，就向用户返回成功。
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No user found with that email."})
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))

	user, err := h.store.FindUserByEmail(c.Request.Context(), email)
	if err != nil {
		h.logger.Error("query user failed", slog.String("email", email), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during the password reset process."})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No user found with that email."})
		return
	}

	tempPassword, err := GenerateTempPassword(tempPasswordLength)
	if err != nil {
		h.logger.Error("generate temp password failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during the password reset process."})
		return
	}
	hash, err := HashPassword(tempPassword)
	if err != nil {
		h.logger.Error("hash temp password failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during the password reset process."})
		return
	}
	if _, err := h.store.UpdateUserPassword(c.Request.Context(), email, hash); err != nil {
		h.logger.Error("update password failed", slog.String("email", email), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during the password reset process."})
		return
	}

	if err := h.mailer.SendTemporaryPassword(user.Email, tempPassword); err != nil {
		h.logger.Warn("send temp password email failed", slog.String("email", email), slog.String("error", err.Error()))
	}

	h.logger.Info("temporary password issued", slog.String("email", email))
	c.JSON(http.StatusOK, gin.H{"message": "A temporary password has been sent to your email."})
}

func (h *Handler) issueToken(userID uint) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}

func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
