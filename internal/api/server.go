package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/krana10454/todo-app/internal/api/auth"
	"github.com/krana10454/todo-app/internal/api/middleware"
	"github.com/krana10454/todo-app/internal/config"
	"github.com/krana10454/todo-app/internal/model"
	"github.com/krana10454/todo-app/internal/pkg/metrics"
	"github.com/krana10454/todo-app/internal/pkg/notify"
	"github.com/krana10454/todo-app/internal/store"
)

// TaskStore 是任务处理器依赖的存储接口。
type TaskStore interface {
	CreateTask(ctx context.Context, task *model.Task) error
	ListTasks(ctx context.Context) ([]model.Task, error)
	ListTasksByUser(ctx context.Context, userID uint) ([]model.Task, error)
	FindTask(ctx context.Context, id uint) (*model.Task, error)
	UpdateTask(ctx context.Context, id uint, fields map[string]any) (int64, error)
	DeleteTask(ctx context.Context, id uint) (int64, error)
}

// Server 封装了 API 服务所需的依赖和路由处理。
//
// 它持有数据库连接、认证处理器以及 Gin 路由引擎。
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
	router *gin.Engine
	auth   *auth.Handler
	tasks  TaskStore
}

// NewServer 初始化 API 服务器。
//
// 它负责：
// 1. 连接 MySQL 数据库并执行自动迁移
// 2. 初始化邮件发送器与 Prometheus 指标
// 3. 初始化 Gin 路由引擎并注册路由
//
// 参数:
//
//	cfg: 配置对象
//	logger: 日志记录器
//
// 返回值:
//
//	*Server: 初始化完成的服务器实例
//	error: 初始化失败返回错误
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent), // 关闭GORM调试日志
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		return nil, err
	}

	st := store.New(db)
	mailer := notify.NewEmailNotifier(&cfg.Email, logger)

	metrics.InitMetrics()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics())

	s := &Server{
		cfg:    cfg,
		logger: logger,
		db:     db,
		router: r,
		auth:   auth.NewHandler(st, cfg.App.AllowedEmailDomain, cfg.Security.JWTSecret, mailer, logger),
		tasks:  st,
	}
	s.registerRoutes()
	return s, nil
}

// Router 返回 HTTP 路由处理器。
func (s *Server) Router() http.Handler {
	return s.router
}

// Close 关闭数据库连接。
func (s *Server) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// registerRoutes 注册所有的 API 路由。
func (s *Server) registerRoutes() {
	// Prometheus metrics 端点
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/", s.handleHome)
	s.router.GET("/healthz", s.handleHealthz)

	s.router.POST("/signup", s.auth.Signup)
	s.router.POST("/login", s.auth.Login)
	s.router.POST("/logout", s.auth.Logout)
	s.router.POST("/forgot-password", s.auth.ForgotPassword)

	s.router.GET("/tasks", s.handleListTasks)
	s.router.GET("/tasks/user/:userID", s.handleListUserTasks)
	s.router.POST("/tasks", s.handleCreateTask)
	s.router.PUT("/tasks/:id", s.handleUpdateTask)
	s.router.DELETE("/tasks/:id", s.handleDeleteTask)
}

func (s *Server) handleHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the ToDo App!"})
}

func (s *Server) handleHealthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}

	var one int
	if err := s.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
