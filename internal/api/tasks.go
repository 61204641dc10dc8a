package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/krana10454/todo-app/internal/model"
)

// createTaskRequest 创建任务的请求参数。
type createTaskRequest struct {
	Task   string `json:"task"`
	UserID string `json:"userID"` // 可选，归属用户 ID
}

// updateTaskRequest 部分更新任务的请求参数，未出现的字段保持不变。
type updateTaskRequest struct {
	Task      *string `json:"task"`
	Completed *bool   `json:"completed"`
}

// taskResponse 对外返回的任务表示。ID 作为不透明字符串输出。
type taskResponse struct {
	ID        string `json:"id"`
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
	UserID    string `json:"userID,omitempty"`
}

func newTaskResponse(t model.Task) taskResponse {
	resp := taskResponse{
		ID:        strconv.FormatUint(uint64(t.ID), 10),
		Task:      t.Task,
		Completed: t.Completed,
	}
	if t.UserID != nil {
		resp.UserID = strconv.FormatUint(uint64(*t.UserID), 10)
	}
	return resp
}

// handleListTasks 返回全部任务。
//
// Deprecated 路由：不区分归属用户，仅为旧前端保留，
// 新客户端应使用 /tasks/user/:userID。
func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.tasks.ListTasks(c.Request.Context())
	if err != nil {
		s.logger.Error("list tasks failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while fetching tasks."})
		return
	}

	resp := []taskResponse{} // 确保空结果序列化为 [] 而不是 null
	for _, t := range tasks {
		resp = append(resp, newTaskResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}

// handleListUserTasks 返回指定用户的任务列表。
//
// userID 是弱引用：格式不合法等同于查不到任何任务，返回空列表。
func (s *Server) handleListUserTasks(c *gin.Context) {
	resp := []taskResponse{}

	userID, err := strconv.ParseUint(c.Param("userID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusOK, resp)
		return
	}

	tasks, err := s.tasks.ListTasksByUser(c.Request.Context(), uint(userID))
	if err != nil {
		s.logger.Error("list user tasks failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while fetching tasks."})
		return
	}

	for _, t := range tasks {
		resp = append(resp, newTaskResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}

// handleCreateTask 创建任务，completed 恒为初始 false。
func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task content is required."})
		return
	}
	if strings.TrimSpace(req.Task) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task content is required."})
		return
	}

	task := model.Task{Task: req.Task}
	if req.UserID != "" {
		if id, err := strconv.ParseUint(req.UserID, 10, 32); err == nil {
			uid := uint(id)
			task.UserID = &uid
		}
	}

	if err := s.tasks.CreateTask(c.Request.Context(), &task); err != nil {
		s.logger.Error("create task failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while adding the task."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task added successfully!",
		"task":    newTaskResponse(task),
	})
}

// handleUpdateTask 部分更新任务。未知或格式不合法的 ID 一律按 404 处理。
func (s *Server) handleUpdateTask(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An update payload is required."})
		return
	}

	fields := map[string]any{}
	if req.Task != nil {
		if strings.TrimSpace(*req.Task) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Task content is required."})
			return
		}
		fields["task"] = *req.Task
	}
	if req.Completed != nil {
		fields["completed"] = *req.Completed
	}

	matched, err := s.tasks.UpdateTask(c.Request.Context(), uint(id), fields)
	if err != nil {
		s.logger.Error("update task failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while updating the task."})
		return
	}
	if matched == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	task, err := s.tasks.FindTask(c.Request.Context(), uint(id))
	if err != nil || task == nil {
		s.logger.Error("reload task failed", slog.Uint64("id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while updating the task."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully!",
		"task":    newTaskResponse(*task),
	})
}

// handleDeleteTask 删除任务。删除计数为 0 即视为不存在。
func (s *Server) handleDeleteTask(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	deleted, err := s.tasks.DeleteTask(c.Request.Context(), uint(id))
	if err != nil {
		s.logger.Error("delete task failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while deleting the task."})
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully!"})
}
