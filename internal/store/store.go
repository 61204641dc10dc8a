package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/krana10454/todo-app/internal/model"
)

// Store 是基于 gorm 的数据访问层。
//
// 它只做 users / tasks 两张表的增删改查，不感知 HTTP：
// 记录不存在通过返回 nil 或 0 计数表达，错误只代表存储层故障。
type Store struct {
	db *gorm.DB
}

// New 创建 Store。
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreateUser 插入一个新用户，返回分配的 ID。
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (uint, error) {
	user := model.User{Email: email, Password: passwordHash}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return 0, err
	}
	return user.ID, nil
}

// FindUserByEmail 按邮箱查找用户，未找到时返回 (nil, nil)。
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserPassword 按邮箱更新密码哈希，返回命中的行数。
func (s *Store) UpdateUserPassword(ctx context.Context, email, newHash string) (int64, error) {
	res := s.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", email).
		Update("password", newHash)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// CreateTask 插入一条任务，ID 由数据库分配并回填。
func (s *Store) CreateTask(ctx context.Context, task *model.Task) error {
	return s.db.WithContext(ctx).Create(task).Error
}

// ListTasks 返回全部任务。
func (s *Store) ListTasks(ctx context.Context) ([]model.Task, error) {
	tasks := []model.Task{}
	if err := s.db.WithContext(ctx).Order("id").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListTasksByUser 返回指定用户的全部任务。
func (s *Store) ListTasksByUser(ctx context.Context, userID uint) ([]model.Task, error) {
	tasks := []model.Task{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateTask 对指定任务做部分更新，返回命中的行数（0 表示不存在）。
//
// 先查再改而不是直接依赖 UPDATE 的行数：MySQL 汇报的是实际变更的
// 行数，字段值未变化的更新会被误判成"不存在"。
func (s *Store) UpdateTask(ctx context.Context, id uint, fields map[string]any) (int64, error) {
	var task model.Task
	err := s.db.WithContext(ctx).First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(fields) > 0 {
		if err := s.db.WithContext(ctx).Model(&task).Updates(fields).Error; err != nil {
			return 0, err
		}
	}
	return 1, nil
}

// FindTask 按 ID 查找任务，未找到时返回 (nil, nil)。
func (s *Store) FindTask(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := s.db.WithContext(ctx).First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask 删除指定任务，返回删除的行数（0 表示不存在）。
func (s *Store) DeleteTask(ctx context.Context, id uint) (int64, error) {
	res := s.db.WithContext(ctx).Delete(&model.Task{}, id)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
