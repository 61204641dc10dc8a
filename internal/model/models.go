package model

import "time"

// User 表示系统用户。
//
// 邮箱全局唯一（唯一索引保证），Password 存 bcrypt 哈希，
// 任何接口都不会返回或记录明文密码。用户一旦创建不会被删除，
// 密码重置只会更新 Password 字段。
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(191);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt 哈希
	CreatedAt time.Time `json:"-"`
}

// Task 表示一条待办任务。
//
// UserID 是到 User 的弱引用：仅用于按用户查询，不建外键约束，
// 也不做级联删除（用户从不被删除，见 DESIGN.md）。没有归属用户的
// 任务（UserID 为空）是合法的。
type Task struct {
	ID        uint      `gorm:"primaryKey"`
	Task      string    `gorm:"type:varchar(255);not null"` // 任务描述，非空
	Completed bool      `gorm:"default:false"`
	UserID    *uint     `gorm:"index"` // 归属用户 ID，可为空
	CreatedAt time.Time
	UpdatedAt time.Time
}
