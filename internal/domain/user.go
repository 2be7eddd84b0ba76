package domain

import (
	"context"
	"errors"
	"strconv"
)

// ID 由远端 API 分配，本地只做透传
type ID int64

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseID 解析路由参数里的 id
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidID
	}
	return ID(n), nil
}

type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
}

type Company struct {
	Name string `json:"name"`
}

// Record 与远端 users 资源结构一致
type Record struct {
	ID       ID      `json:"id,omitempty"`
	Name     string  `json:"name"`
	Username string  `json:"username"` // 派生字段，不可直接编辑
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Address  Address `json:"address"`
	Company  Company `json:"company"`
	Website  string  `json:"website"`
}

var (
	ErrNotFound  = errors.New("user not found")
	ErrInvalidID = errors.New("invalid user id")
)

// UserAPI 远端用户集合（list/get/create/update/delete）
type UserAPI interface {
	List(ctx context.Context) ([]Record, error)
	Get(ctx context.Context, id ID) (*Record, error)
	Create(ctx context.Context, r Record) (*Record, error)
	Update(ctx context.Context, id ID, r Record) (*Record, error)
	Delete(ctx context.Context, id ID) error
}
