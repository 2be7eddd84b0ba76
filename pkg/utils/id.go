package utils

import "github.com/google/uuid"

// NewID 随机 id（会话 id 等）
func NewID() string { return uuid.NewString() }
