package domain

import "errors"

// 服务层统一错误；handler 负责映射为 HTTP 状态码
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateSlug      = errors.New("slug already exists")
	ErrUnauthenticated    = errors.New("user not authenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrConflict           = errors.New("storage conflict, please retry")
	ErrValidation         = errors.New("validation failed")
)
