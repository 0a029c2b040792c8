package security

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserClaims 后台用户 Token 中携带的身份信息
type UserClaims struct {
	UserID uint64   `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}
