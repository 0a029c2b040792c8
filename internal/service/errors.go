package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid       = errors.New("参数错误")
	ErrArticleNotFound    = errors.New("文章不存在")
	ErrStorageUnavailable = errors.New("存储服务暂不可用，请稍后重试")
	UnauthorizedError     = errors.New("未登录或登录已过期")
	ErrForbidden          = errors.New("权限不足")
	UnExpectedError       = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:       BadRequest,
	ErrArticleNotFound:    NotFound,
	ErrStorageUnavailable: InternalServerError,
	UnauthorizedError:     Unauthorized,
	ErrForbidden:          Forbidden,
	UnExpectedError:       InternalServerError,
}

// Classify 返回 err 链上第一个已知的业务错误及其状态码
func Classify(err error) (error, int, bool) {
	for known, code := range ErrorMap {
		if errors.Is(err, known) {
			return known, code, true
		}
	}
	return nil, 0, false
}
