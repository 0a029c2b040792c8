package consts

const (
	// UnknownUserAgent 请求未携带 User-Agent 时记录的值
	UnknownUserAgent = "Unknown"
	// UnknownClientAddress 无法解析客户端地址时记录的值
	UnknownClientAddress = "unknown"
)

const (
	ActionTrackDuration = "track-duration"
	ActionTrackScroll   = "track-scroll"
)

const (
	RoleAdmin  = "ADMIN"
	RoleEditor = "EDITOR"
)

const (
	MaxRecentEvents     = 100
	DefaultRecentEvents = 20
	MaxScrollDepth      = 100
)

const TraceIDHeader = "X-Trace-ID"

// gin.Context 中的键
const (
	CtxUserID = "user_id"
	CtxRoles  = "roles"
)
