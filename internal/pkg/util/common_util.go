package util

import (
	"net"
	"strings"
	"time"
)

// GetMidnight 获取 t 所在时区的下一个零点
func GetMidnight(t time.Time, loc *time.Location) time.Time {
	_, end := DayWindow(t, loc)
	return end
}

// DayWindow 返回 t 所在自然日的 [零点, 次日零点)
// 使用 AddDate 而非加 24 小时，夏令时切换日也能落在正确的零点
func DayWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	lt := t.In(loc)
	start := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// DateKey 以 yyyy-mm-dd 表示 t 在 loc 中的日期
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(time.DateOnly)
}

// NormalizeClientAddress 去掉端口和首尾空白，解析不出时原样返回
func NormalizeClientAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
