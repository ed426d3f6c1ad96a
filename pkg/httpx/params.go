package httpx

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// ClampInt — ограничение значения v в диапазоне [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseTimeoutMS — читает timeout_ms из query; значение зажимается в [1, maxMS],
// нечисловое или отсутствующее даёт defaultMS.
func ParseTimeoutMS(c *gin.Context, defaultMS, maxMS int) time.Duration {
	ms := ClampInt(defaultMS, 1, maxMS)
	if raw, ok := c.GetQuery("timeout_ms"); ok {
		if v, err := strconv.Atoi(raw); err == nil {
			ms = ClampInt(v, 1, maxMS)
		}
	}
	return time.Duration(ms) * time.Millisecond
}

// ParamInt64 — целочисленный path-параметр в диапазоне [lo, hi]; ok=false, если не число или вне диапазона.
func ParamInt64(c *gin.Context, name string, lo, hi int64) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v < lo || v > hi {
		return 0, false
	}
	return v, true
}
