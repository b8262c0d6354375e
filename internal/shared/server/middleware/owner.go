package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const ownerHeader = "X-Owner-Id"

// OwnerIDFromRequest resolves the workspace owner for a request. Requests
// without the header share the anonymous bucket.
func OwnerIDFromRequest(c *gin.Context) string {
	owner := strings.TrimSpace(c.GetHeader(ownerHeader))
	if owner == "" {
		return "anonymous"
	}
	return owner
}
