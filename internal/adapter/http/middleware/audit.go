package middleware

import (
	"encoding/json"
	"time"

	"batched-savings-ledger/internal/core/domain"
	"batched-savings-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that logs successful write operations.
// It maps HTTP methods and paths to audit actions.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only audit successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			return
		}

		action, resourceType := mapPathToAction(c.Request.URL.Path, c.Request.Method)
		if action == "" {
			return
		}

		var operatorID *uuid.UUID
		if oid, exists := c.Get(CtxOperatorID); exists {
			if id, ok := oid.(uuid.UUID); ok {
				operatorID = &id
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			OperatorID:   operatorID,
			Action:       action,
			ResourceType: resourceType,
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

func mapPathToAction(path, method string) (domain.AuditAction, string) {
	switch {
	case path == "/api/v1/auth/register" && method == "POST":
		return domain.AuditActionRegister, "operator"
	case path == "/api/v1/auth/login" && method == "POST":
		return domain.AuditActionLogin, "session"
	case path == "/api/v1/deposits/batch" && method == "POST":
		return domain.AuditActionBatchCreate, "deposit_batch"
	case path == "/api/v1/deposits/redeem" && method == "POST":
		return domain.AuditActionBatchRedeem, "deposit_batch"
	case path == "/api/v1/treasury/add-funds" && method == "POST":
		return domain.AuditActionAddFunds, "treasury"
	case path == "/api/v1/treasury/move-funds" && method == "POST":
		return domain.AuditActionMoveFunds, "treasury"
	case path == "/api/v1/treasury/rescue" && method == "POST":
		return domain.AuditActionRescue, "treasury"
	}
	return "", ""
}
