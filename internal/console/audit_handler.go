package console

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/limhaneul12/kafka-gov-console/internal/store"
)

// AuditHandler serves the console's own audit trail: mutating actions that
// were forwarded to the governance backend through this console.
type AuditHandler struct {
	auditStore *store.ConsoleAuditStore
}

func NewAuditHandler(auditStore *store.ConsoleAuditStore) *AuditHandler {
	return &AuditHandler{auditStore: auditStore}
}

func (h *AuditHandler) RegisterRoutes(r *gin.RouterGroup) {
	audit := r.Group("/audit")
	{
		audit.GET("/recent", h.Recent)
		audit.GET("", h.List)
	}
}

type consoleAuditItem struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Actor        string    `json:"actor"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	Resource     string    `json:"resource"`
	ClusterID    string    `json:"cluster_id,omitempty"`
	Environment  string    `json:"environment,omitempty"`
	ChangeID     string    `json:"change_id,omitempty"`
	Outcome      string    `json:"outcome"`
	Detail       string    `json:"detail,omitempty"`
}

type consoleAuditPage struct {
	Items    []consoleAuditItem `json:"items"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

func toConsoleAuditItems(records []store.ConsoleAuditRecord) []consoleAuditItem {
	items := make([]consoleAuditItem, 0, len(records))
	for _, rec := range records {
		items = append(items, consoleAuditItem{
			ID:           rec.ID,
			Timestamp:    rec.Timestamp,
			Actor:        rec.Actor,
			Action:       rec.Action,
			ResourceType: rec.ResourceType,
			Resource:     rec.Resource,
			ClusterID:    rec.ClusterID,
			Environment:  rec.Environment,
			ChangeID:     rec.ChangeID,
			Outcome:      rec.Outcome,
			Detail:       rec.Detail,
		})
	}
	return items
}

func (h *AuditHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	records, err := h.auditStore.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toConsoleAuditItems(records))
}

func (h *AuditHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	parseRFC3339 := func(name string) (*time.Time, error) {
		v := c.Query(name)
		if v == "" {
			return nil, nil
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}

	since, err := parseRFC3339("since")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since, expected RFC3339"})
		return
	}
	until, err := parseRFC3339("until")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid until, expected RFC3339"})
		return
	}

	records, total, err := h.auditStore.List(c.Request.Context(), store.ConsoleAuditQuery{
		ClusterID: c.Query("cluster_id"),
		Actor:     c.Query("actor"),
		Action:    c.Query("action"),
		Since:     since,
		Until:     until,
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, consoleAuditPage{
		Items:    toConsoleAuditItems(records),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}
