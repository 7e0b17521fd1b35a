package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/workbook-backend/internal/http/response"
	"github.com/yungbote/workbook-backend/internal/platform/dbctx"
	"github.com/yungbote/workbook-backend/internal/services"
)

// CatalogHandler serves the read-only reference tables.
type CatalogHandler struct {
	catalog services.CatalogService
}

func NewCatalogHandler(catalog services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// list runs fetch unless the request is a peek and wraps the rows under key.
func list[T any](c *gin.Context, key string, fetch func(dbc dbctx.Context) ([]T, error)) {
	if peek(c) {
		response.RespondOK(c, nil)
		return
	}
	rows, err := fetch(readCtx(c))
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{key: rows})
}

// listBy is list with an optional uuid query filter.
func listBy[T any](c *gin.Context, key, param string, fetch func(dbc dbctx.Context, id *uuid.UUID) ([]T, error)) {
	id, err := queryUUID(c, param)
	if err != nil {
		response.RespondValidation(c, err)
		return
	}
	list(c, key, func(dbc dbctx.Context) ([]T, error) { return fetch(dbc, id) })
}

// GET /api/user?id=
func (h *CatalogHandler) Users(c *gin.Context) { listBy(c, "users", "id", h.catalog.Users) }

func (h *CatalogHandler) PermissionsGroups(c *gin.Context) {
	list(c, "permissions_groups", h.catalog.PermissionsGroups)
}

func (h *CatalogHandler) LearningPlatforms(c *gin.Context) {
	list(c, "learning_platforms", h.catalog.LearningPlatforms)
}

// GET /api/learning-activity?learning_platform_id=
func (h *CatalogHandler) LearningActivities(c *gin.Context) {
	listBy(c, "learning_activities", "learning_platform_id", h.catalog.LearningActivities)
}

func (h *CatalogHandler) LearningTypes(c *gin.Context) {
	list(c, "learning_types", h.catalog.LearningTypes)
}

func (h *CatalogHandler) TaskStatuses(c *gin.Context) {
	list(c, "task_statuses", h.catalog.TaskStatuses)
}

func (h *CatalogHandler) Locations(c *gin.Context) { list(c, "locations", h.catalog.Locations) }

func (h *CatalogHandler) GraduateAttributes(c *gin.Context) {
	list(c, "graduate_attributes", h.catalog.GraduateAttributes)
}

func (h *CatalogHandler) Areas(c *gin.Context) { list(c, "areas", h.catalog.Areas) }

// GET /api/school?area_id=
func (h *CatalogHandler) Schools(c *gin.Context) { listBy(c, "schools", "area_id", h.catalog.Schools) }
