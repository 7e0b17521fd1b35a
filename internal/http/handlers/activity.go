package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/workbook-backend/internal/data/repos"
	domainagg "github.com/yungbote/workbook-backend/internal/domain/aggregates"
	"github.com/yungbote/workbook-backend/internal/http/response"
	"github.com/yungbote/workbook-backend/internal/services"
)

type ActivityHandler struct {
	activities domainagg.ActivityAggregate
	hierarchy  services.HierarchyService
}

func NewActivityHandler(activities domainagg.ActivityAggregate, hierarchy services.HierarchyService) *ActivityHandler {
	return &ActivityHandler{activities: activities, hierarchy: hierarchy}
}

type createActivityRequest struct {
	WorkbookID          uuid.UUID `json:"workbook_id" binding:"required"`
	WeekNumber          int       `json:"week_number" binding:"required"`
	Name                string    `json:"name" binding:"required"`
	TimeEstimateMinutes int       `json:"time_estimate_minutes"`
	LocationID          uuid.UUID `json:"location_id" binding:"required"`
	LearningActivityID  uuid.UUID `json:"learning_activity_id" binding:"required"`
	LearningTypeID      uuid.UUID `json:"learning_type_id" binding:"required"`
	TaskStatusID        uuid.UUID `json:"task_status_id" binding:"required"`
}

// POST /api/activity
func (h *ActivityHandler) Create(c *gin.Context) {
	var req createActivityRequest
	if err := bindJSON(c, &req, false); err != nil {
		response.RespondValidation(c, err)
		return
	}
	in := domainagg.CreateActivityInput{
		Mutation:   mutation(c),
		WorkbookID: req.WorkbookID,
		WeekNumber: req.WeekNumber,
		Fields: domainagg.ActivityFields{
			Name:                req.Name,
			TimeEstimateMinutes: req.TimeEstimateMinutes,
			LocationID:          req.LocationID,
			LearningActivityID:  req.LearningActivityID,
			LearningTypeID:      req.LearningTypeID,
			TaskStatusID:        req.TaskStatusID,
		},
	}
	res, err := h.activities.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondWrite(c, http.StatusCreated, in.DryRun, res)
}

type patchActivityRequest struct {
	Number              *int       `json:"number"`
	Name                *string    `json:"name"`
	TimeEstimateMinutes *int       `json:"time_estimate_minutes"`
	LocationID          *uuid.UUID `json:"location_id"`
	LearningActivityID  *uuid.UUID `json:"learning_activity_id"`
	LearningTypeID      *uuid.UUID `json:"learning_type_id"`
	TaskStatusID        *uuid.UUID `json:"task_status_id"`
	WeekNumber          *int       `json:"week_number"`
	WorkbookID          *uuid.UUID `json:"workbook_id"`
}

// PATCH /api/activity/:id
//
// Number moves the activity within its week and shifts its neighbours.
// week_number and workbook_id may be sent back unchanged; a different value is rejected.
func (h *ActivityHandler) Patch(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondValidation(c, err)
		return
	}
	var req patchActivityRequest
	if err := bindJSON(c, &req, true); err != nil {
		response.RespondValidation(c, err)
		return
	}
	in := domainagg.UpdateActivityInput{
		Mutation:            mutation(c),
		ActivityID:          id,
		Number:              req.Number,
		Name:                req.Name,
		TimeEstimateMinutes: req.TimeEstimateMinutes,
		LocationID:          req.LocationID,
		LearningActivityID:  req.LearningActivityID,
		LearningTypeID:      req.LearningTypeID,
		TaskStatusID:        req.TaskStatusID,
		WeekNumber:          req.WeekNumber,
		WorkbookID:          req.WorkbookID,
	}
	res, err := h.activities.Update(c.Request.Context(), in)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondWrite(c, http.StatusOK, in.DryRun, res)
}

// DELETE /api/activity/:id
func (h *ActivityHandler) Delete(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondValidation(c, err)
		return
	}
	m := mutation(c)
	res, err := h.activities.Delete(c.Request.Context(), domainagg.DeleteActivityInput{Mutation: m, ActivityID: id})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondWrite(c, http.StatusOK, m.DryRun, res)
}

// GET /api/activity?workbook_id=&week_number=
func (h *ActivityHandler) List(c *gin.Context) {
	var f repos.ActivityFilter
	var err error
	if f.WorkbookID, err = queryUUID(c, "workbook_id"); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if f.WeekNumber, err = queryInt(c, "week_number"); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if peek(c) {
		response.RespondOK(c, nil)
		return
	}
	out, err := h.hierarchy.Activities(readCtx(c), f)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"activities": out})
}

type staffRequest struct {
	ActivityID uuid.UUID `json:"activity_id" binding:"required"`
	StaffID    uuid.UUID `json:"staff_id" binding:"required"`
}

// POST /api/activity-staff
func (h *ActivityHandler) AddStaff(c *gin.Context) {
	h.staffWrite(c, http.StatusCreated, h.activities.AddStaff)
}

// DELETE /api/activity-staff
func (h *ActivityHandler) RemoveStaff(c *gin.Context) {
	h.staffWrite(c, http.StatusOK, h.activities.RemoveStaff)
}

func (h *ActivityHandler) staffWrite(c *gin.Context, status int, write func(ctx context.Context, in domainagg.ActivityStaffInput) (domainagg.ActivityStaffResult, error)) {
	var req staffRequest
	if err := bindJSON(c, &req, false); err != nil {
		response.RespondValidation(c, err)
		return
	}
	in := domainagg.ActivityStaffInput{Mutation: mutation(c), ActivityID: req.ActivityID, StaffID: req.StaffID}
	res, err := write(c.Request.Context(), in)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondWrite(c, status, in.DryRun, res)
}

// GET /api/activity-staff?activity_id=&staff_id=
func (h *ActivityHandler) ListStaff(c *gin.Context) {
	var f repos.StaffFilter
	var err error
	if f.ActivityID, err = queryUUID(c, "activity_id"); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if f.StaffID, err = queryUUID(c, "staff_id"); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if peek(c) {
		response.RespondOK(c, nil)
		return
	}
	out, err := h.hierarchy.ActivityStaff(readCtx(c), f)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"activity_staff": out})
}
