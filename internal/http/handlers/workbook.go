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

type WorkbookHandlerDeps struct {
	Workbooks domainagg.WorkbookAggregate
	Weeks     domainagg.WeekAggregate
	Reads     services.WorkbookService
	Hierarchy services.HierarchyService
}

type WorkbookHandler struct {
	workbooks domainagg.WorkbookAggregate
	weeks     domainagg.WeekAggregate
	reads     services.WorkbookService
	hierarchy services.HierarchyService
}

func NewWorkbookHandlerWithDeps(deps WorkbookHandlerDeps) *WorkbookHandler {
	return &WorkbookHandler{
		workbooks: deps.Workbooks,
		weeks:     deps.Weeks,
		reads:     deps.Reads,
		hierarchy: deps.Hierarchy,
	}
}

type createWorkbookRequest struct {
	StartDate          string     `json:"start_date" binding:"required"`
	EndDate            string     `json:"end_date" binding:"required"`
	CourseName         string     `json:"course_name" binding:"required"`
	CourseLeadID       *uuid.UUID `json:"course_lead_id"`
	LearningPlatformID uuid.UUID  `json:"learning_platform_id" binding:"required"`
	AreaID             *uuid.UUID `json:"area_id"`
	SchoolID           *uuid.UUID `json:"school_id"`
}

// POST /api/workbook
func (h *WorkbookHandler) Create(c *gin.Context) {
	var req createWorkbookRequest
	if err := bindJSON(c, &req, false); err != nil {
		response.RespondValidation(c, err)
		return
	}
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		response.RespondValidation(c, err)
		return
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		response.RespondValidation(c, err)
		return
	}
	in := domainagg.CreateWorkbookInput{
		Mutation:           mutation(c),
		StartDate:          start,
		EndDate:            end,
		CourseName:         req.CourseName,
		LearningPlatformID: req.LearningPlatformID,
		AreaID:             req.AreaID,
		SchoolID:           req.SchoolID,
	}
	if req.CourseLeadID != nil {
		in.CourseLeadID = *req.CourseLeadID
	}
	res, err := h.workbooks.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondWrite(c, http.StatusCreated, in.DryRun, res)
}

// GET /api/workbook
func (h *WorkbookHandler) List(c *gin.Context) {
	if peek(c) {
		response.RespondOK(c, nil)
		return
	}
	out, err := h.reads.List(readCtx(c))
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"workbooks": out})
}

// GET /api/workbook/:id
func (h *WorkbookHandler) Get(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondValidation(c, err)
		return
	}
	if peek(c) {
		response.RespondOK(c, nil)
		return
	}
	wb, err := h.reads.Get(readCtx(c), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"workbook": wb})
}

// GET /api/workbook/:id/details
func (h *WorkbookHandler) Details(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondValidation(c, err)
		return
	}
	if peek(c) {
		response.RespondOK(c, nil)
		return
	}
	out, err := h.reads.Details(readCtx(c), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/workbook/search
func (h *WorkbookHandler) Search(c *gin.Context) {
	q := services.WorkbookSearch{
		Name:             c.Query("name"),
		LedBy:            c.Query("led_by"),
		ContributedBy:    c.Query("contributed_by"),
		LearningPlatform: c.Query("learning_platform"),
	}
	var err error
	if q.StartsAfter, err = queryDate(c, "starts_after"); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if q.EndsBefore, err = queryDate(c, "ends_before"); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if q.AreaID, err = queryUUID(c, "area_id"); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if q.SchoolID, err = queryUUID(c, "school_id"); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if q.LearningPlatformID, err = queryUUID(c, "learning_platform_id"); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if peek(c) {
		response.RespondOK(c, nil)
		return
	}
	out, err := h.reads.Search(readCtx(c), q)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"workbooks": out})
}

type patchWorkbookRequest struct {
	StartDate          *string    `json:"start_date"`
	EndDate            *string    `json:"end_date"`
	CourseName         *string    `json:"course_name"`
	CourseLeadID       *uuid.UUID `json:"course_lead_id"`
	LearningPlatformID *uuid.UUID `json:"learning_platform_id"`
	AreaID             *uuid.UUID `json:"area_id"`
	SchoolID           *uuid.UUID `json:"school_id"`
	NumberOfWeeks      *int       `json:"number_of_weeks"`
}

// PATCH /api/workbook/:id
func (h *WorkbookHandler) Patch(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondValidation(c, err)
		return
	}
	var req patchWorkbookRequest
	if err := bindJSON(c, &req, true); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if req.NumberOfWeeks != nil {
		response.RespondAggregateError(c, domainagg.NewError(domainagg.CodeValidation, "workbook.update",
			"number_of_weeks is maintained by week create and delete", nil))
		return
	}
	in := domainagg.UpdateWorkbookInput{
		Mutation:           mutation(c),
		WorkbookID:         id,
		CourseName:         req.CourseName,
		CourseLeadID:       req.CourseLeadID,
		LearningPlatformID: req.LearningPlatformID,
		AreaID:             req.AreaID,
		SchoolID:           req.SchoolID,
	}
	if in.StartDate, err = parseOptionalDate("start_date", req.StartDate); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if in.EndDate, err = parseOptionalDate("end_date", req.EndDate); err != nil {
		response.RespondValidation(c, err)
		return
	}
	res, err := h.workbooks.Update(c.Request.Context(), in)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondWrite(c, http.StatusOK, in.DryRun, res)
}

// DELETE /api/workbook/:id
func (h *WorkbookHandler) Delete(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondValidation(c, err)
		return
	}
	m := mutation(c)
	res, err := h.workbooks.Delete(c.Request.Context(), domainagg.DeleteWorkbookInput{Mutation: m, WorkbookID: id})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondWrite(c, http.StatusOK, m.DryRun, res)
}

// POST /api/workbook/:id/duplicate
func (h *WorkbookHandler) Duplicate(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondValidation(c, err)
		return
	}
	var req struct {
		NameSuffix *string `json:"name_suffix"`
	}
	if err := bindJSON(c, &req, true); err != nil {
		response.RespondValidation(c, err)
		return
	}
	m := mutation(c)
	res, err := h.workbooks.Duplicate(c.Request.Context(), domainagg.DuplicateWorkbookInput{
		Mutation:   m,
		SourceID:   id,
		NameSuffix: req.NameSuffix,
	})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondWrite(c, http.StatusCreated, m.DryRun, res)
}

// POST /api/workbook/:id/week
func (h *WorkbookHandler) CreateWeek(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondValidation(c, err)
		return
	}
	m := mutation(c)
	res, err := h.weeks.Create(c.Request.Context(), domainagg.CreateWeekInput{Mutation: m, WorkbookID: id})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondWrite(c, http.StatusCreated, m.DryRun, res)
}

// DELETE /api/workbook/:id/week/:number
func (h *WorkbookHandler) DeleteWeek(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondValidation(c, err)
		return
	}
	number, err := pathInt(c, "number")
	if err != nil {
		response.RespondValidation(c, err)
		return
	}
	m := mutation(c)
	res, err := h.weeks.Delete(c.Request.Context(), domainagg.DeleteWeekInput{Mutation: m, WorkbookID: id, Number: number})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondWrite(c, http.StatusOK, m.DryRun, res)
}

// GET /api/week?workbook_id=&number=
func (h *WorkbookHandler) ListWeeks(c *gin.Context) {
	var f repos.WeekFilter
	var err error
	if f.WorkbookID, err = queryUUID(c, "workbook_id"); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if f.Number, err = queryInt(c, "number"); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if peek(c) {
		response.RespondOK(c, nil)
		return
	}
	out, err := h.hierarchy.Weeks(readCtx(c), f)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"weeks": out})
}

type contributorRequest struct {
	WorkbookID    uuid.UUID `json:"workbook_id" binding:"required"`
	ContributorID uuid.UUID `json:"contributor_id" binding:"required"`
}

// POST /api/workbook-contributor
func (h *WorkbookHandler) AddContributor(c *gin.Context) {
	h.contributorWrite(c, http.StatusCreated, h.workbooks.AddContributor)
}

// DELETE /api/workbook-contributor
func (h *WorkbookHandler) RemoveContributor(c *gin.Context) {
	h.contributorWrite(c, http.StatusOK, h.workbooks.RemoveContributor)
}

func (h *WorkbookHandler) contributorWrite(c *gin.Context, status int, write func(ctx context.Context, in domainagg.ContributorInput) (domainagg.ContributorResult, error)) {
	var req contributorRequest
	if err := bindJSON(c, &req, false); err != nil {
		response.RespondValidation(c, err)
		return
	}
	in := domainagg.ContributorInput{Mutation: mutation(c), WorkbookID: req.WorkbookID, ContributorID: req.ContributorID}
	res, err := write(c.Request.Context(), in)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondWrite(c, status, in.DryRun, res)
}

// GET /api/workbook-contributor?workbook_id=&contributor_id=
func (h *WorkbookHandler) ListContributors(c *gin.Context) {
	var f repos.ContributorFilter
	var err error
	if f.WorkbookID, err = queryUUID(c, "workbook_id"); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if f.ContributorID, err = queryUUID(c, "contributor_id"); err != nil {
		response.RespondValidation(c, err)
		return
	}
	if peek(c) {
		response.RespondOK(c, nil)
		return
	}
	out, err := h.hierarchy.Contributors(readCtx(c), f)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"workbook_contributors": out})
}

type weekAttributeRequest struct {
	WorkbookID          uuid.UUID `json:"week_workbook_id" binding:"required"`
	WeekNumber          int       `json:"week_number" binding:"required"`
	GraduateAttributeID uuid.UUID `json:"graduate_attribute_id" binding:"required"`
}

// POST /api/week-graduate-attribute
func (h *WorkbookHandler) AddWeekGraduateAttribute(c *gin.Context) {
	h.weekAttributeWrite(c, http.StatusCreated, h.weeks.AddGraduateAttribute)
}

// DELETE /api/week-graduate-attribute
func (h *WorkbookHandler) RemoveWeekGraduateAttribute(c *gin.Context) {
	h.weekAttributeWrite(c, http.StatusOK, h.weeks.RemoveGraduateAttribute)
}

func (h *WorkbookHandler) weekAttributeWrite(c *gin.Context, status int, write func(ctx context.Context, in domainagg.WeekGraduateAttributeInput) (domainagg.WeekGraduateAttributeResult, error)) {
	var req weekAttributeRequest
	if err := bindJSON(c, &req, false); err != nil {
		response.RespondValidation(c, err)
		return
	}
	in := domainagg.WeekGraduateAttributeInput{
		Mutation:            mutation(c),
		WorkbookID:          req.WorkbookID,
		WeekNumber:          req.WeekNumber,
		GraduateAttributeID: req.GraduateAttributeID,
	}
	res, err := write(c.Request.Context(), in)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondWrite(c, status, in.DryRun, res)
}

// GET /api/week-graduate-attribute?workbook_id=&week_number=
func (h *WorkbookHandler) ListWeekGraduateAttributes(c *gin.Context) {
	var f repos.WeekGraduateAttributeFilter
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
	out, err := h.hierarchy.WeekGraduateAttributes(readCtx(c), f)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"week_graduate_attributes": out})
}
