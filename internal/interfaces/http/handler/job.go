package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	productionapp "github.com/van-william/carbon-sub017/internal/application/production"
	"github.com/van-william/carbon-sub017/internal/domain/printing"
	"github.com/van-william/carbon-sub017/internal/domain/production"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/infrastructure/export"
	"github.com/van-william/carbon-sub017/internal/interfaces/http/router"
)

// JobService is the part of productionapp.JobService the handler uses
type JobService interface {
	Create(ctx context.Context, companyID, userID uuid.UUID, req productionapp.CreateJobRequest) (*productionapp.JobResponse, error)
	GetByID(ctx context.Context, companyID, jobID uuid.UUID) (*productionapp.JobResponse, error)
	List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]productionapp.JobResponse, int64, error)
	ListAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]production.Job, error)
	Update(ctx context.Context, companyID, jobID uuid.UUID, req productionapp.UpdateJobRequest) (*productionapp.JobResponse, error)
	Plan(ctx context.Context, companyID, jobID uuid.UUID, req productionapp.ActionRequest) (*productionapp.JobResponse, error)
	Release(ctx context.Context, companyID, jobID uuid.UUID, req productionapp.ActionRequest) (*productionapp.JobResponse, error)
	Start(ctx context.Context, companyID, jobID uuid.UUID, req productionapp.ActionRequest) (*productionapp.JobResponse, error)
	Pause(ctx context.Context, companyID, jobID uuid.UUID, req productionapp.ActionRequest) (*productionapp.JobResponse, error)
	Resume(ctx context.Context, companyID, jobID uuid.UUID, req productionapp.ActionRequest) (*productionapp.JobResponse, error)
	ReportProgress(ctx context.Context, companyID, jobID uuid.UUID, req productionapp.QuantityRequest) (*productionapp.JobResponse, error)
	Complete(ctx context.Context, companyID, jobID uuid.UUID, req productionapp.QuantityRequest) (*productionapp.JobResponse, error)
	Cancel(ctx context.Context, companyID, jobID uuid.UUID, req productionapp.ActionRequest) (*productionapp.JobResponse, error)
	Delete(ctx context.Context, companyID, jobID uuid.UUID) error
}

type jobAction func(ctx context.Context, companyID, jobID uuid.UUID, req productionapp.ActionRequest) (*productionapp.JobResponse, error)

type jobQuantityAction func(ctx context.Context, companyID, jobID uuid.UUID, req productionapp.QuantityRequest) (*productionapp.JobResponse, error)

// JobHandler handles production job API endpoints
type JobHandler struct {
	BaseHandler
	jobs      JobService
	documents *DocumentHandler
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(jobs JobService, documents *DocumentHandler) *JobHandler {
	return &JobHandler{jobs: jobs, documents: documents}
}

// Routes registers the job endpoints under g
func (h *JobHandler) Routes(g *router.DomainGroup) {
	jobs := g.Group("jobs", "/jobs")
	jobs.GET("", h.List)
	jobs.POST("", h.Create)
	jobs.GET("/export", h.Export)
	jobs.GET("/:id", h.GetByID)
	jobs.PATCH("/:id", h.Update)
	jobs.DELETE("/:id", h.Delete)
	jobs.POST("/:id/plan", h.action(h.jobs.Plan))
	jobs.POST("/:id/release", h.action(h.jobs.Release))
	jobs.POST("/:id/start", h.action(h.jobs.Start))
	jobs.POST("/:id/pause", h.action(h.jobs.Pause))
	jobs.POST("/:id/resume", h.action(h.jobs.Resume))
	jobs.POST("/:id/progress", h.quantityAction(h.jobs.ReportProgress))
	jobs.POST("/:id/complete", h.quantityAction(h.jobs.Complete))
	jobs.POST("/:id/cancel", h.action(h.jobs.Cancel))

	h.documents.Routes(jobs, printing.DocTypeJob)
}

// Create godoc
// @ID           createJob
// @Summary      Create a production job
// @Description  A job may reference a sales order line; part and quantity then default from that line
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        request body productionapp.CreateJobRequest true "Job creation request"
// @Success      201 {object} APIResponse[productionapp.JobResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /production/jobs [post]
func (h *JobHandler) Create(c *gin.Context) {
	var req productionapp.CreateJobRequest
	if !h.bindJSON(c, &req) {
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), companyID(c), userID(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, job)
}

func (h *JobHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	job, err := h.jobs.GetByID(c.Request.Context(), companyID(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, job)
}

func (h *JobHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c, "status", "part_id", "sales_order_id")
	if !ok {
		return
	}

	jobs, total, err := h.jobs.List(c.Request.Context(), companyID(c), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, jobs, total, filter.Page, filter.PageSize)
}

// Export writes the filtered jobs as XLSX
func (h *JobHandler) Export(c *gin.Context) {
	filter, ok := h.listFilter(c, "status", "part_id", "sales_order_id")
	if !ok {
		return
	}

	jobs, err := h.jobs.ListAll(c.Request.Context(), companyID(c), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	writeWorkbook(&h.BaseHandler, c, "jobs", export.JobColumns(), jobs)
}

func (h *JobHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req productionapp.UpdateJobRequest
	if !h.bindJSON(c, &req) {
		return
	}

	job, err := h.jobs.Update(c.Request.Context(), companyID(c), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, job)
}

func (h *JobHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.jobs.Delete(c.Request.Context(), companyID(c), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *JobHandler) action(fn jobAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.parseID(c, "id")
		if !ok {
			return
		}
		var req productionapp.ActionRequest
		if !h.bindOptionalJSON(c, &req) {
			return
		}

		job, err := fn(c.Request.Context(), companyID(c), id, req)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.Success(c, job)
	}
}

// quantityAction handles progress reports and completion, which carry a
// produced quantity
func (h *JobHandler) quantityAction(fn jobQuantityAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.parseID(c, "id")
		if !ok {
			return
		}
		var req productionapp.QuantityRequest
		if !h.bindOptionalJSON(c, &req) {
			return
		}

		job, err := fn(c.Request.Context(), companyID(c), id, req)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.Success(c, job)
	}
}
