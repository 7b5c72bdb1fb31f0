package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talent-booking/internal/repository"
)

// JobHandler manages brand job listings. The open-jobs list is public
// to authenticated users and is a good fit for the Redis response
// cache, which the router attaches to the GET routes.
type JobHandler struct {
	Jobs *repository.JobRepo
}

func NewJobHandler(j *repository.JobRepo) *JobHandler {
	return &JobHandler{Jobs: j}
}

type createJobReq struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Rate        float64 `json:"rate"`
}

// Create posts a new listing for the calling brand.
func (h *JobHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createJobReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	if req.Rate <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rate must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Jobs.Create(ctx, uid, req.Title, req.Description, req.Rate)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create job failed"})
	}
	job, err := h.Jobs.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load job failed"})
	}
	return c.JSON(http.StatusCreated, jobJSON(job))
}

// List returns all open listings, newest first.
func (h *JobHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	jobs, err := h.Jobs.ListOpen(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list jobs failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"jobs": jobsJSON(jobs)})
}

// ListMine returns the calling brand's own listings.
func (h *JobHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	jobs, err := h.Jobs.ListByBrand(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list jobs failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"jobs": jobsJSON(jobs)})
}

// Get returns one listing.
func (h *JobHandler) Get(c echo.Context) error {
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || jobID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	job, err := h.Jobs.GetByID(ctx, jobID)
	if err != nil {
		if err == repository.ErrJobNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load job failed"})
	}
	return c.JSON(http.StatusOK, jobJSON(job))
}

// Delete removes a listing; only its owner may do so.
func (h *JobHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || jobID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Jobs.Delete(ctx, jobID, uid); err != nil {
		switch err {
		case repository.ErrJobNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your job"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete job failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
