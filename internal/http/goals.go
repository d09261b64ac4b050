package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/openshelf/internal/database/goals"
)

// GoalsController manages the yearly reading goal. Both endpoints always
// operate on the current calendar year.
type GoalsController struct {
	repo *goals.Repository
}

func NewGoalsController(repo *goals.Repository) *GoalsController {
	return &GoalsController{repo: repo}
}

// GetGoal returns the goal snapshot for the current year. Users without a
// goal get a zero target with their finished count still filled in.
// GET /api/me/goal
func (gc *GoalsController) GetGoal(c *gin.Context) {
	snapshot, err := gc.repo.Get(GetUserID(c), time.Now().UTC().Year())
	if err != nil {
		respondInternalError(c, err, "get goal")
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

type setGoalRequest struct {
	Target int `json:"target" binding:"required"`
}

// SetGoal creates or replaces this year's goal.
// PATCH /api/me/goal
func (gc *GoalsController) SetGoal(c *gin.Context) {
	var req setGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "target is required")
		return
	}

	snapshot, err := gc.repo.Set(GetUserID(c), time.Now().UTC().Year(), req.Target)
	if err != nil {
		if errors.Is(err, goals.ErrInvalidTarget) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "set goal")
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
