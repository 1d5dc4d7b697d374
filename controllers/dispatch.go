package controllers

import (
	"net/http"

	"dearminder-backend/services"
	"dearminder-backend/utils"

	"github.com/gin-gonic/gin"
)

// DispatchController exposes the per-horizon entry points invoked by
// the external scheduler. Each returns the run's JSON summary.
type DispatchController struct {
	Wishes *services.WishService
}

// RunToday dispatches wishes for events due today
func (dc *DispatchController) RunToday(c *gin.Context) {
	summary, err := dc.Wishes.ProcessToday()
	if err != nil {
		// Only the initial selection query is fatal for a run
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, summary)
}

// RunTomorrow sends day-before reminders for events due tomorrow
func (dc *DispatchController) RunTomorrow(c *gin.Context) {
	summary, err := dc.Wishes.ProcessTomorrow()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, summary)
}
