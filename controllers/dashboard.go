package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/hospital-app/services"
)

type DashboardHandler struct {
	dashboard *services.Dashboard
}

func NewDashboardHandler(dashboard *services.Dashboard) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GetAdminStats godoc
// @Summary Counts for the admin dashboard
// @Tags admin
// @Produce json
// @Success 200 {object} services.AdminStats
// @Router /admin/stats [get]
func (h *DashboardHandler) GetAdminStats(c *fiber.Ctx) error {
	stats, err := h.dashboard.AdminStats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
