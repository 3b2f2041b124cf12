package controllerImp

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"farmhelp/pkg/refresh/controller"
	"farmhelp/pkg/refresh/service"
)

type RefreshCtrl struct{ svc service.RefreshService }

func New(svc service.RefreshService) controller.RefreshController { return &RefreshCtrl{svc} }

// POST /apmc/refresh?commodity=&state=
func (h *RefreshCtrl) Refresh(c echo.Context) error {
	commodity := strings.TrimSpace(c.QueryParam("commodity"))
	state := strings.TrimSpace(c.QueryParam("state"))
	res, err := h.svc.Refresh(c.Request().Context(), commodity, state)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, res)
}
