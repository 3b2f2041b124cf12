package controller

import "github.com/labstack/echo/v4"

type RefreshController interface {
	Refresh(c echo.Context) error
}
