package router

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	priceCtrl "farmhelp/pkg/price/controller"
	refreshCtrl "farmhelp/pkg/refresh/controller"
)

func New(
	e *echo.Echo,
	prices priceCtrl.PriceController,
	refresh refreshCtrl.RefreshController,
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	e.GET("/health", healthCtrl.Health)

	g := e.Group("/apmc")
	g.GET("/commodities", prices.Commodities)
	g.GET("/prices", prices.Prices)
	g.GET("/prices/latest", prices.Latest)
	g.POST("/prices", prices.Create)
	g.POST("/prices/import", prices.Import)
	g.GET("/compare", prices.Compare)
	g.GET("/best", prices.Best)
	g.GET("/trends", prices.Trends)
	g.GET("/sell-advisory", prices.SellAdvisory)
	g.POST("/refresh", refresh.Refresh)
	return e
}
