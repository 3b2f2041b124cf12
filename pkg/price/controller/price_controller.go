package controller

import "github.com/labstack/echo/v4"

type PriceController interface {
	Commodities(c echo.Context) error
	Prices(c echo.Context) error
	Latest(c echo.Context) error
	Create(c echo.Context) error
	Import(c echo.Context) error
	Compare(c echo.Context) error
	Best(c echo.Context) error
	Trends(c echo.Context) error
	SellAdvisory(c echo.Context) error
}
