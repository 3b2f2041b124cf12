package controllerImp

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"farmhelp/entities"
	"farmhelp/pkg/analytics"
	"farmhelp/pkg/importer"
	"farmhelp/pkg/price/controller"
	"farmhelp/pkg/price/service"
	"farmhelp/pkg/price/types"
	"farmhelp/pkg/validation"
)

const maxUploadBytes = 20 << 20

type PriceCtrl struct {
	svc service.PriceService
	im  *importer.Importer
}

func New(svc service.PriceService, im *importer.Importer) controller.PriceController {
	return &PriceCtrl{svc: svc, im: im}
}

func (h *PriceCtrl) Commodities(c echo.Context) error {
	out, err := h.svc.Commodities(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"commodities": out, "total": len(out)})
}

// GET /apmc/prices
func (h *PriceCtrl) Prices(c echo.Context) error {
	f := types.PriceFilter{
		Commodity: strings.TrimSpace(c.QueryParam("commodity")),
		State:     strings.TrimSpace(c.QueryParam("state")),
		District:  strings.TrimSpace(c.QueryParam("district")),
	}
	var err error
	if f.Limit, err = intParam(c, "limit", 50, 1, 200); err != nil {
		return badRequest(c, err.Error())
	}
	if f.Offset, err = intParam(c, "offset", 0, 0, 1<<30); err != nil {
		return badRequest(c, err.Error())
	}
	if f.MinPrice, err = floatParam(c, "min_price"); err != nil {
		return badRequest(c, err.Error())
	}
	if f.MaxPrice, err = floatParam(c, "max_price"); err != nil {
		return badRequest(c, err.Error())
	}
	live, err := boolParam(c, "refresh")
	if err != nil {
		return badRequest(c, err.Error())
	}

	out, err := h.svc.ListPrices(c.Request().Context(), f, live)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PriceCtrl) Latest(c echo.Context) error {
	commodity, err := required(c, "commodity")
	if err != nil {
		return badRequest(c, err.Error())
	}
	market, err := required(c, "market")
	if err != nil {
		return badRequest(c, err.Error())
	}
	o, err := h.svc.LatestPrice(c.Request().Context(), commodity, market)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if o == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": fmt.Sprintf("no price found for %s at %s", commodity, market)})
	}
	return c.JSON(http.StatusOK, o)
}

type createReq struct {
	Commodity       string   `json:"commodity"`
	MarketName      string   `json:"market_name"`
	State           string   `json:"state"`
	District        string   `json:"district"`
	PricePerQuintal float64  `json:"price_per_quintal"`
	MinPrice        *float64 `json:"min_price"`
	MaxPrice        *float64 `json:"max_price"`
	ModalPrice      *float64 `json:"modal_price"`
	ArrivalDate     string   `json:"arrival_date"`
}

func (h *PriceCtrl) Create(c echo.Context) error {
	var req createReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "bad json")
	}
	ad, err := time.Parse("2006-01-02", req.ArrivalDate)
	if err != nil {
		if ad, err = time.Parse(time.RFC3339, req.ArrivalDate); err != nil {
			return badRequest(c, "arrival_date must be YYYY-MM-DD")
		}
	}
	o := &entities.PriceObservation{
		Commodity: req.Commodity, MarketName: req.MarketName, State: req.State, District: req.District,
		PricePerQuintal: req.PricePerQuintal, MinPrice: req.MinPrice, MaxPrice: req.MaxPrice, ModalPrice: req.ModalPrice,
		ArrivalDate: ad,
	}
	switch err := h.svc.CreatePrice(c.Request().Context(), o); {
	case errors.Is(err, validation.ErrInvalid):
		return badRequest(c, err.Error())
	case errors.Is(err, service.ErrDuplicate):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, o)
}

// POST /apmc/prices/import, multipart field "file"; optional form fields
// commodity and state fill columns the file lacks.
func (h *PriceCtrl) Import(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "file too large"})
	}
	format := strings.ToLower(strings.TrimSpace(c.FormValue("format")))
	if format == "" {
		if format, err = importer.FormatFromName(fh.Filename); err != nil {
			return badRequest(c, err.Error())
		}
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	defer src.Close()

	rows, err := importer.Parse(format, src, importer.Defaults{
		Commodity: c.FormValue("commodity"),
		State:     c.FormValue("state"),
	})
	if err != nil {
		return badRequest(c, err.Error())
	}
	res, err := h.im.Import(c.Request().Context(), entities.SourceImport, rows)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, res)
}

func (h *PriceCtrl) Compare(c echo.Context) error {
	commodity, err := required(c, "commodity")
	if err != nil {
		return badRequest(c, err.Error())
	}
	out, err := h.svc.Compare(c.Request().Context(), commodity, strings.TrimSpace(c.QueryParam("state")), splitList(c.QueryParam("markets")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

// GET /apmc/best; latitude and longitude go together.
func (h *PriceCtrl) Best(c echo.Context) error {
	commodity, err := required(c, "commodity")
	if err != nil {
		return badRequest(c, err.Error())
	}
	lat, err := floatParam(c, "latitude")
	if err != nil {
		return badRequest(c, err.Error())
	}
	lon, err := floatParam(c, "longitude")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if (lat == nil) != (lon == nil) {
		return badRequest(c, "latitude and longitude must be given together")
	}
	var origin *types.LatLon
	if lat != nil {
		if *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180 {
			return badRequest(c, "latitude/longitude out of range")
		}
		origin = &types.LatLon{Latitude: *lat, Longitude: *lon}
	}
	maxKm, err := floatParam(c, "max_distance_km")
	if err != nil {
		return badRequest(c, err.Error())
	}
	dist := 100.0
	if maxKm != nil {
		if *maxKm < 1 || *maxKm > 2000 {
			return badRequest(c, "max_distance_km must be between 1 and 2000")
		}
		dist = *maxKm
	}

	out, err := h.svc.FindBest(c.Request().Context(), commodity, strings.TrimSpace(c.QueryParam("state")), origin, dist)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PriceCtrl) Trends(c echo.Context) error {
	commodity, err := required(c, "commodity")
	if err != nil {
		return badRequest(c, err.Error())
	}
	days, err := intParam(c, "days", 7, 1, 365)
	if err != nil {
		return badRequest(c, err.Error())
	}
	out, err := h.svc.PriceTrends(c.Request().Context(), commodity, strings.TrimSpace(c.QueryParam("state")), days)
	if errors.Is(err, analytics.ErrInvalidWindow) {
		return badRequest(c, err.Error())
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PriceCtrl) SellAdvisory(c echo.Context) error {
	commodity, err := required(c, "commodity")
	if err != nil {
		return badRequest(c, err.Error())
	}
	current, err := floatParam(c, "current_price")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if current != nil && *current < 0 {
		return badRequest(c, "current_price must not be negative")
	}
	explain, err := boolParam(c, "explain")
	if err != nil {
		return badRequest(c, err.Error())
	}
	out, err := h.svc.SellAdvisory(c.Request().Context(), commodity, current, strings.TrimSpace(c.QueryParam("state")), explain)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}
