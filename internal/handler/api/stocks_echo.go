package api

import (
	"net/http"

	"StockCast/internal/usecase"
	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StocksEchoHandler exposes the prediction API over Echo.
type StocksEchoHandler struct {
	logger    *xlogger.Logger
	predictor *usecase.Predictor
	trainer   *usecase.Trainer
	history   *usecase.History
	companies *usecase.Companies
}

func NewStocksEchoHandler(
	logger *xlogger.Logger,
	predictor *usecase.Predictor,
	trainer *usecase.Trainer,
	history *usecase.History,
	companies *usecase.Companies,
) *StocksEchoHandler {
	return &StocksEchoHandler{
		logger:    logger,
		predictor: predictor,
		trainer:   trainer,
		history:   history,
		companies: companies,
	}
}

func (h *StocksEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Root)
	g := e.Group("/api")
	g.GET("/companies", h.Companies)
	g.GET("/historical", h.Historical)
	g.GET("/predict-simple", h.PredictSimple)
	g.GET("/predict", h.Predict)
	g.POST("/train", h.Train)
}

// Root is the liveness probe.
func (h *StocksEchoHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "Backend is running"})
}

func (h *StocksEchoHandler) Companies(c echo.Context) error {
	body, err := h.companies.List()
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return c.JSONBlob(http.StatusOK, body)
}

type historicalRequest struct {
	Ticker string `query:"ticker" validate:"required"`
}

func (h *StocksEchoHandler) Historical(c echo.Context) error {
	req := &historicalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	points, err := h.history.Series(c.Request().Context(), req.Ticker)
	if err != nil {
		h.logger.Error("historical fetch failed",
			xlogger.String("ticker", req.Ticker), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, points)
}

type predictSimpleRequest struct {
	Ticker string `query:"ticker" validate:"required"`
	Year   int    `query:"year" validate:"required"`
}

func (h *StocksEchoHandler) PredictSimple(c echo.Context) error {
	req := &predictSimpleRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.predictor.PredictSimple(c.Request().Context(), req.Ticker, req.Year)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

type predictRequest struct {
	Ticker string `query:"ticker" validate:"required"`
	Year   int    `query:"year" validate:"required"`
	Month  int    `query:"month" default:"1"`
	Day    int    `query:"day" default:"1"`
}

func (h *StocksEchoHandler) Predict(c echo.Context) error {
	req := &predictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.predictor.Predict(c.Request().Context(), req.Ticker, req.Year, req.Month, req.Day)
	if err != nil {
		if appErr, ok := err.(*xhttp.AppError); ok && appErr.Status >= 500 {
			h.logger.Error("prediction failed",
				xlogger.String("ticker", req.Ticker), xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *StocksEchoHandler) Train(c echo.Context) error {
	// POST carries the ticker as a query parameter; Echo only query-binds
	// GET/DELETE requests.
	ticker := c.QueryParam("ticker")
	if ticker == "" {
		return xhttp.ErrorResponse(c, http.StatusBadRequest, "ticker is required")
	}

	res, err := h.trainer.Train(c.Request().Context(), ticker)
	if err != nil {
		h.logger.Error("training failed",
			xlogger.String("ticker", ticker), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
