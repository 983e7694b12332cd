package http

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/rs/zerolog"

	"network-dashboard/internal/chart"
	"network-dashboard/internal/service"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// DashboardHandler serves the five-panel dashboard page, its figure JSON and
// the rendered panels.
type DashboardHandler struct {
	network *service.NetworkService
	log     zerolog.Logger
}

func NewDashboardHandler(network *service.NetworkService, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{network: network, log: log}
}

func (h *DashboardHandler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	r.GET("/", h.getPage)
	r.GET("/panels/:index", h.getPanel)

	protected := r.Group("/")
	protected.Use(authMiddleware)
	protected.GET("/figure", h.getFigure)
}

type pageData struct {
	Options   *chart.OptionSet
	Selection chart.Selection
	Panels    []template.URL
	Width     int
	Message   string
}

func (h *DashboardHandler) getPage(c *gin.Context) {
	dash, err := h.network.Dashboard(c.Request.Context(), c.Query("city"), c.QueryArray("tech"))
	if err != nil {
		status, message := http.StatusInternalServerError, "The dashboard could not be loaded."
		switch {
		case errors.Is(err, service.ErrAwaitingData):
			status, message = http.StatusServiceUnavailable, "Awaiting data file. The dashboard will appear once it is provided."
		case errors.Is(err, service.ErrSourceUnavailable):
			status, message = http.StatusBadGateway, "The data source is unavailable. Try again later."
		case errors.Is(err, service.ErrInvalidSelection):
			status, message = http.StatusBadRequest, "Unknown city or technology selected."
		default:
			h.log.Error().Err(err).Msg("render dashboard page")
		}
		h.renderPage(c, status, pageData{Width: chart.FigureWidth, Message: message})
		return
	}

	data := pageData{
		Options:   &dash.Options,
		Selection: dash.Figure.Selection,
		Width:     dash.Figure.Width,
	}
	if dash.Figure.Empty() {
		data.Message = "No data for the selected city and technologies."
	}
	query := selectionQuery(dash.Figure.Selection)
	for i := range dash.Figure.Panels {
		data.Panels = append(data.Panels, template.URL(fmt.Sprintf("/panels/%d?%s", i, query)))
	}
	h.renderPage(c, http.StatusOK, data)
}

func (h *DashboardHandler) renderPage(c *gin.Context, status int, data pageData) {
	c.Render(status, render.HTML{Template: dashboardTemplate, Name: "dashboard", Data: data})
}

func (h *DashboardHandler) getFigure(c *gin.Context) {
	dash, err := h.network.Dashboard(c.Request.Context(), c.Query("city"), c.QueryArray("tech"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(dash))
}

func (h *DashboardHandler) getPanel(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 || index >= chart.PanelCount {
		c.JSON(http.StatusNotFound, errorResponse("unknown panel"))
		return
	}
	format, err := chart.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	dash, err := h.network.Dashboard(c.Request.Context(), c.Query("city"), c.QueryArray("tech"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderPanel(dash.Figure, index, format, &buf); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func selectionQuery(sel chart.Selection) string {
	q := url.Values{}
	if sel.City != "" {
		q.Set("city", string(sel.City))
	}
	for _, tech := range sel.Technologies {
		q.Add("tech", string(tech))
	}
	return q.Encode()
}
