package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stf-simulator/internal/engine"
	"stf-simulator/internal/errors"
	"stf-simulator/internal/logging"
	"stf-simulator/internal/models"
	"stf-simulator/internal/store"
)

// Handler serves the simulator JSON API.
type Handler struct {
	engine  *engine.Engine
	presets store.PresetStore
}

// NewHandler registers the API routes on r.
func NewHandler(r *gin.Engine, eng *engine.Engine, presets store.PresetStore) *Handler {
	h := &Handler{engine: eng, presets: presets}

	r.GET("/health", h.Health)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/payoff", h.Payoff)
		v1.POST("/scenario", h.Scenario)
		v1.POST("/hedge", h.Hedge)
		v1.POST("/exposure", h.Exposure)
		v1.GET("/casestudy", h.CaseStudy)
		v1.POST("/casestudy/replay", h.Replay)
	}

	p := v1.Group("/presets")
	{
		p.GET("", h.ListPresets)
		p.GET("/:name", h.GetPreset)
		p.PUT("/:name", h.PutPreset)
		p.DELETE("/:name", h.DeletePreset)
		p.POST("/:name/run", h.RunPreset)
	}
	return h
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Payoff(c *gin.Context) {
	var req engine.PayoffRequest
	if !bind(c, &req) {
		return
	}
	report, err := h.engine.EvaluatePayoff(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) Scenario(c *gin.Context) {
	var req engine.ScenarioRequest
	if !bind(c, &req) {
		return
	}
	req.Scenario.Kind = models.ParseScenarioKind(string(req.Scenario.Kind))
	report, err := h.engine.RunScenario(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) Hedge(c *gin.Context) {
	var in models.HedgeInputs
	if !bind(c, &in) {
		return
	}
	report, err := h.engine.OptimizeHedge(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) Exposure(c *gin.Context) {
	var req engine.ExposureRequest
	if !bind(c, &req) {
		return
	}
	report, err := h.engine.AnalyzeExposure(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) CaseStudy(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.CaseStudy())
}

func (h *Handler) Replay(c *gin.Context) {
	var req engine.ReplayRequest
	// An empty body replays the default contract.
	if c.Request.ContentLength != 0 {
		if !bind(c, &req) {
			return
		}
	}
	report, err := h.engine.ReplayCaseStudy(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) ListPresets(c *gin.Context) {
	var filter store.PresetFilter
	if kind := c.Query("kind"); kind != "" {
		filter.Kind = models.ParseScenarioKind(kind)
	}
	if v := c.Query("built_in"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(c, errors.NewConfigError("built_in", v, "must be true or false"))
			return
		}
		filter.BuiltIn = &b
	}
	filter.NameLike = c.Query("q")
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(c, errors.NewConfigError("limit", v, "must be a non-negative integer"))
			return
		}
		filter.Limit = n
	}

	presets, err := h.presets.ListPresets(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	if presets == nil {
		presets = []models.Preset{}
	}
	c.JSON(http.StatusOK, presets)
}

func (h *Handler) GetPreset(c *gin.Context) {
	preset, err := h.presets.GetPreset(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, preset)
}

// presetBody is the PUT payload; the name comes from the path.
type presetBody struct {
	Description string               `json:"description"`
	Terms       models.ContractTerms `json:"terms"`
	Scenario    models.ScenarioSpec  `json:"scenario"`
}

func (h *Handler) PutPreset(c *gin.Context) {
	name := c.Param("name")
	var body presetBody
	if !bind(c, &body) {
		return
	}
	body.Scenario.Kind = models.ParseScenarioKind(string(body.Scenario.Kind))

	v := h.engine.Validator()
	if err := v.ValidatePresetName(name); err != nil {
		writeError(c, err)
		return
	}
	if err := v.ValidateTerms(body.Terms); err != nil {
		writeError(c, err)
		return
	}
	if err := v.ValidateScenario(body.Scenario); err != nil {
		writeError(c, err)
		return
	}

	preset := &models.Preset{
		Name:        name,
		Description: body.Description,
		Terms:       body.Terms,
		Scenario:    body.Scenario,
	}
	if err := h.presets.SavePreset(c.Request.Context(), preset); err != nil {
		writeError(c, err)
		return
	}
	logging.LogPreset(logging.FromContext(c.Request.Context()), "save", name)
	c.JSON(http.StatusOK, preset)
}

func (h *Handler) DeletePreset(c *gin.Context) {
	name := c.Param("name")
	if err := h.presets.DeletePreset(c.Request.Context(), name); err != nil {
		writeError(c, err)
		return
	}
	logging.LogPreset(logging.FromContext(c.Request.Context()), "delete", name)
	c.Status(http.StatusNoContent)
}

// RunPreset runs the stored contract along the stored scenario.
func (h *Handler) RunPreset(c *gin.Context) {
	preset, err := h.presets.GetPreset(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	report, err := h.engine.RunScenario(c.Request.Context(), engine.ScenarioRequest{
		Terms:    preset.Terms,
		Scenario: preset.Scenario,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func bind(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// writeError maps domain errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	if ce, ok := errors.IsConfigError(err); ok {
		body := gin.H{"error": err.Error()}
		if ce != nil {
			body["field"] = ce.Field
		}
		c.JSON(http.StatusBadRequest, body)
		return
	}
	if errors.Is(err, errors.ErrPresetNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	logger := logging.FromContext(c.Request.Context())
	logger.Error().Err(err).Msg("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
