package main

import (
	"errors"
	"math"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"scorebin/internal/binning"
	"scorebin/internal/data"
	"scorebin/internal/features"
	"scorebin/pkg/utils"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	r := newRouter(logger)
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("API iniciada", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("Falha no servidor", zap.Error(err))
	}
}

func newRouter(logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	h := &handlers{logger: logger}
	api := r.Group("/")
	api.Use(apiKeyMiddleware)
	api.POST("/discretize", h.discretize)
	api.POST("/encode", h.encode)
	return r
}

func apiKeyMiddleware(c *gin.Context) {
	key := os.Getenv("API_KEY")
	if key == "" {
		c.Next()
		return
	}
	if c.GetHeader("X-API-Key") != key {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

type discretizeReq struct {
	Predictor     string    `json:"predictor"`
	Values        []any     `json:"values" binding:"required,min=1"`
	Outcomes      []*int    `json:"outcomes" binding:"required,min=1"`
	Ordered       bool      `json:"ordered"`
	MaxIterations int       `json:"max_iterations" binding:"required,gt=0"`
	Cuts          []float64 `json:"cuts"`
	Rule          string    `json:"rule" binding:"omitempty,oneof=doane sturges sqrt"`
	Order         string    `json:"order" binding:"omitempty,oneof=sorted first_seen"`
}

type encodeReq struct {
	discretizeReq
	Iteration int   `json:"iteration" binding:"gte=0"`
	Apply     []any `json:"apply" binding:"required"`
}

type handlers struct {
	logger *zap.Logger
}

func (h *handlers) discretize(c *gin.Context) {
	var req discretizeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := req.discretizer(h.logger)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hist, err := d.Run(req.MaxIterations)
	body := gin.H{"history": historyView(hist), "table": hist.Table()}
	if d.Ordered() {
		body["missing"] = missingView(d.Missing())
	}
	if err != nil {
		body["error"] = err.Error()
		c.JSON(runStatus(err), body)
		return
	}
	c.JSON(http.StatusOK, body)
}

func (h *handlers) encode(c *gin.Context) {
	var req encodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := req.discretizer(h.logger)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hist, err := d.Run(req.MaxIterations)
	if err != nil {
		c.JSON(runStatus(err), gin.H{"error": err.Error()})
		return
	}
	enc, err := features.NewEncoder(hist, req.Iteration)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"iteration": req.Iteration, "bins": enc.Bins(), "woe": enc.Transform(toValues(req.Apply, !req.Ordered))})
}

func runStatus(err error) int {
	if errors.Is(err, binning.ErrDegenerateOutcome) || errors.Is(err, binning.ErrExcessiveIterations) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func (r *discretizeReq) discretizer(logger *zap.Logger) (*binning.Discretizer, error) {
	outcomes := make([]data.Outcome, len(r.Outcomes))
	for i, o := range r.Outcomes {
		outcomes[i] = data.Unknown
		if o != nil {
			outcomes[i] = data.Outcome(*o)
		}
	}
	name := r.Predictor
	if name == "" {
		name = "x"
	}
	ds, err := data.NewDataset(name, "y", toValues(r.Values, !r.Ordered), outcomes)
	if err != nil {
		return nil, err
	}
	opts := []binning.Option{binning.WithOrdered(r.Ordered), binning.WithLogger(logger)}
	if r.Ordered {
		rule, err := binning.ParseRule(r.Rule)
		if err != nil {
			return nil, err
		}
		opts = append(opts, binning.WithRule(rule))
		if len(r.Cuts) > 0 {
			opts = append(opts, binning.WithCuts(r.Cuts))
		}
	} else {
		o, err := binning.ParseOrder(r.Order)
		if err != nil {
			return nil, err
		}
		opts = append(opts, binning.WithCategoryOrder(o))
	}
	return binning.New(ds, opts...)
}

func toValues(raw []any, asLabel bool) []data.Value {
	out := make([]data.Value, len(raw))
	for i, v := range raw {
		switch x := v.(type) {
		case float64:
			out[i] = data.Number(x)
			if asLabel {
				out[i] = data.Label(out[i].String())
			}
		case string:
			out[i] = data.ParseValue(x, asLabel)
		case bool:
			out[i] = data.Label(strconv.FormatBool(x))
		default:
			out[i] = data.Missing()
		}
	}
	return out
}

// JSON has no NaN or Inf; those become null and cut points are sent as strings.
func num(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func historyView(h *binning.History) gin.H {
	recs := make([]gin.H, len(h.Records))
	for i, r := range h.Records {
		bins := make([]gin.H, len(r.Stats.Bins))
		for j, b := range r.Stats.Bins {
			bins[j] = gin.H{
				"count":      b.Count,
				"bad":        b.Bad,
				"good":       b.Good,
				"bad_share":  b.BadShare,
				"good_share": b.GoodShare,
				"bad_rate":   num(b.BadRate),
				"woe":        b.WOE,
				"iv":         b.IV,
				"priority":   num(b.Priority),
			}
		}
		recs[i] = gin.H{
			"iteration": r.Iteration,
			"bins":      r.Partition.Names(),
			"iv":        r.IV,
			"woe":       r.WOE,
			"merged":    r.Merged,
			"stats":     bins,
		}
	}
	return gin.H{
		"predictor": h.Predictor,
		"ordered":   h.Ordered,
		"records":   recs,
		"final":     h.Final.Names(),
	}
}

func missingView(m binning.MissingSummary) gin.H {
	out := gin.H{"count": m.Count, "known": m.Known, "bad_rate": nil}
	if m.Known > 0 {
		out["bad_rate"] = m.BadRate
	}
	return out
}
