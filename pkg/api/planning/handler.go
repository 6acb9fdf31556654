// Package planning exposes the calculation engine over HTTP.
package planning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"business_planner/pkg/core/assumption"
	"business_planner/pkg/core/market"
	"business_planner/pkg/core/projection"
	"business_planner/pkg/core/report"
	"business_planner/pkg/core/sensitivity"
	"business_planner/pkg/core/store"
	"business_planner/pkg/core/telemetry"
	"business_planner/pkg/core/validate"
	"business_planner/pkg/core/valuation"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxBodyBytes bounds request documents.
const maxBodyBytes = 4 << 20

const defaultSpread = 0.2

// Handler holds dependencies for planning endpoints
type Handler struct {
	engine *projection.Engine
	irr    valuation.IRROptions
	memo   *store.Memo
	logger *slog.Logger
}

// NewHandler creates a new planning handler. A nil memo caches in memory. Cache
// keys are scoped to the engine and solver settings.
func NewHandler(engine *projection.Engine, irr valuation.IRROptions, memo *store.Memo, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if memo == nil {
		memo = store.NewMemo(nil, logger)
	}
	memo = memo.WithScope(valuation.EngineScope(engine.Config(), irr))
	return &Handler{engine: engine, irr: irr, memo: memo, logger: logger}
}

// Register mounts every route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/planning/project", h.post("planning.project", h.handleProject))
	mux.HandleFunc("/api/planning/validate", h.post("planning.validate", h.handleValidate))
	mux.HandleFunc("/api/planning/trajectory", h.post("planning.trajectory", h.handleTrajectory))
	mux.HandleFunc("/api/planning/sensitivity", h.post("planning.sensitivity", h.handleSensitivity))
	mux.HandleFunc("/api/planning/report", h.post("planning.report", h.handleReport))
	mux.HandleFunc("/api/market/project", h.post("market.project", h.handleMarketProject))
	mux.HandleFunc("/api/market/validate", h.post("market.validate", h.handleMarketValidate))
	mux.HandleFunc("/api/market/score", h.post("market.score", h.handleMarketScore))
}

// Routes lists the mounted paths for the startup banner.
func Routes() []string {
	return []string{
		"POST /api/planning/project",
		"POST /api/planning/validate",
		"POST /api/planning/trajectory",
		"POST /api/planning/sensitivity",
		"POST /api/planning/report",
		"POST /api/market/project",
		"POST /api/market/validate",
		"POST /api/market/score",
	}
}

// =============================================================================
// PLUMBING
// =============================================================================

// httpError carries a status code out of an endpoint function.
type httpError struct {
	status int
	err    error
}

func (e *httpError) Error() string { return e.err.Error() }
func (e *httpError) Unwrap() error { return e.err }

func badRequest(format string, args ...interface{}) error {
	return &httpError{status: http.StatusBadRequest, err: fmt.Errorf(format, args...)}
}

type endpoint func(ctx context.Context, w http.ResponseWriter, body []byte) error

// post wraps an endpoint with CORS, method checks, body reading, a trace span
// and error mapping.
func (h *Handler) post(name string, fn endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// CORS
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx, span := telemetry.Tracer().Start(r.Context(), name, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		span.SetAttributes(attribute.Int("request.bytes", len(body)))

		if err := fn(ctx, w, body); err != nil {
			status := http.StatusInternalServerError
			var he *httpError
			if errors.As(err, &he) {
				status = he.status
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			h.logger.Warn("request failed", "endpoint", name, "status", status, "error", err)
			http.Error(w, err.Error(), status)
		}
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, payload []byte, cached bool) error {
	w.Header().Set("Content-Type", "application/json")
	if cached {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, err := w.Write(payload)
	return err
}

func parseBusiness(raw []byte) (assumption.Parsed[assumption.BusinessAssumptions], error) {
	if len(raw) == 0 || string(raw) == "null" {
		return assumption.Parsed[assumption.BusinessAssumptions]{}, badRequest("business assumptions are required")
	}
	p, err := assumption.ParseBusiness(raw)
	if err != nil {
		return p, badRequest("invalid business assumptions: %v", err)
	}
	return p, nil
}

func parseMarket(raw []byte) (assumption.Parsed[assumption.MarketAssumptions], error) {
	if len(raw) == 0 || string(raw) == "null" {
		return assumption.Parsed[assumption.MarketAssumptions]{}, badRequest("market assumptions are required")
	}
	p, err := assumption.ParseMarket(raw)
	if err != nil {
		return p, badRequest("invalid market assumptions: %v", err)
	}
	return p, nil
}

func decode(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

// =============================================================================
// BUSINESS ENDPOINTS
// =============================================================================

// handleProject takes a business document and returns CalculatedMetrics,
// monthly rows included.
func (h *Handler) handleProject(ctx context.Context, w http.ResponseWriter, body []byte) error {
	p, err := parseBusiness(body)
	if err != nil {
		return err
	}
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("business_model", string(p.Doc.BusinessModel)),
		attribute.Int("periods", p.Doc.Periods),
	)

	payload, hit, err := h.memo.Get(ctx, store.KindMetrics, p.JSON, func() (interface{}, error) {
		return valuation.Evaluate(h.engine, p.Doc, h.irr), nil
	})
	if err != nil {
		return err
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.Bool("cache.hit", hit))
	return writeRaw(w, payload, hit)
}

func (h *Handler) handleValidate(ctx context.Context, w http.ResponseWriter, body []byte) error {
	p, err := parseBusiness(body)
	if err != nil {
		return err
	}
	return writeJSON(w, validate.Document(h.engine, p.Doc, h.irr))
}

// TrajectoryRequest selects the document and, optionally, one segment.
type TrajectoryRequest struct {
	Assumptions json.RawMessage `json:"assumptions"`
	SegmentID   string          `json:"segment_id,omitempty"`
}

// TrajectoryResponse carries provenance-tagged price and volume series.
type TrajectoryResponse struct {
	Pricing []projection.TrajectoryPoint            `json:"pricing"`
	Volumes map[string][]projection.TrajectoryPoint `json:"volumes"`
}

func (h *Handler) handleTrajectory(ctx context.Context, w http.ResponseWriter, body []byte) error {
	var req TrajectoryRequest
	if err := decode(body, &req); err != nil {
		return err
	}
	p, err := parseBusiness(req.Assumptions)
	if err != nil {
		return err
	}
	a := p.Doc
	d := projection.DefaultsFrom(a.GrowthSettings)

	resp := TrajectoryResponse{
		Pricing: h.engine.PricingTrajectory(a.Pricing, a.Periods),
		Volumes: make(map[string][]projection.TrajectoryPoint),
	}
	for _, seg := range a.Segments {
		if req.SegmentID != "" && seg.ID != req.SegmentID {
			continue
		}
		resp.Volumes[seg.ID] = h.engine.VolumeTrajectory(seg, a.Periods, d)
	}
	if req.SegmentID != "" && len(resp.Volumes) == 0 {
		return &httpError{status: http.StatusNotFound, err: fmt.Errorf("segment %q not found", req.SegmentID)}
	}
	return writeJSON(w, resp)
}

// SensitivityRequest runs a tornado over the given drivers, or over drivers
// derived from the document when none are given.
type SensitivityRequest struct {
	Assumptions json.RawMessage      `json:"assumptions"`
	Drivers     []sensitivity.Driver `json:"drivers,omitempty"`
	Spread      float64              `json:"spread,omitempty"`
}

func (h *Handler) handleSensitivity(ctx context.Context, w http.ResponseWriter, body []byte) error {
	var req SensitivityRequest
	if err := decode(body, &req); err != nil {
		return err
	}
	p, err := parseBusiness(req.Assumptions)
	if err != nil {
		return err
	}
	drivers := req.Drivers
	if len(drivers) == 0 {
		spread := req.Spread
		if spread <= 0 {
			spread = defaultSpread
		}
		drivers = sensitivity.DefaultDrivers(p.JSON, spread)
	}
	for _, d := range drivers {
		if err := d.Validate(); err != nil {
			return badRequest("%v", err)
		}
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("drivers", len(drivers)))

	keyed := struct {
		Doc     json.RawMessage      `json:"doc"`
		Drivers []sensitivity.Driver `json:"drivers"`
	}{p.JSON, drivers}
	key, err := json.Marshal(keyed)
	if err != nil {
		return err
	}

	payload, hit, err := h.memo.Get(ctx, store.KindSensitivity, key, func() (interface{}, error) {
		impacts, err := sensitivity.NewRunner(h.engine, h.irr).Tornado(p.JSON, drivers)
		if err != nil {
			return nil, badRequest("%v", err)
		}
		return impacts, nil
	})
	if err != nil {
		return err
	}
	return writeRaw(w, payload, hit)
}

// ReportRequest renders an HTML report. Market is optional.
type ReportRequest struct {
	Title       string          `json:"title,omitempty"`
	Assumptions json.RawMessage `json:"assumptions"`
	Market      json.RawMessage `json:"market,omitempty"`
	Drivers     bool            `json:"sensitivity,omitempty"`
}

func (h *Handler) handleReport(ctx context.Context, w http.ResponseWriter, body []byte) error {
	var req ReportRequest
	if err := decode(body, &req); err != nil {
		return err
	}
	p, err := parseBusiness(req.Assumptions)
	if err != nil {
		return err
	}

	in := report.Input{
		Title:    req.Title,
		Currency: p.Doc.Currency,
		Metrics:  valuation.Evaluate(h.engine, p.Doc, h.irr),
	}
	if len(req.Market) > 0 && string(req.Market) != "null" {
		mp, err := parseMarket(req.Market)
		if err != nil {
			return err
		}
		score := market.Score(mp.Doc)
		in.Score = &score
		in.Market = market.Project(mp.Doc, h.engine.Config().Horizon(p.Doc.Periods), priceOf(p.Doc))
	}
	if req.Drivers {
		impacts, err := sensitivity.NewRunner(h.engine, h.irr).Tornado(p.JSON, sensitivity.DefaultDrivers(p.JSON, defaultSpread))
		if err != nil {
			return err
		}
		in.Tornado = impacts
	}

	html, err := report.RenderHTML(report.BuildMarkdown(in))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = io.WriteString(w, html)
	return err
}

func priceOf(a *assumption.BusinessAssumptions) float64 {
	if a.Pricing.AvgUnitPrice == nil {
		return 0
	}
	return *a.Pricing.AvgUnitPrice
}

// =============================================================================
// MARKET ENDPOINTS
// =============================================================================

// MarketProjectRequest asks for monthly market records.
type MarketProjectRequest struct {
	Assumptions  json.RawMessage `json:"assumptions"`
	Periods      int             `json:"periods"`
	AvgUnitPrice float64         `json:"avg_unit_price"`
}

func (h *Handler) handleMarketProject(ctx context.Context, w http.ResponseWriter, body []byte) error {
	var req MarketProjectRequest
	if err := decode(body, &req); err != nil {
		return err
	}
	p, err := parseMarket(req.Assumptions)
	if err != nil {
		return err
	}

	key, err := json.Marshal(struct {
		Doc    json.RawMessage `json:"doc"`
		Months int             `json:"months"`
		Price  float64         `json:"price"`
	}{p.JSON, h.engine.Config().Horizon(req.Periods), req.AvgUnitPrice})
	if err != nil {
		return err
	}

	payload, hit, err := h.memo.Get(ctx, store.KindMarket, key, func() (interface{}, error) {
		return market.Project(p.Doc, h.engine.Config().Horizon(req.Periods), req.AvgUnitPrice), nil
	})
	if err != nil {
		return err
	}
	return writeRaw(w, payload, hit)
}

func (h *Handler) handleMarketValidate(ctx context.Context, w http.ResponseWriter, body []byte) error {
	p, err := parseMarket(body)
	if err != nil {
		return err
	}
	return writeJSON(w, market.Validate(p.Doc))
}

// ScoreResponse adds the concentration figures behind the score.
type ScoreResponse struct {
	market.OpportunityScore
	HHI                 float64 `json:"hhi"`
	Concentration       string  `json:"concentration"`
	CompetitivePosition string  `json:"competitivePosition"`
}

func (h *Handler) handleMarketScore(ctx context.Context, w http.ResponseWriter, body []byte) error {
	p, err := parseMarket(body)
	if err != nil {
		return err
	}
	m := p.Doc
	hhi := market.HHI(m.MarketShare.CurrentPosition, m.CompetitiveLandscape.Competitors)
	return writeJSON(w, ScoreResponse{
		OpportunityScore:    market.Score(m),
		HHI:                 hhi,
		Concentration:       market.ConcentrationLevel(hhi),
		CompetitivePosition: market.CompetitivePosition(m.MarketShare.CurrentPosition, m.CompetitiveLandscape.Competitors),
	})
}
