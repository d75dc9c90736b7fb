package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/duckworthlewis/dlc/pkg/dls"
	"github.com/duckworthlewis/dlc/server/internal/metrics"
	"github.com/duckworthlewis/dlc/server/internal/notify"
	"github.com/duckworthlewis/dlc/server/internal/store"
)

const maxBodyBytes = 1 << 20

// Error kinds for failures that do not come from the dls package.
const (
	kindBadRequest       = "BadRequest"
	kindNotFound         = "NotFound"
	kindMethodNotAllowed = "MethodNotAllowed"
	kindInternal         = "Internal"
)

// Options carries the optional collaborators of a Handler. The zero value is
// usable.
type Options struct {
	// Metrics counts matches, stoppages, targets and errors.
	Metrics *metrics.Registry

	// Notifier receives every target change.
	Notifier *notify.Notifier

	// OnChange is called after any successful mutation.
	OnChange func()

	// DefaultCategory supplies the category for matches created without
	// one. It is read per request so a config reload takes effect.
	DefaultCategory func() dls.Category

	// Now is the clock; it defaults to time.Now.
	Now func() time.Time
}

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	store   *store.Store
	opts    Options
	started time.Time
	mux     *http.ServeMux
}

// New creates a Handler wired to the given match store and registers all routes.
func New(st *store.Store, opts Options) http.Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultCategory == nil {
		opts.DefaultCategory = func() dls.Category { return dls.FullMember }
	}
	h := &Handler{store: st, opts: opts, started: opts.Now(), mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/categories", h.categories)
	h.mux.HandleFunc("/api/v1/resources", h.resources)
	h.mux.HandleFunc("/api/v1/matches", h.matches)
	h.mux.HandleFunc("/api/v1/matches/", h.match) // subtree: {id}[/action]
	h.mux.HandleFunc("/api/v1/calculate", h.calculate)
	h.mux.HandleFunc("/api/v1/events", h.events)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, http.MethodGet) {
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		MatchCount:    len(h.store.List()),
		UptimeSeconds: h.opts.Now().Sub(h.started).Seconds(),
	})
}

// categories returns GET /api/v1/categories.
func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, http.MethodGet) {
		return
	}
	cats := dls.Categories()
	out := make([]CategoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryResponse{Name: c.String(), G50: c.G50()})
	}
	jsonResp(w, http.StatusOK, out)
}

// resources returns GET /api/v1/resources?overs=37.3&wickets=2.
func (h *Handler) resources(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	overs, err := dls.ParseOvers(q.Get("overs"))
	if err != nil {
		h.fail(w, err)
		return
	}
	wickets, err := strconv.Atoi(q.Get("wickets"))
	if err != nil {
		h.fail(w, badRequest("wickets must be an integer, got %q", q.Get("wickets")))
		return
	}
	pct, err := dls.StandardEdition().Percentage(overs, wickets)
	if err != nil {
		h.fail(w, err)
		return
	}
	jsonResp(w, http.StatusOK, ResourceResponse{Overs: overs, Wickets: wickets, Percentage: pct})
}

// matches serves GET and POST /api/v1/matches.
func (h *Handler) matches(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		jsonResp(w, http.StatusOK, h.board().Matches)
	case http.MethodPost:
		h.createMatch(w, r)
	default:
		h.notAllowed(w)
	}
}

func (h *Handler) createMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	category := h.opts.DefaultCategory()
	if req.Category != "" {
		c, err := dls.ParseCategory(req.Category)
		if err != nil {
			h.fail(w, err)
			return
		}
		category = c
	}
	g50 := req.G50
	if g50 == 0 {
		g50 = category.G50()
	}
	m, err := dls.NewMatchG50(req.StartingOvers, category, g50)
	if err != nil {
		h.fail(w, err)
		return
	}

	e := h.store.Create(req.Team1, req.Team2, m)
	h.opts.Metrics.MatchCreated()
	slog.Info("match created", "id", e.ID, "overs", req.StartingOvers, "category", category.String())
	h.changed()
	jsonResp(w, http.StatusCreated, ToMatchResponse(e))
}

// match serves the /api/v1/matches/{id} subtree.
func (h *Handler) match(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/matches/"), "/")
	if rest == "" {
		h.matches(w, r)
		return
	}
	id, action, _ := strings.Cut(rest, "/")

	switch action {
	case "":
		switch r.Method {
		case http.MethodGet:
			e, ok := h.store.Get(id)
			if !ok {
				h.fail(w, fmt.Errorf("%w: %s", store.ErrNotFound, id))
				return
			}
			jsonResp(w, http.StatusOK, ToMatchResponse(e))
		case http.MethodDelete:
			if !h.store.Delete(id) {
				h.fail(w, fmt.Errorf("%w: %s", store.ErrNotFound, id))
				return
			}
			slog.Info("match deleted", "id", id)
			h.changed()
			w.WriteHeader(http.StatusNoContent)
		default:
			h.notAllowed(w)
		}
	case "interruptions":
		if h.allow(w, r, http.MethodPost) {
			h.recordInterruption(w, r, id)
		}
	case "target":
		if h.allow(w, r, http.MethodPost) {
			h.setTarget(w, r, id)
		}
	default:
		h.fail(w, fmt.Errorf("%w: no route %s", store.ErrNotFound, r.URL.Path))
	}
}

func (h *Handler) recordInterruption(w http.ResponseWriter, r *http.Request, id string) {
	var req interruptionRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, err)
		return
	}

	var (
		prev      *dls.TargetResult
		targetErr error
	)
	e, err := h.store.Update(id, func(m *dls.Match, e *store.Entry) error {
		if err := m.RecordInterruption(req.Innings, req.Wickets, req.OversCompleted, req.OversRemoved); err != nil {
			return err
		}
		// A stoppage moves the target once team 1's total is known.
		score, ok := m.Team1Score()
		if !ok {
			return nil
		}
		prev = e.Target
		res, err := m.ComputeTarget(score)
		if err != nil {
			// The stoppage stands even when no target survives it, e.g.
			// the rest of the chase was abandoned.
			targetErr = err
			e.Target, e.TargetErr = nil, err.Error()
			return nil
		}
		e.Target, e.TargetErr = &res, ""
		return nil
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	if targetErr != nil {
		_, kind := classify(targetErr)
		h.opts.Metrics.Error(kind)
		slog.Warn("target unavailable after interruption", "id", id, "err", targetErr)
	}

	h.opts.Metrics.InterruptionRecorded(req.Innings.String())
	slog.Info("interruption recorded",
		"id", id,
		"innings", req.Innings.String(),
		"wickets", req.Wickets,
		"overs_completed", req.OversCompleted.String(),
		"overs_removed", req.OversRemoved.String(),
	)
	if e.Target != nil {
		h.opts.Metrics.TargetComputed()
		h.targetChanged(e, prev)
	}
	h.changed()
	jsonResp(w, http.StatusOK, ToMatchResponse(e))
}

func (h *Handler) setTarget(w http.ResponseWriter, r *http.Request, id string) {
	var req targetRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if req.Team1Score == nil {
		h.fail(w, fmt.Errorf("%w: team_1_score is required", dls.ErrInvalidScore))
		return
	}

	var prev *dls.TargetResult
	e, err := h.store.Update(id, func(m *dls.Match, e *store.Entry) error {
		res, err := m.ComputeTarget(*req.Team1Score)
		if err != nil {
			return err
		}
		if err := m.SetTeam1Score(*req.Team1Score); err != nil {
			return err
		}
		prev = e.Target
		e.Target, e.TargetErr = &res, ""
		return nil
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	h.opts.Metrics.TargetComputed()
	h.targetChanged(e, prev)
	h.changed()
	jsonResp(w, http.StatusOK, e.Target)
}

// calculate serves POST /api/v1/calculate. Nothing is stored.
func (h *Handler) calculate(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, http.MethodPost) {
		return
	}
	var req calculateRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	m, err := dls.Restore(req.Match)
	if err != nil {
		h.fail(w, err)
		return
	}
	score, ok := m.Team1Score()
	if req.Team1Score != nil {
		score, ok = *req.Team1Score, true
	}
	if !ok {
		h.fail(w, fmt.Errorf("%w: team_1_score is required", dls.ErrInvalidScore))
		return
	}
	res, err := m.ComputeTarget(score)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.opts.Metrics.TargetComputed()
	jsonResp(w, http.StatusOK, res)
}

// events returns GET /api/v1/events, newest first.
func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, http.MethodGet) {
		return
	}
	if h.opts.Notifier == nil {
		jsonResp(w, http.StatusOK, []notify.Event{})
		return
	}
	jsonResp(w, http.StatusOK, h.opts.Notifier.Recent())
}

// --- helpers ----------------------------------------------------------------

func (h *Handler) board() BoardResponse {
	return BuildBoard(h.store, h.opts.Now())
}

func (h *Handler) changed() {
	if h.opts.OnChange != nil {
		h.opts.OnChange()
	}
}

func (h *Handler) targetChanged(e store.Entry, prev *dls.TargetResult) {
	if h.opts.Notifier != nil && e.Target != nil {
		h.opts.Notifier.TargetChanged(e.ID, e.Team1, e.Team2, prev, *e.Target)
	}
}

// allow writes 405 and returns false unless r uses method.
func (h *Handler) allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		h.notAllowed(w)
		return false
	}
	return true
}

func (h *Handler) notAllowed(w http.ResponseWriter) {
	h.opts.Metrics.Error(kindMethodNotAllowed)
	jsonErr(w, http.StatusMethodNotAllowed, kindMethodNotAllowed, "method not allowed")
}

// fail maps err to a status and kind, counts it and writes the error body.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	code, kind := classify(err)
	h.opts.Metrics.Error(kind)
	if code == http.StatusInternalServerError {
		slog.Error("api: request failed", "err", err)
	}
	jsonErr(w, code, kind, err.Error())
}

// requestError is a malformed request: bad JSON, a wrong query type.
type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

func classify(err error) (int, string) {
	var reqErr *requestError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, kindNotFound
	case errors.As(err, &reqErr):
		return http.StatusBadRequest, kindBadRequest
	case errors.Is(err, dls.ErrOutOfRange):
		return http.StatusBadRequest, dls.Kind(err)
	case dls.Kind(err) != "":
		return http.StatusUnprocessableEntity, dls.Kind(err)
	default:
		return http.StatusInternalServerError, kindInternal
	}
}

// decodeBody decodes a JSON request body into v. Field values rejected by
// the dls types keep their dls error kind; anything else is a bad request.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if dls.Kind(err) != "" {
			return err
		}
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}

func jsonResp(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, kind, msg string) {
	jsonResp(w, code, errorResponse{Error: msg, Kind: kind})
}
