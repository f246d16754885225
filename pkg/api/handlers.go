package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/racktower/pkg/cache"
	"github.com/matzehuels/racktower/pkg/catalog"
	"github.com/matzehuels/racktower/pkg/errors"
	"github.com/matzehuels/racktower/pkg/rack"
	"github.com/matzehuels/racktower/pkg/rack/layout"
	"github.com/matzehuels/racktower/pkg/render/elevation"
)

// =============================================================================
// Rack
// =============================================================================

type rackView struct {
	Config     rack.Config       `json:"config"`
	Resolution float64           `json:"resolution"`
	Occupied   int               `json:"occupied"`
	Slots      []rack.Slot       `json:"slots"`
	Instances  []layout.Instance `json:"instances"`
}

type heightRequest struct {
	Height  int  `json:"height"`
	Confirm bool `json:"confirm"`
}

type widthRequest struct {
	Width rack.WidthClass `json:"width"`
}

type confirmRequest struct {
	Confirm bool `json:"confirm"`
}

func confirmFunc(ok bool) layout.ConfirmFunc {
	if ok {
		return layout.Always
	}
	return layout.Never
}

// rackLocked must be called with s.mu held.
func (s *Server) rackLocked() rackView {
	e := s.planner.Engine()
	return rackView{
		Config:     e.Config(),
		Resolution: float64(e.Resolution()),
		Occupied:   e.Occupied(),
		Slots:      e.Slots(),
		Instances:  e.Instances(),
	}
}

func (s *Server) getRack(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respondJSON(w, http.StatusOK, s.rackLocked())
}

func (s *Server) putHeight(w http.ResponseWriter, r *http.Request) {
	var req heightRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.planner.Resize(r.Context(), req.Height, confirmFunc(req.Confirm)); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.rackLocked())
}

func (s *Server) putWidth(w http.ResponseWriter, r *http.Request) {
	var req widthRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.planner.SetWidth(r.Context(), req.Width); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.rackLocked())
}

func (s *Server) clearRack(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.planner.Clear(r.Context(), confirmFunc(req.Confirm)); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.rackLocked())
}

func (s *Server) getSVG(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	e := s.planner.Engine()
	dot := elevation.ToDOT(e.Slots(), e.Config())
	s.mu.Unlock()

	svg, hit, err := cache.GetOrCompute(r.Context(), s.cache, "svg", cache.RenderKey("svg", dot), cache.TTLRender,
		func() ([]byte, error) { return elevation.RenderSVG(dot) })
	if err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

// =============================================================================
// Modules
// =============================================================================

type catalogView struct {
	Groups []catalog.Group       `json:"groups"`
	Custom []rack.Module         `json:"custom"`
	Colors []catalog.ColorOption `json:"colors"`
}

type createModuleRequest struct {
	Name           string        `json:"name"`
	HeightUnits    float64       `json:"heightUnits"`
	Category       rack.Category `json:"category"`
	Color          string        `json:"color"`
	FaceplateImage string        `json:"faceplateImage"`
}

type editModuleResponse struct {
	Module  rack.Module `json:"module"`
	Updated int         `json:"updatedPlacements"`
}

func (s *Server) listModules(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.planner.Catalog()
	respondJSON(w, http.StatusOK, catalogView{
		Groups: c.Grouped(r.URL.Query().Get("q")),
		Custom: c.Library().All(),
		Colors: catalog.ColorOptions(),
	})
}

func (s *Server) createModule(w http.ResponseWriter, r *http.Request) {
	var req createModuleRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.planner.CreateModule(r.Context(), req.Name, req.HeightUnits, req.Category, req.Color, req.FaceplateImage)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, m)
}

func (s *Server) editModule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch rack.ModulePatch
	if err := decode(r, &patch); err != nil {
		respondError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.planner.EditModule(r.Context(), id, patch)
	if err != nil {
		respondError(w, err)
		return
	}
	m, _ := s.planner.Catalog().Lookup(id)
	respondJSON(w, http.StatusOK, editModuleResponse{Module: m, Updated: n})
}

func (s *Server) deleteModule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.planner.DeleteModule(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Placements
// =============================================================================

type placeRequest struct {
	Index  int    `json:"index"`
	Module string `json:"module"`
	Moving string `json:"moving"`
}

type placeResponse struct {
	InstanceID string   `json:"instanceId"`
	Anchor     int      `json:"anchor"`
	Span       int      `json:"span"`
	Moved      bool     `json:"moved"`
	Rack       rackView `json:"rack"`
}

type checkResponse struct {
	OK      bool        `json:"ok"`
	Code    errors.Code `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

type targetsResponse struct {
	Span    int   `json:"span"`
	Indices []int `json:"indices"`
}

// checkPlacement answers drag-over feedback. Placement rejections are a
// normal answer here, not a failed request.
func (s *Server) checkPlacement(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	index, err := strconv.Atoi(q.Get("index"))
	if err != nil {
		respondError(w, errors.New(errors.ErrCodeInvalidInput, "index must be an integer, got %q", q.Get("index")))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.planner.Check(index, q.Get("module"), q.Get("moving"))
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, checkResponse{OK: true})
	case errors.IsPlacement(err):
		respondJSON(w, http.StatusOK, checkResponse{Code: errors.GetCode(err), Message: errors.UserMessage(err)})
	default:
		respondError(w, err)
	}
}

func (s *Server) placementTargets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	moduleID, moving := q.Get("module"), q.Get("moving")

	s.mu.Lock()
	defer s.mu.Unlock()
	m, indices, err := s.planner.Targets(moduleID, moving)
	if err != nil {
		respondError(w, err)
		return
	}
	if indices == nil {
		indices = []int{}
	}
	respondJSON(w, http.StatusOK, targetsResponse{Span: s.planner.Engine().Span(m), Indices: indices})
}

func (s *Server) place(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if err := decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.planner.Place(r.Context(), req.Index, req.Module, req.Moving)
	if err != nil {
		respondError(w, err)
		return
	}
	status := http.StatusCreated
	if res.Moved {
		status = http.StatusOK
	}
	respondJSON(w, status, placeResponse{
		InstanceID: res.InstanceID,
		Anchor:     res.Anchor,
		Span:       res.Span,
		Moved:      res.Moved,
		Rack:       s.rackLocked(),
	})
}

// removePlacement answers 204 whether or not the instance existed.
func (s *Server) removePlacement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	removed, err := s.planner.Remove(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if !removed {
		s.logger.Debug("remove of absent instance", "instance", id)
	}
	w.WriteHeader(http.StatusNoContent)
}
