/*
handlers.go - HTTP API handlers for the zone engine

PURPOSE:
  Exposes the registry and builder over REST. Handles HTTP parsing, JSON
  serialization, and delegates all timezone logic to the engine.

ENDPOINTS:
  GET    /api/zones                   List registered zone ids
  POST   /api/zones                   Compile and register a builder program
  GET    /api/zones/{id}              Descriptor summary
  GET    /api/zones/{id}/offset       Offset/name at ?at=
  GET    /api/zones/{id}/transitions  Previous/next transition around ?at=

  Zone ids contain slashes ("America/Los_Angeles"), so the {id} routes are
  mounted on a wildcard and dispatched by suffix here rather than by chi
  path segments.

INSTANT PARAMETER:
  ?at= accepts either raw milliseconds since the Unix epoch or an RFC3339
  timestamp. Omitted means "now".

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: invalid program, unparsable instant, builder construction errors
  - 404: unknown zone id
  - 500: store failures

SEE ALSO:
  - dto.go: request/response shapes
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian/zone-engine/registry"
	"github.com/meridian/zone-engine/zone"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Registry *registry.Registry
}

// NewHandler creates a handler backed by the given registry.
func NewHandler(reg *registry.Registry) *Handler {
	return &Handler{Registry: reg}
}

// =============================================================================
// ZONE COLLECTION
// =============================================================================

// ListZones returns every registered zone id.
func (h *Handler) ListZones(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Registry.IDs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, ZoneListResponse{Zones: ids})
}

// CreateZone compiles a builder program and registers the result.
func (h *Handler) CreateZone(w http.ResponseWriter, r *http.Request) {
	var req ZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	z, err := buildFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Registry.Register(r.Context(), z); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, ZoneResponse{ID: z.ID(), Fixed: z.IsFixed()})
}

// buildFromRequest translates a ZoneRequest into builder calls.
func buildFromRequest(req ZoneRequest) (zone.Zone, error) {
	b := zone.NewBuilder()
	for _, era := range req.Eras {
		if c := era.Cutover; c != nil {
			b.AddCutover(c.Year, modeByte(c.Mode), c.Month, c.DayOfMonth, c.DayOfWeek, c.Advance, c.MillisOfDay)
		} else {
			b.AddCutover(zone.MinYear, zone.ModeWall, 1, 1, 0, false, 0)
		}
		b.SetStandardOffset(era.StandardOffset)
		if fs := era.FixedSavings; fs != nil {
			b.SetFixedSavings(fs.Name, fs.SaveMillis)
		}
		for _, rule := range era.Rules {
			b.AddRecurringSavings(rule.Name, rule.SaveMillis, rule.FromYear, rule.ToYear,
				modeByte(rule.Mode), rule.Month, rule.DayOfMonth, rule.DayOfWeek, rule.Advance, rule.MillisOfDay)
		}
	}
	return b.Build(req.ID, true)
}

// modeByte maps a one-letter mode string to its builder character. An
// unknown string maps to an invalid character so the builder rejects it.
func modeByte(mode string) byte {
	if len(mode) == 1 {
		return mode[0]
	}
	return 0
}

// =============================================================================
// ZONE QUERIES
// =============================================================================

// ZoneSubtree dispatches GET /api/zones/{id}[/offset|/transitions] where
// {id} may itself contain slashes.
func (h *Handler) ZoneSubtree(w http.ResponseWriter, r *http.Request) {
	rest := chi.URLParam(r, "*")
	switch {
	case strings.HasSuffix(rest, "/offset"):
		h.getOffset(w, r, strings.TrimSuffix(rest, "/offset"))
	case strings.HasSuffix(rest, "/transitions"):
		h.getTransitions(w, r, strings.TrimSuffix(rest, "/transitions"))
	default:
		h.getZone(w, r, rest)
	}
}

// getZone returns a descriptor summary.
func (h *Handler) getZone(w http.ResponseWriter, r *http.Request, id string) {
	z, ok := h.lookupZone(w, r, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ZoneResponse{ID: z.ID(), Fixed: z.IsFixed()})
}

// getOffset answers the offset/name query at ?at=.
func (h *Handler) getOffset(w http.ResponseWriter, r *http.Request, id string) {
	z, ok := h.lookupZone(w, r, id)
	if !ok {
		return
	}
	at, err := parseInstant(r.URL.Query().Get("at"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	offset := z.OffsetAt(at)
	standard := z.StandardOffsetAt(at)
	resp := OffsetResponse{
		At:             at,
		Name:           z.NameAt(at),
		Offset:         offset,
		StandardOffset: standard,
		Savings:        offset - standard,
	}
	if t := time.UnixMilli(at).UTC(); t.Year() >= 0 && t.Year() <= 9999 {
		resp.AtUTC = t.Format(time.RFC3339Nano)
	}
	writeJSON(w, http.StatusOK, resp)
}

// getTransitions answers the previous/next transition query at ?at=.
func (h *Handler) getTransitions(w http.ResponseWriter, r *http.Request, id string) {
	z, ok := h.lookupZone(w, r, id)
	if !ok {
		return
	}
	at, err := parseInstant(r.URL.Query().Get("at"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, TransitionsResponse{
		At:       at,
		Previous: z.PreviousTransition(at),
		Next:     z.NextTransition(at),
	})
}

func (h *Handler) lookupZone(w http.ResponseWriter, r *http.Request, id string) (zone.Zone, bool) {
	z, err := h.Registry.Get(r.Context(), id)
	if errors.Is(err, registry.ErrZoneNotFound) {
		writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return z, true
}

// =============================================================================
// HELPERS
// =============================================================================

// parseInstant accepts raw milliseconds or RFC3339; empty means now.
func parseInstant(raw string) (int64, error) {
	if raw == "" {
		return time.Now().UnixMilli(), nil
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ms, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
