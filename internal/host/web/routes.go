package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler returns a router serving every host route under the base path.
func (h *Host) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if _, err := h.RegisterRoutes(r); err != nil {
		h.logger.Error("register routes", "error", err)
	}
	return r
}

// RegisterRoutes mounts the host routes on r and returns the mount path.
func (h *Host) RegisterRoutes(r chi.Router) (string, error) {
	if r == nil {
		return "", fmt.Errorf("web: missing router")
	}
	base := mountPath(h.opts.BasePath, "/")
	routes := func(r chi.Router) {
		r.With(middleware.NoCache).Get("/", h.handlePage)
		r.Get(h.opts.EventsPath, h.handleEvents)
		r.Post(h.opts.MessagesPath, h.handleMessage)
		r.Post(h.opts.VisibilityPath, h.handleVisibility)
		r.Post(h.opts.ClosePath, h.handleClose)
		r.Get(h.opts.HealthPath, h.handleHealth)
	}
	if base == "/" {
		routes(r)
	} else {
		r.Route(strings.TrimRight(base, "/"), routes)
	}
	return base, nil
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)
	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}
	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	return strings.TrimRight(basePath, "/") + routePath
}

func (h *Host) handlePage(w http.ResponseWriter, r *http.Request) {
	s := h.Current()
	switch {
	case s == nil:
		writePlaceholder(w, http.StatusServiceUnavailable, h.opts.Title, "No editor is open.")
		return
	case s.Disposed():
		writePlaceholder(w, http.StatusGone, h.opts.Title, "The editor was closed.")
		return
	}
	doc, _ := s.Document()
	if doc == "" {
		writePlaceholder(w, http.StatusServiceUnavailable, h.opts.Title, "The editor is starting.")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, withBridge(doc, mountPath(h.opts.BasePath, "/")))
}

func writePlaceholder(w http.ResponseWriter, code int, title, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Retry-After", "1")
	w.WriteHeader(code)
	fmt.Fprintf(w, "<!DOCTYPE html><html><head><title>%s</title></head><body><p>%s</p></body></html>",
		html.EscapeString(title), html.EscapeString(msg))
}

func (h *Host) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	id, events := h.events.subscribe()
	defer h.events.unsubscribe(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if _, err := (Event{Name: EventReady}).WriteTo(w); err != nil {
		return
	}
	flusher.Flush()
	h.logger.DebugContext(r.Context(), "event client connected", "client", id)

	ticker := time.NewTicker(h.opts.KeepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			h.logger.DebugContext(r.Context(), "event client disconnected", "client", id)
			return
		case <-ticker.C:
			if _, err := io.WriteString(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case ev, open := <-events:
			if !open {
				return
			}
			if _, err := ev.WriteTo(w); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (h *Host) handleMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.opts.MaxMessageBytes))
	if err != nil {
		writeJSONError(w, http.StatusRequestEntityTooLarge, err)
		return
	}
	if !json.Valid(body) {
		writeJSONError(w, http.StatusBadRequest, errors.New("message is not valid JSON"))
		return
	}
	h.enqueue(r.Context(), w, func(s *Surface) error { return s.Deliver(body) })
}

func (h *Host) handleVisibility(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Visible *bool `json:"visible"`
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.opts.MaxMessageBytes))
	if err := dec.Decode(&payload); err != nil || payload.Visible == nil {
		writeJSONError(w, http.StatusBadRequest, errors.New(`expected {"visible": bool}`))
		return
	}
	visible := *payload.Visible
	h.enqueue(r.Context(), w, func(s *Surface) error { return s.SetVisible(visible) })
}

func (h *Host) enqueue(ctx context.Context, w http.ResponseWriter, fn func(*Surface) error) {
	s := h.Current()
	if s == nil {
		writeJSONError(w, http.StatusConflict, errors.New("no editor surface"))
		return
	}
	switch err := fn(s); {
	case errors.Is(err, ErrSurfaceClosed):
		writeJSONError(w, http.StatusGone, err)
	case errors.Is(err, ErrQueueFull):
		w.Header().Set("Retry-After", "1")
		writeJSONError(w, http.StatusServiceUnavailable, err)
	case err != nil:
		h.logger.ErrorContext(ctx, "enqueue inbound message", "error", err)
		writeJSONError(w, http.StatusInternalServerError, err)
	default:
		w.WriteHeader(http.StatusAccepted)
	}
}

func (h *Host) handleClose(w http.ResponseWriter, r *http.Request) {
	if s := h.Current(); s != nil {
		if err := s.Dispose(); err != nil {
			h.logger.WarnContext(r.Context(), "close surface", "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

type healthResponse struct {
	Status  string `json:"status"`
	Surface string `json:"surface,omitempty"`
	Clients int    `json:"clients"`
}

func (h *Host) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Clients: h.events.clients()}
	if s := h.Current(); s != nil && !s.Disposed() {
		resp.Surface = s.ID()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSONError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(v)
}
