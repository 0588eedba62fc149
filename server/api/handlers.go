// Package api implements the REST handlers for tasks, inventory, material
// checks, and schedule suggestions.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GoCodeAlone/timetable/comms"
	"github.com/GoCodeAlone/timetable/inventory"
	"github.com/GoCodeAlone/timetable/material"
	"github.com/GoCodeAlone/timetable/suggest"
	"github.com/GoCodeAlone/timetable/task"
)

// Handlers bundles all REST API handler dependencies.
type Handlers struct {
	Tasks     task.Store
	Inventory inventory.Store
	Suggester suggest.Suggester // nil disables POST /api/suggest
	Bus       comms.Bus         // optional; receives change events
	Logger    *zap.Logger
	Version   string
	StartAt   time.Time
}

// RegisterRoutes registers all API routes on the given mux.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	if h.Logger == nil {
		h.Logger = zap.NewNop()
	}

	mux.HandleFunc("GET /api/tasks", h.listTasks)
	mux.HandleFunc("POST /api/tasks", h.putTask)
	mux.HandleFunc("GET /api/tasks/{id}", h.getTask)
	mux.HandleFunc("PUT /api/tasks/{id}", h.updateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", h.deleteTask)

	mux.HandleFunc("GET /api/inventory", h.listInventory)
	mux.HandleFunc("POST /api/inventory", h.putInventoryItem)
	mux.HandleFunc("GET /api/inventory/{name}", h.getInventoryItem)

	mux.HandleFunc("POST /api/materials/check", h.checkMaterials)
	mux.HandleFunc("POST /api/suggest", h.suggest)

	mux.HandleFunc("GET /api/changes", h.listChanges)

	mux.HandleFunc("GET /api/status", h.status)
	mux.HandleFunc("GET /api/version", h.version)
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// publish records a change on the bus, if one is attached. Failures are
// logged; the write they describe has already happened.
func (h *Handlers) publish(r *http.Request, t comms.EventType, subject string) {
	if h.Bus == nil {
		return
	}
	if err := h.Bus.Publish(r.Context(), comms.NewEvent(t, subject)); err != nil {
		h.Logger.Warn("publish change event",
			zap.String("type", string(t)), zap.String("subject", subject), zap.Error(err))
	}
}

// --- Task handlers ---

func (h *Handlers) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := task.Filter{
		OperatorID:  q.Get("operator"),
		OperationID: q.Get("operation"),
	}

	for key, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid "+key+": "+err.Error())
			return
		}
		*dst = &t
	}
	if l := q.Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil {
			filter.Limit = n
		}
	}
	if o := q.Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil {
			filter.Offset = n
		}
	}

	tasks, err := h.Tasks.List(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// putTask adds a task (no id) or replaces the task with the given id.
func (h *Handlers) putTask(w http.ResponseWriter, r *http.Request) {
	var t task.Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if t.StartTime.IsZero() {
		writeError(w, http.StatusBadRequest, "start_time is required")
		return
	}
	if msg := checkDurations(&t); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var err error
	if t.ID == "" {
		_, err = h.Tasks.Create(&t)
	} else {
		err = h.Tasks.Put(&t)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.Logger.Info("task saved", zap.String("id", t.ID), zap.String("operation", t.OperationID))
	h.publish(r, comms.TypeTaskPut, t.ID)
	writeJSON(w, http.StatusCreated, t)
}

func checkDurations(t *task.Task) string {
	if t.ExpectedDurationMinutes < 0 {
		return "expected_duration_minutes must not be negative"
	}
	if t.ActualDurationMinutes != nil && *t.ActualDurationMinutes < 0 {
		return "actual_duration_minutes must not be negative"
	}
	return ""
}

func (h *Handlers) getTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	t, err := h.Tasks.Get(id)
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handlers) updateTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := h.Tasks.Get(id)
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Decode partial update over existing task
	if err := json.NewDecoder(r.Body).Decode(existing); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	existing.ID = id // ensure ID is not overwritten
	if msg := checkDurations(existing); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.Tasks.Update(existing); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.publish(r, comms.TypeTaskPut, id)
	writeJSON(w, http.StatusOK, existing)
}

func (h *Handlers) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Tasks.Delete(id); err != nil {
		if errors.Is(err, task.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.Logger.Info("task deleted", zap.String("id", id))
	h.publish(r, comms.TypeTaskDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

// --- Inventory handlers ---

func (h *Handlers) listInventory(w http.ResponseWriter, _ *http.Request) {
	items, err := h.Inventory.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []inventory.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handlers) putInventoryItem(w http.ResponseWriter, r *http.Request) {
	var item inventory.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(item.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := h.Inventory.Put(item); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.publish(r, comms.TypeInventoryPut, item.Name)
	writeJSON(w, http.StatusOK, item)
}

func (h *Handlers) getInventoryItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.Inventory.Get(r.PathValue("name"))
	if err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			writeError(w, http.StatusNotFound, "inventory item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// --- Material check ---

// CheckRequest is the body of POST /api/materials/check.
type CheckRequest struct {
	Materials material.List `json:"materials"`
}

// CheckResponse evaluates each material against the current inventory.
type CheckResponse struct {
	Rows      []inventory.Row `json:"rows"`
	CanSubmit bool            `json:"can_submit"`
	Missing   []string        `json:"missing"`
}

func (h *Handlers) checkMaterials(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	items, err := h.Inventory.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	idx := inventory.NewIndex(items)
	missing := idx.Missing(req.Materials.Names())
	if missing == nil {
		missing = []string{}
	}
	writeJSON(w, http.StatusOK, CheckResponse{
		Rows:      inventory.Check(req.Materials, idx),
		CanSubmit: inventory.CanSubmit(req.Materials, idx),
		Missing:   missing,
	})
}

// --- Suggestions ---

// SuggestRequest is the body of POST /api/suggest.
type SuggestRequest struct {
	Requirement string `json:"requirement"`
}

func (h *Handlers) suggest(w http.ResponseWriter, r *http.Request) {
	if h.Suggester == nil {
		writeError(w, http.StatusServiceUnavailable, suggest.ErrNoProvider.Error())
		return
	}
	var req SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Requirement) == "" {
		writeError(w, http.StatusBadRequest, "requirement is required")
		return
	}

	tasks, err := h.Tasks.List(task.Filter{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sug, err := h.Suggester.Suggest(r.Context(), tasks, req.Requirement)
	if err != nil {
		if errors.Is(err, suggest.ErrNoProvider) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sug)
}

// --- Change history ---

func (h *Handlers) listChanges(w http.ResponseWriter, r *http.Request) {
	if h.Bus == nil {
		writeJSON(w, http.StatusOK, []*comms.Event{})
		return
	}
	t := comms.AllTypes
	if v := r.URL.Query().Get("type"); v != "" {
		t = comms.EventType(v)
	}
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil {
			limit = n
		}
	}

	events, err := h.Bus.History(t, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if events == nil {
		events = []*comms.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// --- Status / version ---

// Status is the body of GET /api/status.
type Status struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime,omitempty"`
	Suggester bool   `json:"suggestions_enabled"`
}

func (h *Handlers) status(w http.ResponseWriter, _ *http.Request) {
	st := Status{
		Status:    "ok",
		Version:   h.Version,
		Suggester: h.Suggester != nil,
	}
	if !h.StartAt.IsZero() {
		st.Uptime = time.Since(h.StartAt).Round(time.Second).String()
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handlers) version(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": h.Version,
	})
}
