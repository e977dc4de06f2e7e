package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"

	"github.com/roach88/phonebook/internal/record"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// kindHandler serves the routes of one record kind.
type kindHandler struct {
	server *Server
	kind   record.Kind
}

func (h *kindHandler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if _, ok := query["name_starts_with"]; ok {
		h.search(w, r, query.Get("name_starts_with"))
		return
	}

	var filter record.Filter
	if _, ok := query[h.kind.NameColumn]; ok {
		v := query.Get(h.kind.NameColumn)
		filter.Name = &v
	}
	if _, ok := query["phone_number"]; ok {
		v := query.Get("phone_number")
		filter.PhoneNumber = &v
	}

	recs, err := h.server.store.List(r.Context(), h.kind, filter)
	if err != nil {
		respondInternalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, recs)
}

func (h *kindHandler) handleSearchPath(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, mux.Vars(r)["prefix"])
}

// search answers 404 both for a blank prefix and for no matches.
func (h *kindHandler) search(w http.ResponseWriter, r *http.Request, prefix string) {
	recs, err := h.server.store.SearchPrefix(r.Context(), h.kind, prefix)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, recs)
	case errors.Is(err, record.ErrInvalidInput), errors.Is(err, record.ErrNotFound):
		respondText(w, http.StatusNotFound, noMatchMessage(prefix))
	default:
		respondInternalError(w, r, err)
	}
}

func (h *kindHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := h.server.store.Get(r.Context(), h.kind, id)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, rec)
	case errors.Is(err, record.ErrNotFound):
		respondText(w, http.StatusNotFound, notFoundMessage(h.kind, id))
	default:
		respondInternalError(w, r, err)
	}
}

// handleCreate accepts a single object or an array of objects.
func (h *kindHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		respondText(w, http.StatusBadRequest, createRejectedMessage(h.kind))
		return
	}

	if isArray(body) {
		h.createMany(w, r, body)
		return
	}

	var fields record.Fields
	if err := json.Unmarshal(body, &fields); err != nil {
		respondText(w, http.StatusBadRequest, createRejectedMessage(h.kind))
		return
	}

	rec, err := fields.Patch(h.kind).Derive(h.kind, h.server.ids)
	if err != nil {
		respondText(w, http.StatusBadRequest, createRejectedMessage(h.kind))
		return
	}

	inserted, err := h.server.store.InsertIfAbsent(r.Context(), rec)
	switch {
	case err != nil && !isClientError(err):
		respondInternalError(w, r, err)
	case err != nil || !inserted:
		respondText(w, http.StatusBadRequest, createRejectedMessage(h.kind))
	default:
		respondText(w, http.StatusCreated, addedMessage(rec))
	}
}

// createMany derives every usable element and inserts them as one batch.
// Elements missing a field are skipped like duplicates.
func (h *kindHandler) createMany(w http.ResponseWriter, r *http.Request, body []byte) {
	var all []record.Fields
	if err := json.Unmarshal(body, &all); err != nil {
		respondText(w, http.StatusBadRequest, createRejectedMessage(h.kind))
		return
	}

	candidates := make([]record.Record, 0, len(all))
	for _, fields := range all {
		rec, err := fields.Patch(h.kind).Derive(h.kind, h.server.ids)
		if err != nil {
			continue
		}
		candidates = append(candidates, rec)
	}

	inserted, err := h.server.store.InsertManyIfAbsent(r.Context(), candidates)
	switch {
	case err != nil && !isClientError(err):
		respondInternalError(w, r, err)
	case err != nil || len(inserted) == 0:
		respondText(w, http.StatusBadRequest, createRejectedMessage(h.kind))
	default:
		respondText(w, http.StatusCreated, lines(inserted, addedMessage))
	}
}

func (h *kindHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	body, err := readBody(w, r)
	if err != nil {
		respondText(w, http.StatusBadRequest, updateRejectedMessage(h.kind))
		return
	}

	var fields record.Fields
	if err := json.Unmarshal(body, &fields); err != nil {
		respondText(w, http.StatusBadRequest, updateRejectedMessage(h.kind))
		return
	}

	rec, err := h.server.store.Update(r.Context(), h.kind, id, fields.Patch(h.kind))
	switch {
	case err == nil:
		respondText(w, http.StatusCreated, updatedMessage(rec))
	case isClientError(err):
		respondText(w, http.StatusBadRequest, updateRejectedMessage(h.kind))
	default:
		respondInternalError(w, r, err)
	}
}

func (h *kindHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := h.server.store.Delete(r.Context(), h.kind, id)
	switch {
	case err == nil:
		respondText(w, http.StatusCreated, removedMessage(rec))
	case errors.Is(err, record.ErrNotFound):
		respondText(w, http.StatusNotFound, notFoundMessage(h.kind, id))
	default:
		respondInternalError(w, r, err)
	}
}

func (h *kindHandler) handleDeleteMany(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		respondText(w, http.StatusBadRequest, deleteManyRejectedMessage(h.kind))
		return
	}

	var entries []map[string]any
	if err := json.Unmarshal(body, &entries); err != nil {
		respondText(w, http.StatusBadRequest, deleteManyRejectedMessage(h.kind))
		return
	}

	deleted, err := h.server.store.DeleteMany(r.Context(), h.kind, record.IDsFromEntries(entries))
	switch {
	case err == nil:
		respondText(w, http.StatusCreated, lines(deleted, removedMessage))
	case isClientError(err):
		respondText(w, http.StatusBadRequest, deleteManyRejectedMessage(h.kind))
	default:
		respondInternalError(w, r, err)
	}
}

// isClientError reports whether err is an expected outcome rather than a
// storage failure.
func isClientError(err error) bool {
	return errors.Is(err, record.ErrNotFound) ||
		errors.Is(err, record.ErrInvalidInput) ||
		errors.Is(err, record.ErrConflict)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func isArray(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, internalErrorMessage, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func respondText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, message)
}

// respondInternalError logs err with the request id and hides it from the
// client.
func respondInternalError(w http.ResponseWriter, r *http.Request, err error) {
	hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	respondText(w, http.StatusInternalServerError, internalErrorMessage)
}
