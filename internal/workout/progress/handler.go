package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/auth"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/telemetry/tracing"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/pkg"
)

type progressRepo interface {
	Add(ctx context.Context, p Progress) (*Progress, error)
	List(ctx context.Context, userID int) ([]Progress, error)
	Get(ctx context.Context, id, userID int) (*Progress, error)
	Update(ctx context.Context, p Progress) error
	Delete(ctx context.Context, id, userID int) error
}

type Handler struct {
	repo progressRepo
	// injectable for deterministic date-default tests
	TodayFunc func() pkg.Date
}

func NewHandler(repo progressRepo) *Handler {
	return &Handler{
		repo:      repo,
		TodayFunc: pkg.Today,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("", handler.handleList).Methods("GET", "OPTIONS")
	router.HandleFunc("", handler.handleAdd).Methods("POST")
	router.HandleFunc("/{id}", handler.handleGet).Methods("GET", "OPTIONS")
	router.HandleFunc("/{id}", handler.handleUpdate).Methods("PATCH")
	router.HandleFunc("/{id}", handler.handleDelete).Methods("DELETE")
}

type progressRequest struct {
	Date   *pkg.Date `json:"date"`
	Weight *float64  `json:"weight"`
	Notes  *string   `json:"notes"`
}

func duplicateDateFieldErrors(date pkg.Date) map[string]string {
	return map[string]string{
		"date": fmt.Sprintf("progress entry for %s already exists", date),
	}
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "progressHandler.list")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	entries, err := handler.repo.List(ctx, identity.UserID)
	if err != nil {
		log.Errorf("list progress for user %d: %s", identity.UserID, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if entries == nil {
		entries = []Progress{}
	}

	entriesJson, err := json.Marshal(entries)
	if err != nil {
		log.Errorf("list progress, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, entriesJson)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "progressHandler.get")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, http.StatusBadRequest, "invalid progress entry id")
		return
	}

	entry, err := handler.repo.Get(ctx, id, identity.UserID)
	if err != nil {
		if errors.Is(err, ErrProgressNotFound) {
			pkg.WriteError(w, http.StatusNotFound, "progress entry not found")
			return
		}
		log.Errorf("get progress entry %d: %s", id, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	entryJson, err := json.Marshal(entry)
	if err != nil {
		log.Errorf("get progress entry, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, entryJson)
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "progressHandler.add")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("add progress entry, decode request: %s", err)
		pkg.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// date defaults to today
	date := handler.TodayFunc()
	if req.Date != nil {
		date = *req.Date
	}

	entry := Progress{
		UserID: identity.UserID,
		Date:   date,
		Weight: req.Weight,
		Notes:  req.Notes,
	}

	added, err := handler.repo.Add(ctx, entry)
	if err != nil {
		if errors.Is(err, ErrDuplicateDate) {
			pkg.WriteFieldErrors(w, http.StatusBadRequest, duplicateDateFieldErrors(date))
			return
		}
		log.Errorf("add progress entry for user %d: %s", identity.UserID, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	log.Debugf("new progress entry added: %d [%s], user %d", added.ID, added.Date, added.UserID)

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("add progress entry, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "progressHandler.update")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, http.StatusBadRequest, "invalid progress entry id")
		return
	}

	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update progress entry, decode request: %s", err)
		pkg.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := handler.repo.Get(ctx, id, identity.UserID)
	if err != nil {
		if errors.Is(err, ErrProgressNotFound) {
			pkg.WriteError(w, http.StatusNotFound, "progress entry not found")
			return
		}
		log.Errorf("update progress entry, get %d: %s", id, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if req.Date != nil {
		entry.Date = *req.Date
	}
	if req.Weight != nil {
		entry.Weight = req.Weight
	}
	if req.Notes != nil {
		entry.Notes = req.Notes
	}

	if err := handler.repo.Update(ctx, *entry); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateDate):
			pkg.WriteFieldErrors(w, http.StatusBadRequest, duplicateDateFieldErrors(entry.Date))
		case errors.Is(err, ErrProgressNotFound):
			pkg.WriteError(w, http.StatusNotFound, "progress entry not found")
		default:
			log.Errorf("update progress entry %d: %s", id, err)
			pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	entryJson, err := json.Marshal(entry)
	if err != nil {
		log.Errorf("update progress entry, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, entryJson)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "progressHandler.delete")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, http.StatusBadRequest, "invalid progress entry id")
		return
	}

	if err := handler.repo.Delete(ctx, id, identity.UserID); err != nil {
		if errors.Is(err, ErrProgressNotFound) {
			pkg.WriteError(w, http.StatusNotFound, "progress entry not found")
			return
		}
		log.Errorf("delete progress entry %d: %s", id, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	log.Debugf("progress entry deleted: %d, user %d", id, identity.UserID)

	pkg.WriteResponseBytes(w, "", nil, http.StatusNoContent)
}
