package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/auth"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/telemetry/tracing"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/pkg"
)

type sessionsRepo interface {
	Add(ctx context.Context, session WorkoutSession) (*WorkoutSession, error)
	List(ctx context.Context, userID int) ([]WorkoutSession, error)
	Get(ctx context.Context, id, userID int) (*WorkoutSession, error)
	Update(ctx context.Context, session WorkoutSession) error
	Delete(ctx context.Context, id, userID int) error
}

type Handler struct {
	repo sessionsRepo
}

func NewHandler(repo sessionsRepo) *Handler {
	return &Handler{repo: repo}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("", handler.handleList).Methods("GET", "OPTIONS")
	router.HandleFunc("", handler.handleAdd).Methods("POST")
	router.HandleFunc("/{id}", handler.handleGet).Methods("GET", "OPTIONS")
	router.HandleFunc("/{id}", handler.handleUpdate).Methods("PATCH")
	router.HandleFunc("/{id}", handler.handleDelete).Methods("DELETE")
}

type sessionRequest struct {
	WorkoutPlanID *int      `json:"workout_plan_id"`
	Date          *pkg.Date `json:"date"`
	Completed     *bool     `json:"completed"`
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "sessionsHandler.list")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	sessionsList, err := handler.repo.List(ctx, identity.UserID)
	if err != nil {
		log.Errorf("list workout sessions for user %d: %s", identity.UserID, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if sessionsList == nil {
		sessionsList = []WorkoutSession{}
	}

	listJson, err := json.Marshal(sessionsList)
	if err != nil {
		log.Errorf("list workout sessions, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, listJson)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "sessionsHandler.get")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, http.StatusBadRequest, "invalid workout session id")
		return
	}

	session, err := handler.repo.Get(ctx, id, identity.UserID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			pkg.WriteError(w, http.StatusNotFound, "workout session not found")
			return
		}
		log.Errorf("get workout session %d: %s", id, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	sessionJson, err := json.Marshal(session)
	if err != nil {
		log.Errorf("get workout session, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, sessionJson)
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "sessionsHandler.add")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("add workout session, decode request: %s", err)
		pkg.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields := map[string]string{}
	if req.WorkoutPlanID == nil {
		fields["workout_plan_id"] = "this field is required"
	}
	if req.Date == nil {
		fields["date"] = "this field is required"
	}
	if len(fields) > 0 {
		pkg.WriteFieldErrors(w, http.StatusBadRequest, fields)
		return
	}

	session := WorkoutSession{
		UserID:        identity.UserID,
		WorkoutPlanID: *req.WorkoutPlanID,
		Date:          *req.Date,
	}
	if req.Completed != nil {
		session.Completed = *req.Completed
	}

	added, err := handler.repo.Add(ctx, session)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			pkg.WriteError(w, http.StatusNotFound, "workout plan not found")
			return
		}
		log.Errorf("add workout session for user %d: %s", identity.UserID, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	log.Debugf("new workout session added: %d, plan %d, user %d", added.ID, added.WorkoutPlanID, added.UserID)

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("add workout session, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "sessionsHandler.update")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, http.StatusBadRequest, "invalid workout session id")
		return
	}

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update workout session, decode request: %s", err)
		pkg.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := handler.repo.Get(ctx, id, identity.UserID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			pkg.WriteError(w, http.StatusNotFound, "workout session not found")
			return
		}
		log.Errorf("update workout session, get %d: %s", id, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if req.WorkoutPlanID != nil {
		session.WorkoutPlanID = *req.WorkoutPlanID
	}
	if req.Date != nil {
		session.Date = *req.Date
	}
	if req.Completed != nil {
		session.Completed = *req.Completed
	}

	if err := handler.repo.Update(ctx, *session); err != nil {
		switch {
		case errors.Is(err, ErrPlanNotFound):
			pkg.WriteError(w, http.StatusNotFound, "workout plan not found")
		case errors.Is(err, ErrSessionNotFound):
			pkg.WriteError(w, http.StatusNotFound, "workout session not found")
		default:
			log.Errorf("update workout session %d: %s", id, err)
			pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	sessionJson, err := json.Marshal(session)
	if err != nil {
		log.Errorf("update workout session, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, sessionJson)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "sessionsHandler.delete")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, http.StatusBadRequest, "invalid workout session id")
		return
	}

	if err := handler.repo.Delete(ctx, id, identity.UserID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			pkg.WriteError(w, http.StatusNotFound, "workout session not found")
			return
		}
		log.Errorf("delete workout session %d: %s", id, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	log.Debugf("workout session deleted: %d, user %d", id, identity.UserID)

	pkg.WriteResponseBytes(w, "", nil, http.StatusNoContent)
}
