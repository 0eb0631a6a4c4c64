package plans

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

type plansRepo interface {
	Add(ctx context.Context, plan WorkoutPlan) (*WorkoutPlan, error)
	List(ctx context.Context, userID int) ([]WorkoutPlan, error)
	Get(ctx context.Context, id, userID int) (*WorkoutPlan, error)
	Update(ctx context.Context, plan WorkoutPlan) error
	Delete(ctx context.Context, id, userID int) error
}

type Handler struct {
	repo plansRepo
}

func NewHandler(repo plansRepo) *Handler {
	return &Handler{repo: repo}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("", handler.handleList).Methods("GET", "OPTIONS")
	router.HandleFunc("", handler.handleAdd).Methods("POST")
	router.HandleFunc("/{id}", handler.handleGet).Methods("GET", "OPTIONS")
	router.HandleFunc("/{id}", handler.handleUpdate).Methods("PATCH")
	router.HandleFunc("/{id}", handler.handleDelete).Methods("DELETE")
}

type planRequest struct {
	Name                      *string `json:"name"`
	Frequency                 *int    `json:"frequency"`
	Goal                      *string `json:"goal"`
	DurationPerSessionMinutes *int    `json:"duration_per_session_minutes"`
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "plansHandler.list")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	plansList, err := handler.repo.List(ctx, identity.UserID)
	if err != nil {
		log.Errorf("list workout plans for user %d: %s", identity.UserID, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if plansList == nil {
		plansList = []WorkoutPlan{}
	}

	listJson, err := json.Marshal(plansList)
	if err != nil {
		log.Errorf("list workout plans, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, listJson)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "plansHandler.get")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, http.StatusBadRequest, "invalid workout plan id")
		return
	}

	plan, err := handler.repo.Get(ctx, id, identity.UserID)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			pkg.WriteError(w, http.StatusNotFound, "workout plan not found")
			return
		}
		log.Errorf("get workout plan %d: %s", id, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	planJson, err := json.Marshal(plan)
	if err != nil {
		log.Errorf("get workout plan, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, planJson)
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "plansHandler.add")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("add workout plan, decode request: %s", err)
		pkg.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields := map[string]string{}
	if req.Name == nil || *req.Name == "" {
		fields["name"] = "this field is required"
	}
	switch {
	case req.Frequency == nil:
		fields["frequency"] = "this field is required"
	case *req.Frequency <= 0:
		fields["frequency"] = "must be a positive integer"
	}
	if req.Goal == nil || *req.Goal == "" {
		fields["goal"] = "this field is required"
	}
	if len(fields) > 0 {
		pkg.WriteFieldErrors(w, http.StatusBadRequest, fields)
		return
	}

	// owner always comes from the authenticated identity
	plan := WorkoutPlan{
		UserID:                    identity.UserID,
		Name:                      *req.Name,
		Frequency:                 *req.Frequency,
		Goal:                      *req.Goal,
		DurationPerSessionMinutes: req.DurationPerSessionMinutes,
	}

	added, err := handler.repo.Add(ctx, plan)
	if err != nil {
		log.Errorf("add workout plan [%s] for user %d: %s", plan.Name, identity.UserID, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	log.Debugf("new workout plan added: %d [%s], user %d", added.ID, added.Name, added.UserID)

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("add workout plan, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "plansHandler.update")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, http.StatusBadRequest, "invalid workout plan id")
		return
	}

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update workout plan, decode request: %s", err)
		pkg.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Frequency != nil && *req.Frequency <= 0 {
		pkg.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{
			"frequency": "must be a positive integer",
		})
		return
	}

	plan, err := handler.repo.Get(ctx, id, identity.UserID)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			pkg.WriteError(w, http.StatusNotFound, "workout plan not found")
			return
		}
		log.Errorf("update workout plan, get %d: %s", id, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if req.Name != nil {
		plan.Name = *req.Name
	}
	if req.Frequency != nil {
		plan.Frequency = *req.Frequency
	}
	if req.Goal != nil {
		plan.Goal = *req.Goal
	}
	if req.DurationPerSessionMinutes != nil {
		plan.DurationPerSessionMinutes = req.DurationPerSessionMinutes
	}

	if err := handler.repo.Update(ctx, *plan); err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			pkg.WriteError(w, http.StatusNotFound, "workout plan not found")
			return
		}
		log.Errorf("update workout plan %d: %s", id, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	planJson, err := json.Marshal(plan)
	if err != nil {
		log.Errorf("update workout plan, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, planJson)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "plansHandler.delete")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, http.StatusBadRequest, "invalid workout plan id")
		return
	}

	if err := handler.repo.Delete(ctx, id, identity.UserID); err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			pkg.WriteError(w, http.StatusNotFound, "workout plan not found")
			return
		}
		log.Errorf("delete workout plan %d: %s", id, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	log.Debugf("workout plan deleted: %d, user %d", id, identity.UserID)

	pkg.WriteResponseBytes(w, "", nil, http.StatusNoContent)
}
