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

type planExerciseRepo interface {
	Add(ctx context.Context, pe WorkoutPlanExercise, userID int) (*WorkoutPlanExercise, error)
	List(ctx context.Context, userID int) ([]WorkoutPlanExercise, error)
	Get(ctx context.Context, id, userID int) (*WorkoutPlanExercise, error)
	Update(ctx context.Context, pe WorkoutPlanExercise, userID int) error
	Delete(ctx context.Context, id, userID int) error
}

type PlanExerciseHandler struct {
	repo planExerciseRepo
}

func NewPlanExerciseHandler(repo planExerciseRepo) *PlanExerciseHandler {
	return &PlanExerciseHandler{repo: repo}
}

func (handler *PlanExerciseHandler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("", handler.handleList).Methods("GET", "OPTIONS")
	router.HandleFunc("", handler.handleAdd).Methods("POST")
	router.HandleFunc("/{id}", handler.handleGet).Methods("GET", "OPTIONS")
	router.HandleFunc("/{id}", handler.handleUpdate).Methods("PATCH")
	router.HandleFunc("/{id}", handler.handleDelete).Methods("DELETE")
}

type planExerciseRequest struct {
	WorkoutPlanID   *int     `json:"workout_plan_id"`
	ExerciseID      *int     `json:"exercise_id"`
	Repetitions     *int     `json:"repetitions"`
	Sets            *int     `json:"sets"`
	DurationMinutes *int     `json:"duration_minutes"`
	Distance        *float64 `json:"distance"`
}

func (handler *PlanExerciseHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "planExercisesHandler.list")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	planExercises, err := handler.repo.List(ctx, identity.UserID)
	if err != nil {
		log.Errorf("list plan exercises for user %d: %s", identity.UserID, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if planExercises == nil {
		planExercises = []WorkoutPlanExercise{}
	}

	listJson, err := json.Marshal(planExercises)
	if err != nil {
		log.Errorf("list plan exercises, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, listJson)
}

func (handler *PlanExerciseHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "planExercisesHandler.get")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, http.StatusBadRequest, "invalid workout plan exercise id")
		return
	}

	pe, err := handler.repo.Get(ctx, id, identity.UserID)
	if err != nil {
		if errors.Is(err, ErrPlanExerciseNotFound) {
			pkg.WriteError(w, http.StatusNotFound, "workout plan exercise not found")
			return
		}
		log.Errorf("get plan exercise %d: %s", id, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	peJson, err := json.Marshal(pe)
	if err != nil {
		log.Errorf("get plan exercise, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, peJson)
}

func (handler *PlanExerciseHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "planExercisesHandler.add")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	var req planExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("add plan exercise, decode request: %s", err)
		pkg.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields := map[string]string{}
	if req.WorkoutPlanID == nil {
		fields["workout_plan_id"] = "this field is required"
	}
	if req.ExerciseID == nil {
		fields["exercise_id"] = "this field is required"
	}
	if req.Repetitions != nil && *req.Repetitions <= 0 {
		fields["repetitions"] = "must be a positive integer"
	}
	if req.Sets != nil && *req.Sets <= 0 {
		fields["sets"] = "must be a positive integer"
	}
	if len(fields) > 0 {
		pkg.WriteFieldErrors(w, http.StatusBadRequest, fields)
		return
	}

	pe := WorkoutPlanExercise{
		WorkoutPlanID:   *req.WorkoutPlanID,
		ExerciseID:      *req.ExerciseID,
		Repetitions:     1,
		Sets:            1,
		DurationMinutes: req.DurationMinutes,
		Distance:        req.Distance,
	}
	if req.Repetitions != nil {
		pe.Repetitions = *req.Repetitions
	}
	if req.Sets != nil {
		pe.Sets = *req.Sets
	}

	added, err := handler.repo.Add(ctx, pe, identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, ErrPlanNotFound):
			// a foreign plan id looks exactly like a missing one
			pkg.WriteError(w, http.StatusNotFound, "workout plan not found")
		case errors.Is(err, ErrUnknownExercise):
			pkg.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{
				"exercise_id": "unknown exercise id",
			})
		default:
			log.Errorf("add plan exercise for user %d: %s", identity.UserID, err)
			pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	log.Debugf("new plan exercise added: %d, plan %d, user %d", added.ID, added.WorkoutPlanID, identity.UserID)

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("add plan exercise, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *PlanExerciseHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "planExercisesHandler.update")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, http.StatusBadRequest, "invalid workout plan exercise id")
		return
	}

	var req planExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update plan exercise, decode request: %s", err)
		pkg.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields := map[string]string{}
	if req.Repetitions != nil && *req.Repetitions <= 0 {
		fields["repetitions"] = "must be a positive integer"
	}
	if req.Sets != nil && *req.Sets <= 0 {
		fields["sets"] = "must be a positive integer"
	}
	if len(fields) > 0 {
		pkg.WriteFieldErrors(w, http.StatusBadRequest, fields)
		return
	}

	pe, err := handler.repo.Get(ctx, id, identity.UserID)
	if err != nil {
		if errors.Is(err, ErrPlanExerciseNotFound) {
			pkg.WriteError(w, http.StatusNotFound, "workout plan exercise not found")
			return
		}
		log.Errorf("update plan exercise, get %d: %s", id, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if req.WorkoutPlanID != nil {
		pe.WorkoutPlanID = *req.WorkoutPlanID
	}
	if req.ExerciseID != nil {
		pe.ExerciseID = *req.ExerciseID
	}
	if req.Repetitions != nil {
		pe.Repetitions = *req.Repetitions
	}
	if req.Sets != nil {
		pe.Sets = *req.Sets
	}
	if req.DurationMinutes != nil {
		pe.DurationMinutes = req.DurationMinutes
	}
	if req.Distance != nil {
		pe.Distance = req.Distance
	}

	if err := handler.repo.Update(ctx, *pe, identity.UserID); err != nil {
		switch {
		case errors.Is(err, ErrPlanNotFound):
			pkg.WriteError(w, http.StatusNotFound, "workout plan not found")
		case errors.Is(err, ErrPlanExerciseNotFound):
			pkg.WriteError(w, http.StatusNotFound, "workout plan exercise not found")
		case errors.Is(err, ErrUnknownExercise):
			pkg.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{
				"exercise_id": "unknown exercise id",
			})
		default:
			log.Errorf("update plan exercise %d: %s", id, err)
			pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	peJson, err := json.Marshal(pe)
	if err != nil {
		log.Errorf("update plan exercise, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, peJson)
}

func (handler *PlanExerciseHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "planExercisesHandler.delete")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, http.StatusBadRequest, "invalid workout plan exercise id")
		return
	}

	if err := handler.repo.Delete(ctx, id, identity.UserID); err != nil {
		if errors.Is(err, ErrPlanExerciseNotFound) {
			pkg.WriteError(w, http.StatusNotFound, "workout plan exercise not found")
			return
		}
		log.Errorf("delete plan exercise %d: %s", id, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	log.Debugf("plan exercise deleted: %d, user %d", id, identity.UserID)

	pkg.WriteResponseBytes(w, "", nil, http.StatusNoContent)
}
