package exercises

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/telemetry/tracing"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=exercises_mocks_test.go -package=exercises_test

type exerciseRepo interface {
	Add(ctx context.Context, exercise Exercise) (*Exercise, error)
	List(ctx context.Context) ([]Exercise, error)
	Get(ctx context.Context, id int) (*Exercise, error)
	Update(ctx context.Context, exercise Exercise, replaceMuscles bool) error
	Delete(ctx context.Context, id int) error
}

type Handler struct {
	repo exerciseRepo
}

func NewHandler(repo exerciseRepo) *Handler {
	return &Handler{repo: repo}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("", handler.handleList).Methods("GET", "OPTIONS")
	router.HandleFunc("", handler.handleAdd).Methods("POST")
	router.HandleFunc("/{id}", handler.handleGet).Methods("GET", "OPTIONS")
	router.HandleFunc("/{id}", handler.handleUpdate).Methods("PATCH")
	router.HandleFunc("/{id}", handler.handleDelete).Methods("DELETE")
}

type exerciseRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Instructions  *string `json:"instructions"`
	TargetMuscles *[]int  `json:"target_muscles"`
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercisesHandler.list")
	defer span.End()

	exercisesList, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("list exercises: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if exercisesList == nil {
		exercisesList = []Exercise{}
	}

	listJson, err := json.Marshal(exercisesList)
	if err != nil {
		log.Errorf("list exercises, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, listJson)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercisesHandler.get")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, http.StatusBadRequest, "invalid exercise id")
		return
	}

	exercise, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			pkg.WriteError(w, http.StatusNotFound, "exercise not found")
			return
		}
		log.Errorf("get exercise %d: %s", id, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	exerciseJson, err := json.Marshal(exercise)
	if err != nil {
		log.Errorf("get exercise, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, exerciseJson)
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercisesHandler.add")
	defer span.End()

	var req exerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("add exercise, decode request: %s", err)
		pkg.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields := map[string]string{}
	if req.Name == nil || *req.Name == "" {
		fields["name"] = "this field is required"
	}
	if req.Description == nil || *req.Description == "" {
		fields["description"] = "this field is required"
	}
	if req.Instructions == nil || *req.Instructions == "" {
		fields["instructions"] = "this field is required"
	}
	if len(fields) > 0 {
		pkg.WriteFieldErrors(w, http.StatusBadRequest, fields)
		return
	}

	exercise := Exercise{
		Name:         *req.Name,
		Description:  *req.Description,
		Instructions: *req.Instructions,
	}
	if req.TargetMuscles != nil {
		exercise.TargetMuscles = *req.TargetMuscles
	}

	added, err := handler.repo.Add(ctx, exercise)
	if err != nil {
		if errors.Is(err, ErrUnknownMuscleGroup) {
			pkg.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{
				"target_muscles": "unknown muscle group id",
			})
			return
		}
		log.Errorf("add exercise [%s]: %s", exercise.Name, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	log.Debugf("new exercise added: %d [%s]", added.ID, added.Name)

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("add exercise, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercisesHandler.update")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, http.StatusBadRequest, "invalid exercise id")
		return
	}

	var req exerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update exercise, decode request: %s", err)
		pkg.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exercise, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			pkg.WriteError(w, http.StatusNotFound, "exercise not found")
			return
		}
		log.Errorf("update exercise, get %d: %s", id, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if req.Name != nil {
		exercise.Name = *req.Name
	}
	if req.Description != nil {
		exercise.Description = *req.Description
	}
	if req.Instructions != nil {
		exercise.Instructions = *req.Instructions
	}
	replaceMuscles := req.TargetMuscles != nil
	if replaceMuscles {
		exercise.TargetMuscles = *req.TargetMuscles
	}

	if err := handler.repo.Update(ctx, *exercise, replaceMuscles); err != nil {
		if errors.Is(err, ErrUnknownMuscleGroup) {
			pkg.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{
				"target_muscles": "unknown muscle group id",
			})
			return
		}
		log.Errorf("update exercise %d: %s", id, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	updated, err := handler.repo.Get(ctx, id)
	if err != nil {
		log.Errorf("update exercise, reload %d: %s", id, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	updatedJson, err := json.Marshal(updated)
	if err != nil {
		log.Errorf("update exercise, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, updatedJson)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercisesHandler.delete")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, http.StatusBadRequest, "invalid exercise id")
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			pkg.WriteError(w, http.StatusNotFound, "exercise not found")
			return
		}
		log.Errorf("delete exercise %d: %s", id, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	log.Debugf("exercise deleted: %d", id)

	pkg.WriteResponseBytes(w, "", nil, http.StatusNoContent)
}
