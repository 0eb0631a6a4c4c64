package musclegroups

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

type muscleGroupRepo interface {
	Add(ctx context.Context, mg MuscleGroup) (*MuscleGroup, error)
	List(ctx context.Context) ([]MuscleGroup, error)
	Get(ctx context.Context, id int) (*MuscleGroup, error)
	Update(ctx context.Context, mg MuscleGroup) error
	Delete(ctx context.Context, id int) error
}

type Handler struct {
	repo muscleGroupRepo
}

func NewHandler(repo muscleGroupRepo) *Handler {
	return &Handler{repo: repo}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("", handler.handleList).Methods("GET", "OPTIONS")
	router.HandleFunc("", handler.handleAdd).Methods("POST")
	router.HandleFunc("/{id}", handler.handleGet).Methods("GET", "OPTIONS")
	router.HandleFunc("/{id}", handler.handleUpdate).Methods("PATCH")
	router.HandleFunc("/{id}", handler.handleDelete).Methods("DELETE")
}

type muscleGroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "muscleGroupsHandler.list")
	defer span.End()

	groups, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("list muscle groups: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if groups == nil {
		groups = []MuscleGroup{}
	}

	groupsJson, err := json.Marshal(groups)
	if err != nil {
		log.Errorf("list muscle groups, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, groupsJson)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "muscleGroupsHandler.get")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, http.StatusBadRequest, "invalid muscle group id")
		return
	}

	mg, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrMuscleGroupNotFound) {
			pkg.WriteError(w, http.StatusNotFound, "muscle group not found")
			return
		}
		log.Errorf("get muscle group %d: %s", id, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	mgJson, err := json.Marshal(mg)
	if err != nil {
		log.Errorf("get muscle group, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, mgJson)
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "muscleGroupsHandler.add")
	defer span.End()

	var req muscleGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("add muscle group, decode request: %s", err)
		pkg.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == nil || *req.Name == "" {
		pkg.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{
			"name": "this field is required",
		})
		return
	}

	mg := MuscleGroup{Name: *req.Name}
	if req.Description != nil {
		mg.Description = *req.Description
	}

	added, err := handler.repo.Add(ctx, mg)
	if err != nil {
		log.Errorf("add muscle group [%s]: %s", mg.Name, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	log.Debugf("new muscle group added: %d [%s]", added.ID, added.Name)

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("add muscle group, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "muscleGroupsHandler.update")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, http.StatusBadRequest, "invalid muscle group id")
		return
	}

	var req muscleGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update muscle group, decode request: %s", err)
		pkg.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name != nil && *req.Name == "" {
		pkg.WriteFieldErrors(w, http.StatusBadRequest, map[string]string{
			"name": "this field may not be blank",
		})
		return
	}

	mg, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrMuscleGroupNotFound) {
			pkg.WriteError(w, http.StatusNotFound, "muscle group not found")
			return
		}
		log.Errorf("update muscle group, get %d: %s", id, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if req.Name != nil {
		mg.Name = *req.Name
	}
	if req.Description != nil {
		mg.Description = *req.Description
	}

	if err := handler.repo.Update(ctx, *mg); err != nil {
		log.Errorf("update muscle group %d: %s", id, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	mgJson, err := json.Marshal(mg)
	if err != nil {
		log.Errorf("update muscle group, marshal response: %s", err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, mgJson)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "muscleGroupsHandler.delete")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, http.StatusBadRequest, "invalid muscle group id")
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrMuscleGroupNotFound) {
			pkg.WriteError(w, http.StatusNotFound, "muscle group not found")
			return
		}
		log.Errorf("delete muscle group %d: %s", id, err)
		pkg.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	log.Debugf("muscle group deleted: %d", id)

	pkg.WriteResponseBytes(w, "", nil, http.StatusNoContent)
}
