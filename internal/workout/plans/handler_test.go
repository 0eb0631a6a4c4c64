package plans

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/internal/auth"
	"github.com/vazhaberdzenishvili/personalized-workout-plan-api/pkg"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	userA = auth.Identity{UserID: 1, Email: "a@example.com"}
	userB = auth.Identity{UserID: 2, Email: "b@example.com"}
)

func intPtr(i int) *int { return &i }

type handlerTestSetup struct {
	planRepo *repoMock
	peRepo   *planExerciseRepoMock
	router   *mux.Router
}

func newHandlerTestSetup(initialPlans []WorkoutPlan, initialPlanExercises []WorkoutPlanExercise) *handlerTestSetup {
	planRepo := NewRepoMock(initialPlans...)
	peRepo := NewPlanExerciseRepoMock(planRepo, initialPlanExercises...)

	router := mux.NewRouter()
	NewHandler(planRepo).SetupRoutes(router.PathPrefix("/workout/workout_plan").Subrouter())
	NewPlanExerciseHandler(peRepo).SetupRoutes(router.PathPrefix("/workout/workout_plan_exercise").Subrouter())

	return &handlerTestSetup{
		planRepo: planRepo,
		peRepo:   peRepo,
		router:   router,
	}
}

func (s *handlerTestSetup) request(method, path, body string, identity auth.Identity) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(auth.ContextWithIdentity(req.Context(), identity))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestPlans_AddAndList_OwnerScoped(t *testing.T) {
	s := newHandlerTestSetup(nil, nil)

	body := `{"name":"Leg Day","frequency":3,"goal":"Stronger legs","duration_per_session_minutes":45}`
	rec := s.request("POST", "/workout/workout_plan", body, userA)
	require.Equal(t, http.StatusCreated, rec.Code)

	var added WorkoutPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
	assert.Equal(t, userA.UserID, added.UserID, "owner stamped from identity")
	require.NotNil(t, added.DurationPerSessionMinutes)
	assert.Equal(t, 45, *added.DurationPerSessionMinutes)

	// user A sees the plan
	rec = s.request("GET", "/workout/workout_plan", "", userA)
	require.Equal(t, http.StatusOK, rec.Code)
	var plansA []WorkoutPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plansA))
	require.Len(t, plansA, 1)
	assert.Equal(t, "Leg Day", plansA[0].Name)

	// user B does not
	rec = s.request("GET", "/workout/workout_plan", "", userB)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}

func TestPlans_Add_IgnoresClientSuppliedOwner(t *testing.T) {
	s := newHandlerTestSetup(nil, nil)

	body := `{"user_id":42,"name":"Leg Day","frequency":3,"goal":"g"}`
	rec := s.request("POST", "/workout/workout_plan", body, userA)
	require.Equal(t, http.StatusCreated, rec.Code)

	var added WorkoutPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
	assert.Equal(t, userA.UserID, added.UserID)
}

func TestPlans_Add_Validation(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		wantField string
	}{
		{"missing name", `{"frequency":3,"goal":"g"}`, "name"},
		{"missing frequency", `{"name":"p","goal":"g"}`, "frequency"},
		{"zero frequency", `{"name":"p","frequency":0,"goal":"g"}`, "frequency"},
		{"negative frequency", `{"name":"p","frequency":-2,"goal":"g"}`, "frequency"},
		{"missing goal", `{"name":"p","frequency":3}`, "goal"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newHandlerTestSetup(nil, nil)
			rec := s.request("POST", "/workout/workout_plan", tc.body, userA)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var errResp pkg.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.Contains(t, errResp.Fields, tc.wantField)
		})
	}
}

func TestPlans_ForeignPlanIsNotFound(t *testing.T) {
	s := newHandlerTestSetup([]WorkoutPlan{
		{ID: 10, UserID: userA.UserID, Name: "Leg Day", Frequency: 3, Goal: "g"},
	}, nil)

	rec := s.request("GET", "/workout/workout_plan/10", "", userB)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.request("PATCH", "/workout/workout_plan/10", `{"name":"Stolen"}`, userB)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.request("DELETE", "/workout/workout_plan/10", "", userB)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// untouched for the owner
	rec = s.request("GET", "/workout/workout_plan/10", "", userA)
	require.Equal(t, http.StatusOK, rec.Code)
	var plan WorkoutPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, "Leg Day", plan.Name)
}

func TestPlans_Update(t *testing.T) {
	s := newHandlerTestSetup([]WorkoutPlan{
		{ID: 10, UserID: userA.UserID, Name: "Leg Day", Frequency: 3, Goal: "g"},
	}, nil)

	rec := s.request("PATCH", "/workout/workout_plan/10", `{"frequency":5}`, userA)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated WorkoutPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 5, updated.Frequency)
	assert.Equal(t, "Leg Day", updated.Name)

	rec = s.request("PATCH", "/workout/workout_plan/10", `{"frequency":0}`, userA)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanExercises_Add_Defaults(t *testing.T) {
	s := newHandlerTestSetup([]WorkoutPlan{
		{ID: 10, UserID: userA.UserID, Name: "Leg Day", Frequency: 3, Goal: "g"},
	}, nil)

	rec := s.request("POST", "/workout/workout_plan_exercise",
		`{"workout_plan_id":10,"exercise_id":7}`, userA)
	require.Equal(t, http.StatusCreated, rec.Code)

	var added WorkoutPlanExercise
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
	assert.Equal(t, 1, added.Repetitions)
	assert.Equal(t, 1, added.Sets)
	assert.Nil(t, added.DurationMinutes)
	assert.Nil(t, added.Distance)
}

func TestPlanExercises_Add_ForeignPlanIsNotFound(t *testing.T) {
	s := newHandlerTestSetup([]WorkoutPlan{
		{ID: 10, UserID: userA.UserID, Name: "Leg Day", Frequency: 3, Goal: "g"},
	}, nil)

	rec := s.request("POST", "/workout/workout_plan_exercise",
		`{"workout_plan_id":10,"exercise_id":7}`, userB)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlanExercises_Add_Validation(t *testing.T) {
	s := newHandlerTestSetup([]WorkoutPlan{
		{ID: 10, UserID: userA.UserID, Name: "Leg Day", Frequency: 3, Goal: "g"},
	}, nil)

	rec := s.request("POST", "/workout/workout_plan_exercise",
		`{"workout_plan_id":10,"exercise_id":7,"repetitions":0,"sets":-1}`, userA)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp pkg.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Contains(t, errResp.Fields, "repetitions")
	assert.Contains(t, errResp.Fields, "sets")

	rec = s.request("POST", "/workout/workout_plan_exercise", `{}`, userA)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Contains(t, errResp.Fields, "workout_plan_id")
	assert.Contains(t, errResp.Fields, "exercise_id")
}

func TestPlanExercises_OwnerScopedThroughPlan(t *testing.T) {
	s := newHandlerTestSetup(
		[]WorkoutPlan{
			{ID: 10, UserID: userA.UserID, Name: "Leg Day", Frequency: 3, Goal: "g"},
			{ID: 20, UserID: userB.UserID, Name: "Arm Day", Frequency: 2, Goal: "g"},
		},
		[]WorkoutPlanExercise{
			{ID: 100, WorkoutPlanID: 10, ExerciseID: 7, Repetitions: 10, Sets: 3},
			{ID: 200, WorkoutPlanID: 20, ExerciseID: 8, Repetitions: 12, Sets: 4},
		},
	)

	rec := s.request("GET", "/workout/workout_plan_exercise", "", userA)
	require.Equal(t, http.StatusOK, rec.Code)
	var listA []WorkoutPlanExercise
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listA))
	require.Len(t, listA, 1)
	assert.Equal(t, 100, listA[0].ID)

	rec = s.request("GET", "/workout/workout_plan_exercise/200", "", userA)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.request("DELETE", "/workout/workout_plan_exercise/200", "", userA)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlanExercises_Update_MoveToForeignPlanIsNotFound(t *testing.T) {
	s := newHandlerTestSetup(
		[]WorkoutPlan{
			{ID: 10, UserID: userA.UserID, Name: "Leg Day", Frequency: 3, Goal: "g"},
			{ID: 20, UserID: userB.UserID, Name: "Arm Day", Frequency: 2, Goal: "g"},
		},
		[]WorkoutPlanExercise{
			{ID: 100, WorkoutPlanID: 10, ExerciseID: 7, Repetitions: 10, Sets: 3},
		},
	)

	rec := s.request("PATCH", "/workout/workout_plan_exercise/100",
		`{"workout_plan_id":20}`, userA)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.request("PATCH", "/workout/workout_plan_exercise/100",
		`{"repetitions":8,"duration_minutes":30}`, userA)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated WorkoutPlanExercise
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 8, updated.Repetitions)
	require.NotNil(t, updated.DurationMinutes)
	assert.Equal(t, 30, *updated.DurationMinutes)
}

func TestPlans_Delete(t *testing.T) {
	s := newHandlerTestSetup([]WorkoutPlan{
		{ID: 10, UserID: userA.UserID, Name: "Leg Day", Frequency: 3, Goal: "g", DurationPerSessionMinutes: intPtr(60)},
	}, nil)

	rec := s.request("DELETE", "/workout/workout_plan/10", "", userA)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.request("GET", "/workout/workout_plan/10", "", userA)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
