package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/BenjaminKobjolke/beaverprime/internal/ctxkeys"
	"github.com/BenjaminKobjolke/beaverprime/internal/db"
	"github.com/BenjaminKobjolke/beaverprime/internal/i18n"
	"github.com/BenjaminKobjolke/beaverprime/internal/model"
	"github.com/BenjaminKobjolke/beaverprime/internal/repository"
	"github.com/BenjaminKobjolke/beaverprime/internal/service"
)

type handlerFixture struct {
	db         *sqlx.DB
	translator *i18n.Translator
	user       *model.User
	habit      *model.Habit
	completion *CompletionHandler
}

func setupCompletionHandler(t *testing.T) *handlerFixture {
	t.Helper()

	database, err := sqlx.Connect("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	database.SetMaxOpenConns(1)

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	translator, err := i18n.New("en")
	require.NoError(t, err)

	now := time.Now()
	user := &model.User{ID: uuid.New().String(), Email: "person@example.com", CreatedAt: now}
	require.NoError(t, repository.NewUserRepository(database).Create(user))

	habit := &model.Habit{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		Name:       "Morning run",
		WeeklyGoal: 3,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, repository.NewHabitRepository(database).Create(habit))

	completionSvc := service.NewCompletionService(
		repository.NewHabitRepository(database),
		repository.NewRecordRepository(database),
	)

	return &handlerFixture{
		db:         database,
		translator: translator,
		user:       user,
		habit:      habit,
		completion: NewCompletionHandler(completionSvc, translator),
	}
}

func (f *handlerFixture) request(t *testing.T, method, target, body string) *http.Request {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := ctxkeys.WithUser(req.Context(), f.user)
	ctx = ctxkeys.WithLocale(ctx, "en")
	return req.WithContext(ctx)
}

func TestToggleEndpoint(t *testing.T) {
	f := setupCompletionHandler(t)

	req := f.request(t, http.MethodPost, "/api/v1/habits/"+f.habit.ID+"/completions?date=2026-03-02", "")
	req.SetPathValue("id", f.habit.ID)

	rec := httptest.NewRecorder()
	f.completion.Toggle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		HabitID string `json:"habit_id"`
		Date    string `json:"date"`
		State   string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, f.habit.ID, resp.HabitID)
	assert.Equal(t, "2026-03-02", resp.Date)
	assert.Equal(t, "checked", resp.State)
}

func TestToggleEndpointBadDate(t *testing.T) {
	f := setupCompletionHandler(t)

	req := f.request(t, http.MethodPost, "/api/v1/habits/"+f.habit.ID+"/completions?date=banana", "")
	req.SetPathValue("id", f.habit.ID)

	rec := httptest.NewRecorder()
	f.completion.Toggle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_date", resp.Code)
}

// The batch wire format encodes checked as true, unset as false and
// skipped as null.
func TestBatchEndpointWireFormat(t *testing.T) {
	f := setupCompletionHandler(t)

	toggle := func(dates ...string) *httptest.ResponseRecorder {
		payload, err := json.Marshal(map[string]any{
			"habit_id": f.habit.ID,
			"dates":    dates,
		})
		require.NoError(t, err)

		req := f.request(t, http.MethodPost, "/api/v1/habits/batch-completions", string(payload))
		rec := httptest.NewRecorder()
		f.completion.Batch(rec, req)
		return rec
	}

	// First pass: both days become checked
	rec := toggle("2026-03-02", "2026-03-03")
	require.Equal(t, http.StatusOK, rec.Code)

	// Second pass on one day: checked -> skipped (null on the wire)
	rec = toggle("2026-03-03")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Updated []struct {
			Date  string `json:"date"`
			Done  *bool  `json:"done"`
			Error string `json:"error"`
		} `json:"updated"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Updated, 1)
	assert.Nil(t, resp.Updated[0].Done, "skipped serializes as null")

	// Third pass: skipped -> unset (false on the wire)
	rec = toggle("2026-03-03")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Updated, 1)
	require.NotNil(t, resp.Updated[0].Done)
	assert.False(t, *resp.Updated[0].Done, "unset serializes as false")

	// Bad dates report per-entry errors
	rec = toggle("not-a-date")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Updated, 1)
	assert.NotEmpty(t, resp.Updated[0].Error)
}
