package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"peerprep/interview/internal/auth"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"
	"peerprep/interview/internal/services"
	"peerprep/interview/internal/testhelpers"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type testEnv struct {
	db         *gorm.DB
	questions  *QuestionHandler
	categories *CategoryHandler
	reactions  *ReactionHandler
	admin      *AdminHandler
	interviews *MockInterviewHandler
	auth       *AuthHandler
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	deps := services.Deps{Store: repositories.NewStore(db)}
	users := services.NewUserAdminService(deps)
	return &testEnv{
		db:         db,
		questions:  NewQuestionHandler(services.NewQuestionService(deps)),
		categories: NewCategoryHandler(services.NewCategoryService(deps)),
		reactions:  NewReactionHandler(services.NewReactionService(deps)),
		admin:      NewAdminHandler(users, services.NewModerationService(deps)),
		interviews: NewMockInterviewHandler(services.NewMockInterviewService(deps, nil, 10, nil)),
		auth:       NewAuthHandler(services.NewAuthService(deps, "test-secret", 0), users),
	}
}

func (e *testEnv) user(t *testing.T, name string, role models.Role) *auth.Principal {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", PasswordHash: "x", Role: role, Status: models.UserActive}
	if err := e.db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &auth.Principal{UserID: u.ID, Username: name, Role: role, Status: models.UserActive}
}

func (e *testEnv) publishedQuestion(t *testing.T, title string, authorID uint) (*models.Question, *models.Category) {
	t.Helper()
	c := &models.Category{Name: title + "-cat", Slug: title + "-cat", QuestionCount: 1}
	if err := e.db.Create(c).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	q := &models.Question{Title: title, Difficulty: models.Easy, CategoryID: c.ID, AuthorID: authorID, Status: models.StatusPublished}
	if err := e.db.Create(q).Error; err != nil {
		t.Fatalf("seed question: %v", err)
	}
	return q, c
}

// call runs h with the given principal and chi URL params.
func call(h http.HandlerFunc, method, target, body string, p *auth.Principal, params map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if p != nil {
		ctx = auth.WithPrincipal(ctx, p)
	}
	rec := httptest.NewRecorder()
	h(rec, req.WithContext(ctx))
	return rec
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope %q: %v", rec.Body.String(), err)
	}
	return env
}

func expect(t *testing.T, rec *httptest.ResponseRecorder, status, code int) envelope {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	env := decode(t, rec)
	if env.Code != code {
		t.Fatalf("expected code %d, got %d (%s)", code, env.Code, env.Message)
	}
	return env
}

func id(v uint) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestQuestionHandlers(t *testing.T) {
	e := newEnv(t)
	alice := e.user(t, "alice", models.RoleUser)
	q, _ := e.publishedQuestion(t, "goroutines", alice.UserID)

	t.Run("list is public", func(t *testing.T) {
		rec := call(e.questions.ListQuestionsHandler, http.MethodGet, "/api/v1/questions?keyword=gorou&difficulty=all", "", nil, nil)
		env := expect(t, rec, http.StatusOK, 200)
		var page models.Page[models.Question]
		if err := json.Unmarshal(env.Data, &page); err != nil || page.Total != 1 {
			t.Fatalf("unexpected page %s (%v)", env.Data, err)
		}
	})

	t.Run("list rejects bad query", func(t *testing.T) {
		rec := call(e.questions.ListQuestionsHandler, http.MethodGet, "/api/v1/questions?difficulty=extreme", "", nil, nil)
		expect(t, rec, http.StatusBadRequest, 400)
		rec = call(e.questions.ListQuestionsHandler, http.MethodGet, "/api/v1/questions?page=x", "", nil, nil)
		expect(t, rec, http.StatusBadRequest, 400)
	})

	t.Run("status filter needs admin", func(t *testing.T) {
		rec := call(e.questions.ListQuestionsHandler, http.MethodGet, "/api/v1/questions?status=0", "", alice, nil)
		expect(t, rec, http.StatusForbidden, 3001)
	})

	t.Run("get counts a view", func(t *testing.T) {
		rec := call(e.questions.GetQuestionHandler, http.MethodGet, "/", "", nil, map[string]string{"id": id(q.ID)})
		env := expect(t, rec, http.StatusOK, 200)
		var got models.Question
		if err := json.Unmarshal(env.Data, &got); err != nil || got.ViewCount != 1 {
			t.Fatalf("expected one view, got %s", env.Data)
		}
	})

	t.Run("get bad id", func(t *testing.T) {
		rec := call(e.questions.GetQuestionHandler, http.MethodGet, "/", "", nil, map[string]string{"id": "abc"})
		expect(t, rec, http.StatusBadRequest, 400)
		rec = call(e.questions.GetQuestionHandler, http.MethodGet, "/", "", nil, map[string]string{"id": "999"})
		expect(t, rec, http.StatusNotFound, 2001)
	})

	t.Run("create requires login", func(t *testing.T) {
		rec := call(e.questions.CreateQuestionHandler, http.MethodPost, "/", `{"title":"t","difficulty":"EASY","categoryName":"Go"}`, nil, nil)
		expect(t, rec, http.StatusUnauthorized, 401)
	})

	t.Run("create pending", func(t *testing.T) {
		rec := call(e.questions.CreateQuestionHandler, http.MethodPost, "/", `{"title":"Channels","difficulty":"MEDIUM","categoryName":"Go"}`, alice, nil)
		env := expect(t, rec, http.StatusCreated, 200)
		var got models.Question
		if err := json.Unmarshal(env.Data, &got); err != nil || got.Status != models.StatusPending {
			t.Fatalf("expected pending question, got %s", env.Data)
		}
	})

	t.Run("create invalid payload", func(t *testing.T) {
		rec := call(e.questions.CreateQuestionHandler, http.MethodPost, "/", `{invalid`, alice, nil)
		expect(t, rec, http.StatusBadRequest, 400)
		rec = call(e.questions.CreateQuestionHandler, http.MethodPost, "/", "", alice, nil)
		expect(t, rec, http.StatusBadRequest, 400)
	})

	t.Run("update by stranger", func(t *testing.T) {
		bob := e.user(t, "bob", models.RoleUser)
		rec := call(e.questions.UpdateQuestionHandler, http.MethodPut, "/", `{"title":"mine"}`, bob, map[string]string{"id": id(q.ID)})
		expect(t, rec, http.StatusForbidden, 3001)
	})

	t.Run("update and delete by author", func(t *testing.T) {
		rec := call(e.questions.UpdateQuestionHandler, http.MethodPut, "/", `{"tags":"go"}`, alice, map[string]string{"id": id(q.ID)})
		expect(t, rec, http.StatusOK, 200)
		rec = call(e.questions.DeleteQuestionHandler, http.MethodDelete, "/", "", alice, map[string]string{"id": id(q.ID)})
		expect(t, rec, http.StatusOK, 200)
		rec = call(e.questions.GetQuestionHandler, http.MethodGet, "/", "", nil, map[string]string{"id": id(q.ID)})
		expect(t, rec, http.StatusNotFound, 2001)
	})

	t.Run("hot", func(t *testing.T) {
		rec := call(e.questions.HotQuestionsHandler, http.MethodGet, "/?limit=5", "", nil, nil)
		expect(t, rec, http.StatusOK, 200)
		rec = call(e.questions.HotQuestionsHandler, http.MethodGet, "/?limit=many", "", nil, nil)
		expect(t, rec, http.StatusBadRequest, 400)
	})
}

func TestCategoryHandlers(t *testing.T) {
	e := newEnv(t)
	admin := e.user(t, "admin", models.RoleAdmin)
	user := e.user(t, "user", models.RoleUser)

	rec := call(e.categories.CreateCategoryHandler, http.MethodPost, "/", `{"name":"Go"}`, user, nil)
	expect(t, rec, http.StatusForbidden, 3001)

	rec = call(e.categories.CreateCategoryHandler, http.MethodPost, "/", `{"name":"Go"}`, admin, nil)
	env := expect(t, rec, http.StatusCreated, 200)
	var cat models.Category
	if err := json.Unmarshal(env.Data, &cat); err != nil {
		t.Fatalf("decode category: %v", err)
	}

	rec = call(e.categories.CreateCategoryHandler, http.MethodPost, "/", `{"name":"go"}`, admin, nil)
	expect(t, rec, http.StatusConflict, 2007)

	rec = call(e.categories.RenameCategoryHandler, http.MethodPut, "/", `{"name":"Golang"}`, admin, map[string]string{"id": id(cat.ID)})
	expect(t, rec, http.StatusOK, 200)

	rec = call(e.categories.GetCategoryHandler, http.MethodGet, "/", "", nil, map[string]string{"id": id(cat.ID)})
	expect(t, rec, http.StatusOK, 200)

	rec = call(e.categories.ListCategoriesHandler, http.MethodGet, "/", "", nil, nil)
	env = expect(t, rec, http.StatusOK, 200)
	if string(env.Data) != "[]" {
		t.Fatalf("empty categories should be hidden, got %s", env.Data)
	}

	rec = call(e.categories.DeleteCategoryHandler, http.MethodDelete, "/", "", admin, map[string]string{"id": id(cat.ID)})
	expect(t, rec, http.StatusOK, 200)
	rec = call(e.categories.DeleteCategoryHandler, http.MethodDelete, "/", "", admin, map[string]string{"id": id(cat.ID)})
	expect(t, rec, http.StatusNotFound, 2002)
}

func TestReactionHandlers(t *testing.T) {
	e := newEnv(t)
	alice := e.user(t, "alice", models.RoleUser)
	q, _ := e.publishedQuestion(t, "q", alice.UserID)
	params := map[string]string{"questionId": id(q.ID)}

	expect(t, call(e.reactions.LikeHandler, http.MethodPost, "/", "", alice, params), http.StatusOK, 200)
	expect(t, call(e.reactions.LikeHandler, http.MethodPost, "/", "", alice, params), http.StatusConflict, 2003)
	env := expect(t, call(e.reactions.LikeStatusHandler, http.MethodGet, "/", "", alice, params), http.StatusOK, 200)
	var st services.ReactionState
	if err := json.Unmarshal(env.Data, &st); err != nil || !st.Active || st.Count != 1 {
		t.Fatalf("unexpected like state %s", env.Data)
	}
	expect(t, call(e.reactions.UnlikeHandler, http.MethodDelete, "/", "", alice, params), http.StatusOK, 200)
	expect(t, call(e.reactions.UnlikeHandler, http.MethodDelete, "/", "", alice, params), http.StatusConflict, 2004)

	expect(t, call(e.reactions.CollectHandler, http.MethodPost, "/", "", alice, params), http.StatusOK, 200)
	expect(t, call(e.reactions.CollectHandler, http.MethodPost, "/", "", alice, params), http.StatusConflict, 2005)
	expect(t, call(e.reactions.CollectStatusHandler, http.MethodGet, "/", "", alice, params), http.StatusOK, 200)
	expect(t, call(e.reactions.UncollectHandler, http.MethodDelete, "/", "", alice, params), http.StatusOK, 200)
	expect(t, call(e.reactions.UncollectHandler, http.MethodDelete, "/", "", alice, params), http.StatusConflict, 2006)

	expect(t, call(e.reactions.LikeHandler, http.MethodPost, "/", "", nil, params), http.StatusUnauthorized, 401)
	expect(t, call(e.reactions.LikeHandler, http.MethodPost, "/", "", alice, map[string]string{"questionId": "0"}), http.StatusBadRequest, 400)
}

func TestAdminHandlers(t *testing.T) {
	e := newEnv(t)
	admin := e.user(t, "admin", models.RoleAdmin)
	root := e.user(t, "root", models.RoleSuperAdmin)
	user := e.user(t, "user", models.RoleUser)
	q, cat := e.publishedQuestion(t, "q", user.UserID)

	t.Run("review", func(t *testing.T) {
		body := `{"questionIds":[` + id(q.ID) + `],"status":2}`
		env := expect(t, call(e.admin.ReviewQuestionsHandler, http.MethodPut, "/", body, admin, nil), http.StatusOK, 200)
		var res services.ReviewResult
		if err := json.Unmarshal(env.Data, &res); err != nil || res.CategoryDeltas[cat.ID] != -1 {
			t.Fatalf("unexpected review result %s", env.Data)
		}
		expect(t, call(e.admin.ReviewQuestionsHandler, http.MethodPut, "/", `{"questionIds":[1]}`, admin, nil), http.StatusBadRequest, 400)
		expect(t, call(e.admin.ReviewQuestionsHandler, http.MethodPut, "/", `{"questionIds":[999],"status":1}`, admin, nil), http.StatusNotFound, 2001)
		expect(t, call(e.admin.ReviewQuestionsHandler, http.MethodPut, "/", body, user, nil), http.StatusForbidden, 3001)
	})

	t.Run("listings", func(t *testing.T) {
		expect(t, call(e.admin.ListForReviewHandler, http.MethodGet, "/?status=2", "", admin, nil), http.StatusOK, 200)
		expect(t, call(e.admin.ListForReviewHandler, http.MethodGet, "/?status=7", "", admin, nil), http.StatusBadRequest, 400)
		expect(t, call(e.admin.ListPendingHandler, http.MethodGet, "/", "", admin, nil), http.StatusOK, 200)
		expect(t, call(e.admin.ListUsersHandler, http.MethodGet, "/?role=USER", "", admin, nil), http.StatusOK, 200)
		env := expect(t, call(e.admin.ModerationHistoryHandler, http.MethodGet, "/", "", admin, map[string]string{"id": id(q.ID)}), http.StatusOK, 200)
		var events []models.ModerationEvent
		if err := json.Unmarshal(env.Data, &events); err != nil || len(events) != 1 {
			t.Fatalf("expected one audit row, got %s", env.Data)
		}
	})

	t.Run("ban", func(t *testing.T) {
		params := map[string]string{"userId": id(user.UserID)}
		expect(t, call(e.admin.SetUserStatusHandler, http.MethodPut, "/", `{"status":"BANNED"}`, admin, params), http.StatusOK, 200)
		expect(t, call(e.admin.SetUserStatusHandler, http.MethodPut, "/", `{"status":"BANNED"}`, admin, map[string]string{"userId": id(root.UserID)}), http.StatusForbidden, 3001)
	})

	t.Run("super admin", func(t *testing.T) {
		self := map[string]string{"userId": id(root.UserID)}
		expect(t, call(e.admin.UpdateUserHandler, http.MethodPut, "/", `{"role":"USER"}`, root, self), http.StatusForbidden, 3001)
		expect(t, call(e.admin.UpdateUserHandler, http.MethodPut, "/", `{"phone":"1"}`, root, self), http.StatusOK, 200)
		expect(t, call(e.admin.ResetPasswordHandler, http.MethodPut, "/", `{"password":"short"}`, root, map[string]string{"userId": id(user.UserID)}), http.StatusBadRequest, 400)

		env := expect(t, call(e.admin.BatchDeleteUsersHandler, http.MethodDelete, "/", `{"userIds":[`+id(root.UserID)+`,`+id(user.UserID)+`]}`, root, nil), http.StatusOK, 200)
		var results []services.BatchItemResult
		if err := json.Unmarshal(env.Data, &results); err != nil || len(results) != 2 || results[0].OK || !results[1].OK {
			t.Fatalf("unexpected batch results %s", env.Data)
		}
		expect(t, call(e.admin.DeleteUserHandler, http.MethodDelete, "/", "", root, map[string]string{"userId": id(admin.UserID)}), http.StatusOK, 200)
		expect(t, call(e.admin.DeleteUserHandler, http.MethodDelete, "/", "", admin, map[string]string{"userId": id(root.UserID)}), http.StatusForbidden, 3001)
	})
}

func TestMockInterviewHandlers(t *testing.T) {
	e := newEnv(t)
	alice := e.user(t, "alice", models.RoleUser)
	bob := e.user(t, "bob", models.RoleUser)
	e.publishedQuestion(t, "a", alice.UserID)
	e.publishedQuestion(t, "b", alice.UserID)

	expect(t, call(e.interviews.CreateHandler, http.MethodPost, "/", `{"questionCount":3}`, alice, nil), http.StatusUnprocessableEntity, 4003)
	expect(t, call(e.interviews.CreateHandler, http.MethodPost, "/", `{"questionCount":0}`, alice, nil), http.StatusBadRequest, 400)

	env := expect(t, call(e.interviews.CreateHandler, http.MethodPost, "/", `{"questionCount":2,"difficulty":"ALL"}`, alice, nil), http.StatusCreated, 200)
	var session models.MockInterview
	if err := json.Unmarshal(env.Data, &session); err != nil || len(session.Items) != 2 {
		t.Fatalf("unexpected session %s", env.Data)
	}
	params := map[string]string{"id": id(session.ID)}

	expect(t, call(e.interviews.GetHandler, http.MethodGet, "/", "", bob, params), http.StatusNotFound, 4001)
	expect(t, call(e.interviews.QuestionsHandler, http.MethodGet, "/", "", alice, params), http.StatusOK, 200)

	body := `{"answers":[{"itemId":` + id(session.Items[0].ID) + `,"userAnswer":"x","answerTime":1500}]}`
	env = expect(t, call(e.interviews.SubmitHandler, http.MethodPost, "/", body, alice, params), http.StatusOK, 200)
	if err := json.Unmarshal(env.Data, &session); err != nil || session.Score != 50 || session.DurationMs != 1500 {
		t.Fatalf("unexpected result %s", env.Data)
	}
	expect(t, call(e.interviews.SubmitHandler, http.MethodPost, "/", body, alice, params), http.StatusConflict, 4002)

	expect(t, call(e.interviews.GetHandler, http.MethodGet, "/", "", alice, params), http.StatusOK, 200)
	expect(t, call(e.interviews.HistoryHandler, http.MethodGet, "/?page=1&size=5", "", alice, nil), http.StatusOK, 200)
	expect(t, call(e.interviews.HistoryHandler, http.MethodGet, "/", "", nil, nil), http.StatusUnauthorized, 401)
}

func TestAuthHandlers(t *testing.T) {
	e := newEnv(t)

	expect(t, call(e.auth.RegisterHandler, http.MethodPost, "/", `{"username":"carol","email":"carol@example.com","password":"s3cret-pass!"}`, nil, nil), http.StatusCreated, 200)
	expect(t, call(e.auth.RegisterHandler, http.MethodPost, "/", `{"username":"carol","email":"c2@example.com","password":"s3cret-pass!"}`, nil, nil), http.StatusConflict, 1002)

	env := expect(t, call(e.auth.LoginHandler, http.MethodPost, "/", `{"username":"carol","password":"s3cret-pass!"}`, nil, nil), http.StatusOK, 200)
	var res struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &res); err != nil || res.Token == "" {
		t.Fatalf("expected token, got %s", env.Data)
	}
	if bytes.Contains(env.Data, []byte("password")) {
		t.Fatalf("login response leaks password data: %s", env.Data)
	}
	expect(t, call(e.auth.LoginHandler, http.MethodPost, "/", `{"username":"carol","password":"nope"}`, nil, nil), http.StatusUnauthorized, 1003)
	expect(t, call(e.auth.LoginHandler, http.MethodPost, "/", `{"username":"nobody","password":"nope"}`, nil, nil), http.StatusNotFound, 1001)

	p := &auth.Principal{UserID: res.User.ID, Username: "carol", Role: models.RoleUser, Status: models.UserActive}
	expect(t, call(e.auth.MeHandler, http.MethodGet, "/", "", p, nil), http.StatusOK, 200)
	expect(t, call(e.auth.MeHandler, http.MethodGet, "/", "", nil, nil), http.StatusUnauthorized, 401)
}

type pingFunc func(context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthHandlers(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("down") })

	rec := httptest.NewRecorder()
	NewHealthHandler(ok, nil).HealthzHandler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	cases := []struct {
		name   string
		h      *HealthHandler
		status int
	}{
		{"ready", NewHealthHandler(ok, ok), http.StatusOK},
		{"database down", NewHealthHandler(down, nil), http.StatusServiceUnavailable},
		{"events down", NewHealthHandler(ok, down), http.StatusServiceUnavailable},
		{"no database", NewHealthHandler(nil, nil), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.h.ReadyzHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			var resp ReadinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
		})
	}
}
