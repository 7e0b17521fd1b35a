package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/workbook-backend/internal/data/aggregates"
	"github.com/yungbote/workbook-backend/internal/data/repos"
	repotest "github.com/yungbote/workbook-backend/internal/data/repos/testutil"
	types "github.com/yungbote/workbook-backend/internal/domain"
	httpH "github.com/yungbote/workbook-backend/internal/http/handlers"
	httpMW "github.com/yungbote/workbook-backend/internal/http/middleware"
	"github.com/yungbote/workbook-backend/internal/services"
	"github.com/yungbote/workbook-backend/internal/session"
)

type apiEnv struct {
	ctx    context.Context
	db     *gorm.DB
	cat    repotest.Catalog
	lead   *types.User
	engine *gin.Engine
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := repotest.DB(t)
	ctx := context.Background()
	log := repotest.Logger(t)
	set := repos.NewSet(db, log)
	deps := aggregates.HierarchyDeps{Base: aggregates.BaseDeps{DB: db, Log: log}, Repos: set}

	codec, err := session.NewCookieCodec("router-test-signing-key", false)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	sessions := services.NewSessionService(log, set.Users, session.NewMemoryStore(time.Hour), codec, nil)
	hierarchy := services.NewHierarchyService(log, set)

	engine := NewRouter(RouterConfig{
		Log:               log,
		SessionMiddleware: httpMW.NewSessionMiddleware(log, sessions),
		SessionHandler:    httpH.NewSessionHandler(sessions),
		WorkbookHandler: httpH.NewWorkbookHandlerWithDeps(httpH.WorkbookHandlerDeps{
			Workbooks: aggregates.NewWorkbookAggregate(deps),
			Weeks:     aggregates.NewWeekAggregate(deps),
			Reads:     services.NewWorkbookService(log, set),
			Hierarchy: hierarchy,
		}),
		ActivityHandler: httpH.NewActivityHandler(aggregates.NewActivityAggregate(deps), hierarchy),
		CatalogHandler:  httpH.NewCatalogHandler(services.NewCatalogService(log, set)),
	})
	return &apiEnv{
		ctx:    ctx,
		db:     db,
		cat:    repotest.SeedCatalog(t, ctx, db),
		lead:   repotest.SeedUser(t, ctx, db, "lead"),
		engine: engine,
	}
}

// login returns the session cookie for name.
func (e *apiEnv) login(t *testing.T, name string) *stdhttp.Cookie {
	t.Helper()
	rec := e.do(t, nil, stdhttp.MethodPost, "/api/session/"+name, nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("login %s: %d %s", name, rec.Code, rec.Body)
	}
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName {
			return ck
		}
	}
	t.Fatalf("login %s: no session cookie", name)
	return nil
}

func (e *apiEnv) do(t *testing.T, cookie *stdhttp.Cookie, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestSessionRoutes(t *testing.T) {
	env := newAPIEnv(t)

	if rec := env.do(t, nil, stdhttp.MethodGet, "/api/workbook", nil); rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("no cookie: want 403, got %d", rec.Code)
	}
	if rec := env.do(t, nil, stdhttp.MethodPost, "/api/session/nobody", nil); rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("unknown user: want 404, got %d", rec.Code)
	}

	ck := env.login(t, "lead")
	rec := env.do(t, ck, stdhttp.MethodGet, "/api/session", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("whoami: %d %s", rec.Code, rec.Body)
	}
	if got := decode[map[string]string](t, rec)["user_id"]; got != env.lead.ID.String() {
		t.Fatalf("whoami user: %q", got)
	}
	if rec := env.do(t, ck, stdhttp.MethodDelete, "/api/session", nil); rec.Code != stdhttp.StatusOK {
		t.Fatalf("logout: %d %s", rec.Code, rec.Body)
	}
	if rec := env.do(t, ck, stdhttp.MethodGet, "/api/session", nil); rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("after logout: want 403, got %d", rec.Code)
	}
}

func TestWorkbookWeekActivityFlow(t *testing.T) {
	env := newAPIEnv(t)
	ck := env.login(t, "lead")

	rec := env.do(t, ck, stdhttp.MethodPost, "/api/workbook", map[string]any{
		"start_date":           "2025-02-24",
		"end_date":             "2025-05-30",
		"course_name":          "Optics",
		"learning_platform_id": env.cat.Platform.ID,
	})
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("create workbook: %d %s", rec.Code, rec.Body)
	}
	wb := decode[struct {
		Workbook types.Workbook `json:"workbook"`
	}](t, rec).Workbook
	if wb.CourseLeadID != env.lead.ID {
		t.Fatalf("lead should default to the session user: %+v", wb)
	}

	base := "/api/workbook/" + wb.ID.String()
	for i := 0; i < 3; i++ {
		if rec := env.do(t, ck, stdhttp.MethodPost, base+"/week", nil); rec.Code != stdhttp.StatusCreated {
			t.Fatalf("create week: %d %s", rec.Code, rec.Body)
		}
	}
	for _, name := range []string{"A", "B"} {
		rec := env.do(t, ck, stdhttp.MethodPost, "/api/activity", map[string]any{
			"workbook_id":           wb.ID,
			"week_number":           3,
			"name":                  name,
			"time_estimate_minutes": 30,
			"location_id":           env.cat.Location.ID,
			"learning_activity_id":  env.cat.LearningActivity.ID,
			"learning_type_id":      env.cat.LearningType.ID,
			"task_status_id":        env.cat.TaskStatus.ID,
		})
		if rec.Code != stdhttp.StatusCreated {
			t.Fatalf("create activity %s: %d %s", name, rec.Code, rec.Body)
		}
	}

	rec = env.do(t, ck, stdhttp.MethodDelete, base+"/week/1", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("delete week: %d %s", rec.Code, rec.Body)
	}

	rec = env.do(t, ck, stdhttp.MethodGet, "/api/activity?workbook_id="+wb.ID.String(), nil)
	acts := decode[struct {
		Activities []types.Activity `json:"activities"`
	}](t, rec).Activities
	if len(acts) != 2 {
		t.Fatalf("activities: %+v", acts)
	}
	for _, a := range acts {
		if a.WeekNumber != 2 {
			t.Fatalf("activities should follow their week down to 2: %+v", a)
		}
	}

	rec = env.do(t, ck, stdhttp.MethodGet, base, nil)
	got := decode[struct {
		Workbook types.Workbook `json:"workbook"`
	}](t, rec).Workbook
	if got.NumberOfWeeks != 2 {
		t.Fatalf("number_of_weeks: want=2 got=%d", got.NumberOfWeeks)
	}
}

func TestPeekDoesNotWrite(t *testing.T) {
	env := newAPIEnv(t)
	ck := env.login(t, "lead")
	wb := repotest.SeedWorkbook(t, env.ctx, env.db, env.lead.ID, env.cat, 2)
	base := "/api/workbook/" + wb.ID.String()

	rec := env.do(t, ck, stdhttp.MethodDelete, base+"/week/1?peek=true", nil)
	if rec.Code != stdhttp.StatusOK || rec.Header().Get("X-Dry-Run") != "true" {
		t.Fatalf("peek delete: %d %v %s", rec.Code, rec.Header(), rec.Body)
	}
	rec = env.do(t, ck, stdhttp.MethodPost, base+"/week?peek=true", nil)
	if rec.Code != stdhttp.StatusOK || rec.Header().Get("X-Dry-Run") != "true" {
		t.Fatalf("peek create: %d %s", rec.Code, rec.Body)
	}

	rec = env.do(t, ck, stdhttp.MethodGet, base, nil)
	got := decode[struct {
		Workbook types.Workbook `json:"workbook"`
	}](t, rec).Workbook
	if got.NumberOfWeeks != 2 {
		t.Fatalf("peek must not write: number_of_weeks=%d", got.NumberOfWeeks)
	}

	rec = env.do(t, ck, stdhttp.MethodGet, base+"?peek=true", nil)
	if rec.Code != stdhttp.StatusOK || rec.Body.String() != "null" {
		t.Fatalf("peek read: %d %q", rec.Code, rec.Body)
	}
}

func TestErrorStatuses(t *testing.T) {
	env := newAPIEnv(t)
	ck := env.login(t, "lead")
	outsider := repotest.SeedUser(t, env.ctx, env.db, "outsider")
	wb := repotest.SeedWorkbook(t, env.ctx, env.db, env.lead.ID, env.cat, 1)
	act := repotest.SeedActivity(t, env.ctx, env.db, wb.ID, 1, 1, "A", env.cat)
	other := env.login(t, outsider.Name)

	cases := []struct {
		name   string
		cookie *stdhttp.Cookie
		method string
		path   string
		body   any
		want   int
		code   string
	}{
		{"bad uuid", ck, stdhttp.MethodGet, "/api/workbook/nope", nil, stdhttp.StatusUnprocessableEntity, "validation"},
		{"missing workbook", ck, stdhttp.MethodGet, "/api/workbook/" + act.ID.String(), nil, stdhttp.StatusNotFound, "not_found"},
		{"move out of range", ck, stdhttp.MethodPatch, "/api/activity/" + act.ID.String(), map[string]any{"number": 5}, stdhttp.StatusUnprocessableEntity, "validation"},
		{"move between weeks", ck, stdhttp.MethodPatch, "/api/activity/" + act.ID.String(), map[string]any{"week_number": 2}, stdhttp.StatusUnprocessableEntity, "validation"},
		{"number_of_weeks read only", ck, stdhttp.MethodPatch, "/api/workbook/" + wb.ID.String(), map[string]any{"number_of_weeks": 9}, stdhttp.StatusUnprocessableEntity, "validation"},
		{"outsider edit", other, stdhttp.MethodPost, "/api/workbook/" + wb.ID.String() + "/week", nil, stdhttp.StatusForbidden, "permission_denied"},
		{"non-admin delete", ck, stdhttp.MethodDelete, "/api/workbook/" + wb.ID.String(), nil, stdhttp.StatusForbidden, "permission_denied"},
		{"bad search pattern", ck, stdhttp.MethodGet, "/api/workbook/search?name=(", nil, stdhttp.StatusUnprocessableEntity, "validation"},
		{"bad date", ck, stdhttp.MethodGet, "/api/workbook/search?starts_after=yesterday", nil, stdhttp.StatusUnprocessableEntity, "validation"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, tc.cookie, tc.method, tc.path, tc.body)
			if rec.Code != tc.want {
				t.Fatalf("status: want=%d got=%d %s", tc.want, rec.Code, rec.Body)
			}
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error.Code != tc.code {
				t.Fatalf("error code: want=%s body=%s", tc.code, rec.Body)
			}
		})
	}
}

func TestActivityPatchAcceptsCurrentPlacement(t *testing.T) {
	env := newAPIEnv(t)
	ck := env.login(t, "lead")
	wb := repotest.SeedWorkbook(t, env.ctx, env.db, env.lead.ID, env.cat, 2)
	act := repotest.SeedActivity(t, env.ctx, env.db, wb.ID, 2, 1, "A", env.cat)

	rec := env.do(t, ck, stdhttp.MethodPatch, "/api/activity/"+act.ID.String(), map[string]any{
		"workbook_id": wb.ID,
		"week_number": 2,
		"number":      1,
		"name":        "A2",
	})
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status: want=200 got=%d %s", rec.Code, rec.Body)
	}
	got := decode[struct {
		Activity types.Activity `json:"activity"`
	}](t, rec).Activity
	if got.Name != "A2" || got.WeekNumber != 2 || got.Number != 1 {
		t.Fatalf("unexpected activity: %+v", got)
	}
}

func TestCatalogRoutes(t *testing.T) {
	env := newAPIEnv(t)
	ck := env.login(t, "lead")

	rec := env.do(t, ck, stdhttp.MethodGet, "/api/school?area_id="+env.cat.Area.ID.String(), nil)
	schools := decode[struct {
		Schools []types.School `json:"schools"`
	}](t, rec).Schools
	if len(schools) != 1 || schools[0].ID != env.cat.School.ID {
		t.Fatalf("schools: %+v", schools)
	}
	rec = env.do(t, ck, stdhttp.MethodGet, "/api/location", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("locations: %d", rec.Code)
	}
}
