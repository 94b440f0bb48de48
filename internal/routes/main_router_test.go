package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"repair-desk/internal/backend/memory"
	"repair-desk/internal/entities"
	"repair-desk/internal/repositories"
	"repair-desk/pkg/config"
	"repair-desk/pkg/eventbus"
	"repair-desk/pkg/service"
	"repair-desk/pkg/validation"
	"repair-desk/pkg/websocket"
)

const (
	adminPrincipal    = "admin-principal"
	customerPrincipal = "customer-principal"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Body    json.RawMessage `json:"body"`
}

// RouterTestSuite drives the HTTP surface against the in-process backend.
type RouterTestSuite struct {
	suite.Suite
	Echo          *echo.Echo
	Bus           *eventbus.Bus
	AdminToken    string
	CustomerToken string
}

func (s *RouterTestSuite) SetupTest() {
	nopLogger := zap.NewNop()
	cfg := &config.Config{
		Backend: config.BackendConfig{Mode: config.BackendModeMemory, RequestTimeout: 5 * time.Second},
		Cache: config.CacheConfig{
			TTL:       time.Minute,
			LookupTTL: time.Minute,
			RoleTTL:   time.Minute,
			ReadyWait: 100 * time.Millisecond,
		},
	}

	actor, err := memory.New(nopLogger, memory.WithAdmins(adminPrincipal))
	s.Require().NoError(err)

	jwtSvc := service.NewJWTService("router-test-secret", "router-test", time.Hour)
	s.AdminToken, err = jwtSvc.GenerateToken(adminPrincipal)
	s.Require().NoError(err)
	s.CustomerToken, err = jwtSvc.GenerateToken(customerPrincipal)
	s.Require().NoError(err)

	e := echo.New()
	e.Validator = validation.New()
	s.Bus = eventbus.New(nopLogger)

	InitRouter(e, Deps{
		Actor: actor,
		Store: repositories.NewMemoryCacheRepository(),
		Bus:   s.Bus,
		Hub:   websocket.NewHub(nopLogger),
		JWT:   jwtSvc,
	}, &Loggers{
		Main:     nopLogger,
		Requests: nopLogger,
		Admin:    nopLogger,
		User:     nopLogger,
		Cache:    nopLogger,
		Gate:     nopLogger,
		Socket:   nopLogger,
	}, cfg)
	s.Echo = e
}

func (s *RouterTestSuite) TearDownTest() {
	s.Bus.Wait()
}

func (s *RouterTestSuite) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get(echo.HeaderContentType) == echo.MIMEApplicationJSON ||
		rec.Header().Get(echo.HeaderContentType) == echo.MIMEApplicationJSONCharsetUTF8 {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (s *RouterTestSuite) submit(services []string) uint64 {
	rec, env := s.do(http.MethodPost, "/service-request", "", map[string]interface{}{
		"customerName":      "Ana",
		"contactMethod":     "Email",
		"contactInfo":       "ana@example.com",
		"platform":          "PlayStation 5",
		"servicesRequested": services,
		"description":       "Sticky buttons",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID                 uint64 `json:"id"`
		TotalPriceEstimate string `json:"totalPriceEstimate"`
		Redirect           string `json:"redirect"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &created))
	s.Equal(fmt.Sprintf("/confirmation/%d", created.ID), created.Redirect)
	return created.ID
}

func (s *RouterTestSuite) TestLanding() {
	rec, env := s.do(http.MethodGet, "/", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.True(env.Status)
	s.Contains(string(env.Body), "Analog stick drift repair")
}

func (s *RouterTestSuite) TestCreate_NoServicesSuppressesPrice() {
	id := s.submit(nil)

	rec, env := s.do(http.MethodGet, fmt.Sprintf("/confirmation/%d", id), "", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var view struct {
		ShowPrice     bool   `json:"showPrice"`
		PriceEstimate string `json:"priceEstimate"`
		Description   string `json:"description"`
		ContactInfo   string `json:"contactInfo"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &view))
	s.False(view.ShowPrice)
	s.Empty(view.PriceEstimate)
	s.Equal("Platform: PlayStation 5\n\nSticky buttons", view.Description)
	s.Equal("Email: ana@example.com", view.ContactInfo)
}

func (s *RouterTestSuite) TestCreate_TotalsSelectedServices() {
	id := s.submit([]string{"Analog stick drift repair", "LED lighting mods"})

	_, env := s.do(http.MethodGet, fmt.Sprintf("/status?requestId=%d", id), "", nil)
	var view struct {
		PriceEstimate string `json:"priceEstimate"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &view))
	s.Equal("$25", view.PriceEstimate)
}

func (s *RouterTestSuite) TestCreate_ValidationFailure() {
	rec, env := s.do(http.MethodPost, "/service-request", "", map[string]interface{}{
		"contactMethod":     "Carrier pigeon",
		"servicesRequested": []string{"Time travel"},
	})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.False(env.Status)

	var fields map[string]string
	s.Require().NoError(json.Unmarshal(env.Body, &fields))
	for _, key := range []string{"customerName", "contactMethod", "contactInfo", "platform", "description"} {
		s.Contains(fields, key)
	}
}

func (s *RouterTestSuite) TestLookup_BadAndUnknownIDs() {
	rec, _ := s.do(http.MethodGet, "/status?requestId=abc", "", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, env := s.do(http.MethodGet, "/status?requestId=999", "", nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("Request not found.", env.Message)
}

func (s *RouterTestSuite) TestAdmin_Gate() {
	rec, env := s.do(http.MethodGet, "/admin", "", nil)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Contains(string(env.Body), "Please log in to access the admin area.")

	rec, env = s.do(http.MethodGet, "/admin", s.CustomerToken, nil)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Contains(string(env.Body), "You do not have permission to access this area.")

	rec, _ = s.do(http.MethodGet, "/admin", "not-a-token", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	s.submit(nil)
	rec, env = s.do(http.MethodGet, "/admin", s.AdminToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(string(env.Body), `"total_count":1`)
}

func (s *RouterTestSuite) TestAdmin_StatusAndNotes() {
	id := s.submit(nil)
	base := fmt.Sprintf("/admin/request/%d", id)

	rec, env := s.do(http.MethodPost, base+"/status", s.AdminToken, map[string]string{"status": "submitted"})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("new status must differ from the current status", env.Message)

	rec, _ = s.do(http.MethodPost, base+"/status", s.AdminToken, map[string]string{"status": "inReview"})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodPost, base+"/notes", s.AdminToken, map[string]string{"destination": "display", "message": "Parts ordered"})
	s.Require().Equal(http.StatusCreated, rec.Code)
	rec, _ = s.do(http.MethodPost, base+"/notes", s.AdminToken, map[string]string{"destination": "internal", "message": "supplier B"})
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec, env = s.do(http.MethodGet, base, s.AdminToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var detail struct {
		Status struct {
			Value entities.RequestStatus `json:"value"`
		} `json:"status"`
		Timeline []struct {
			Status entities.RequestStatus `json:"status"`
		} `json:"timeline"`
		Notes struct {
			Public   []struct{ Author, Message string } `json:"public"`
			Internal []struct{ Author, Message string } `json:"internal"`
		} `json:"notes"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &detail))
	s.Equal(entities.StatusInReview, detail.Status.Value)
	s.Require().Len(detail.Timeline, 2)
	s.Equal(entities.StatusInReview, detail.Timeline[0].Status)
	s.Require().Len(detail.Notes.Public, 1)
	s.Equal("Admin", detail.Notes.Public[0].Author)
	s.Len(detail.Notes.Internal, 1)

	_, env = s.do(http.MethodGet, fmt.Sprintf("/status?requestId=%d", id), "", nil)
	s.NotContains(string(env.Body), "supplier B")
}

func (s *RouterTestSuite) TestAdmin_NoteAuthorFromProfile() {
	id := s.submit(nil)
	rec, _ := s.do(http.MethodPut, "/profile", s.AdminToken, map[string]string{"name": "Jordan"})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec, env := s.do(http.MethodPost, fmt.Sprintf("/admin/request/%d/notes", id), s.AdminToken,
		map[string]string{"destination": "display", "message": "On it"})
	s.Require().Equal(http.StatusCreated, rec.Code)
	s.Contains(string(env.Body), `"author":"Jordan"`)
}

func (s *RouterTestSuite) TestAdmin_ExportXLSX() {
	s.submit(nil)
	rec, _ := s.do(http.MethodGet, "/admin?format=xlsx", s.AdminToken, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get("Content-Disposition"), ".xlsx")
	s.NotZero(rec.Body.Len())
}

func (s *RouterTestSuite) TestAdmin_UnknownStatusFilter() {
	rec, _ := s.do(http.MethodGet, "/admin?status=lost", s.AdminToken, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RouterTestSuite) TestProfile_MissingThenPresent() {
	rec, _ := s.do(http.MethodGet, "/profile", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	_, env := s.do(http.MethodGet, "/profile", s.CustomerToken, nil)
	s.Contains(string(env.Body), `"status":"missing"`)

	rec, _ = s.do(http.MethodPut, "/profile", s.CustomerToken, map[string]string{"name": "  "})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)

	rec, _ = s.do(http.MethodPut, "/profile", s.CustomerToken, map[string]string{"name": "Cy", "email": "cy@example.com"})
	s.Require().Equal(http.StatusOK, rec.Code)

	_, env = s.do(http.MethodGet, "/profile", s.CustomerToken, nil)
	s.Contains(string(env.Body), `"status":"present"`)
	s.Contains(string(env.Body), `"name":"Cy"`)
}

func (s *RouterTestSuite) TestSession() {
	_, env := s.do(http.MethodGet, "/session", s.AdminToken, nil)
	s.Contains(string(env.Body), `"state":"granted"`)
	s.Contains(string(env.Body), `"role":"admin"`)

	_, env = s.do(http.MethodGet, "/session", "", nil)
	s.Contains(string(env.Body), `"authenticated":false`)
	s.Contains(string(env.Body), `"actions":["login","home"]`)
}

func (s *RouterTestSuite) TestHealthz() {
	rec, _ := s.do(http.MethodGet, "/healthz", "", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) TestAdmin_Stats() {
	s.submit(nil)
	s.submit(nil)
	rec, env := s.do(http.MethodGet, "/admin/stats", s.AdminToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(string(env.Body), `"total":2`)
}
