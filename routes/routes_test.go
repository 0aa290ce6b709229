package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"findmyspot/database"
	recordsRepo "findmyspot/database/repository/records"
	userRepo "findmyspot/database/repository/user"
	"findmyspot/handlers"
	"findmyspot/middleware"
	"findmyspot/models"
	"findmyspot/services/lot"
	"findmyspot/services/session"
	"findmyspot/services/user"
	"findmyspot/utils"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

type staticVerifier map[string]string

func (v staticVerifier) VerifyIDToken(_ context.Context, token string) (*auth.Token, error) {
	uid, ok := v[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &auth.Token{UID: uid, Expires: time.Now().Add(time.Hour).Unix()}, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := database.NewMemoryStore()
	events := recordsRepo.NewParkingEventRepo(store)
	users := userRepo.NewUserRepo(store)
	clock := utils.NewFixedClock(time.FixedZone("PHT", 8*60*60), func() time.Time {
		return time.Date(2025, 3, 23, 1, 0, 0, 0, time.UTC)
	})

	sessionHandler := handlers.NewSessionHandler(&session.DefaultSessionService{
		Events:  events,
		Users:   users,
		Clock:   clock,
		Rules:   session.DefaultRules,
		SlotNo:  "11",
		Timeout: time.Second,
	})
	profileHandler := handlers.NewProfileHandler(&user.DefaultProfileService{Repo: users, Timeout: time.Second})
	lotHandler := handlers.NewLotHandler(&lot.DefaultLotService{Store: lot.NewMemoryStatusStore(nil), TTL: time.Minute})

	hb := &handlers.HandlerBundle{
		AuthMiddleware:          middleware.FirebaseAuthMiddleware(staticVerifier{"tok-1": "u1", "tok-2": "u2"}, nil, time.Second),
		DetectorMiddleware:      middleware.DetectorKeyMiddleware("detector"),
		GetProfileHandler:       profileHandler.GetProfileHandler,
		UpdateDriverInfoHandler: profileHandler.UpdateDriverInfoHandler,
		RegisterVehicleHandler:  profileHandler.RegisterVehicleHandler,
		UpdateFCMTokenHandler:   profileHandler.UpdateFCMTokenHandler,
		GetSessionHandler:       sessionHandler.GetSessionHandler,
		OpenSessionHandler:      sessionHandler.OpenSessionHandler,
		CloseSessionHandler:     sessionHandler.CloseSessionHandler,
		RateSessionHandler:      sessionHandler.RateSessionHandler,
		ListEventsHandler:       sessionHandler.ListEventsHandler,
		DeleteEventHandler:      sessionHandler.DeleteEventHandler,
		ClearEventsHandler:      sessionHandler.ClearEventsHandler,
		GetLotStatusHandler:     lotHandler.GetLotStatusHandler,
		PutLotStatusHandler:     lotHandler.PutLotStatusHandler,
	}
	r := gin.New()
	RegisterRoutes(r, hb)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp utils.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return resp.Code
}

func TestSessionRequiresAuthentication(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/api/session", "", nil)
	if w.Code != http.StatusUnauthorized || errorCode(t, w) != "not_authenticated" {
		t.Fatalf("expected 401 not_authenticated, got %d %s", w.Code, w.Body.String())
	}
}

func TestParkingFlow(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/session", "tok-1", nil)
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "vehicle_not_registered" {
		t.Fatalf("open without vehicle: got %d %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPut, "/api/profile/vehicle", "tok-1", map[string]string{
		"vehicleType": "Sedan", "vehicleColor": "Blue", "plateNumber": "NBC 1234",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register vehicle: got %d %s", w.Code, w.Body.String())
	}
	w = do(t, r, http.MethodPut, "/api/profile/vehicle", "tok-2", map[string]string{
		"vehicleType": "Van", "vehicleColor": "Red", "plateNumber": "nbc1234",
	})
	if w.Code != http.StatusConflict || errorCode(t, w) != "plate_already_in_use" {
		t.Fatalf("duplicate plate: got %d %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/api/session", "tok-1", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("open: got %d %s", w.Code, w.Body.String())
	}
	var opened struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &opened); err != nil || opened.ID == "" {
		t.Fatalf("open response %s: %v", w.Body.String(), err)
	}

	w = do(t, r, http.MethodPost, "/api/session", "tok-1", nil)
	if w.Code != http.StatusConflict || errorCode(t, w) != "session_already_open" {
		t.Fatalf("second open: got %d %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodGet, "/api/session", "tok-1", nil)
	var view models.SessionView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if !view.IsParked || view.TimeIn != "9:00 AM" || view.SlotNo != "11" {
		t.Fatalf("unexpected view %+v", view)
	}

	w = do(t, r, http.MethodDelete, "/api/events/"+opened.ID, "tok-1", nil)
	if w.Code != http.StatusConflict || errorCode(t, w) != "event_still_open" {
		t.Fatalf("delete open: got %d %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/api/session/close", "tok-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("close: got %d %s", w.Code, w.Body.String())
	}
	w = do(t, r, http.MethodPost, "/api/session/close", "tok-1", nil)
	if w.Code != http.StatusConflict || errorCode(t, w) != "no_open_session" {
		t.Fatalf("second close: got %d %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/api/session/rating", "tok-1", map[string]interface{}{"feedback": "Nice", "rating": 5})
	if w.Code != http.StatusOK {
		t.Fatalf("rate: got %d %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodGet, "/api/events", "tok-1", nil)
	var feed struct {
		Groups []models.EventGroup `json:"groups"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &feed); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	if len(feed.Groups) != 1 || len(feed.Groups[0].Events) != 1 || feed.Groups[0].Events[0].Rating != 5 {
		t.Fatalf("unexpected feed %s", w.Body.String())
	}

	w = do(t, r, http.MethodDelete, "/api/events/"+opened.ID, "tok-1", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete closed: got %d %s", w.Code, w.Body.String())
	}
	w = do(t, r, http.MethodDelete, "/api/events/"+opened.ID, "tok-1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("delete again: got %d %s", w.Code, w.Body.String())
	}
}

func TestInvalidVehicleIsRejected(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodPut, "/api/profile/vehicle", "tok-1", map[string]string{
		"vehicleType": "Truck", "vehicleColor": "Blue", "plateNumber": "X",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestBlankPlateIsRejected(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodPut, "/api/profile/vehicle", "tok-1", map[string]string{
		"vehicleType": "Sedan", "vehicleColor": "Blue", "plateNumber": "   ",
	})
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_request" {
		t.Fatalf("expected 400 invalid_request, got %d %s", w.Code, w.Body.String())
	}
}

func TestCloseAcceptsChunkedEmptyBody(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodPut, "/api/profile/vehicle", "tok-1", map[string]string{
		"vehicleType": "Sedan", "vehicleColor": "Blue", "plateNumber": "NBC 1234",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register vehicle: got %d %s", w.Code, w.Body.String())
	}
	if w = do(t, r, http.MethodPost, "/api/session", "tok-1", nil); w.Code != http.StatusCreated {
		t.Fatalf("open: got %d %s", w.Code, w.Body.String())
	}

	chunked := func(body io.Reader) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/session/close", body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer tok-1")
		if req.ContentLength != -1 {
			t.Fatalf("expected unknown content length, got %d", req.ContentLength)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w = chunked(io.MultiReader(bytes.NewBufferString("{bad"))); w.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: expected 400, got %d %s", w.Code, w.Body.String())
	}
	if w = chunked(io.MultiReader()); w.Code != http.StatusOK {
		t.Fatalf("empty chunked body: expected 200, got %d %s", w.Code, w.Body.String())
	}
}

func TestLotStatus(t *testing.T) {
	r := newTestRouter(t)

	if w := do(t, r, http.MethodGet, "/api/lot/status", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before any report, got %d", w.Code)
	}

	report := map[string]int{"parkedCars": 4, "availableSpaces": 8}
	if w := do(t, r, http.MethodPut, "/api/lot/status", "", report); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without detector key, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/lot/status", bytes.NewBufferString(`{"parkedCars":4,"availableSpaces":8}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.DetectorKeyHeader, "detector")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("publish: got %d %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodGet, "/api/lot/status", "", nil)
	var status models.LotStatus
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.ParkedCars != 4 || status.AvailableSpaces != 8 {
		t.Fatalf("unexpected status %+v", status)
	}
}
