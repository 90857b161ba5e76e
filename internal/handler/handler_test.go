package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/park-itinerary/internal/config"
	"github.com/iliyamo/park-itinerary/internal/database"
	"github.com/iliyamo/park-itinerary/internal/handler"
	"github.com/iliyamo/park-itinerary/internal/middleware"
	"github.com/iliyamo/park-itinerary/internal/repository"
	"github.com/iliyamo/park-itinerary/internal/router"
)

// setup wires a full server against the real database. Tests are skipped
// when the environment does not provide one.
func setup(t *testing.T) *echo.Echo {
	t.Helper()
	_ = godotenv.Load("../../.env")
	if os.Getenv("DB_HOST") == "" || os.Getenv("JWT_SECRET") == "" {
		t.Skip("DB_HOST or JWT_SECRET not set")
	}

	db, err := database.Open(os.Getenv("DB_USER"), os.Getenv("DB_PASS"),
		os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_NAME"))
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4, // cheap hashing keeps the suite fast
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	areaRepo := repository.NewParkAreaRepo(db)
	attractionRepo := repository.NewAttractionRepo(db)
	itineraryRepo := repository.NewItineraryRepo(db)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, userRepo, customerRepo, tokenRepo), cfg.JWTSecret)
	router.RegisterCatalog(e, handler.NewCatalogHandler(areaRepo, attractionRepo),
		middleware.NewRedisCache(config.CacheConfig{}, nil))
	router.RegisterItinerary(e, handler.NewItineraryHandler(customerRepo, attractionRepo, areaRepo, itineraryRepo), cfg.JWTSecret)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode list %q: %v", rec.Body.String(), err)
	}
	return out
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// registerVisitor creates a fresh account and returns its access token.
func registerVisitor(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec := doJSON(t, e, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email":    uniqueName("visitor") + "@test.com",
		"password": "testpass123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	access := body["access"].(map[string]any)
	return access["token"].(string)
}

func createArea(t *testing.T, e *echo.Echo, name, theme string) uint64 {
	t.Helper()
	rec := doJSON(t, e, http.MethodPost, "/v1/parkareas", "", map[string]string{"name": name, "theme": theme})
	if rec.Code != http.StatusOK {
		t.Fatalf("create area: status %d body %s", rec.Code, rec.Body.String())
	}
	return uint64(decode(t, rec)["id"].(float64))
}

func createAttraction(t *testing.T, e *echo.Echo, name string, areaID uint64) uint64 {
	t.Helper()
	rec := doJSON(t, e, http.MethodPost, "/v1/attractions", "", map[string]any{"name": name, "area_id": areaID})
	if rec.Code != http.StatusOK {
		t.Fatalf("create attraction: status %d body %s", rec.Code, rec.Body.String())
	}
	return uint64(decode(t, rec)["id"].(float64))
}

// ----- auth tests -----

func TestRegisterBindsCustomerProfile(t *testing.T) {
	e := setup(t)

	email := uniqueName("visitor") + "@test.com"
	rec := doJSON(t, e, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": email, "password": "testpass123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	user := body["user"].(map[string]any)
	if user["email"] != email {
		t.Fatalf("registered email mismatch: %v", user)
	}
	if user["customer_id"].(float64) <= 0 {
		t.Fatalf("no customer profile bound at registration: %v", user)
	}

	// The same customer id comes back on login.
	rec = doJSON(t, e, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": email, "password": "testpass123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", rec.Code, rec.Body.String())
	}
	logged := decode(t, rec)["user"].(map[string]any)
	if logged["customer_id"] != user["customer_id"] {
		t.Fatalf("customer id changed between register and login: %v vs %v",
			user["customer_id"], logged["customer_id"])
	}
}

func TestRefreshRotationInvalidatesOldToken(t *testing.T) {
	e := setup(t)

	rec := doJSON(t, e, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": uniqueName("visitor") + "@test.com", "password": "testpass123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", rec.Code, rec.Body.String())
	}
	oldRefresh := decode(t, rec)["refresh"].(map[string]any)["token"].(string)

	rec = doJSON(t, e, http.MethodPost, "/v1/auth/refresh", "", map[string]string{
		"refresh_token": oldRefresh,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: status %d body %s", rec.Code, rec.Body.String())
	}
	newRefresh := decode(t, rec)["refresh"].(map[string]any)["token"].(string)
	if newRefresh == oldRefresh {
		t.Fatal("refresh did not rotate the token")
	}

	// The replaced token is gone for good.
	rec = doJSON(t, e, http.MethodPost, "/v1/auth/refresh", "", map[string]string{
		"refresh_token": oldRefresh,
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("stale refresh: expected 401, got %d", rec.Code)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	e := setup(t)

	rec := doJSON(t, e, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": uniqueName("visitor") + "@test.com", "password": "testpass123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", rec.Code, rec.Body.String())
	}
	refresh := decode(t, rec)["refresh"].(map[string]any)["token"].(string)

	if rec := doJSON(t, e, http.MethodPost, "/v1/auth/logout", "", map[string]string{
		"refresh_token": refresh,
	}); rec.Code != http.StatusNoContent {
		t.Fatalf("logout: status %d body %s", rec.Code, rec.Body.String())
	}
	if rec := doJSON(t, e, http.MethodPost, "/v1/auth/refresh", "", map[string]string{
		"refresh_token": refresh,
	}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout: expected 401, got %d", rec.Code)
	}
}

// ----- park area tests -----

func TestParkAreaCreateAndList(t *testing.T) {
	e := setup(t)

	name := uniqueName("Halloween Land")
	rec := doJSON(t, e, http.MethodPost, "/v1/parkareas", "", map[string]string{
		"name": name, "theme": "spooky stuff",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create: status %d body %s", rec.Code, rec.Body.String())
	}
	created := decode(t, rec)
	if created["name"] != name || created["theme"] != "spooky stuff" {
		t.Fatalf("create echoed wrong fields: %v", created)
	}
	if created["url"] != fmt.Sprintf("/v1/parkareas/%d", uint64(created["id"].(float64))) {
		t.Fatalf("bad self link: %v", created["url"])
	}

	rec = doJSON(t, e, http.MethodGet, "/v1/parkareas", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	matches := 0
	for _, a := range decodeList(t, rec) {
		if a["name"] == name {
			matches++
		}
	}
	if matches != 1 {
		t.Fatalf("expected area %q exactly once in list, got %d", name, matches)
	}
}

func TestParkAreaRoundTrip(t *testing.T) {
	e := setup(t)

	name := uniqueName("Coaster Land")
	id := createArea(t, e, name, "coasters, duh")

	rec := doJSON(t, e, http.MethodGet, fmt.Sprintf("/v1/parkareas/%d", id), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d", rec.Code)
	}
	got := decode(t, rec)
	if got["name"] != name || got["theme"] != "coasters, duh" {
		t.Fatalf("round trip mismatch: %v", got)
	}
}

func TestParkAreaUpdate(t *testing.T) {
	e := setup(t)

	id := createArea(t, e, uniqueName("Old Name"), "old theme")
	newName := uniqueName("New Name")

	rec := doJSON(t, e, http.MethodPut, fmt.Sprintf("/v1/parkareas/%d", id), "", map[string]string{
		"name": newName, "theme": "new theme",
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("update: status %d body %s", rec.Code, rec.Body.String())
	}

	got := decode(t, doJSON(t, e, http.MethodGet, fmt.Sprintf("/v1/parkareas/%d", id), "", nil))
	if got["name"] != newName || got["theme"] != "new theme" {
		t.Fatalf("update not persisted: %v", got)
	}
}

func TestParkAreaDelete(t *testing.T) {
	e := setup(t)

	id := createArea(t, e, uniqueName("Doomed Land"), "short lived")

	if rec := doJSON(t, e, http.MethodDelete, fmt.Sprintf("/v1/parkareas/%d", id), "", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", rec.Code)
	}
	if rec := doJSON(t, e, http.MethodDelete, fmt.Sprintf("/v1/parkareas/%d", id), "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("delete missing: expected 404, got %d", rec.Code)
	}
	if rec := doJSON(t, e, http.MethodGet, fmt.Sprintf("/v1/parkareas/%d", id), "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404, got %d", rec.Code)
	}
}

func TestParkAreaDeleteBlockedByAttractions(t *testing.T) {
	e := setup(t)

	areaID := createArea(t, e, uniqueName("Busy Land"), "crowded")
	attractionID := createAttraction(t, e, uniqueName("Big Coaster"), areaID)

	if rec := doJSON(t, e, http.MethodDelete, fmt.Sprintf("/v1/parkareas/%d", areaID), "", nil); rec.Code != http.StatusConflict {
		t.Fatalf("delete with dependents: expected 409, got %d", rec.Code)
	}

	// After the attraction is gone the area can be removed.
	if rec := doJSON(t, e, http.MethodDelete, fmt.Sprintf("/v1/attractions/%d", attractionID), "", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete attraction: status %d", rec.Code)
	}
	if rec := doJSON(t, e, http.MethodDelete, fmt.Sprintf("/v1/parkareas/%d", areaID), "", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete emptied area: status %d", rec.Code)
	}
}

// ----- attraction tests -----

func TestAttractionCreateWithMissingArea(t *testing.T) {
	e := setup(t)

	name := uniqueName("Ghost Ride")
	rec := doJSON(t, e, http.MethodPost, "/v1/attractions", "", map[string]any{
		"name": name, "area_id": 99999999,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing area, got %d", rec.Code)
	}

	// No row may have been written.
	for _, a := range decodeList(t, doJSON(t, e, http.MethodGet, "/v1/attractions", "", nil)) {
		if a["name"] == name {
			t.Fatalf("attraction %q was created despite missing area", name)
		}
	}
}

func TestAttractionFilterByArea(t *testing.T) {
	e := setup(t)

	areaA := createArea(t, e, uniqueName("Area A"), "theme a")
	areaB := createArea(t, e, uniqueName("Area B"), "theme b")
	nameOne := uniqueName("Ride One")
	nameTwo := uniqueName("Ride Two")
	createAttraction(t, e, nameOne, areaA)
	createAttraction(t, e, nameTwo, areaA)

	rec := doJSON(t, e, http.MethodGet, fmt.Sprintf("/v1/attractions?area=%d", areaA), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("filtered list: status %d", rec.Code)
	}
	list := decodeList(t, rec)
	if len(list) != 2 {
		t.Fatalf("expected 2 attractions in area, got %d", len(list))
	}
	for _, a := range list {
		if uint64(a["area_id"].(float64)) != areaA {
			t.Fatalf("foreign attraction in filtered list: %v", a)
		}
	}

	// An area with zero attractions yields an empty list, not an error.
	rec = doJSON(t, e, http.MethodGet, fmt.Sprintf("/v1/attractions?area=%d", areaB), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("empty filtered list: status %d", rec.Code)
	}
	if list := decodeList(t, rec); len(list) != 0 {
		t.Fatalf("expected empty list for area %d, got %d items", areaB, len(list))
	}
}

func TestAttractionRetrieveMissingIs404(t *testing.T) {
	e := setup(t)

	rec := doJSON(t, e, http.MethodGet, "/v1/attractions/99999999", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body %s", rec.Code, rec.Body.String())
	}
}

func TestAttractionUpdateReassignsArea(t *testing.T) {
	e := setup(t)

	areaA := createArea(t, e, uniqueName("From Land"), "a")
	areaB := createArea(t, e, uniqueName("To Land"), "b")
	id := createAttraction(t, e, uniqueName("Mover"), areaA)
	newName := uniqueName("Moved")

	rec := doJSON(t, e, http.MethodPut, fmt.Sprintf("/v1/attractions/%d", id), "", map[string]any{
		"name": newName, "area_id": areaB,
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("update: status %d body %s", rec.Code, rec.Body.String())
	}

	got := decode(t, doJSON(t, e, http.MethodGet, fmt.Sprintf("/v1/attractions/%d", id), "", nil))
	if got["name"] != newName || uint64(got["area_id"].(float64)) != areaB {
		t.Fatalf("update not persisted: %v", got)
	}
}

func TestAttractionDeleteMissingIs404(t *testing.T) {
	e := setup(t)

	rec := doJSON(t, e, http.MethodDelete, "/v1/attractions/99999999", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRRidesFilter(t *testing.T) {
	e := setup(t)

	areaID := createArea(t, e, uniqueName("Letter Land"), "alphabet")
	rName := "r" + uniqueName("ocket")
	wName := "w" + uniqueName("hirl")
	createAttraction(t, e, rName, areaID)
	createAttraction(t, e, wName, areaID)

	rec := doJSON(t, e, http.MethodGet, "/v1/attractions/r_rides", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("r_rides: status %d", rec.Code)
	}
	sawR := false
	for _, a := range decodeList(t, rec) {
		name := a["name"].(string)
		if name == wName {
			t.Fatalf("non-r ride %q in r_rides response", name)
		}
		if name == rName {
			sawR = true
		}
	}
	if !sawR {
		t.Fatalf("ride %q missing from r_rides response", rName)
	}
}

// ----- itinerary tests -----

func TestItineraryRequiresAuth(t *testing.T) {
	e := setup(t)

	rec := doJSON(t, e, http.MethodGet, "/v1/itineraryitems", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestItineraryCreateExpandsAttractionAndArea(t *testing.T) {
	e := setup(t)

	token := registerVisitor(t, e)
	areaName := uniqueName("Nested Land")
	areaID := createArea(t, e, areaName, "nesting")
	rideName := uniqueName("Nested Ride")
	rideID := createAttraction(t, e, rideName, areaID)

	rec := doJSON(t, e, http.MethodPost, "/v1/itineraryitems", token, map[string]any{
		"starttime": "2026-09-01T10:00:00Z", "ride_id": rideID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create itinerary: status %d body %s", rec.Code, rec.Body.String())
	}
	got := decode(t, rec)
	attraction := got["attraction"].(map[string]any)
	if attraction["name"] != rideName {
		t.Fatalf("nested attraction mismatch: %v", attraction)
	}
	area := attraction["area"].(map[string]any)
	if area["name"] != areaName {
		t.Fatalf("nested area mismatch: %v", area)
	}
}

func TestItineraryCreateWithMissingRide(t *testing.T) {
	e := setup(t)

	token := registerVisitor(t, e)
	rec := doJSON(t, e, http.MethodPost, "/v1/itineraryitems", token, map[string]any{
		"starttime": "2026-09-01T10:00:00Z", "ride_id": 99999999,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing ride, got %d", rec.Code)
	}
}

func TestItineraryScopedToOwnCustomer(t *testing.T) {
	e := setup(t)

	tokenA := registerVisitor(t, e)
	tokenB := registerVisitor(t, e)

	areaID := createArea(t, e, uniqueName("Private Land"), "secrets")
	rideID := createAttraction(t, e, uniqueName("Private Ride"), areaID)

	rec := doJSON(t, e, http.MethodPost, "/v1/itineraryitems", tokenA, map[string]any{
		"starttime": "2026-09-01T10:00:00Z", "ride_id": rideID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create: status %d body %s", rec.Code, rec.Body.String())
	}
	itemID := uint64(decode(t, rec)["id"].(float64))

	// A sees the item.
	found := false
	for _, it := range decodeList(t, doJSON(t, e, http.MethodGet, "/v1/itineraryitems", tokenA, nil)) {
		if uint64(it["id"].(float64)) == itemID {
			found = true
		}
	}
	if !found {
		t.Fatalf("item %d missing from owner's list", itemID)
	}

	// B never sees, reads or mutates it.
	for _, it := range decodeList(t, doJSON(t, e, http.MethodGet, "/v1/itineraryitems", tokenB, nil)) {
		if uint64(it["id"].(float64)) == itemID {
			t.Fatalf("item %d leaked into another customer's list", itemID)
		}
	}
	path := fmt.Sprintf("/v1/itineraryitems/%d", itemID)
	if rec := doJSON(t, e, http.MethodGet, path, tokenB, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("foreign get: expected 404, got %d", rec.Code)
	}
	if rec := doJSON(t, e, http.MethodDelete, path, tokenB, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("foreign delete: expected 404, got %d", rec.Code)
	}

	// The owner can still update and delete it.
	if rec := doJSON(t, e, http.MethodPut, path, tokenA, map[string]any{
		"starttime": "2026-09-01T12:30:00Z", "ride_id": rideID,
	}); rec.Code != http.StatusNoContent {
		t.Fatalf("owner update: status %d body %s", rec.Code, rec.Body.String())
	}
	got := decode(t, doJSON(t, e, http.MethodGet, path, tokenA, nil))
	if got["starttime"] != "2026-09-01T12:30:00Z" {
		t.Fatalf("update not persisted: %v", got["starttime"])
	}
	if rec := doJSON(t, e, http.MethodDelete, path, tokenA, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("owner delete: status %d", rec.Code)
	}
	if rec := doJSON(t, e, http.MethodDelete, path, tokenA, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("delete missing: expected 404, got %d", rec.Code)
	}
}
