package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yourorg/homerental/internal/domain/domaintest"
	"github.com/yourorg/homerental/internal/events"
	"github.com/yourorg/homerental/internal/security/auth"
	"github.com/yourorg/homerental/internal/service"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := domaintest.NewMemStore()
	hub := events.NewHub()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := service.NewUserService(store, hub, log)
	houses := service.NewHouseService(store, hub, log)
	tenants := service.NewTenantService(store, hub, log)
	rentals := service.NewRentalService(store, hub, log)

	api := &API{
		Users:   NewUserHandler(users, log),
		Houses:  NewHouseHandler(houses, log),
		Tenants: NewTenantHandler(tenants, log),
		Rentals: NewRentalHandler(rentals, log),
		Login:   NewLoginHandler(auth.NewTokenManager("test-secret", "test"), users, log),
	}

	mux := http.NewServeMux()
	api.Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func createUser(t *testing.T, srv *httptest.Server, username string) UserResponse {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/users", UserRequest{Username: username, Age: 30, Password: "secret"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create user %s: status %d", username, resp.StatusCode)
	}
	var user UserResponse
	decode(t, resp, &user)
	return user
}

func TestCreateUserEndpoint(t *testing.T) {
	srv := newTestServer(t)

	user := createUser(t, srv, "alice")
	if user.ID == 0 || user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if len(user.Roles) != 1 || user.Roles[0] != "user" {
		t.Fatalf("expected default role, got %v", user.Roles)
	}
}

func TestCreateUserValidationStatus(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		name string
		req  UserRequest
		want int
	}{
		{"too young", UserRequest{Username: "kid", Age: 12, Password: "secret"}, http.StatusBadRequest},
		{"too old", UserRequest{Username: "elder", Age: 121, Password: "secret"}, http.StatusBadRequest},
		{"short username", UserRequest{Username: "ab", Age: 30, Password: "secret"}, http.StatusBadRequest},
		{"short password", UserRequest{Username: "alice", Age: 30, Password: "abc"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, srv.URL+"/api/users", tc.req)
			resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Fatalf("status %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}

func TestDuplicateUsernameConflict(t *testing.T) {
	srv := newTestServer(t)
	createUser(t, srv, "alice")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/users", UserRequest{Username: "alice", Age: 40, Password: "other1"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status %d, want %d", resp.StatusCode, http.StatusConflict)
	}
}

func TestGetUserNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/users/999")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d, want 404", resp.StatusCode)
	}
}

func TestUserResponseOmitsPassword(t *testing.T) {
	srv := newTestServer(t)
	user := createUser(t, srv, "alice")

	resp, err := http.Get(fmt.Sprintf("%s/api/users/%d", srv.URL, user.ID))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if bytes.Contains(body, []byte("password")) || bytes.Contains(body, []byte("secret")) {
		t.Fatalf("response leaks credential material: %s", body)
	}
}

func TestDeleteUserIdempotent(t *testing.T) {
	srv := newTestServer(t)
	user := createUser(t, srv, "alice")
	url := fmt.Sprintf("%s/api/users/%d", srv.URL, user.ID)

	for i := 0; i < 2; i++ {
		resp := doJSON(t, http.MethodDelete, url, nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("delete attempt %d: status %d, want 204", i+1, resp.StatusCode)
		}
	}
}

func TestUpdateUserEndpoint(t *testing.T) {
	srv := newTestServer(t)
	user := createUser(t, srv, "alice")

	resp := doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/users/%d", srv.URL, user.ID),
		UserRequest{Username: "alicia", Age: 31})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}
	var updated UserResponse
	decode(t, resp, &updated)
	if updated.Username != "alicia" || updated.Age != 31 {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestRentalLifecycleEndpoints(t *testing.T) {
	srv := newTestServer(t)
	user := createUser(t, srv, "alice")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/tenants",
		TenantRequest{Name: "Alice", Phone: 5551234, Job: "nurse", UserID: user.ID})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create tenant: status %d", resp.StatusCode)
	}
	var tenant TenantResponse
	decode(t, resp, &tenant)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/houses",
		HouseRequest{Address: "1 Main St", City: "Springfield", NumberOfRooms: 3})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create house: status %d", resp.StatusCode)
	}
	var house HouseResponse
	decode(t, resp, &house)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/rentals", RentalRequest{
		StartDate: "01/01/2025", EndDate: "31/12/2025",
		PriceAnnual: 12000, Deposit: 1000, ContactPerson: "Bob",
		HouseID: house.ID, TenantIDs: []int{tenant.ID},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create rental: status %d", resp.StatusCode)
	}
	var rental RentalResponse
	decode(t, resp, &rental)

	// rentals reachable through the owning user
	resp, err := http.Get(fmt.Sprintf("%s/api/users/%d/rentals", srv.URL, user.ID))
	if err != nil {
		t.Fatal(err)
	}
	var byUser []RentalResponse
	decode(t, resp, &byUser)
	if len(byUser) != 1 || byUser[0].ID != rental.ID {
		t.Fatalf("expected rental %d via user, got %+v", rental.ID, byUser)
	}

	// tenants reachable through the house
	resp, err = http.Get(fmt.Sprintf("%s/api/houses/%d/tenants", srv.URL, house.ID))
	if err != nil {
		t.Fatal(err)
	}
	var inHouse []TenantResponse
	decode(t, resp, &inHouse)
	if len(inHouse) != 1 || inHouse[0].ID != tenant.ID {
		t.Fatalf("expected tenant %d via house, got %+v", tenant.ID, inHouse)
	}

	// delete leaves house and tenant behind
	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/rentals/%d", srv.URL, rental.ID), nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete rental: status %d", resp.StatusCode)
	}
	resp, err = http.Get(fmt.Sprintf("%s/api/houses/%d", srv.URL, house.ID))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("house gone after rental delete: status %d", resp.StatusCode)
	}
}

func TestCreateRentalBadReferences(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/rentals", RentalRequest{
		StartDate: "01/01/2025", EndDate: "31/12/2025",
		PriceAnnual: 12000, HouseID: 999, TenantIDs: []int{1},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing house: status %d, want 404", resp.StatusCode)
	}
}

func TestCreateRentalBadDates(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/rentals", RentalRequest{
		StartDate: "31/12/2025", EndDate: "01/01/2025",
		PriceAnnual: 12000, HouseID: 1,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("inverted dates: status %d, want 400", resp.StatusCode)
	}
}

func TestLoginEndpoint(t *testing.T) {
	srv := newTestServer(t)
	createUser(t, srv, "alice")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/login", LoginRequest{Username: "alice", Password: "secret"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: status %d", resp.StatusCode)
	}
	var login LoginResponse
	decode(t, resp, &login)
	if login.Token == "" || login.Username != "alice" {
		t.Fatalf("unexpected login response: %+v", login)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/login", LoginRequest{Username: "alice", Password: "wrong"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad password: status %d, want 401", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/login", LoginRequest{Username: "nobody", Password: "secret"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unknown user: status %d, want 401", resp.StatusCode)
	}
}
