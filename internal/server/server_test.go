package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lostfound/apiserver/config"
	"github.com/lostfound/apiserver/internal/handlers"
	"github.com/lostfound/apiserver/types"
	"github.com/stretchr/testify/require"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "admin-secret"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Config{
		JWTSecret:      "test-secret",
		StoreBackend:   config.StoreBackendFile,
		DataDir:        t.TempDir(),
		StorageBackend: config.StorageBackendLocal,
		UploadsDir:     t.TempDir(),
		EventsBackend:  config.EventsBackendNone,
		AdminEmail:     testAdminEmail,
		AdminPassword:  testAdminPassword,
	}

	srv, err := New(context.Background(), cfg)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Shutdown()
	})
	return ts
}

func doJSON(t *testing.T, method, url, token string, body, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func registerUser(t *testing.T, baseURL, email, name string) (token, userID string) {
	t.Helper()

	var auth handlers.AuthResponse
	resp := doJSON(t, http.MethodPost, baseURL+"/auth/register", "", map[string]string{
		"email":    email,
		"name":     name,
		"password": "password123!",
	}, &auth)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, auth.Token)
	return auth.Token, auth.User.ID
}

func loginAdmin(t *testing.T, baseURL string) string {
	t.Helper()

	var auth handlers.AuthResponse
	resp := doJSON(t, http.MethodPost, baseURL+"/auth/login", "", map[string]string{
		"email":    testAdminEmail,
		"password": testAdminPassword,
	}, &auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, types.RoleAdmin, auth.User.Role)
	return auth.Token
}

func createReport(t *testing.T, baseURL, token, kind, name string, withImage bool) types.Report {
	t.Helper()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	fields := map[string]string{
		"type":        kind,
		"category":    "Accessories",
		"name":        name,
		"description": "a " + name,
		"location":    "Park",
		"date":        "2026-08-30",
		"contact":     "555-0100",
	}
	for key, value := range fields {
		require.NoError(t, form.WriteField(key, value))
	}
	if withImage {
		part, err := form.CreateFormFile("image", "item.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, form.Close())

	req, err := http.NewRequest(http.MethodPost, baseURL+"/reports", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var report types.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	return report
}

func TestRegisterLoginAndMe(t *testing.T) {
	ts := newTestServer(t)

	token, userID := registerUser(t, ts.URL, "alice@example.com", "Alice")

	var me types.SafeUser
	resp := doJSON(t, http.MethodGet, ts.URL+"/auth/me", token, nil, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, userID, me.ID)
	require.Equal(t, "Alice", me.Name)

	// Duplicate registration is rejected.
	resp = doJSON(t, http.MethodPost, ts.URL+"/auth/register", "", map[string]string{
		"email":    "alice@example.com",
		"name":     "Alice Again",
		"password": "password123!",
	}, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestReportLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	token, userID := registerUser(t, ts.URL, "alice@example.com", "Alice")
	report := createReport(t, ts.URL, token, types.KindLost, "Wallet", true)
	require.Equal(t, types.StatusActive, report.Status)
	require.Equal(t, userID, report.ReportedBy)
	require.Equal(t, "Alice", report.ReportedByName)
	require.NotEmpty(t, report.Image)

	// The uploaded image is served back.
	resp, err := http.Get(ts.URL + report.Image)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "png-bytes", string(body))

	var listed []types.Report
	listResp := doJSON(t, http.MethodGet, ts.URL+"/reports?type=lost", "", nil, &listed)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	require.Len(t, listed, 1)
	require.Equal(t, report.ID, listed[0].ID)

	var owned []types.Report
	ownedResp := doJSON(t, http.MethodGet, ts.URL+"/reports/user/"+userID, "", nil, &owned)
	require.Equal(t, http.StatusOK, ownedResp.StatusCode)
	require.Len(t, owned, 1)

	// Owner deletes; a second delete of the same id still succeeds.
	for i := 0; i < 2; i++ {
		delResp := doJSON(t, http.MethodDelete, fmt.Sprintf("%s/reports/%s", ts.URL, report.ID), token, nil, nil)
		require.Equal(t, http.StatusNoContent, delResp.StatusCode)
	}

	var after []types.Report
	afterResp := doJSON(t, http.MethodGet, ts.URL+"/reports", "", nil, &after)
	require.Equal(t, http.StatusOK, afterResp.StatusCode)
	require.Empty(t, after)
}

func TestReportDeleteForbiddenForStrangers(t *testing.T) {
	ts := newTestServer(t)

	ownerToken, _ := registerUser(t, ts.URL, "alice@example.com", "Alice")
	strangerToken, _ := registerUser(t, ts.URL, "bob@example.com", "Bob")
	report := createReport(t, ts.URL, ownerToken, types.KindLost, "Wallet", false)

	resp := doJSON(t, http.MethodDelete, ts.URL+"/reports/"+report.ID, strangerToken, nil, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminMatchFlow(t *testing.T) {
	ts := newTestServer(t)

	lostToken, lostOwnerID := registerUser(t, ts.URL, "alice@example.com", "Alice")
	foundToken, _ := registerUser(t, ts.URL, "bob@example.com", "Bob")
	adminToken := loginAdmin(t, ts.URL)

	lost := createReport(t, ts.URL, lostToken, types.KindLost, "Wallet", false)
	found := createReport(t, ts.URL, foundToken, types.KindFound, "Brown Wallet", false)

	// Non-admins cannot match.
	resp := doJSON(t, http.MethodPost, ts.URL+"/admin/match-items", lostToken, map[string]string{
		"lostItemId":  lost.ID,
		"foundItemId": found.ID,
	}, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/admin/match-items", adminToken, map[string]string{
		"lostItemId":  lost.ID,
		"foundItemId": found.ID,
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var matched []types.Report
	listResp := doJSON(t, http.MethodGet, ts.URL+"/reports?status=matched", "", nil, &matched)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	require.Len(t, matched, 2)

	// Each owner got a notification embedding both snapshots.
	for _, token := range []string{lostToken, foundToken} {
		var notifications []types.Notification
		notifResp := doJSON(t, http.MethodGet, ts.URL+"/notifications", token, nil, &notifications)
		require.Equal(t, http.StatusOK, notifResp.StatusCode)
		require.Len(t, notifications, 1)
		require.False(t, notifications[0].Read)
		require.NotNil(t, notifications[0].LostItem)
		require.NotNil(t, notifications[0].FoundItem)
	}

	// Read-all leaves nothing unread.
	readAllResp := doJSON(t, http.MethodPut, ts.URL+"/notifications/read-all", lostToken, nil, nil)
	require.Equal(t, http.StatusOK, readAllResp.StatusCode)

	var afterRead []types.Notification
	doJSON(t, http.MethodGet, ts.URL+"/notifications", lostToken, nil, &afterRead)
	for _, notification := range afterRead {
		require.True(t, notification.Read)
	}

	// Matching an unknown id is a 404 and names the id.
	var errResp handlers.ErrorResponse
	notFoundResp := doJSON(t, http.MethodPost, ts.URL+"/admin/match-items", adminToken, map[string]string{
		"lostItemId":  "nonexistent",
		"foundItemId": found.ID,
	}, &errResp)
	require.Equal(t, http.StatusNotFound, notFoundResp.StatusCode)
	require.Contains(t, errResp.Error, "nonexistent")

	// Cascade delete removes the user's reports and notifications.
	delResp := doJSON(t, http.MethodDelete, ts.URL+"/admin/users/"+lostOwnerID, adminToken, nil, nil)
	require.Equal(t, http.StatusOK, delResp.StatusCode)

	var remaining []types.Report
	doJSON(t, http.MethodGet, ts.URL+"/reports/user/"+lostOwnerID, "", nil, &remaining)
	require.Empty(t, remaining)
}

func TestMarkReadUnknownNotification(t *testing.T) {
	ts := newTestServer(t)

	token, _ := registerUser(t, ts.URL, "alice@example.com", "Alice")

	resp := doJSON(t, http.MethodPut, ts.URL+"/notifications/missing/read", token, nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/notifications", "", nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.URL+"/auth/me", "bogus-token", nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
