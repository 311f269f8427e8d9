package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/fitdesk/gym-console/pkg/errors"
)

type observerStub struct {
	mu    sync.Mutex
	calls []observedCall
}

type observedCall struct {
	method string
	path   string
	status int
}

func (o *observerStub) ObserveUpstreamRequest(method, path string, status int, duration time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, observedCall{method: method, path: path, status: status})
}

func (o *observerStub) last(t *testing.T) observedCall {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.calls)
	return o.calls[len(o.calls)-1]
}

func TestClientListMembersDecodesRoster(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"u1","name":"Asha","age":31},{"id":"u2","name":"Binta","age":27}]`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil, nil)
	members, err := client.ListMembers(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "u1", members[0].ID)
	assert.Equal(t, "Binta", members[1].Name)
}

func TestClientSurfacesRemoteMessageField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"User not found"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil, nil)
	_, err := client.CheckIn(context.Background(), "missing")
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.CodeUpstreamRejected, appErr.Code)
	assert.Equal(t, "User not found", appErr.Message)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestClientFallsBackToErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"price must be a number"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil, nil)
	err := client.CreatePlan(context.Background(), PlanPayload{Name: "Gold", Price: "abc"})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.CodeUpstreamRejected, appErr.Code)
	assert.Equal(t, "price must be a number", appErr.Message)
}

func TestClientStatusOnlyErrorWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil, nil)
	_, err := client.ListPlans(context.Background())
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.CodeUpstreamStatus, appErr.Code)
	assert.Equal(t, "membership API returned status 500", appErr.Message)
}

func TestClientTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	observer := &observerStub{}
	client := New(srv.URL, time.Second, observer, nil)
	srv.Close()

	_, err := client.ListMembers(context.Background())
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.CodeUpstreamUnavailable, appErr.Code)
	assert.Equal(t, http.StatusBadGateway, appErr.Status)
	assert.Equal(t, 0, observer.last(t).status, "transport errors observed with status 0")
}

func TestClientCheckInPayloadAndReceipt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/attendance/checkin", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u1", body["userId"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"userId":"u1","checkInTime":"2026-08-26T09:30:00Z"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil, nil)
	receipt, err := client.CheckIn(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", receipt.UserID)
	assert.Equal(t, 2026, receipt.CheckInTime.Year())
}

func TestClientMemberAssignmentsPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/plans/user/u%201/assignments", r.URL.EscapedPath())
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil, nil)
	rows, err := client.MemberAssignments(context.Background(), "u 1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestClientObserverRecordsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	observer := &observerStub{}
	client := New(srv.URL, time.Second, observer, nil)
	require.NoError(t, client.DeleteMember(context.Background(), "u1"))

	call := observer.last(t)
	assert.Equal(t, http.MethodDelete, call.method)
	assert.Equal(t, "/users/u1", call.path)
	assert.Equal(t, http.StatusNoContent, call.status)
}

func TestClientForwardsUnparsedNumerics(t *testing.T) {
	var captured map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil, nil)
	err := client.CreatePlan(context.Background(), PlanPayload{
		Name:           "Gold",
		Price:          "forty nine",
		DurationMonths: 12,
	})
	require.NoError(t, err)

	assert.Equal(t, "forty nine", captured["price"], "unparseable numerics travel as the raw string")
	assert.Equal(t, float64(12), captured["durationMonths"])
}
