package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fitdesk/gym-console/internal/models"
	appErrors "github.com/fitdesk/gym-console/pkg/errors"
)

// Observer receives timings for every upstream call.
type Observer interface {
	ObserveUpstreamRequest(method, path string, status int, duration time.Duration)
}

// MemberPayload is the full-record member submission. Age is either an int
// or the raw form string when it did not parse; the remote validates it.
type MemberPayload struct {
	Name             string                  `json:"name"`
	Age              interface{}             `json:"age"`
	Gender           string                  `json:"gender"`
	Contact          string                  `json:"contact"`
	MembershipStatus models.MembershipStatus `json:"membershipStatus"`
	JoiningDate      models.DateOnly         `json:"joiningDate"`
}

// PlanPayload is the full-record plan submission, same pass-through policy
// for the numeric fields.
type PlanPayload struct {
	Name           string      `json:"name"`
	Price          interface{} `json:"price"`
	DurationMonths interface{} `json:"durationMonths"`
	Features       string      `json:"features"`
}

// AssignmentPayload creates a plan assignment; the end date is derived
// remotely from the plan duration.
type AssignmentPayload struct {
	UserID    string          `json:"userId"`
	PlanID    int64           `json:"planId"`
	StartDate models.DateOnly `json:"startDate"`
}

// Client calls the remote membership API.
type Client struct {
	baseURL  string
	http     *http.Client
	observer Observer
	logger   *zap.Logger
}

// New creates a client with a configurable timeout.
func New(baseURL string, timeout time.Duration, observer Observer, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		observer: observer,
		logger:   logger,
	}
}

// ListMembers fetches the full member roster in remote order.
func (c *Client) ListMembers(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	if err := c.do(ctx, http.MethodGet, "/users", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// CreateMember submits a new member record.
func (c *Client) CreateMember(ctx context.Context, payload MemberPayload) error {
	return c.do(ctx, http.MethodPost, "/users", payload, nil)
}

// UpdateMember replaces a member record in full.
func (c *Client) UpdateMember(ctx context.Context, id string, payload MemberPayload) error {
	return c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), payload, nil)
}

// DeleteMember removes a member record.
func (c *Client) DeleteMember(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}

// ListPlans fetches all membership plans.
func (c *Client) ListPlans(ctx context.Context) ([]models.Plan, error) {
	var plans []models.Plan
	if err := c.do(ctx, http.MethodGet, "/plans", nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// CreatePlan submits a new plan.
func (c *Client) CreatePlan(ctx context.Context, payload PlanPayload) error {
	return c.do(ctx, http.MethodPost, "/plans", payload, nil)
}

// UpdatePlan replaces a plan in full.
func (c *Client) UpdatePlan(ctx context.Context, id int64, payload PlanPayload) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/plans/%d", id), payload, nil)
}

// DeletePlan removes a plan. Assignment cleanup is a remote-side cascade
// the console does not verify.
func (c *Client) DeletePlan(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/plans/%d", id), nil, nil)
}

// MemberAssignments fetches one member's plan assignments. There is no
// global assignment endpoint; callers aggregate per member.
func (c *Client) MemberAssignments(ctx context.Context, userID string) ([]models.Assignment, error) {
	var assignments []models.Assignment
	path := "/plans/user/" + url.PathEscape(userID) + "/assignments"
	if err := c.do(ctx, http.MethodGet, path, nil, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// AssignPlan binds a member to a plan.
func (c *Client) AssignPlan(ctx context.Context, payload AssignmentPayload) error {
	return c.do(ctx, http.MethodPost, "/plans/assign", payload, nil)
}

// ListAttendance fetches all check-in records, name-joined remotely.
func (c *Client) ListAttendance(ctx context.Context) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	if err := c.do(ctx, http.MethodGet, "/attendance/all", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CheckIn records a manual check-in for the given member id.
func (c *Client) CheckIn(ctx context.Context, userID string) (*models.CheckInReceipt, error) {
	receipt := &models.CheckInReceipt{}
	body := map[string]string{"userId": userID}
	if err := c.do(ctx, http.MethodPost, "/attendance/checkin", body, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode upstream payload")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build upstream request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.observe(method, path, 0, duration)
		c.logger.Warn("upstream unreachable",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return appErrors.Wrap(err, appErrors.CodeUpstreamUnavailable, appErrors.ErrUpstreamUnavailable.Status, appErrors.ErrUpstreamUnavailable.Message)
	}
	defer resp.Body.Close()

	c.observe(method, path, resp.StatusCode, duration)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.CodeUpstreamUnavailable, appErrors.ErrUpstreamUnavailable.Status, "read upstream response")
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return appErrors.Wrap(err, appErrors.CodeUpstreamStatus, http.StatusBadGateway, "decode upstream response")
		}
	}
	return nil
}

func (c *Client) observe(method, path string, status int, duration time.Duration) {
	if c.observer != nil {
		c.observer.ObserveUpstreamRequest(method, path, status, duration)
	}
}

// decodeError surfaces a remote message field verbatim when present.
func decodeError(status int, data []byte) error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if len(data) > 0 {
		_ = json.Unmarshal(data, &payload)
	}

	message := strings.TrimSpace(payload.Message)
	if message == "" {
		message = strings.TrimSpace(payload.Error)
	}
	if message != "" {
		return appErrors.UpstreamRejected(status, message)
	}
	return appErrors.UpstreamStatus(status)
}
