/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package backoffice wraps the session-of-record service: a typed REST
// client for the fixed eKYC workflow plus a transparent byte-level forwarder
// for everything else.
package backoffice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/ekycid/gateway/internal/apierror"
	"github.com/ekycid/gateway/internal/request"
	"github.com/ekycid/gateway/model"
)

// Client is the typed REST client for the backoffice eKYC session API. All
// operations are synchronous request/response; none retry, and repeated
// patches layer additively downstream, so callers must avoid redundant ones.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: normalizeBaseURL(baseURL),
		client:  &http.Client{Timeout: timeout},
	}
}

type createSessionRequest struct {
	UserID *string `json:"userId,omitempty"`
}

// CreateSession opens a new eKYC session, optionally bound to a user.
func (c *Client) CreateSession(ctx context.Context, userID *string) (*model.Session, error) {
	return c.sendJSON(ctx, http.MethodPost, "/api/ekyc/sessions", createSessionRequest{UserID: userID})
}

// UpdateSession applies a sparse patch to the session's artifacts. Only
// non-nil patch fields reach the backoffice; everything else is untouched.
func (c *Client) UpdateSession(ctx context.Context, sessionID string, patch *model.SessionPatch) (*model.Session, error) {
	path := fmt.Sprintf("/api/ekyc/sessions/%s/artifacts", sessionID)
	return c.sendJSON(ctx, http.MethodPatch, path, patch)
}

// GetSession fetches the live session record.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	path := fmt.Sprintf("/api/ekyc/sessions/%s", sessionID)
	return c.sendJSON(ctx, http.MethodGet, path, nil)
}

// SubmitApplicant forwards the applicant identity fields for the session.
func (c *Client) SubmitApplicant(ctx context.Context, sessionID string, applicant model.ApplicantSubmission) (*model.Session, error) {
	path := fmt.Sprintf("/api/ekyc/sessions/%s/applicant", sessionID)
	return c.sendJSON(ctx, http.MethodPost, path, applicant)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload interface{}) (*model.Session, error) {
	var body io.Reader
	if payload != nil {
		buf, err := request.ToJsonReq(payload)
		if err != nil {
			return nil, apierror.Internal(errors.Wrap(err, "failed to encode backoffice payload"))
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, apierror.Internal(errors.Wrap(err, "failed to build backoffice request"))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := request.Call(c.client, req)
	if err != nil {
		return nil, apierror.Internal(errors.Wrap(err, "backoffice request failed"))
	}

	if !resp.Success() {
		message := errorMessage(resp.Body)
		switch resp.StatusCode {
		case http.StatusBadRequest:
			return nil, apierror.BadRequest(message)
		case http.StatusNotFound:
			return nil, apierror.NotFound(message)
		}
		return nil, apierror.Internal(errors.Errorf("backoffice returned %d: %s", resp.StatusCode, message))
	}

	var session model.Session
	if err := resp.Decode(&session); err != nil {
		return nil, apierror.Internal(errors.Wrap(err, "failed to decode backoffice session"))
	}
	return &session, nil
}

// errorMessage pulls the downstream "message" or "error" field out of an
// error body, falling back to a generic string when neither is usable.
func errorMessage(body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"message", "error"} {
			if value, ok := payload[key].(string); ok && value != "" {
				return value
			}
		}
	}
	return "backoffice error"
}

func normalizeBaseURL(base string) string {
	base = strings.TrimSpace(base)
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return strings.TrimSuffix(base, "/")
}
