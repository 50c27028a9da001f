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

package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekycid/gateway"
	"github.com/ekycid/gateway/ai/adapters"
	model2 "github.com/ekycid/gateway/api/model"
	"github.com/ekycid/gateway/backoffice"
	"github.com/ekycid/gateway/config"
	"github.com/ekycid/gateway/internal/request"
	"github.com/ekycid/gateway/media"
	"github.com/ekycid/gateway/model"
)

type TestRequest struct {
	Payload  io.Reader
	Router   *gin.Engine
	Response interface{}
	Method   string
	Route    string
	Header   map[string]string
}

func SetUpTestRequest(s TestRequest) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(s.Method, s.Route, s.Payload)
	for key, value := range s.Header {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	s.Router.ServeHTTP(resp, req)

	err := json.NewDecoder(resp.Body).Decode(&s.Response)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// sessionStoreStub mirrors the backoffice contract in memory, applying
// patches to a copy of the seeded session.
type sessionStoreStub struct {
	session    *model.Session
	applicants []model.ApplicantSubmission
	err        error
}

func newSessionStoreStub() *sessionStoreStub {
	return &sessionStoreStub{
		session: &model.Session{
			ID:                 "sess-1",
			Status:             model.StatusCreated,
			FaceMatchingStatus: "NOT_STARTED",
			LivenessStatus:     "NOT_STARTED",
			FinalDecision:      "PENDING",
			Metadata:           map[string]interface{}{},
		},
	}
}

func (s *sessionStoreStub) CreateSession(_ context.Context, userID *string) (*model.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := *s.session
	out.UserID = userID
	return &out, nil
}

func (s *sessionStoreStub) UpdateSession(_ context.Context, _ string, patch *model.SessionPatch) (*model.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := *s.session
	if patch.IDCardURL != nil {
		out.IDCardURL = patch.IDCardURL
	}
	if patch.SelfieWithIDURL != nil {
		out.SelfieWithIDURL = patch.SelfieWithIDURL
	}
	if patch.Status != nil {
		out.Status = *patch.Status
	}
	if patch.FaceMatchingStatus != nil {
		out.FaceMatchingStatus = *patch.FaceMatchingStatus
	}
	if patch.LivenessStatus != nil {
		out.LivenessStatus = *patch.LivenessStatus
	}
	return &out, nil
}

func (s *sessionStoreStub) GetSession(_ context.Context, _ string) (*model.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := *s.session
	return &out, nil
}

func (s *sessionStoreStub) SubmitApplicant(_ context.Context, _ string, applicant model.ApplicantSubmission) (*model.Session, error) {
	s.applicants = append(s.applicants, applicant)
	if s.err != nil {
		return nil, s.err
	}
	out := *s.session
	return &out, nil
}

type mediaStoreStub struct {
	content  []byte
	uploaded [][]byte
}

func (m *mediaStoreStub) Upload(_ context.Context, _ string, content []byte, _, _ *string) (*media.UploadResponse, error) {
	m.uploaded = append(m.uploaded, content)
	return &media.UploadResponse{URL: "http://media.local/objects/new"}, nil
}

func (m *mediaStoreStub) DownloadBytes(_ context.Context, _ string) ([]byte, error) {
	return m.content, nil
}

func setupRouter(upstream string) (*gin.Engine, *sessionStoreStub, *adapters.MockProvider) {
	router, sessions, provider, _ := setupRouterWithMedia(upstream)
	return router, sessions, provider
}

func setupRouterWithMedia(upstream string) (*gin.Engine, *sessionStoreStub, *adapters.MockProvider, *mediaStoreStub) {
	config.MockConfig(&config.Configuration{})
	provider := adapters.NewMockProvider()
	sessions := newSessionStoreStub()
	blobs := &mediaStoreStub{content: []byte("stored-bytes")}
	g := gateway.NewGateway(provider, sessions, blobs)
	forwarder := backoffice.NewForwarder(upstream, time.Second)
	router := NewAPI(g, forwarder).Router()
	return router, sessions, provider, blobs
}

func multipartFile(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	part, err := form.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, form.Close())
	return body, form.FormDataContentType()
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := setupRouter("http://backoffice.local")

	var response map[string]string
	resp, err := SetUpTestRequest(TestRequest{
		Response: &response,
		Method:   "GET",
		Route:    "/health",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "ok", response["status"])
}

func TestCreateSessionEndpoint(t *testing.T) {
	router, _, _ := setupRouter("http://backoffice.local")

	tests := []struct {
		name         string
		payload      io.Reader
		expectedCode int
	}{
		{name: "Empty Body", payload: nil, expectedCode: http.StatusCreated},
		{name: "With User", payload: bytes.NewBufferString(`{"userId": "user-42"}`), expectedCode: http.StatusCreated},
		{name: "Malformed Body", payload: bytes.NewBufferString(`{userId`), expectedCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var response model.Session
			resp, err := SetUpTestRequest(TestRequest{
				Payload:  tt.payload,
				Response: &response,
				Method:   "POST",
				Route:    "/ekyc/sessions",
				Router:   router,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCode, resp.Code)
			if tt.expectedCode == http.StatusCreated {
				assert.Equal(t, "sess-1", response.ID)
			}
		})
	}
}

func TestGetSessionEndpoint(t *testing.T) {
	router, _, _ := setupRouter("http://backoffice.local")

	var response model.Session
	resp, err := SetUpTestRequest(TestRequest{
		Response: &response,
		Method:   "GET",
		Route:    "/ekyc/sessions/sess-1",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "sess-1", response.ID)
}

func TestUploadIdCardEndpoint(t *testing.T) {
	router, _, _ := setupRouter("http://backoffice.local")

	body, contentType := multipartFile(t, "file", "ktp.jpg", []byte("ktp-bytes"))
	var response model.Session
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  body,
		Response: &response,
		Method:   "POST",
		Route:    "/ekyc/sessions/sess-1/id-card",
		Header:   map[string]string{"Content-Type": contentType},
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, response.IDCardURL)
	assert.Equal(t, "http://media.local/objects/new", *response.IDCardURL)
}

func TestUploadIdCardFirstFilePartWins(t *testing.T) {
	router, _, _, blobs := setupRouterWithMedia("http://backoffice.local")

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	require.NoError(t, form.WriteField("note", "metadata, no filename"))
	first, err := form.CreateFormFile("document", "ktp.jpg")
	require.NoError(t, err)
	_, err = first.Write([]byte("first-part-bytes"))
	require.NoError(t, err)
	second, err := form.CreateFormFile("attachment", "extra.jpg")
	require.NoError(t, err)
	_, err = second.Write([]byte("second-part-bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	var response model.Session
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  body,
		Response: &response,
		Method:   "POST",
		Route:    "/ekyc/sessions/sess-1/id-card",
		Header:   map[string]string{"Content-Type": form.FormDataContentType()},
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, blobs.uploaded, 1)
	assert.Equal(t, []byte("first-part-bytes"), blobs.uploaded[0],
		"the first part carrying a filename must win, regardless of field name")
}

func TestUploadIdCardMissingFilePart(t *testing.T) {
	router, _, _ := setupRouter("http://backoffice.local")

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	require.NoError(t, form.WriteField("note", "no file here"))
	require.NoError(t, form.Close())

	var response map[string]string
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  body,
		Response: &response,
		Method:   "POST",
		Route:    "/ekyc/sessions/sess-1/id-card",
		Header:   map[string]string{"Content-Type": form.FormDataContentType()},
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "file field is required", response["message"])
}

func TestUploadSelfieEndpointDispatches(t *testing.T) {
	router, sessions, provider := setupRouter("http://backoffice.local")
	idCardURL := "http://media.local/objects/ktp"
	sessions.session.IDCardURL = &idCardURL

	body, contentType := multipartFile(t, "file", "selfie.png", []byte("selfie-bytes"))
	var response model.Session
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  body,
		Response: &response,
		Method:   "POST",
		Route:    "/ekyc/sessions/sess-1/selfie-with-id",
		Header:   map[string]string{"Content-Type": contentType},
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, model.FaceMatchStatusQueued, response.FaceMatchingStatus)
	assert.Len(t, provider.FaceMatchCalls(), 1)
}

func TestStartLivenessEndpoint(t *testing.T) {
	router, _, provider := setupRouter("http://backoffice.local")

	frame := base64.StdEncoding.EncodeToString([]byte("frame-bytes"))

	tests := []struct {
		name         string
		payload      model2.StartLivenessRequest
		expectedCode int
		wantMessage  string
	}{
		{
			name: "Valid Frames",
			payload: model2.StartLivenessRequest{
				Frames:   []model2.ImageUpload{{ContentBase64: frame}},
				Gestures: []string{"blink"},
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "No Frames",
			payload:      model2.StartLivenessRequest{Gestures: []string{"blink"}},
			expectedCode: http.StatusBadRequest,
			wantMessage:  "at least one liveness frame is required",
		},
		{
			name: "Invalid Base64",
			payload: model2.StartLivenessRequest{
				Frames: []model2.ImageUpload{{ContentBase64: frame}, {ContentBase64: "!!not-base64!!"}},
			},
			expectedCode: http.StatusBadRequest,
			wantMessage:  "frames[1] must be valid base64",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payloadBytes, _ := request.ToJsonReq(&tt.payload)
			var response map[string]interface{}
			resp, err := SetUpTestRequest(TestRequest{
				Payload:  payloadBytes,
				Response: &response,
				Method:   "POST",
				Route:    "/ekyc/sessions/sess-1/liveness",
				Router:   router,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCode, resp.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, response["message"])
			}
		})
	}
	assert.Len(t, provider.LivenessCalls(), 1)
}

func TestSubmitApplicantEndpoint(t *testing.T) {
	router, sessions, _ := setupRouter("http://backoffice.local")

	fullName := gofakeit.Name()
	payloadBytes, _ := request.ToJsonReq(&model2.ApplicantRequest{
		FullName: fullName,
		Phone:    "+628111111111",
	})
	var response model.Session
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payloadBytes,
		Response: &response,
		Method:   "POST",
		Route:    "/ekyc/sessions/sess-1/applicant",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, sessions.applicants, 1)
	assert.Equal(t, fullName, sessions.applicants[0].FullName)
	assert.Equal(t, "123456", sessions.applicants[0].Pin)
}

func TestSubmitApplicantEndpointMissingPhone(t *testing.T) {
	router, _, _ := setupRouter("http://backoffice.local")

	payloadBytes, _ := request.ToJsonReq(&model2.ApplicantRequest{FullName: gofakeit.Name()})
	var response map[string]string
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payloadBytes,
		Response: &response,
		Method:   "POST",
		Route:    "/ekyc/sessions/sess-1/applicant",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, response["message"], "phone")
}

func TestKtpOcrEndpoint(t *testing.T) {
	router, _, provider := setupRouter("http://backoffice.local")
	nik := "3174012345678901"
	provider.OcrResult = &model.KtpOcrResult{Nik: &nik, RawText: "NIK 3174012345678901"}

	payloadBytes, _ := request.ToJsonReq(&model2.KtpOcrRequest{
		Image: model2.ImageUpload{ContentBase64: base64.StdEncoding.EncodeToString([]byte("ktp-bytes"))},
	})
	var response model.KtpOcrResult
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payloadBytes,
		Response: &response,
		Method:   "POST",
		Route:    "/ekyc/ktp-ocr",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, response.Nik)
	assert.Equal(t, nik, *response.Nik)
}

func TestKtpOcrEndpointEmptyImage(t *testing.T) {
	router, _, provider := setupRouter("http://backoffice.local")

	payloadBytes, _ := request.ToJsonReq(&model2.KtpOcrRequest{})
	var response map[string]string
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payloadBytes,
		Response: &response,
		Method:   "POST",
		Route:    "/ekyc/ktp-ocr",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "ktp image content is required", response["message"])
	assert.Zero(t, provider.OcrCalls())
}

func TestProcessEndpoint(t *testing.T) {
	router, _, provider := setupRouter("http://backoffice.local")

	encode := func(v string) string { return base64.StdEncoding.EncodeToString([]byte(v)) }
	payloadBytes, _ := request.ToJsonReq(&model2.ProcessEkycRequest{
		SessionID:      "sess-1",
		KtpImage:       model2.ImageUpload{ContentBase64: encode("ktp")},
		SelfieImage:    model2.ImageUpload{ContentBase64: encode("selfie")},
		LivenessFrames: []model2.ImageUpload{{ContentBase64: encode("frame")}},
		Gestures:       []string{"blink"},
	})
	var response gateway.ProcessResult
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payloadBytes,
		Response: &response,
		Method:   "POST",
		Route:    "/ekyc/process",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, response.FaceMatchJob)
	require.NotNil(t, response.LivenessJob)
	require.NotNil(t, response.OcrResult)
	assert.Equal(t, 1, provider.OcrCalls())
}

func TestProcessEndpointProviderFailureIsGeneric(t *testing.T) {
	router, _, provider := setupRouter("http://backoffice.local")
	provider.ShouldFail = true

	encode := func(v string) string { return base64.StdEncoding.EncodeToString([]byte(v)) }
	payloadBytes, _ := request.ToJsonReq(&model2.ProcessEkycRequest{
		SessionID:      "sess-1",
		KtpImage:       model2.ImageUpload{ContentBase64: encode("ktp")},
		SelfieImage:    model2.ImageUpload{ContentBase64: encode("selfie")},
		LivenessFrames: []model2.ImageUpload{{ContentBase64: encode("frame")}},
	})
	var response map[string]string
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payloadBytes,
		Response: &response,
		Method:   "POST",
		Route:    "/ekyc/process",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "internal server error", response["message"], "provider failure detail must never reach the client")
}
