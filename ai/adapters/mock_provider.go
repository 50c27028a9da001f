package adapters

import (
	"context"
	"sync"
	"time"

	"github.com/ekycid/gateway/ai"
	"github.com/ekycid/gateway/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// MockProvider is an in-memory AI capability used by tests and local
// development. It records every dispatched payload and can be told to fail.
type MockProvider struct {
	ShouldFail bool
	Delay      time.Duration
	OcrResult  *model.KtpOcrResult

	mu             sync.Mutex
	faceMatchCalls []ai.FaceMatchJobPayload
	livenessCalls  []ai.LivenessJobPayload
	ocrCalls       int
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Name() string {
	return "mock_provider"
}

func (m *MockProvider) PerformKtpOcr(ctx context.Context, image model.BinaryImage, locale string) (*model.KtpOcrResult, error) {
	m.sleep()
	m.mu.Lock()
	m.ocrCalls++
	m.mu.Unlock()

	if m.ShouldFail {
		return nil, errors.New("mock ocr failure triggered")
	}
	if m.OcrResult != nil {
		return m.OcrResult, nil
	}
	name := "MOCK APPLICANT"
	return &model.KtpOcrResult{Name: &name, RawText: "MOCK APPLICANT"}, nil
}

func (m *MockProvider) StartFaceMatchJob(ctx context.Context, payload ai.FaceMatchJobPayload) (*model.AsyncJobHandle, error) {
	m.sleep()
	m.mu.Lock()
	m.faceMatchCalls = append(m.faceMatchCalls, payload)
	m.mu.Unlock()

	if m.ShouldFail {
		return nil, errors.New("mock face match dispatch failure triggered")
	}
	return &model.AsyncJobHandle{JobID: "job_" + uuid.New().String(), Queue: "ekyc.face-match"}, nil
}

func (m *MockProvider) StartLivenessJob(ctx context.Context, payload ai.LivenessJobPayload) (*model.AsyncJobHandle, error) {
	m.sleep()
	m.mu.Lock()
	m.livenessCalls = append(m.livenessCalls, payload)
	m.mu.Unlock()

	if m.ShouldFail {
		return nil, errors.New("mock liveness dispatch failure triggered")
	}
	return &model.AsyncJobHandle{JobID: "job_" + uuid.New().String(), Queue: "ekyc.liveness"}, nil
}

// FaceMatchCalls returns a snapshot of the recorded face-match dispatches.
func (m *MockProvider) FaceMatchCalls() []ai.FaceMatchJobPayload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ai.FaceMatchJobPayload(nil), m.faceMatchCalls...)
}

// LivenessCalls returns a snapshot of the recorded liveness dispatches.
func (m *MockProvider) LivenessCalls() []ai.LivenessJobPayload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ai.LivenessJobPayload(nil), m.livenessCalls...)
}

// OcrCalls returns how many OCR requests were made.
func (m *MockProvider) OcrCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ocrCalls
}

func (m *MockProvider) sleep() {
	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}
}
