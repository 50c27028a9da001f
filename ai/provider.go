package ai

import (
	"context"

	"github.com/ekycid/gateway/model"
)

// FaceMatchJobPayload asks the AI support service to compare a KTP portrait
// against a selfie. Threshold is a similarity cutoff in [0.0, 1.0], passed
// through unmodified.
type FaceMatchJobPayload struct {
	SessionID   string
	KtpImage    model.BinaryImage
	SelfieImage model.BinaryImage
	Threshold   float64
}

// LivenessJobPayload asks the AI support service to evaluate recorded
// liveness frames against the requested gestures.
type LivenessJobPayload struct {
	SessionID string
	Frames    []model.BinaryImage
	Gestures  []string
}

// Provider is the AI capability consumed by the gateway. Job dispatch is
// fire-and-forget: a handle comes back immediately and results flow to the
// backoffice service out of band. Any concrete client satisfying this
// interface is substitutable without orchestrator changes.
type Provider interface {
	Name() string
	PerformKtpOcr(ctx context.Context, image model.BinaryImage, locale string) (*model.KtpOcrResult, error)
	StartFaceMatchJob(ctx context.Context, payload FaceMatchJobPayload) (*model.AsyncJobHandle, error)
	StartLivenessJob(ctx context.Context, payload LivenessJobPayload) (*model.AsyncJobHandle, error)
}
