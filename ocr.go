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

package gateway

import (
	"context"

	"github.com/ekycid/gateway/ai"
	"github.com/ekycid/gateway/internal/apierror"
	"github.com/ekycid/gateway/model"
)

// ProcessPayload bundles everything needed to kick off a full eKYC
// evaluation in one call: the KTP image for OCR and face matching, the
// selfie, and the recorded liveness frames.
type ProcessPayload struct {
	SessionID          string
	KtpImage           model.BinaryImage
	SelfieImage        model.BinaryImage
	LivenessFrames     []model.BinaryImage
	Gestures           []string
	FaceMatchThreshold *float64
	Locale             string
}

// ProcessResult is the outcome of StartEkycJobs: the synchronous OCR result
// plus handles for the two dispatched jobs.
type ProcessResult struct {
	OcrResult    *model.KtpOcrResult   `json:"ocrResult"`
	FaceMatchJob *model.AsyncJobHandle `json:"faceMatchJob"`
	LivenessJob  *model.AsyncJobHandle `json:"livenessJob"`
}

// PerformKtpOcr runs synchronous OCR on a KTP image.
func (g *Gateway) PerformKtpOcr(ctx context.Context, image model.BinaryImage, locale string) (*model.KtpOcrResult, error) {
	if len(image.Content) == 0 {
		return nil, apierror.BadRequest("ktp image content is required")
	}
	return g.provider.PerformKtpOcr(ctx, image, locale)
}

// StartEkycJobs runs the composite dispatch: OCR first, then the face-match
// job, then the liveness job, strictly in that order. Unlike the per-step
// session operations there is no best-effort branch here; dispatch is the
// whole contract of the call, so the first failure aborts it.
func (g *Gateway) StartEkycJobs(ctx context.Context, payload ProcessPayload) (*ProcessResult, error) {
	if len(payload.KtpImage.Content) == 0 {
		return nil, apierror.BadRequest("ktp image content is required")
	}
	if len(payload.SelfieImage.Content) == 0 {
		return nil, apierror.BadRequest("selfie image content is required")
	}
	if len(payload.LivenessFrames) == 0 {
		return nil, apierror.BadRequest("at least one liveness frame is required")
	}

	ocrResult, err := g.provider.PerformKtpOcr(ctx, payload.KtpImage, payload.Locale)
	if err != nil {
		return nil, err
	}

	threshold := faceMatchThreshold()
	if payload.FaceMatchThreshold != nil {
		threshold = *payload.FaceMatchThreshold
	}
	faceMatchJob, err := g.provider.StartFaceMatchJob(ctx, ai.FaceMatchJobPayload{
		SessionID:   payload.SessionID,
		KtpImage:    payload.KtpImage,
		SelfieImage: payload.SelfieImage,
		Threshold:   threshold,
	})
	if err != nil {
		return nil, err
	}

	livenessJob, err := g.provider.StartLivenessJob(ctx, ai.LivenessJobPayload{
		SessionID: payload.SessionID,
		Frames:    payload.LivenessFrames,
		Gestures:  payload.Gestures,
	})
	if err != nil {
		return nil, err
	}

	return &ProcessResult{
		OcrResult:    ocrResult,
		FaceMatchJob: faceMatchJob,
		LivenessJob:  livenessJob,
	}, nil
}
