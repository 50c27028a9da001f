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
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ekycid/gateway/ai"
	"github.com/ekycid/gateway/config"
	"github.com/ekycid/gateway/internal/apierror"
	"github.com/ekycid/gateway/model"
)

const (
	// uploadFieldName is the multipart field the media service expects
	// verification artifacts under.
	uploadFieldName = "file"

	// defaultPin is the placeholder PIN stored when the applicant did not
	// choose one. The backoffice forces a reset on first login.
	defaultPin = "123456"
)

// CreateSession opens a fresh eKYC session, optionally bound to a user.
func (g *Gateway) CreateSession(ctx context.Context, userID *string) (*model.Session, error) {
	return g.sessions.CreateSession(ctx, userID)
}

// UploadIdCard stores the KTP photo and records its URL on the session. Face
// matching is deferred until the selfie arrives, so no AI dispatch happens
// here.
func (g *Gateway) UploadIdCard(ctx context.Context, sessionID string, file model.UploadedFile) (*model.Session, error) {
	if len(file.Content) == 0 {
		return nil, apierror.BadRequest("file content is required")
	}

	uploaded, err := g.media.Upload(ctx, uploadFieldName, file.Content, file.Filename, file.MimeType)
	if err != nil {
		return nil, err
	}

	return g.sessions.UpdateSession(ctx, sessionID, &model.SessionPatch{
		IDCardURL: &uploaded.URL,
	})
}

// UploadSelfie stores the selfie-with-id photo, marks face matching as
// queued, and then tries to dispatch the face-match job. Dispatch is best
// effort: the selfie is already accepted and stored, so a download or RPC
// failure is logged and swallowed and the patched session is returned
// regardless.
func (g *Gateway) UploadSelfie(ctx context.Context, sessionID string, file model.UploadedFile) (*model.Session, error) {
	if len(file.Content) == 0 {
		return nil, apierror.BadRequest("file content is required")
	}

	uploaded, err := g.media.Upload(ctx, uploadFieldName, file.Content, file.Filename, file.MimeType)
	if err != nil {
		return nil, err
	}

	queued := model.FaceMatchStatusQueued
	session, err := g.sessions.UpdateSession(ctx, sessionID, &model.SessionPatch{
		SelfieWithIDURL:    &uploaded.URL,
		FaceMatchingStatus: &queued,
	})
	if err != nil {
		return nil, err
	}

	g.dispatchFaceMatch(ctx, session, file.BinaryImage)
	return session, nil
}

// StartLiveness marks the liveness check as running, moves the session under
// review, and best-effort dispatches the liveness job.
func (g *Gateway) StartLiveness(ctx context.Context, sessionID string, frames []model.BinaryImage, gestures []string) (*model.Session, error) {
	if len(frames) == 0 {
		return nil, apierror.BadRequest("at least one liveness frame is required")
	}

	running := model.LivenessStatusRunning
	underReview := model.StatusUnderReview
	session, err := g.sessions.UpdateSession(ctx, sessionID, &model.SessionPatch{
		LivenessStatus: &running,
		Status:         &underReview,
	})
	if err != nil {
		return nil, err
	}

	if _, err := g.provider.StartLivenessJob(ctx, ai.LivenessJobPayload{
		SessionID: session.ID,
		Frames:    frames,
		Gestures:  gestures,
	}); err != nil {
		logrus.WithFields(logrus.Fields{
			"session_id": session.ID,
			"error":      err,
		}).Warn("failed to dispatch liveness job")
	}
	return session, nil
}

// GetSession reads the live session record from the backoffice.
func (g *Gateway) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	return g.sessions.GetSession(ctx, sessionID)
}

// SubmitApplicant forwards the applicant identity fields, filling in the
// placeholder PIN when the caller left it out.
func (g *Gateway) SubmitApplicant(ctx context.Context, sessionID string, applicant model.ApplicantSubmission) (*model.Session, error) {
	if strings.TrimSpace(applicant.Phone) == "" {
		return nil, apierror.BadRequest("phone number is required")
	}
	if strings.TrimSpace(applicant.FullName) == "" {
		return nil, apierror.BadRequest("full name is required")
	}
	if applicant.Pin == "" {
		applicant.Pin = defaultPin
	}
	return g.sessions.SubmitApplicant(ctx, sessionID, applicant)
}

// dispatchFaceMatch fires the face-match job once both artifacts exist. Every
// failure path logs and returns: the caller's upload already succeeded and
// must not be failed retroactively by this side effect.
func (g *Gateway) dispatchFaceMatch(ctx context.Context, session *model.Session, selfie model.BinaryImage) {
	if !strings.EqualFold(session.FaceMatchingStatus, model.FaceMatchStatusQueued) {
		return
	}
	if session.IDCardURL == nil || *session.IDCardURL == "" {
		return
	}

	ktpBytes, err := g.media.DownloadBytes(ctx, *session.IDCardURL)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"session_id": session.ID,
			"error":      err,
		}).Warn("failed to download id card for face match dispatch")
		return
	}

	if _, err := g.provider.StartFaceMatchJob(ctx, ai.FaceMatchJobPayload{
		SessionID:   session.ID,
		KtpImage:    model.BinaryImage{Content: ktpBytes},
		SelfieImage: selfie,
		Threshold:   faceMatchThreshold(),
	}); err != nil {
		logrus.WithFields(logrus.Fields{
			"session_id": session.ID,
			"error":      err,
		}).Warn("failed to dispatch face match job")
	}
}

func faceMatchThreshold() float64 {
	cnf, err := config.Fetch()
	if err != nil {
		return config.DefaultFaceMatchThreshold
	}
	return cnf.AiSupport.FaceMatchThreshold
}
