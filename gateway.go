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

// Package gateway orchestrates the eKYC flow across the AI support service,
// the backoffice session store and the media blob store. The gateway holds no
// session state of its own: every operation reads or patches the backoffice
// record and reacts to what comes back.
package gateway

import (
	"context"

	"github.com/ekycid/gateway/ai"
	"github.com/ekycid/gateway/media"
	"github.com/ekycid/gateway/model"
)

// SessionStore is the backoffice session API consumed by the orchestrator.
type SessionStore interface {
	CreateSession(ctx context.Context, userID *string) (*model.Session, error)
	UpdateSession(ctx context.Context, sessionID string, patch *model.SessionPatch) (*model.Session, error)
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	SubmitApplicant(ctx context.Context, sessionID string, applicant model.ApplicantSubmission) (*model.Session, error)
}

// MediaStore is the blob-storage API consumed by the orchestrator.
type MediaStore interface {
	Upload(ctx context.Context, fieldName string, content []byte, filename, mimeType *string) (*media.UploadResponse, error)
	DownloadBytes(ctx context.Context, url string) ([]byte, error)
}

type Gateway struct {
	provider ai.Provider
	sessions SessionStore
	media    MediaStore
}

func NewGateway(provider ai.Provider, sessions SessionStore, media MediaStore) *Gateway {
	return &Gateway{
		provider: provider,
		sessions: sessions,
		media:    media,
	}
}
