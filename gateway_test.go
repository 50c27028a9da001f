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
	"time"

	"github.com/ekycid/gateway/media"
	"github.com/ekycid/gateway/model"
)

// fakeSessionStore is an in-memory stand-in for the backoffice client. It
// applies patches to a copy of the seeded session so callers observe the
// patched record the way they would against the real service.
type fakeSessionStore struct {
	session *model.Session

	patches     []*model.SessionPatch
	applicants  []model.ApplicantSubmission
	createCalls int
	getCalls    int

	// transformResult mutates the record after a patch is applied, the way a
	// backoffice with its own canonicalization rules would.
	transformResult func(*model.Session)

	err error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		session: &model.Session{
			ID:                 "sess-1",
			Status:             model.StatusCreated,
			FaceMatchingStatus: "NOT_STARTED",
			LivenessStatus:     "NOT_STARTED",
			FinalDecision:      "PENDING",
			Metadata:           map[string]interface{}{},
			CreatedAt:          time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			UpdatedAt:          time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		},
	}
}

func (f *fakeSessionStore) CreateSession(_ context.Context, userID *string) (*model.Session, error) {
	f.createCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := *f.session
	out.UserID = userID
	return &out, nil
}

func (f *fakeSessionStore) UpdateSession(_ context.Context, _ string, patch *model.SessionPatch) (*model.Session, error) {
	f.patches = append(f.patches, patch)
	if f.err != nil {
		return nil, f.err
	}
	out := *f.session
	if patch.IDCardURL != nil {
		out.IDCardURL = patch.IDCardURL
	}
	if patch.SelfieWithIDURL != nil {
		out.SelfieWithIDURL = patch.SelfieWithIDURL
	}
	if patch.RecordedVideoURL != nil {
		out.RecordedVideoURL = patch.RecordedVideoURL
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
	if f.transformResult != nil {
		f.transformResult(&out)
	}
	return &out, nil
}

func (f *fakeSessionStore) GetSession(_ context.Context, _ string) (*model.Session, error) {
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := *f.session
	return &out, nil
}

func (f *fakeSessionStore) SubmitApplicant(_ context.Context, _ string, applicant model.ApplicantSubmission) (*model.Session, error) {
	f.applicants = append(f.applicants, applicant)
	if f.err != nil {
		return nil, f.err
	}
	out := *f.session
	return &out, nil
}

type fakeUpload struct {
	field    string
	content  []byte
	filename *string
	mimeType *string
}

// fakeMediaStore records uploads and serves a fixed blob on download.
type fakeMediaStore struct {
	uploadURL       string
	downloadContent []byte

	uploads   []fakeUpload
	downloads []string

	uploadErr   error
	downloadErr error
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{
		uploadURL:       "http://media.local/objects/new",
		downloadContent: []byte("stored-ktp-bytes"),
	}
}

func (f *fakeMediaStore) Upload(_ context.Context, fieldName string, content []byte, filename, mimeType *string) (*media.UploadResponse, error) {
	f.uploads = append(f.uploads, fakeUpload{field: fieldName, content: content, filename: filename, mimeType: mimeType})
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &media.UploadResponse{URL: f.uploadURL}, nil
}

func (f *fakeMediaStore) DownloadBytes(_ context.Context, url string) ([]byte, error) {
	f.downloads = append(f.downloads, url)
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return f.downloadContent, nil
}
