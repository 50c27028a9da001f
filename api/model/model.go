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
package model

import (
	"encoding/base64"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/ekycid/gateway/internal/apierror"
	"github.com/ekycid/gateway/model"
)

type CreateSessionRequest struct {
	UserID *string `json:"userId"`
}

// ImageUpload is an image carried inline in a JSON body.
type ImageUpload struct {
	ContentBase64 string  `json:"contentBase64"`
	MimeType      *string `json:"mimeType"`
}

type StartLivenessRequest struct {
	Frames   []ImageUpload `json:"frames"`
	Gestures []string      `json:"gestures"`
}

type ApplicantRequest struct {
	FullName  string  `json:"fullName"`
	Nik       *string `json:"nik"`
	BirthDate *string `json:"birthDate"`
	Address   *string `json:"address"`
	Phone     string  `json:"phone"`
	Email     *string `json:"email"`
	Pin       *string `json:"pin"`
}

type KtpOcrRequest struct {
	Image  ImageUpload `json:"image"`
	Locale *string     `json:"locale"`
}

type ProcessEkycRequest struct {
	SessionID          string        `json:"sessionId"`
	KtpImage           ImageUpload   `json:"ktpImage"`
	SelfieImage        ImageUpload   `json:"selfieImage"`
	LivenessFrames     []ImageUpload `json:"livenessFrames"`
	Gestures           []string      `json:"gestures"`
	FaceMatchThreshold *float64      `json:"faceMatchThreshold"`
	Locale             *string       `json:"locale"`
}

func (i *ImageUpload) validateBase64() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.ContentBase64, is.Base64),
	)
}

// Decode turns the base64 payload into raw bytes. Emptiness checks stay with
// the orchestrator; only malformed encoding is rejected here, under the given
// field label.
func (i *ImageUpload) Decode(field string) (model.BinaryImage, error) {
	if err := i.validateBase64(); err != nil {
		return model.BinaryImage{}, apierror.BadRequest(fmt.Sprintf("%s must be valid base64", field))
	}
	content, err := base64.StdEncoding.DecodeString(i.ContentBase64)
	if err != nil {
		return model.BinaryImage{}, apierror.BadRequest(fmt.Sprintf("%s must be valid base64", field))
	}
	return model.BinaryImage{Content: content, MimeType: i.MimeType}, nil
}

// DecodeFrames decodes every liveness frame, labeling errors with the frame
// index. A present-but-empty frame is rejected: it can never contribute to a
// liveness evaluation.
func (r *StartLivenessRequest) DecodeFrames() ([]model.BinaryImage, error) {
	frames := make([]model.BinaryImage, 0, len(r.Frames))
	for idx := range r.Frames {
		label := fmt.Sprintf("frames[%d]", idx)
		frame, err := r.Frames[idx].Decode(label)
		if err != nil {
			return nil, err
		}
		if len(frame.Content) == 0 {
			return nil, apierror.BadRequest(fmt.Sprintf("%s must not be empty", label))
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

// ToSubmission flattens the optional fields, leaving pin defaulting to the
// orchestrator.
func (r *ApplicantRequest) ToSubmission() model.ApplicantSubmission {
	deref := func(v *string) string {
		if v == nil {
			return ""
		}
		return *v
	}
	return model.ApplicantSubmission{
		FullName:  r.FullName,
		Nik:       deref(r.Nik),
		BirthDate: deref(r.BirthDate),
		Address:   deref(r.Address),
		Phone:     r.Phone,
		Email:     deref(r.Email),
		Pin:       deref(r.Pin),
	}
}
