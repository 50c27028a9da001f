package model

import "time"

// Session lifecycle states owned by the backoffice service. The gateway only
// reads these back and requests transitions through sparse patches.
const (
	StatusCreated     = "CREATED"
	StatusUnderReview = "UNDER_REVIEW"

	FaceMatchStatusQueued = "QUEUED"
	LivenessStatusRunning = "RUNNING"
)

// Session is the eKYC session record as returned by the backoffice service.
// Field names mirror the backoffice wire format exactly; the gateway never
// persists or mutates a session locally.
type Session struct {
	ID                 string                 `json:"id"`
	UserID             *string                `json:"userId,omitempty"`
	Status             string                 `json:"status"`
	FaceMatchingStatus string                 `json:"faceMatchingStatus"`
	LivenessStatus     string                 `json:"livenessStatus"`
	FinalDecision      string                 `json:"finalDecision"`
	IDCardURL          *string                `json:"idCardUrl,omitempty"`
	SelfieWithIDURL    *string                `json:"selfieWithIdUrl,omitempty"`
	RecordedVideoURL   *string                `json:"recordedVideoUrl,omitempty"`
	FaceMatchOverall   *string                `json:"faceMatchOverall,omitempty"`
	LivenessOverall    *string                `json:"livenessOverall,omitempty"`
	RejectionReason    *string                `json:"rejectionReason,omitempty"`
	Metadata           map[string]interface{} `json:"metadata"`
	CreatedAt          time.Time              `json:"createdAt"`
	UpdatedAt          time.Time              `json:"updatedAt"`
	FaceChecks         []FaceCheck            `json:"faceChecks,omitempty"`
	LivenessCheck      *LivenessCheck         `json:"livenessCheck,omitempty"`
}

// FaceCheck is a single face-match evaluation attached to a session.
type FaceCheck struct {
	ID              string                 `json:"id"`
	EkycSessionID   string                 `json:"ekycSessionId"`
	Step            string                 `json:"step"`
	SimilarityScore *float64               `json:"similarityScore,omitempty"`
	Threshold       *float64               `json:"threshold,omitempty"`
	Result          string                 `json:"result"`
	RawMetadata     map[string]interface{} `json:"rawMetadata"`
	CreatedAt       time.Time              `json:"createdAt"`
}

// LivenessCheck is the liveness evaluation attached to a session.
type LivenessCheck struct {
	ID               string                 `json:"id"`
	EkycSessionID    string                 `json:"ekycSessionId"`
	OverallResult    string                 `json:"overallResult"`
	PerGestureResult map[string]interface{} `json:"perGestureResult"`
	RecordedVideoURL *string                `json:"recordedVideoUrl,omitempty"`
	RawMetadata      map[string]interface{} `json:"rawMetadata"`
	CreatedAt        time.Time              `json:"createdAt"`
}

// SessionPatch is a sparse update of session artifacts. A nil field is left
// untouched downstream; a set field overwrites. Never conflate "set to empty
// string" with "unset".
type SessionPatch struct {
	IDCardURL          *string `json:"idCardUrl,omitempty"`
	SelfieWithIDURL    *string `json:"selfieWithIdUrl,omitempty"`
	RecordedVideoURL   *string `json:"recordedVideoUrl,omitempty"`
	Status             *string `json:"status,omitempty"`
	FaceMatchingStatus *string `json:"faceMatchingStatus,omitempty"`
	LivenessStatus     *string `json:"livenessStatus,omitempty"`
}

// ApplicantSubmission carries the applicant identity fields forwarded to the
// backoffice service once the verification artifacts are in place.
type ApplicantSubmission struct {
	FullName  string `json:"fullName"`
	Nik       string `json:"nik"`
	BirthDate string `json:"birthDate"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Pin       string `json:"pin"`
}
