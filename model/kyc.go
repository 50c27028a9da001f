package model

import "strings"

// BinaryImage is raw image content plus an optional MIME type. Instances are
// request-scoped and never outlive the request that produced them.
type BinaryImage struct {
	Content  []byte
	MimeType *string
}

// UploadedFile is a BinaryImage decoded from a multipart or base64 wire
// payload, with the original filename when the client supplied one.
type UploadedFile struct {
	BinaryImage
	Filename *string
}

// AsyncJobHandle references a dispatched unit of work on the AI support
// service. The gateway never polls it; results arrive through a side channel.
type AsyncJobHandle struct {
	JobID string `json:"jobId"`
	Queue string `json:"queue"`
}

// KtpOcrResult is the flat record of identity fields recognized on a KTP
// card. A nil field means the recognizer found nothing usable there, which is
// distinct from a recognized-but-blank value; see NormalizeOcrField.
type KtpOcrResult struct {
	Nik           *string           `json:"nik,omitempty"`
	Name          *string           `json:"name,omitempty"`
	BirthPlace    *string           `json:"birthPlace,omitempty"`
	BirthDate     *string           `json:"birthDate,omitempty"`
	Gender        *string           `json:"gender,omitempty"`
	BloodType     *string           `json:"bloodType,omitempty"`
	Address       *string           `json:"address,omitempty"`
	RtRw          *string           `json:"rtRw,omitempty"`
	Village       *string           `json:"village,omitempty"`
	SubDistrict   *string           `json:"subDistrict,omitempty"`
	Religion      *string           `json:"religion,omitempty"`
	MaritalStatus *string           `json:"maritalStatus,omitempty"`
	Occupation    *string           `json:"occupation,omitempty"`
	Citizenship   *string           `json:"citizenship,omitempty"`
	IssueDate     *string           `json:"issueDate,omitempty"`
	RawText       string            `json:"rawText"`
	ExtraFields   map[string]string `json:"extraFields,omitempty"`
}

// NormalizeOcrField maps empty or whitespace-only recognizer output to nil so
// callers can tell "not found" apart from "found but blank". Non-empty values
// are preserved verbatim, surrounding whitespace included.
func NormalizeOcrField(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
