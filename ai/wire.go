package ai

import "github.com/ekycid/gateway/model"

// Wire message shapes for the EkycSupportService RPC surface. Field names
// follow the service's proto schema.

type imagePayload struct {
	Content  []byte `json:"content"`
	MimeType string `json:"mime_type,omitempty"`
}

type ktpOcrRequest struct {
	Image  imagePayload `json:"image"`
	Locale string       `json:"locale,omitempty"`
}

type ktpOcrResponse struct {
	Result *ktpOcrResultWire `json:"result"`
}

type extraFieldWire struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type ktpOcrResultWire struct {
	Nik           string           `json:"nik"`
	Name          string           `json:"name"`
	BirthPlace    string           `json:"birth_place"`
	BirthDate     string           `json:"birth_date"`
	Gender        string           `json:"gender"`
	BloodType     string           `json:"blood_type"`
	Address       string           `json:"address"`
	RtRw          string           `json:"rt_rw"`
	Village       string           `json:"village"`
	SubDistrict   string           `json:"sub_district"`
	Religion      string           `json:"religion"`
	MaritalStatus string           `json:"marital_status"`
	Occupation    string           `json:"occupation"`
	Citizenship   string           `json:"citizenship"`
	IssueDate     string           `json:"issue_date"`
	RawText       string           `json:"raw_text"`
	ExtraFields   []extraFieldWire `json:"extra_fields"`
}

type startFaceMatchRequest struct {
	SessionID          string       `json:"session_id"`
	KtpImage           imagePayload `json:"ktp_image"`
	SelfieImage        imagePayload `json:"selfie_image"`
	FaceMatchThreshold float64      `json:"face_match_threshold"`
}

type jobHandleWire struct {
	JobID string `json:"job_id"`
	Queue string `json:"queue"`
}

type startFaceMatchResponse struct {
	Job *jobHandleWire `json:"job"`
}

type startLivenessRequest struct {
	SessionID      string         `json:"session_id"`
	LivenessFrames []imagePayload `json:"liveness_frames"`
	Gestures       []string       `json:"gestures"`
}

type startLivenessResponse struct {
	Job *jobHandleWire `json:"job"`
}

func toImagePayload(image model.BinaryImage) imagePayload {
	payload := imagePayload{Content: image.Content}
	if image.MimeType != nil {
		payload.MimeType = *image.MimeType
	}
	return payload
}

// fromWireOcrResult normalizes every recognized string field: empty or
// whitespace-only values become absent rather than empty strings.
func fromWireOcrResult(wire *ktpOcrResultWire) *model.KtpOcrResult {
	if wire == nil {
		return &model.KtpOcrResult{}
	}

	result := &model.KtpOcrResult{
		Nik:           model.NormalizeOcrField(wire.Nik),
		Name:          model.NormalizeOcrField(wire.Name),
		BirthPlace:    model.NormalizeOcrField(wire.BirthPlace),
		BirthDate:     model.NormalizeOcrField(wire.BirthDate),
		Gender:        model.NormalizeOcrField(wire.Gender),
		BloodType:     model.NormalizeOcrField(wire.BloodType),
		Address:       model.NormalizeOcrField(wire.Address),
		RtRw:          model.NormalizeOcrField(wire.RtRw),
		Village:       model.NormalizeOcrField(wire.Village),
		SubDistrict:   model.NormalizeOcrField(wire.SubDistrict),
		Religion:      model.NormalizeOcrField(wire.Religion),
		MaritalStatus: model.NormalizeOcrField(wire.MaritalStatus),
		Occupation:    model.NormalizeOcrField(wire.Occupation),
		Citizenship:   model.NormalizeOcrField(wire.Citizenship),
		IssueDate:     model.NormalizeOcrField(wire.IssueDate),
		RawText:       wire.RawText,
	}

	if len(wire.ExtraFields) > 0 {
		result.ExtraFields = make(map[string]string, len(wire.ExtraFields))
		for _, field := range wire.ExtraFields {
			result.ExtraFields[field.Key] = field.Value
		}
	}

	return result
}

func fromWireJobHandle(wire *jobHandleWire) *model.AsyncJobHandle {
	if wire == nil {
		return &model.AsyncJobHandle{}
	}
	return &model.AsyncJobHandle{JobID: wire.JobID, Queue: wire.Queue}
}
