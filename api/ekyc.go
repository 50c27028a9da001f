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
package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ekycid/gateway"
	model2 "github.com/ekycid/gateway/api/model"
	"github.com/ekycid/gateway/internal/apierror"
	"github.com/ekycid/gateway/model"
)

func (a Api) CreateSession(c *gin.Context) {
	var req model2.CreateSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
			return
		}
	}

	resp, err := a.gateway.CreateSession(c.Request.Context(), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetSession(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"message": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.gateway.GetSession(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) UploadIdCard(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"message": "id is required. pass id in the route /:id"})
		return
	}

	file, err := readUploadedFile(c)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := a.gateway.UploadIdCard(c.Request.Context(), id, *file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) UploadSelfie(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"message": "id is required. pass id in the route /:id"})
		return
	}

	file, err := readUploadedFile(c)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := a.gateway.UploadSelfie(c.Request.Context(), id, *file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) StartLiveness(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"message": "id is required. pass id in the route /:id"})
		return
	}

	var req model2.StartLivenessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	frames, err := req.DecodeFrames()
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := a.gateway.StartLiveness(c.Request.Context(), id, frames, req.Gestures)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) SubmitApplicant(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"message": "id is required. pass id in the route /:id"})
		return
	}

	var req model2.ApplicantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	resp, err := a.gateway.SubmitApplicant(c.Request.Context(), id, req.ToSubmission())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) PerformKtpOcr(c *gin.Context) {
	var req model2.KtpOcrRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	image, err := req.Image.Decode("image")
	if err != nil {
		respondError(c, err)
		return
	}

	locale := ""
	if req.Locale != nil {
		locale = *req.Locale
	}
	resp, err := a.gateway.PerformKtpOcr(c.Request.Context(), image, locale)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) StartEkycJobs(c *gin.Context) {
	var req model2.ProcessEkycRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	ktpImage, err := req.KtpImage.Decode("ktpImage")
	if err != nil {
		respondError(c, err)
		return
	}
	selfieImage, err := req.SelfieImage.Decode("selfieImage")
	if err != nil {
		respondError(c, err)
		return
	}
	livenessReq := model2.StartLivenessRequest{Frames: req.LivenessFrames}
	frames, err := livenessReq.DecodeFrames()
	if err != nil {
		respondError(c, err)
		return
	}

	locale := ""
	if req.Locale != nil {
		locale = *req.Locale
	}
	resp, err := a.gateway.StartEkycJobs(c.Request.Context(), gateway.ProcessPayload{
		SessionID:          req.SessionID,
		KtpImage:           ktpImage,
		SelfieImage:        selfieImage,
		LivenessFrames:     frames,
		Gestures:           req.Gestures,
		FaceMatchThreshold: req.FaceMatchThreshold,
		Locale:             locale,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// readUploadedFile walks the multipart parts in wire order and picks the
// first one carrying a filename, the same contract the legacy mobile clients
// rely on. Filename-less fields are skipped.
func readUploadedFile(c *gin.Context) (*model.UploadedFile, error) {
	reader, err := c.Request.MultipartReader()
	if err != nil {
		return nil, apierror.BadRequest("invalid multipart payload")
	}

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apierror.BadRequest("invalid multipart payload")
		}
		if part.FileName() == "" {
			continue
		}

		content, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return nil, apierror.BadRequest("failed to read file data")
		}

		filename := part.FileName()
		uploaded := &model.UploadedFile{
			BinaryImage: model.BinaryImage{Content: content},
			Filename:    &filename,
		}
		if contentType := part.Header.Get("Content-Type"); contentType != "" {
			uploaded.MimeType = &contentType
		}
		return uploaded, nil
	}
	return nil, apierror.BadRequest("file field is required")
}

// respondError maps an orchestrator error onto the wire. Internal causes are
// logged here and never serialized to the client.
func respondError(c *gin.Context, err error) {
	status := apierror.MapErrorToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"error": err,
			"path":  c.Request.URL.Path,
		}).Error("internal error")
		c.JSON(status, gin.H{"message": "internal server error"})
		return
	}

	if apiErr, ok := err.(apierror.APIError); ok {
		c.JSON(status, gin.H{"message": apiErr.Message})
		return
	}
	c.JSON(status, gin.H{"message": err.Error()})
}
