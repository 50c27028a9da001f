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

// Package media is the client for the blob-storage service. Objects are
// opaque: uploads and downloads move whole byte slices, never streams.
package media

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/ekycid/gateway/internal/apierror"
	"github.com/ekycid/gateway/internal/request"
)

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: normalizeBaseURL(baseURL),
		client:  &http.Client{Timeout: timeout},
	}
}

// UploadResponse carries the public URL assigned to a stored object.
type UploadResponse struct {
	URL string `json:"url"`
}

// Upload stores content as a multipart form part named fieldName. Filename
// and mime type are attached to the part when present; the storage service
// keys purely off the field name.
func (c *Client) Upload(ctx context.Context, fieldName string, content []byte, filename, mimeType *string) (*UploadResponse, error) {
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	disposition := `form-data; name="` + escapeQuotes(fieldName) + `"`
	if filename != nil {
		disposition += `; filename="` + escapeQuotes(*filename) + `"`
	}
	header.Set("Content-Disposition", disposition)
	if mimeType != nil {
		header.Set("Content-Type", *mimeType)
	}

	part, err := form.CreatePart(header)
	if err != nil {
		return nil, apierror.Internal(errors.Wrap(err, "failed to build multipart form"))
	}
	if _, err := part.Write(content); err != nil {
		return nil, apierror.Internal(errors.Wrap(err, "failed to write multipart content"))
	}
	if err := form.Close(); err != nil {
		return nil, apierror.Internal(errors.Wrap(err, "failed to finalize multipart form"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/media", body)
	if err != nil {
		return nil, apierror.Internal(errors.Wrap(err, "failed to build media upload request"))
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := request.Call(c.client, req)
	if err != nil {
		return nil, apierror.Internal(errors.Wrap(err, "media upload failed"))
	}
	if !resp.Success() {
		return nil, apierror.Internal(errors.Errorf("media service returned %d: %s", resp.StatusCode, string(resp.Body)))
	}

	var uploaded UploadResponse
	if err := resp.Decode(&uploaded); err != nil {
		return nil, apierror.Internal(errors.Wrap(err, "failed to decode media upload response"))
	}
	return &uploaded, nil
}

// DownloadBytes fetches a stored object by its full URL.
func (c *Client) DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apierror.Internal(errors.Wrap(err, "failed to build media download request"))
	}

	resp, err := request.Call(c.client, req)
	if err != nil {
		return nil, apierror.Internal(errors.Wrap(err, "media download failed"))
	}
	if !resp.Success() {
		return nil, apierror.Internal(errors.Errorf("media service returned %d for %s", resp.StatusCode, url))
	}
	return resp.Body, nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, "\\\"").Replace(s)
}

func normalizeBaseURL(base string) string {
	base = strings.TrimSpace(base)
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return strings.TrimSuffix(base, "/")
}
