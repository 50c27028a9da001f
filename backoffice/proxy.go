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

package backoffice

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/ekycid/gateway/internal/request"
)

// Forwarder relays requests outside the fixed eKYC workflow to the
// backoffice service byte-for-byte. It is store-and-forward, not streaming:
// both bodies are fully buffered, trading memory for a deterministic
// header/body rewrite.
type Forwarder struct {
	baseURL string
	client  *http.Client
}

func NewForwarder(baseURL string, timeout time.Duration) *Forwarder {
	return &Forwarder{
		baseURL: normalizeBaseURL(baseURL),
		client:  &http.Client{Timeout: timeout},
	}
}

// ForwardResult is the upstream response, ready to be replayed to the
// original caller.
type ForwardResult struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Forward relays the request upstream. Method and path-plus-query pass
// through unchanged; every request header except Host is forwarded (the
// outbound client derives Host from the configured upstream authority). An
// empty body is forwarded as no body at all. On the way back every header
// except Transfer-Encoding is kept: the body is already buffered, so the
// gateway's own transport decides the framing.
func (f *Forwarder) Forward(r *http.Request) (*ForwardResult, error) {
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(r.Body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read request body")
		}
	}

	var outBody io.Reader
	if len(body) > 0 {
		outBody = bytes.NewReader(body)
	}

	out, err := http.NewRequestWithContext(r.Context(), r.Method, f.baseURL+r.URL.RequestURI(), outBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build upstream request")
	}

	for name, values := range r.Header {
		if strings.EqualFold(name, "Host") {
			continue
		}
		for _, value := range values {
			out.Header.Add(name, value)
		}
	}

	resp, err := request.Call(f.client, out)
	if err != nil {
		return nil, errors.Wrap(err, "backoffice forward failed")
	}

	header := make(http.Header, len(resp.Header))
	for name, values := range resp.Header {
		if strings.EqualFold(name, "Transfer-Encoding") {
			continue
		}
		for _, value := range values {
			header.Add(name, value)
		}
	}

	return &ForwardResult{
		StatusCode: resp.StatusCode,
		Header:     header,
		Body:       resp.Body,
	}, nil
}
