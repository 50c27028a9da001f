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
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ForwardToBackoffice relays any request under /api verbatim to the
// backoffice service and replays its response. The gateway adds nothing on
// this path; it only keeps the backoffice off the public network.
func (a Api) ForwardToBackoffice(c *gin.Context) {
	result, err := a.forwarder.Forward(c.Request)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"error": err,
			"path":  c.Request.URL.Path,
		}).Error("backoffice forward failed")
		c.JSON(http.StatusBadGateway, gin.H{"message": "backoffice service unavailable"})
		return
	}

	header := c.Writer.Header()
	for name, values := range result.Header {
		for _, value := range values {
			header.Add(name, value)
		}
	}
	c.Writer.WriteHeader(result.StatusCode)
	_, _ = c.Writer.Write(result.Body)
}
