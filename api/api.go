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
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/ekycid/gateway"
	"github.com/ekycid/gateway/backoffice"
	"github.com/ekycid/gateway/config"
)

type Api struct {
	gateway   *gateway.Gateway
	forwarder *backoffice.Forwarder
	router    *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/ekyc/sessions", a.CreateSession)
	router.GET("/ekyc/sessions/:id", a.GetSession)
	router.POST("/ekyc/sessions/:id/id-card", a.UploadIdCard)
	router.POST("/ekyc/sessions/:id/selfie-with-id", a.UploadSelfie)
	router.POST("/ekyc/sessions/:id/liveness", a.StartLiveness)
	router.POST("/ekyc/sessions/:id/applicant", a.SubmitApplicant)

	router.POST("/ekyc/ktp-ocr", a.PerformKtpOcr)
	router.POST("/ekyc/process", a.StartEkycJobs)

	router.Any("/api/*path", a.ForwardToBackoffice)
	return a.router
}

func NewAPI(g *gateway.Gateway, forwarder *backoffice.Forwarder) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(cors.Default())
	r.Use(otelgin.Middleware(conf.ProjectName))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return &Api{gateway: g, forwarder: forwarder, router: r}
}
