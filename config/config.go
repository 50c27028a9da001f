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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "8080"

	// DefaultFaceMatchThreshold is the similarity cutoff handed to the AI
	// support service when no override is configured.
	DefaultFaceMatchThreshold = 0.78

	defaultAiSupportTarget = "127.0.0.1:50052"
	defaultBackofficeURL   = "http://127.0.0.1:8081"
	defaultMediaStorageURL = "http://127.0.0.1:8082"
	defaultHTTPTimeoutSecs = 30
)

var ConfigStore atomic.Value

type ServerConfig struct {
	Port string `json:"port" envconfig:"GATEWAY_SERVER_PORT"`
}

type AiSupportConfig struct {
	Target             string  `json:"target" envconfig:"GATEWAY_AI_SUPPORT_TARGET"`
	FaceMatchThreshold float64 `json:"face_match_threshold" envconfig:"GATEWAY_FACE_MATCH_THRESHOLD"`
}

type BackofficeConfig struct {
	BaseURL string `json:"base_url" envconfig:"GATEWAY_BACKOFFICE_URL"`
}

type MediaStorageConfig struct {
	BaseURL string `json:"base_url" envconfig:"GATEWAY_MEDIA_STORAGE_URL"`
}

type OtelConfig struct {
	TraceEndpoint string `json:"trace_endpoint" envconfig:"GATEWAY_OTLP_TRACE_ENDPOINT"`
}

type Configuration struct {
	ProjectName        string             `json:"project_name" envconfig:"GATEWAY_PROJECT_NAME"`
	Server             ServerConfig       `json:"server"`
	AiSupport          AiSupportConfig    `json:"ai_support"`
	Backoffice         BackofficeConfig   `json:"backoffice"`
	MediaStorage       MediaStorageConfig `json:"media_storage"`
	Otel               OtelConfig         `json:"otel"`
	HTTPTimeoutSeconds int                `json:"http_timeout_seconds" envconfig:"GATEWAY_HTTP_TIMEOUT_SECONDS"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer func() {
			_ = f.Close()
		}()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("gateway", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called gateway.json with your config")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		cnf.ProjectName = "eKYC Gateway"
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.AiSupport.Target = strings.TrimSpace(cnf.AiSupport.Target)
	cnf.Backoffice.BaseURL = strings.TrimSpace(cnf.Backoffice.BaseURL)
	cnf.MediaStorage.BaseURL = strings.TrimSpace(cnf.MediaStorage.BaseURL)

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.AiSupport.Target == "" {
		cnf.AiSupport.Target = defaultAiSupportTarget
	}
	if cnf.AiSupport.FaceMatchThreshold <= 0 {
		cnf.AiSupport.FaceMatchThreshold = DefaultFaceMatchThreshold
	}

	if cnf.Backoffice.BaseURL == "" {
		cnf.Backoffice.BaseURL = defaultBackofficeURL
	}
	if cnf.MediaStorage.BaseURL == "" {
		cnf.MediaStorage.BaseURL = defaultMediaStorageURL
	}

	if cnf.HTTPTimeoutSeconds <= 0 {
		cnf.HTTPTimeoutSeconds = defaultHTTPTimeoutSecs
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	_ = mockConfig.validateAndAddDefaults()
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
