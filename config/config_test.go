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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigAppliesDefaults(t *testing.T) {
	require.NoError(t, InitConfig(filepath.Join(t.TempDir(), "missing.json")))

	cnf, err := Fetch()
	require.NoError(t, err)

	assert.Equal(t, DEFAULT_PORT, cnf.Server.Port)
	assert.Equal(t, DefaultFaceMatchThreshold, cnf.AiSupport.FaceMatchThreshold)
	assert.Equal(t, "127.0.0.1:50052", cnf.AiSupport.Target)
	assert.Equal(t, "http://127.0.0.1:8081", cnf.Backoffice.BaseURL)
	assert.Equal(t, "http://127.0.0.1:8082", cnf.MediaStorage.BaseURL)
	assert.Equal(t, 30, cnf.HTTPTimeoutSeconds)
}

func TestInitConfigFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "gateway.json")
	payload := `{
		"server": {"port": "9090"},
		"ai_support": {"target": "ai-support:50052", "face_match_threshold": 0.9},
		"backoffice": {"base_url": "http://backoffice:3000 "},
		"media_storage": {"base_url": "http://media:3001"}
	}`
	require.NoError(t, os.WriteFile(file, []byte(payload), 0o600))

	require.NoError(t, InitConfig(file))

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, "9090", cnf.Server.Port)
	assert.Equal(t, "ai-support:50052", cnf.AiSupport.Target)
	assert.Equal(t, 0.9, cnf.AiSupport.FaceMatchThreshold)
	assert.Equal(t, "http://backoffice:3000", cnf.Backoffice.BaseURL, "whitespace should be trimmed")
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("GATEWAY_SERVER_PORT", "7070")
	t.Setenv("GATEWAY_FACE_MATCH_THRESHOLD", "0.85")

	require.NoError(t, InitConfig(filepath.Join(t.TempDir(), "missing.json")))

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, "7070", cnf.Server.Port)
	assert.Equal(t, 0.85, cnf.AiSupport.FaceMatchThreshold)
}

func TestMockConfig(t *testing.T) {
	MockConfig(&Configuration{
		AiSupport: AiSupportConfig{FaceMatchThreshold: 0.5},
	})

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, 0.5, cnf.AiSupport.FaceMatchThreshold)
	assert.Equal(t, DEFAULT_PORT, cnf.Server.Port, "defaults should still be filled in")
}
