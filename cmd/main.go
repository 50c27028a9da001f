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

package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ekycid/gateway"
	"github.com/ekycid/gateway/ai"
	"github.com/ekycid/gateway/backoffice"
	"github.com/ekycid/gateway/config"
	"github.com/ekycid/gateway/media"
)

// GatewayCLI wraps the root Cobra command.
type GatewayCLI struct {
	cmd *cobra.Command
}

// gatewayInstance holds the wired gateway and its configuration for the
// subcommands.
type gatewayInstance struct {
	gateway   *gateway.Gateway
	forwarder *backoffice.Forwarder
	cnf       *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

func preRun(app *gatewayInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("gateway.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newGateway, forwarder, err := setupGateway(cnf)
		if err != nil {
			log.Fatal(err)
		}

		app.gateway = newGateway
		app.forwarder = forwarder
		app.cnf = cnf

		return nil
	}
}

// setupGateway wires the downstream clients from configuration.
func setupGateway(cfg *config.Configuration) (*gateway.Gateway, *backoffice.Forwarder, error) {
	provider, err := ai.NewGRPCProvider(cfg.AiSupport.Target)
	if err != nil {
		return nil, nil, fmt.Errorf("error connecting to ai support: %v", err)
	}

	timeout := time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	sessions := backoffice.NewClient(cfg.Backoffice.BaseURL, timeout)
	blobs := media.NewClient(cfg.MediaStorage.BaseURL, timeout)
	forwarder := backoffice.NewForwarder(cfg.Backoffice.BaseURL, timeout)

	return gateway.NewGateway(provider, sessions, blobs), forwarder, nil
}

// NewCLI creates the command-line interface for the gateway.
func NewCLI() *GatewayCLI {
	var configFile string
	g := &gatewayInstance{}

	var rootCmd = &cobra.Command{
		Use:   "gateway",
		Short: "eKYC orchestration gateway",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./gateway.json", "Configuration file for the gateway")

	rootCmd.PersistentPreRunE = preRun(g)

	rootCmd.AddCommand(serverCommands(g))

	return &GatewayCLI{cmd: rootCmd}
}

func (w GatewayCLI) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
