/*
Copyright © 2025 The solonode authors

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
	"errors"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/solonode/solonode/pkg/apis/solonode"
	"github.com/solonode/solonode/pkg/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		var exitErr *solonode.ExitError
		if errors.As(err, &exitErr) {
			log.Error(exitErr.Message)
			os.Exit(exitErr.Code)
		}
		log.Fatal(err)
	}
}
