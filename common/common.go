// Copyright © 2022 Alibaba Group Holding Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

const (
	ExecBinaryFileName = "progiter"
	EnvPrefix          = "PROGITER"
	DefaultConfigName  = ".progiter.yaml"
	DefaultHomeDirName = ".progiter"
	LogFileName        = "progiter.log"
)

const (
	FileMode0755 = 0755
	FileMode0644 = 0644
)

// GetHomeDir returns the user home directory, falling back to the
// working directory when it cannot be resolved.
func GetHomeDir() string {
	home, err := homedir.Dir()
	if err != nil {
		wd, werr := os.Getwd()
		if werr != nil {
			return "."
		}
		return wd
	}
	return home
}

// DefaultConfigFile is $HOME/.progiter.yaml.
func DefaultConfigFile() string {
	return filepath.Join(GetHomeDir(), DefaultConfigName)
}

// DefaultLogDir is $HOME/.progiter/log.
func DefaultLogDir() string {
	return filepath.Join(GetHomeDir(), DefaultHomeDirName, "log")
}
