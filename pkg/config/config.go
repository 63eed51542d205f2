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

package config

import (
	"os"
	"strings"

	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/sealerio/progiter/common"
	"github.com/sealerio/progiter/pkg/progiter"
)

// Load reads tracker settings from the config file at path and from
// PROGITER_<KEY> environment variables, environment taking precedence.
// An empty path means the default file, which may be absent.
func Load(path string) (map[string]interface{}, error) {
	v := viper.New()
	v.SetEnvPrefix(common.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	for _, spec := range progiter.OptionSpecs() {
		if err := v.BindEnv(spec.Key); err != nil {
			return nil, errors.Wrapf(err, "failed to bind env for %s", spec.Key)
		}
	}

	optional := path == ""
	if optional {
		path = common.DefaultConfigFile()
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if !optional || !isNotExist(path) {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
		logrus.Debugf("config file %s not found, using defaults", path)
	} else {
		logrus.Debugf("using config file %s", v.ConfigFileUsed())
	}

	return Canonicalize(v.AllSettings()), nil
}

func isNotExist(path string) bool {
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}

// Canonicalize rewrites option keys and aliases to their canonical names
// so that settings from different sources line up. Other keys are
// lower-cased and kept, ParseConfig reports them.
func Canonicalize(settings map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(settings))
	for k, val := range settings {
		if key, ok := progiter.CanonicalKey(k); ok {
			out[key] = val
			continue
		}
		out[strings.ToLower(k)] = val
	}
	return out
}

// Merge layers overrides on top of base. Both are canonicalized first.
func Merge(base, overrides map[string]interface{}) (map[string]interface{}, error) {
	dst := Canonicalize(base)
	if err := mergo.Merge(&dst, Canonicalize(overrides), mergo.WithOverride); err != nil {
		return nil, errors.Wrap(err, "failed to merge settings")
	}
	return dst, nil
}
