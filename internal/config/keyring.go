/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// Keyring service and key for the HTTP source token.
const (
	keyringService = "GoFlipBook"
	keyringToken   = "source_token"
)

// TokenStore abstracts the OS keyring so tests can stub it.
type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

var tokenStore TokenStore = osKeyring{}

// osKeyring implements TokenStore using github.com/zalando/go-keyring.
type osKeyring struct{}

func (osKeyring) Get(service, key string) (string, error) {
	v, err := keyring.Get(service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return v, err
}

func (osKeyring) Set(service, key, value string) error { return keyring.Set(service, key, value) }

func (osKeyring) Delete(service, key string) error {
	err := keyring.Delete(service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// SetToken stores the source token in the keyring. The config file is not touched.
func SetToken(token string) error {
	if token == "" {
		return errors.New("token must not be empty")
	}
	return tokenStore.Set(keyringService, keyringToken, token)
}

// DeleteToken removes a stored source token.
func DeleteToken() error { return tokenStore.Delete(keyringService, keyringToken) }
