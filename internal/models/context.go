/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import "context"

type callerContextKey struct{}

// WithCallerId attaches the authenticated caller's user id to a context.
// The id is asserted by the upstream auth gateway; this service does not verify credentials.
func WithCallerId(ctx context.Context, userId string) context.Context {
	return context.WithValue(ctx, callerContextKey{}, userId)
}

// GetCallerId retrieves the caller's user id from context, or "" if absent.
func GetCallerId(ctx context.Context) string {
	id, _ := ctx.Value(callerContextKey{}).(string)
	return id
}
