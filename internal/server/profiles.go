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

package server

import (
	"encoding/json"
	"net/http"

	"chatrr-engagement-go/internal/api"
	"chatrr-engagement-go/internal/models"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) HandleQueryProfiles(w http.ResponseWriter, r *http.Request) {
	pageNum, err := intQuery(r, "page")
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	limit, err := intQuery(r, "limit")
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	q := r.URL.Query()
	page, err := h.engagement.Profiles.Query(r.Context(), api.ProfileQuery{
		Search: q.Get("search"),
		Filter: q.Get("filter"),
		Page:   pageNum,
		Limit:  limit,
	})
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, page)
}

func (h *Handler) HandleMyProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.engagement.Profiles.Mine(r.Context(), models.GetCallerId(r.Context()))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, profile)
}

func (h *Handler) HandleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	var req api.UpsertProfileParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "validation", "Invalid request body")
		return
	}

	profile, created, err := h.engagement.Profiles.Upsert(r.Context(), models.GetCallerId(r.Context()), req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondWithJSON(w, status, profile)
}

func (h *Handler) HandleProfileByUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.engagement.Profiles.ByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, profile)
}

func (h *Handler) HandleChatRecords(w http.ResponseWriter, r *http.Request) {
	points, err := h.engagement.Profiles.ChatHistory(r.Context(), chi.URLParam(r, "profileId"))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, points)
}
