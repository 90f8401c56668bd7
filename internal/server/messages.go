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

func (h *Handler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req api.SendMessageParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "validation", "Invalid request body")
		return
	}

	message, err := h.engagement.Messages.Send(r.Context(), models.GetCallerId(r.Context()), req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, message)
}

func (h *Handler) HandleInbox(w http.ResponseWriter, r *http.Request) {
	messages, err := h.engagement.Messages.Inbox(r.Context(), models.GetCallerId(r.Context()))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, messages)
}

func (h *Handler) HandleSent(w http.ResponseWriter, r *http.Request) {
	messages, err := h.engagement.Messages.Sent(r.Context(), models.GetCallerId(r.Context()))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, messages)
}

func (h *Handler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.engagement.Messages.UnreadCount(r.Context(), models.GetCallerId(r.Context()))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (h *Handler) HandleGetMessage(w http.ResponseWriter, r *http.Request) {
	message, err := h.engagement.Messages.Get(r.Context(), models.GetCallerId(r.Context()), chi.URLParam(r, "messageId"))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, message)
}

func (h *Handler) HandleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	if err := h.engagement.Messages.Delete(r.Context(), models.GetCallerId(r.Context()), chi.URLParam(r, "messageId")); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Message declined"})
}
