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
	"net/http"

	"chatrr-engagement-go/internal/api"
	"chatrr-engagement-go/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// CallerHeader carries the authenticated user id set by the auth gateway
const CallerHeader = "X-User-Id"

type Handler struct {
	engagement *api.EngagementService
}

func NewHandler(engagement *api.EngagementService) *Handler {
	return &Handler{engagement: engagement}
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(callerIdentity)

	r.Get("/health", h.HandleHealth)

	r.Route("/api/profiles", func(r chi.Router) {
		r.Get("/", h.HandleQueryProfiles)
		r.Get("/user/{userId}", h.HandleProfileByUser)
		r.Get("/{profileId}/chat-records", h.HandleChatRecords)

		r.Group(func(r chi.Router) {
			r.Use(requireCaller)
			r.Get("/me", h.HandleMyProfile)
			r.Post("/", h.HandleUpsertProfile)
		})
	})

	r.Route("/api/messages", func(r chi.Router) {
		r.Use(requireCaller)
		r.Post("/", h.HandleSendMessage)
		r.Get("/inbox", h.HandleInbox)
		r.Get("/sent", h.HandleSent)
		r.Get("/unread/count", h.HandleUnreadCount)
		r.Get("/{messageId}", h.HandleGetMessage)
		r.Delete("/{messageId}", h.HandleDeleteMessage)
	})

	return r
}

// New builds the HTTP server. With H2C enabled, cleartext HTTP/2 is accepted alongside HTTP/1.1.
func New(cfg models.ServerConfig, handler http.Handler) *http.Server {
	if cfg.H2C {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.engagement.HealthCheck(r.Context()); err != nil {
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
