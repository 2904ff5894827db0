package main

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/webHikari/telegram-word-cloud/pkg/data"
)

// StartAPI exposes a small operational surface: a health probe and a debug
// render of a chat's all-time cloud. Disabled unless LISTEN_ADDRESS is set.
func (s *Server) StartAPI() {
	if "" == s.env.listenAddress {
		return
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.getHealth())
	r.Get("/chats/{id}/cloud.png", s.getChatCloud())

	go func() {
		if err := http.ListenAndServe(s.env.listenAddress, r); nil != err {
			log.Println("api server stopped", err)
		}
	}()
}

func (s *Server) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.db.Ping(r.Context()); nil != err {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "ok")
	}
}

func (s *Server) getChatCloud() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if nil != err {
			http.Error(w, "invalid chat id", http.StatusBadRequest)
			return
		}

		words, err := s.db.ChatWords(r.Context(), data.AllTime, id, topWordLimit)
		if nil != err {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		png, err := s.renderer.CloudPNG(words)
		if nil != err {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	}
}
