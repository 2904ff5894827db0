package main

import (
	"context"
	"log"
	"time"

	"github.com/adhocore/gronx"

	"github.com/webHikari/telegram-word-cloud/pkg/data"
)

func (s *Server) StartDigest(ctx context.Context) {
	go s.runDigestScheduler(ctx)
}

// runDigestScheduler sleeps until the next cron tick and broadcasts the
// daily chat digests. The expression was validated at startup, so a failed
// tick computation only costs a short retry pause.
func (s *Server) runDigestScheduler(ctx context.Context) {
	for {
		next, err := gronx.NextTickAfter(s.env.digestCron, time.Now(), false)
		if nil != err {
			log.Println("unable to compute next digest tick", err)
			next = time.Now().Add(time.Second * 30)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
			s.broadcastDigest(ctx)
		}
	}
}

// broadcastDigest sends every known group chat its rolling-window cloud.
// One chat failing or stalling never stops the rest of the broadcast, each
// chat gets its own deadline.
func (s *Server) broadcastDigest(ctx context.Context) {
	listCtx, cancel := context.WithTimeout(ctx, time.Second*10)
	chats, err := s.db.DistinctChats(listCtx, data.Rolling24h)
	cancel()
	if nil != err {
		log.Println("unable to list chats for digest", err)
		return
	}

	for _, chatID := range chats {
		s.digestChat(ctx, chatID)
	}
}

func (s *Server) digestChat(ctx context.Context, chatID int64) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*30)
	defer cancel()

	words, err := s.db.ChatWords(ctx, data.Rolling24h, chatID, topWordLimit)
	if nil != err {
		log.Println("unable to get digest words for chat", chatID, err)
		return
	}
	if len(words) < minDistinctWords {
		return
	}
	s.sendCloud(chatID, words, "daily digest, this chat's words for the last "+windowCaption())
}
