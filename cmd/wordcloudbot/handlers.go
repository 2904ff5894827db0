package main

import (
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hako/durafmt"
	"github.com/pkg/errors"

	"github.com/webHikari/telegram-word-cloud/pkg/data"
	"github.com/webHikari/telegram-word-cloud/pkg/expiry"
	"github.com/webHikari/telegram-word-cloud/pkg/tokenizer"
)

const topWordLimit = 100

// minDistinctWords is the smallest ranking a cloud request is served for.
const minDistinctWords = 10

const usage = `I collect word frequencies from chat messages and draw word clouds.

/cloud - your all time word cloud
/cloud24 - your word cloud for the last 24 hours
/chatcloud - chat wide all time cloud (admins only)
/chatcloud24 - chat wide cloud for the last 24 hours (admins only)
/dont_save_my_data - delete your data and stop collection
/save_my_data - resume collection`

func (s *Server) HandleUpdates(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for update := range s.bot.GetUpdatesChan(u) {
		if nil == update.Message || nil == update.Message.From {
			continue
		}
		s.handleMessage(ctx, update.Message)
	}
}

func (s *Server) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if m.IsCommand() {
		s.handleCommand(ctx, m)
		return
	}
	s.recordMessage(ctx, m)
}

func (s *Server) recordMessage(ctx context.Context, m *tgbotapi.Message) {
	counts := tokenizer.Tokenize(m.Text)
	if len(counts) == 0 {
		return
	}

	allowed, err := s.db.CanSave(ctx, m.From.ID)
	if nil != err {
		log.Println("unable to check consent for user", m.From.ID, err)
		return
	}
	if !allowed {
		return
	}

	occurredAt := time.Unix(int64(m.Date), 0)
	if err := s.db.RecordMessage(ctx, m.From.ID, m.Chat.ID, counts, occurredAt); nil != err {
		log.Println("unable to record message for user", m.From.ID, err)
	}
}

func (s *Server) handleCommand(ctx context.Context, m *tgbotapi.Message) {
	var reply string

	switch m.Command() {
	case "cloud":
		reply = s.sendUserCloud(ctx, m, data.AllTime, "all time")
	case "cloud24":
		reply = s.sendUserCloud(ctx, m, data.Rolling24h, "the last "+windowCaption())
	case "chatcloud":
		reply = s.sendChatCloud(ctx, m, data.AllTime, "all time")
	case "chatcloud24":
		reply = s.sendChatCloud(ctx, m, data.Rolling24h, "the last "+windowCaption())
	case "dont_save_my_data":
		if err := s.db.SetConsent(ctx, m.From.ID, false); nil != err {
			log.Println("unable to withdraw consent for user", m.From.ID, err)
			reply = "sorry, something went wrong on my side"
		} else {
			reply = "done, your saved words are deleted and new ones will not be recorded"
		}
	case "save_my_data":
		if err := s.db.SetConsent(ctx, m.From.ID, true); nil != err {
			log.Println("unable to restore consent for user", m.From.ID, err)
			reply = "sorry, something went wrong on my side"
		} else {
			reply = "welcome back, your words are recorded again"
		}
	case "start", "help":
		reply = usage
	default:
		return
	}

	if reply == "" {
		return
	}
	if _, err := s.client.Send(tgbotapi.NewMessage(m.Chat.ID, reply)); nil != err {
		log.Println("unable to send reply to chat", m.Chat.ID, err)
	}
}

func (s *Server) sendUserCloud(ctx context.Context, m *tgbotapi.Message, scope data.Scope, period string) string {
	words, err := s.db.TopWords(ctx, scope, m.From.ID, 0, topWordLimit)
	if nil != err {
		log.Println("unable to get top words for user", m.From.ID, err)
		return "sorry, something went wrong on my side"
	}
	if len(words) < minDistinctWords {
		return fmt.Sprintf(
			"not enough data yet, I know %v of the %v distinct words needed",
			len(words), minDistinctWords)
	}

	return s.sendCloud(m.Chat.ID, words, "your words for "+period)
}

func (s *Server) sendChatCloud(ctx context.Context, m *tgbotapi.Message, scope data.Scope, period string) string {
	admin, err := s.isAdmin(m.Chat.ID, m.From.ID)
	if nil != err {
		log.Println("unable to check admin status for user", m.From.ID, "in chat", m.Chat.ID, err)
		return "sorry, something went wrong on my side"
	}
	if !admin {
		return "only chat administrators can request the chat cloud"
	}

	words, err := s.db.ChatWords(ctx, scope, m.Chat.ID, topWordLimit)
	if nil != err {
		log.Println("unable to get top words for chat", m.Chat.ID, err)
		return "sorry, something went wrong on my side"
	}
	if len(words) < minDistinctWords {
		return fmt.Sprintf(
			"not enough data yet, this chat has %v of the %v distinct words needed",
			len(words), minDistinctWords)
	}

	return s.sendCloud(m.Chat.ID, words, "this chat's words for "+period)
}

// sendCloud renders and delivers one cloud. It returns a user-facing reply
// for render failures and "" once the photo is on its way, a failed delivery
// is only logged.
func (s *Server) sendCloud(chatID int64, words []data.WordCount, caption string) string {
	png, err := s.renderer.CloudPNG(words)
	if nil != err {
		log.Println("unable to render word cloud for chat", chatID, err)
		return "sorry, I could not draw this cloud"
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{
		Name:  "wordcloud.png",
		Bytes: png,
	})
	photo.Caption = caption
	if _, err := s.client.Send(photo); nil != err {
		log.Println("unable to send word cloud to chat", chatID, err)
	}
	return ""
}

func (s *Server) isAdmin(chatID, userID int64) (bool, error) {
	member, err := s.client.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: userID,
		},
	})
	if nil != err {
		return false, errors.Wrap(err, "unable to get chat member")
	}
	return member.Status == "creator" || member.Status == "administrator", nil
}

func windowCaption() string {
	return durafmt.Parse(expiry.Window).LimitFirstN(1).String()
}
