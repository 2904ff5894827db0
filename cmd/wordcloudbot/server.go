package main

import (
	"context"
	"log"
	"time"

	"github.com/adhocore/gronx"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/webHikari/telegram-word-cloud/pkg/cloud"
	"github.com/webHikari/telegram-word-cloud/pkg/data"
	"github.com/webHikari/telegram-word-cloud/pkg/env"
	"github.com/webHikari/telegram-word-cloud/pkg/expiry"
)

// chatClient is the slice of the Telegram API the handlers and the digest
// broadcast need.
type chatClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

type Server struct {
	bot      *tgbotapi.BotAPI
	client   chatClient
	db       *data.Database
	renderer *cloud.Renderer
	sweeper  *expiry.Sweeper
	env      *Environment
}

type Environment struct {
	telegramBotToken         string
	postgresConnectionString string
	listenAddress            string
	sweepInterval            time.Duration
	digestCron               string
}

func (s *Server) ReadEnvironmentVariables() error {
	s.env = &Environment{
		sweepInterval: time.Minute,
		digestCron:    "0 9 * * *",
	}

	if !env.BotToken(&s.env.telegramBotToken) ||
		!env.PostgresConnectionString(&s.env.postgresConnectionString) {
		return errors.New("missing environment variable")
	}

	env.ListenAddress(&s.env.listenAddress)

	var seconds int64
	if env.SweepIntervalSeconds(&seconds) {
		if seconds <= 0 {
			log.Println("ignoring non-positive sweep interval", seconds)
		} else {
			s.env.sweepInterval = time.Duration(seconds) * time.Second
		}
	}

	env.DigestCron(&s.env.digestCron)
	if !gronx.IsValid(s.env.digestCron) {
		return errors.New("invalid digest cron expression: " + s.env.digestCron)
	}
	return nil
}

func (s *Server) PrepareDatabase() error {
	db, err := data.Connection(s.env.postgresConnectionString)
	if nil != err {
		return err
	}
	s.db = db
	return nil
}

func (s *Server) PrepareRenderer() error {
	renderer, err := cloud.NewRenderer(cloud.Width, cloud.Height)
	if nil != err {
		return err
	}
	s.renderer = renderer
	return nil
}

func (s *Server) PrepareTelegram() error {
	bot, err := tgbotapi.NewBotAPI(s.env.telegramBotToken)
	if nil != err {
		return errors.Wrap(err, "unable to create telegram client")
	}
	s.bot = bot
	s.client = bot
	log.Println("authorized as", bot.Self.UserName)
	return nil
}

func (s *Server) StartSweeper(ctx context.Context) {
	s.sweeper = expiry.NewSweeper(s.db, s.env.sweepInterval)
	go s.sweeper.Run(ctx)
}

func (s *Server) Close() {
	if nil != s.bot {
		s.bot.StopReceivingUpdates()
	}
	if nil != s.db {
		s.db.Close()
	}
}
