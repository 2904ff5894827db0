package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	// A .env file is optional, the environment itself wins.
	_ = godotenv.Load()

	s := Server{}
	if err := s.ReadEnvironmentVariables(); nil != err {
		return err
	}

	if err := s.PrepareDatabase(); nil != err {
		return err
	}
	defer func() {
		s.Close()
	}()

	if err := s.PrepareRenderer(); nil != err {
		return err
	}

	if err := s.PrepareTelegram(); nil != err {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.StartSweeper(ctx)
	s.StartDigest(ctx)
	s.StartAPI()
	go s.HandleUpdates(ctx)

	// Create a channel for the OS to notify us of interrupts/signals
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	<-interrupt
	return nil
}
