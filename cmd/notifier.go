/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os/signal"
	"syscall"

	"github.com/accordmanpower/cmsapi/config"
	"github.com/accordmanpower/cmsapi/internal/mq"
	"github.com/accordmanpower/cmsapi/internal/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// notifierCmd consumes inquiry.created events and logs each new lead, so
// the sales team can route them from the log pipeline.
var notifierCmd = &cobra.Command{
	Use:   "notifier",
	Short: "Consume inquiry events from the message broker",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		broker, err := mq.Open(ctx, cfg.MQ)
		if err != nil {
			return err
		}
		if broker == nil {
			return errors.New("MQ_BACKEND is not configured")
		}
		defer broker.Close()

		log.Info("listening for inquiries", zap.String("channel", cfg.MQ.InquiryChannel))
		err = broker.Subscribe(ctx, cfg.MQ.InquiryChannel, inquiryEventHandler(log))
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func inquiryEventHandler(log *zap.Logger) mq.Handler {
	return func(ctx context.Context, msg mq.Message) error {
		var event services.InquiryEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			// Malformed payloads would be redelivered forever; drop them.
			log.Error("discarding malformed inquiry event", zap.String("message_id", msg.ID), zap.Error(err))
			return nil
		}

		inquiry := event.Inquiry
		fields := []zap.Field{
			zap.String("message_id", msg.ID),
			zap.Int("inquiry_id", inquiry.ID),
			zap.String("name", inquiry.Name),
			zap.String("email", inquiry.Email),
			zap.String("source", inquiry.Source),
			zap.Time("created_at", inquiry.CreatedAt),
		}
		if inquiry.Service != nil {
			fields = append(fields, zap.String("service", *inquiry.Service))
		}
		if inquiry.Company != nil {
			fields = append(fields, zap.String("company", *inquiry.Company))
		}
		log.Info("new inquiry", fields...)
		return nil
	}
}

func init() {
	rootCmd.AddCommand(notifierCmd)
}
