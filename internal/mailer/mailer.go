// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mailer sends contact-form notification emails. Delivery is
// fire-and-forget: handlers enqueue a notification and return; a worker
// pool performs SMTP delivery and failures are only logged.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/wneessen/go-mail"
)

// Notification is a queued outbound email.
type Notification struct {
	Subject string
	Body    string
	ReplyTo string
}

// Config holds SMTP settings and dispatcher sizing.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
	Workers  int // Number of concurrent delivery workers
}

// DefaultWorkers is used when Config.Workers is unset.
const DefaultWorkers = 2

// Mailer queues notifications and delivers them asynchronously.
type Mailer struct {
	cfg     Config
	logger  *slog.Logger
	queue   chan Notification
	wg      sync.WaitGroup
	done    chan struct{}
	mu      sync.Mutex
	running bool
}

// New creates a Mailer. It does not start delivery; call Start.
func New(cfg Config, logger *slog.Logger) *Mailer {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{
		cfg:    cfg,
		logger: logger,
		queue:  make(chan Notification, 100),
		done:   make(chan struct{}),
	}
}

// Start launches the delivery workers.
func (m *Mailer) Start(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.mu.Unlock()

	m.logger.Info("starting mail dispatcher", "workers", m.cfg.Workers, "host", m.cfg.Host)

	for i := 0; i < m.cfg.Workers; i++ {
		m.wg.Add(1)
		go m.worker(ctx, i)
	}
}

// Stop stops the dispatcher and waits for in-flight deliveries to finish.
// Queued but unstarted notifications are dropped; delivery is best-effort
// by contract.
func (m *Mailer) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.mu.Unlock()

	close(m.done)
	m.wg.Wait()
	m.logger.Info("mail dispatcher stopped")
}

// Enqueue queues a notification without blocking. When the queue is full
// the notification is dropped with a logged warning; the caller's response
// is never held up by mail delivery.
func (m *Mailer) Enqueue(n Notification) {
	select {
	case m.queue <- n:
	default:
		m.logger.Warn("mail queue full, dropping notification", "category", "mail", "subject", n.Subject)
	}
}

// worker delivers queued notifications until stopped.
func (m *Mailer) worker(ctx context.Context, id int) {
	defer m.wg.Done()

	for {
		select {
		case <-m.done:
			return
		case <-ctx.Done():
			return
		case n := <-m.queue:
			if err := m.send(n); err != nil {
				m.logger.Warn("mail delivery failed",
					"category", "mail",
					"worker_id", id,
					"subject", n.Subject,
					"error", err,
				)
				continue
			}
			m.logger.Info("mail delivered", "worker_id", id, "subject", n.Subject)
		}
	}
}

// send performs a single SMTP delivery.
func (m *Mailer) send(n Notification) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}
	if err := msg.To(m.cfg.To); err != nil {
		return fmt.Errorf("setting recipient: %w", err)
	}
	if n.ReplyTo != "" {
		if err := msg.ReplyTo(n.ReplyTo); err != nil {
			return fmt.Errorf("setting reply-to: %w", err)
		}
	}
	msg.Subject(n.Subject)
	msg.SetBodyString(mail.TypeTextPlain, n.Body)

	opts := []mail.Option{mail.WithPort(m.cfg.Port)}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}
