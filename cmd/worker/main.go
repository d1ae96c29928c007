package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"qrattend/internal/config"
	"qrattend/internal/mailer"
	"qrattend/internal/queue"
	"qrattend/internal/store"
	"qrattend/internal/student"
)

// Worker consumes registration events and sends each new student a welcome
// mail with their QR code link.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "qrattend:registrations")
	}

	repo := student.NewRepository(db.Client)
	mail := mailer.New(cfg.SMTPAddr, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom, cfg.MailSkip)

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		if msg.Type != queue.TypeStudentRegistered {
			continue
		}

		id := string(msg.Body)
		st, err := repo.Get(ctx, id)
		if err != nil {
			log.Printf("fetch student %s failed: %v", id, err)
			continue
		}
		if st == nil {
			log.Printf("student %s not found, skipping", id)
			continue
		}

		qrURL := ""
		if st.QRCodeURL != nil {
			qrURL = *st.QRCodeURL
		}
		if err := mail.SendWelcome(st.Email, st.Name, qrURL); err != nil {
			log.Printf("welcome mail to %s failed: %v", st.Email, err)
			continue
		}
		log.Printf("welcome mail sent for student %s", id)
	}

	log.Println("worker stopped")
}
