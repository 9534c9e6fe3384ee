package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fkhayef/membership/internal/addrequest"
	"github.com/fkhayef/membership/internal/config"
	"github.com/fkhayef/membership/internal/database"
	"github.com/fkhayef/membership/internal/event"
	"github.com/fkhayef/membership/internal/group"
	"github.com/fkhayef/membership/internal/job"
	"github.com/fkhayef/membership/internal/mailer"
	"github.com/fkhayef/membership/internal/mailinglist"
	"github.com/fkhayef/membership/internal/participation"
	"github.com/fkhayef/membership/internal/person"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	personService := person.NewService(person.NewRepository(db))
	groupService := group.NewService(group.NewRepository(db))
	eventService := event.NewService(event.NewRepository(db))
	participationRepo := participation.NewRepository(db)
	listRepo := mailinglist.NewRepository(db)

	composer := mailer.NewComposer(mailer.NewContentRepository(db), mailer.NewLinks(cfg.BaseURL), cfg.Mail.From)

	var transport mailer.Transport = mailer.LogTransport{}
	if cfg.SMTP.Host != "" {
		transport = mailer.NewSMTPTransport(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	} else {
		log.Println("SMTP_HOST not set, mails are logged")
	}

	confirmations := participation.NewConfirmationSender(participationRepo, eventService, composer, transport)
	synchronizer := mailinglist.NewSynchronizer(listRepo, personService,
		mailinglist.NewMailchimpClient(cfg.Mailchimp.APIKey, cfg.Mailchimp.BaseURL), composer, transport)

	// lookups only, nothing is authorized or enqueued here
	listService := mailinglist.NewService(listRepo, personService, nil, nil)
	bodies := addrequest.NewBodyResolver(groupService, eventService, listService)
	notifier := addrequest.NewNotifier(addrequest.NewRepository(db), bodies, groupService, personService, composer, transport)

	queue := job.NewPostgresQueue(db, cfg.Worker.LockTimeout, cfg.Worker.MaxAttempts)
	worker := job.NewWorker(queue, cfg.Worker.PollInterval)
	worker.Register(job.KindParticipationConfirmation, job.Handle(confirmations.Handle))
	worker.Register(job.KindMailingListSync, job.Handle(synchronizer.Handle))
	worker.Register(job.KindAddRequestNotification, job.Handle(notifier.Handle))

	log.Printf("Worker polling every %s", cfg.Worker.PollInterval)
	if err := worker.Run(ctx); err != nil {
		log.Fatalf("Worker stopped: %v", err)
	}
	log.Println("Worker stopped")
}
