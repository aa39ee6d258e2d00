// Command harness wires the login coordination stack and runs a login smoke
// check: every configured profile is logged in on every worker, then the
// execution timeline is printed.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-sf-harness/internal/adapter"
	"github.com/MKhiriev/go-sf-harness/internal/awsclient"
	"github.com/MKhiriev/go-sf-harness/internal/browser"
	"github.com/MKhiriev/go-sf-harness/internal/config"
	"github.com/MKhiriev/go-sf-harness/internal/credentials"
	"github.com/MKhiriev/go-sf-harness/internal/crypto"
	myHTTP "github.com/MKhiriev/go-sf-harness/internal/handler/http"
	"github.com/MKhiriev/go-sf-harness/internal/lock"
	"github.com/MKhiriev/go-sf-harness/internal/logger"
	"github.com/MKhiriev/go-sf-harness/internal/otp"
	"github.com/MKhiriev/go-sf-harness/internal/secrets"
	"github.com/MKhiriev/go-sf-harness/internal/server"
	"github.com/MKhiriev/go-sf-harness/internal/service"
	"github.com/MKhiriev/go-sf-harness/internal/session"
	"github.com/MKhiriev/go-sf-harness/internal/store"
	"github.com/MKhiriev/go-sf-harness/internal/timeline"
	"github.com/MKhiriev/go-sf-harness/internal/utils"
	"github.com/MKhiriev/go-sf-harness/internal/workers"
	"github.com/MKhiriev/go-sf-harness/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(buildInfo)

	log := logger.NewLogger("harness")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	log.Debug().Any("run", cfg.Run).Any("ledger", cfg.Ledger.Backend).Msg("received configs")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, cfg, buildInfo, log); err != nil {
		log.Error().Err(err).Msg("harness run failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.StructuredConfig, buildInfo models.AppBuildInfo, log *logger.Logger) error {
	clock := utils.NewRealClock()
	rec := timeline.NewRecorder(clock, log.GetChildLogger())
	defer func() {
		fmt.Println(rec.Summary())
	}()

	secretStore := secrets.NewAWSSecretStore(cfg.AWS, log)

	var dynamo store.DynamoDBAPI
	if cfg.Ledger.Backend == config.LedgerDynamoDB {
		client, err := awsclient.NewDynamoDB(ctx, cfg.AWS)
		if err != nil {
			return fmt.Errorf("dynamodb client: %w", err)
		}
		dynamo = client
	}
	ledger, closeLedger, err := store.NewClaimLedger(ctx, cfg.Ledger, dynamo, log)
	if err != nil {
		return fmt.Errorf("claim ledger: %w", err)
	}
	defer func() {
		if err := closeLedger(); err != nil {
			log.Warn().Err(err).Msg("close claim ledger")
		}
	}()

	otpService := otp.NewService(otp.Config{
		Query:                cfg.Mailbox.Query,
		PollInterval:         cfg.Mailbox.PollInterval,
		Timeout:              cfg.Mailbox.OTPTimeout,
		MaxResults:           cfg.Mailbox.MaxResults,
		MaxConsecutiveErrors: cfg.Mailbox.MaxConsecutiveErrors,
	}, func(s models.MailboxSecrets) (adapter.Mailbox, error) {
		return adapter.NewGmailMailbox(cfg.Mailbox, s, clock, log)
	}, ledger, clock, rec, log)

	locks := lock.NewCoordinator(lock.Config{
		Timeout:      cfg.Lock.Timeout,
		PollInterval: cfg.Lock.PollInterval,
		StaleAfter:   cfg.Lock.StaleAfter,
	}, clock, log, rec)

	if cfg.Run.StatusAddr != "" {
		stopStatus, err := startStatusServer(ctx, cfg.Run.StatusAddr, myHTTP.NewHandler(rec, locks, buildInfo, clock, log.GetChildLogger()), log)
		if err != nil {
			return err
		}
		defer stopStatus()
	}

	var sessionOpts []session.Option
	if cfg.Session.Passphrase != "" {
		sealer, err := crypto.NewPassphraseSealer(cfg.Session.Passphrase)
		if err != nil {
			return err
		}
		sessionOpts = append(sessionOpts, session.WithSealer(sealer))
	}
	sessions := session.NewStore(cfg.Session, clock, log, sessionOpts...)

	services := service.NewServices(service.Dependencies{
		Credentials:    credentials.NewPool(secretStore, log),
		Locks:          locks,
		Sessions:       sessions,
		MailboxSecrets: secretStore,
		OTP:            otpService,
	}, *cfg, clock, rec, log)
	log.Info().Str("test_run_id", services.Login.TestRunID()).Int("workers", cfg.Run.Workers).Msg("harness started")

	pool := workers.NewWorkers(cfg.Run.Workers, chromePages(cfg.Browser, log), services.Login, rec, log)

	var failures []error
	for _, profile := range cfg.Run.Profiles {
		err = pool.Run(ctx, "login:"+profile, func(ctx context.Context, w *workers.Worker) error {
			res, err := services.Login.Login(ctx, w.Page, service.LoginRequest{
				Environment: cfg.Run.Environment,
				Profile:     profile,
				WorkerIndex: w.Index,
			})
			if err != nil {
				return err
			}
			if !res.Authenticated() {
				return fmt.Errorf("credentials of %s rejected: %s", res.Username, res.CredentialError)
			}
			w.Logger.Info().
				Str("profile", profile).
				Str("username", res.Username).
				Bool("session_reused", res.SessionReused).
				Msg("login smoke check passed")
			return nil
		})
		if err != nil {
			failures = append(failures, fmt.Errorf("profile %q: %w", profile, err))
		}
		if ctx.Err() != nil {
			break
		}
	}

	if cfg.Run.APICheck {
		if err = apiCheck(ctx, cfg, secretStore, clock, log); err != nil {
			failures = append(failures, fmt.Errorf("api check: %w", err))
		}
	}

	return errors.Join(failures...)
}

// startStatusServer serves the status API until the returned stop func is
// called.
func startStatusServer(ctx context.Context, addr string, h *myHTTP.Handler, log *logger.Logger) (func(), error) {
	srv, err := server.NewStatusServer(h.Init(), addr, log)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Run(ctx); err != nil {
			log.Error().Err(err).Msg("status server stopped")
		}
	}()

	return func() {
		cancel()
		<-done
	}, nil
}

// chromePages gives every worker its own Chrome process.
func chromePages(cfg config.Browser, log *logger.Logger) workers.PageFactory {
	return func(ctx context.Context, workerIndex int) (browser.Page, func(), error) {
		b := browser.NewBrowser(ctx, cfg, log.ForWorker(workerIndex))
		page, err := b.NewPage()
		if err != nil {
			b.Close()
			return nil, nil, err
		}
		return page, func() {
			page.Close()
			b.Close()
		}, nil
	}
}

// apiCheck queries the org through the REST API. The JWT bearer flow is
// used when a signing key is configured, client credentials otherwise.
func apiCheck(ctx context.Context, cfg *config.StructuredConfig, secretStore *secrets.AWSSecretStore, clock utils.Clock, log *logger.Logger) error {
	oauth, err := secretStore.FetchSalesforceOAuth(ctx)
	if err != nil {
		return err
	}

	var client *adapter.SalesforceClient
	if cfg.Salesforce.JWTKeyPath != "" {
		pemBytes, err := os.ReadFile(cfg.Salesforce.JWTKeyPath)
		if err != nil {
			return fmt.Errorf("read jwt key: %w", err)
		}
		key, err := utils.ParseRSAPrivateKey(pemBytes)
		if err != nil {
			return err
		}
		client, err = adapter.NewSalesforceJWTBearer(oauth.ClientID, key, cfg.Salesforce, clock, log)
		if err != nil {
			return err
		}
	} else {
		client, err = adapter.NewSalesforceClientCredentials(oauth, cfg.Salesforce, log)
		if err != nil {
			return err
		}
	}

	records, err := client.Query(ctx, "SELECT Id, Name FROM Organization LIMIT 1")
	if err != nil {
		return err
	}
	log.Info().Int("records", len(records)).Msg("salesforce api check passed")
	return nil
}

func printBuildInfo(info models.AppBuildInfo) {
	version, date, commit := info.BuildVersion(), info.BuildDate(), info.BuildCommit()
	if version == "" {
		version = "N/A"
	}

	if date == "" {
		date = "N/A"
	}

	if commit == "" {
		commit = "N/A"
	}

	fmt.Printf("Build version: %s\n", version)
	fmt.Printf("Build date: %s\n", date)
	fmt.Printf("Build commit: %s\n", commit)
}
