package app

import (
	"net/http"

	"giftcircle/internal/auth"
	"giftcircle/internal/config"
	"giftcircle/internal/db"
	familydomain "giftcircle/internal/domain/family"
	giftgroupdomain "giftcircle/internal/domain/giftgroup"
	identitydomain "giftcircle/internal/domain/identity"
	profiledomain "giftcircle/internal/domain/profile"
	wishlistdomain "giftcircle/internal/domain/wishlist"
	"giftcircle/internal/notify"
	familyrepo "giftcircle/internal/repository/postgres/family"
	giftgrouprepo "giftcircle/internal/repository/postgres/giftgroup"
	identityrepo "giftcircle/internal/repository/postgres/identity"
	profilerepo "giftcircle/internal/repository/postgres/profile"
	wishlistrepo "giftcircle/internal/repository/postgres/wishlist"
	"giftcircle/internal/transport/httpserver"
	"giftcircle/internal/transport/httpserver/handler"
	authmw "giftcircle/internal/transport/httpserver/middleware"
	"giftcircle/pkg/logger"
	"giftcircle/pkg/mailer"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn, log); err != nil {
		return nil, err
	}

	sender := newSender(cfg.Mail, log)
	notifier := notify.New(sender, cfg.AppURL, log)
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	identityService := identitydomain.NewService(identityrepo.NewPostgres(dbConn), notifier)
	familyService := familydomain.NewService(familyrepo.NewPostgres(dbConn), notifier)
	profileService := profiledomain.NewService(profilerepo.NewPostgres(dbConn))
	wishlistService := wishlistdomain.NewService(wishlistrepo.NewPostgres(dbConn))
	groupService := giftgroupdomain.NewService(giftgrouprepo.NewPostgres(dbConn), familyService)

	handlers := handler.New(identityService, familyService, profileService, wishlistService, groupService, tokens, log)
	authMiddleware := authmw.NewAuth(tokens, identityService)

	router := httpserver.NewRouter(cfg, handlers, authMiddleware)
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

// newSender builds the provider chain from whatever mail config is
// present. With neither provider configured, email is logged and
// dropped instead of failing requests.
func newSender(cfg config.MailConfig, log logger.Logger) mailer.Sender {
	var senders []mailer.Sender
	if cfg.ResendAPIKey != "" {
		senders = append(senders, mailer.NewResend(cfg.ResendAPIKey, cfg.From))
	}
	if cfg.SMTPHost != "" {
		senders = append(senders, mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.From))
	}
	if len(senders) == 0 {
		log.Warn("no mail provider configured, outbound email will be dropped")
		return mailer.NewLogOnly(log)
	}
	return mailer.NewRanked(log, senders...)
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
