package main

import (
	"flag"

	"Doubts_Clearance/internal/config"
	"Doubts_Clearance/internal/handler"
	"Doubts_Clearance/internal/identity"
	"Doubts_Clearance/internal/model"
	"Doubts_Clearance/internal/pkg"
	"Doubts_Clearance/internal/repository/mysql"
	"Doubts_Clearance/internal/repository/redis"
	"Doubts_Clearance/internal/router"
	"Doubts_Clearance/internal/service"
	"Doubts_Clearance/internal/storage"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	logger, err := pkg.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		logger.Fatal("mysql init failed", zap.Error(err))
	}
	if err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		logger.Fatal("redis init failed", zap.Error(err))
	}
	defer redis.Close()

	if err := mysql.DB.AutoMigrate(
		&model.User{},
		&model.Doubt{},
		&model.Reply{},
		&model.DoubtVote{},
		&model.DoubtOutbox{},
		&model.ReputationEvent{},
	); err != nil {
		logger.Fatal("automigrate failed", zap.Error(err))
	}

	producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
	})
	if err != nil {
		logger.Fatal("kafka init failed", zap.Error(err))
	}
	defer producer.Close()

	store, err := buildStore(cfg)
	if err != nil {
		logger.Fatal("attachment store init failed", zap.Error(err))
	}

	// repositories
	userRepo := &mysql.UserRepository{DB: mysql.DB}
	doubtRepo := &mysql.DoubtRepository{DB: mysql.DB}
	voteRepo := &mysql.VoteRepository{DB: mysql.DB}
	replyRepo := &mysql.ReplyRepository{DB: mysql.DB}
	reputationRepo := &mysql.ReputationRepository{DB: mysql.DB}
	outboxRepo := &mysql.OutboxRepository{DB: mysql.DB}
	sessionRepo := &redis.UserRepository{}
	voteCache := redis.NewVoteCacheRepository()
	lock := &redis.DistLock{RDB: redis.Client}

	tokens := pkg.NewTokenIssuer(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTTLDuration(), cfg.RefreshTTLDuration())
	resolver := identity.NewGoogleResolver(cfg.GoogleClientID)
	notifier := service.NewEmailNotifier(pkg.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	// services
	drainer := service.NewEventDrainer(outboxRepo, producer, logger)
	userSvc := service.NewUserService(userRepo, sessionRepo, reputationRepo, resolver, tokens, service.AuthPolicy{
		DomainAllowed: cfg.DomainAllowed,
		IsAdminEmail:  cfg.IsAdminEmail,
	})
	doubtSvc := service.NewDoubtService(doubtRepo, drainer, logger)
	voteSvc := service.NewVoteService(voteRepo, reputationRepo, voteCache, lock, drainer, logger)
	replySvc := service.NewReplyService(replyRepo, doubtRepo, userRepo, reputationRepo, notifier, drainer, logger)
	adminSvc := service.NewAdminService(userRepo, doubtRepo, replySvc, sessionRepo, outboxRepo, drainer, logger)

	r := router.InitRouter(router.Deps{
		Tokens:   tokens,
		Sessions: sessionRepo,
		Users:    userRepo,
		User:     handler.NewUserHandler(userSvc),
		Doubt:    handler.NewDoubtHandler(doubtSvc, voteSvc),
		Vote:     handler.NewVoteHandler(voteSvc),
		Reply:    handler.NewReplyHandler(replySvc),
		Upload:   handler.NewUploadHandler(store),
		Admin:    handler.NewAdminHandler(adminSvc),
	})

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := r.Run(cfg.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func buildStore(cfg *config.Config) (storage.AttachmentStore, error) {
	if cfg.Storage.Backend == "minio" {
		return storage.NewMinioStore(
			cfg.Storage.MinioEndpoint,
			cfg.Storage.MinioAccessKey,
			cfg.Storage.MinioSecretKey,
			cfg.Storage.MinioBucket,
			cfg.Storage.MinioUseSSL,
		)
	}
	return storage.NewLocalStore(cfg.Storage.Dir)
}
