package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"hotelbooking/internal/cache"
	"hotelbooking/internal/config"
	"hotelbooking/internal/database"
	"hotelbooking/internal/email"
	"hotelbooking/internal/gateway/momo"
	"hotelbooking/internal/gateway/vnpay"
	"hotelbooking/internal/jobs"
	"hotelbooking/internal/kafka"
	"hotelbooking/internal/middleware"
	"hotelbooking/internal/modules/booking"
	"hotelbooking/internal/modules/payment"
	"hotelbooking/internal/notifier"
	jwtsvc "hotelbooking/internal/pkg/jwt"
	"hotelbooking/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	hotelRepo := repository.NewHotelRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	sessionRepo := repository.NewPaymentSessionRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	// The per-room lock is a hardening layer on top of the repository's
	// conflict detection; the app still works without redis.
	var locker booking.RoomLocker
	redisCache := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := redisCache.Ping(pingCtx); err != nil {
		log.Printf("level=warn msg=redis unavailable, room locks disabled addr=%s err=%v", cfg.Redis.Addr, err)
	} else {
		locker = redisCache
		defer redisCache.Close()
	}
	cancel()

	producer := kafka.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	hub := notifier.NewHub()
	defer hub.Close()
	notifs := notifier.New(hub, producer, log.Printf)
	wsHandler := notifier.NewWSHandler(hub, j)

	emailSender := email.NewSender(cfg.Email.BrevoAPIKey, cfg.Email.SenderEmail, cfg.Email.SenderName, userRepo, log.Printf)

	momoClient := momo.NewClient(momo.Config{
		PartnerCode: cfg.MoMo.PartnerCode,
		AccessKey:   cfg.MoMo.AccessKey,
		SecretKey:   cfg.MoMo.SecretKey,
		Endpoint:    cfg.MoMo.Endpoint,
		RedirectURL: cfg.MoMo.RedirectURL,
		IPNURL:      cfg.MoMo.IPNURL,
	})
	vnpayBuilder := vnpay.NewBuilder(vnpay.Config{
		TmnCode:    cfg.VNPay.TmnCode,
		HashSecret: cfg.VNPay.HashSecret,
		BaseURL:    cfg.VNPay.PayURL,
		ReturnURL:  cfg.VNPay.ReturnURL,
	})

	bookingService := booking.NewService(bookingRepo, roomRepo, hotelRepo, locker, notifs)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(bookingRepo, sessionRepo, momoClient, vnpayBuilder, notifs, emailSender, log.Printf)
	paymentHandler := payment.NewHandler(paymentService, cfg.FrontendSuccessURL, cfg.FrontendFailureURL, log.Printf)

	sweeper := jobs.NewSessionSweeper(sessionRepo, bookingRepo, cfg.PaymentSessionTTL, log.Printf)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.SweepSchedule, sweeper.Run); err != nil {
		log.Fatal(err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	r := gin.Default()
	r.Use(middleware.CORS(), middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public: availability search, gateway callbacks, websocket
		bookingHandler.RegisterPublicRoutes(v1)
		paymentHandler.RegisterPublicRoutes(v1)
		wsHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterProtectedRoutes(protected)
		}
	}

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
