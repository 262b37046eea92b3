package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"video_storage_service/internal/videostore/api/handlers"
	"video_storage_service/internal/videostore/api/router"
	"video_storage_service/internal/videostore/app"
	"video_storage_service/internal/videostore/domain"
	"video_storage_service/internal/videostore/repository"
	"video_storage_service/pkg/config"
	"video_storage_service/pkg/database"
	"video_storage_service/pkg/logger"
	testtool "video_storage_service/pkg/test_tool"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.VideoStore, config.EnvConfig.VideoStoreLogPath)

	cfg := config.LoadConfig[config.VideoStore](config.EnvConfig.VideoStore, config.EnvConfig.VideoStoreYAMLPath)

	// 1. 連線 PostgreSQL
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		cfg.PostgreSQL.Host, cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Database, cfg.PostgreSQL.Port)
	db, err := database.NewPGConnection(database.Connection{
		ConnectStr: dsn,

		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to postgreSQL database after retries",
			zap.String("address", fmt.Sprintf("[%s]", dsn)),
			zap.Error(err),
		)
	}

	// 自動遷移影片資料表
	metaRepo := repository.NewMetadataRepo(db)
	if err := metaRepo.AutoMigrate(); err != nil {
		log.Fatalf("資料表遷移失敗: %v", err)
	}

	// 2. 初始化本地內容儲存目錄
	contentRepo, err := repository.NewFSContentRepo(cfg.StorageDir)
	if err != nil {
		logger.Log.Fatal("Unable to init storage dir", zap.String("dir", cfg.StorageDir), zap.Error(err))
	}

	// 3. 選配：MinIO 冷備份鏡像
	var archive database.MinIOClientRepo
	if cfg.MinIO.Enable {
		minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
			Endpoint:   fmt.Sprintf("%s:%d", cfg.MinIO.Host, cfg.MinIO.Port),
			User:       cfg.MinIO.User,
			Password:   cfg.MinIO.Password,
			BucketName: cfg.MinIO.BucketName,
			UseSSL:     cfg.MinIO.UseSSL,

			RetryCount:    cfg.MinIO.RetryCount,
			RetryInterval: cfg.MinIO.RetryInterval,
		})
		if err != nil {
			logger.Log.Fatal(
				"Unable to connect to minio after retries",
				zap.String("address", fmt.Sprintf("%s:%d", cfg.MinIO.Host, cfg.MinIO.Port)),
				zap.Error(err),
			)
		}
		archive = minioClient
	}

	// 4. 選配：RabbitMQ 入庫事件
	var events database.RabbitRepo
	if cfg.RabbitMQ.Enable {
		rabbitURL := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.IP, cfg.RabbitMQ.Port)
		conn, err := database.ConnectRabbitMQWithRetry(database.Connection{
			ConnectStr:    rabbitURL,
			RetryCount:    cfg.RabbitMQ.RetryCount,
			RetryInterval: time.Duration(cfg.RabbitMQ.RetryInterval),
		})
		if err != nil {
			log.Fatalf("RabbitMQ 連線失敗: %v", err)
		}
		defer conn.Close()

		rabbitChannel, err := database.GetRabbitMQChannelWithRetry(conn, cfg.RabbitMQ.RetryCount, time.Duration(cfg.RabbitMQ.RetryInterval))
		if err != nil {
			log.Fatalf("取得 RabbitMQ Channel 失敗: %v", err)
		}
		defer rabbitChannel.Close()

		// 先初始化 queue name = video_ingested
		if _, err := rabbitChannel.QueueDeclare(
			domain.QueueName, // queue name
			true,             // durable
			false,            // autoDelete
			false,            // exclusive
			false,            // noWait
			nil,              // arguments
		); err != nil {
			log.Fatalf("Queue Declare failed: %v", err)
		}
		events = database.NewRabbitRepository(rabbitChannel)
	}

	usecase := app.NewStorageUseCase(metaRepo, contentRepo, archive, events)

	// 5. 建立 Fiber 應用
	r := fiber.New()
	// 添加日志中间件
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.VideoStoreLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file, // 将日志输出到文件
	}))

	// 6. 設定 API 路由
	videoHandler := handlers.NewVideoHandler(usecase)
	router.RegisterRoutes(r, videoHandler)

	// 非正式環境開啟 pprof
	testtool.StartPprof()

	// 7. 啟動 API 服務
	logger.Log.Info(fmt.Sprintf("VideoStore HTTP server listening on : %s", cfg.Port))
	if err := r.Listen(cfg.IP + ":" + cfg.Port); err != nil {
		logger.Log.Fatal("Server failed to start", zap.Error(err))
	}
}
