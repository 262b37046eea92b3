package router

import (
	"video_storage_service/internal/videostore/api/handlers"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册影片儲存相关的路由
func RegisterRoutes(app *fiber.App, videoHandler *handlers.VideoHandler) {
	app.Get("/", videoHandler.Root)
	app.Post("/upload", videoHandler.UploadVideo)
	app.Get("/videos", videoHandler.ListVideos)
	app.Get("/stream/:id", videoHandler.StreamVideo)
	app.Delete("/delete/:id", videoHandler.DeleteVideo)
	app.Get("/health", videoHandler.Health)
}
