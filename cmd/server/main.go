package main

import (
	"log"

	"github.com/ezopovv/WEBDEV-Light-Blog-with-users/internal/config"
	"github.com/ezopovv/WEBDEV-Light-Blog-with-users/internal/db"
	"github.com/ezopovv/WEBDEV-Light-Blog-with-users/internal/router"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 按需创建管理员账号
	if err := db.EnsureAdminUser(cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to ensure admin user: %v", err)
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(cfg.SessionSecret, cfg.AdminUserID)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
