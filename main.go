package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"nvcoach-backend/config"
	"nvcoach-backend/controller"
	"nvcoach-backend/dao"
	"nvcoach-backend/logger"
	"nvcoach-backend/logic"
	"nvcoach-backend/middleware"
	"nvcoach-backend/models"
	"nvcoach-backend/pkg"
)

func main() {
	// Initialize config
	if len(os.Args) < 2 {
		log.Fatal("Usage: nvcoach-backend <config.yaml>")
	}
	configFile := os.Args[1]
	if err := config.LoadConfig(configFile); err != nil {
		log.Fatalf("Failed to load config from %s: %v", configFile, err)
	}

	appLog, err := logger.New(config.GlobalConfig.Log.Mode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	// Initialize database. The connection pool lives for the whole process
	// and is created exactly once, here.
	db, err := gorm.Open(postgres.Open(config.GlobalConfig.DSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		appLog.Fatal("Failed to connect to database", "error", err)
	}
	if err := db.AutoMigrate(&models.ConversionSession{}, &models.FollowUpExchange{}); err != nil {
		appLog.Fatal("Failed to migrate database", "error", err)
	}

	// Initialize Chat client and gateway
	chatClient := pkg.NewChatClient(
		config.GlobalConfig.OpenAI.APIKey,
		pkg.WithBaseURL(config.GlobalConfig.OpenAI.BaseURL),
		pkg.WithTimeout(time.Duration(config.GlobalConfig.OpenAI.TimeoutSeconds)*time.Second),
	)
	gateway := pkg.NewNVCGateway(
		chatClient,
		config.GlobalConfig.OpenAI.Model,
		config.GlobalConfig.OpenAI.DecomposeMaxTokens,
		config.GlobalConfig.OpenAI.AnswerMaxTokens,
		config.GlobalConfig.OpenAI.Temperature,
	)

	// Initialize DAOs
	sessionDAO := dao.NewSessionDAO(db)
	exchangeDAO := dao.NewExchangeDAO(db)

	// Initialize Logic
	sessionLogic := logic.NewSessionLogic(sessionDAO, exchangeDAO, gateway, appLog)

	// Initialize Controllers
	sessionCtrl := controller.NewSessionController(sessionLogic)
	exchangeCtrl := controller.NewExchangeController(sessionLogic)

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(appLog))
	r.Use(cors.Default())

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})
	r.POST("/sessions", sessionCtrl.CreateSession)
	r.GET("/sessions", sessionCtrl.ListSessions)
	r.GET("/sessions/:id", sessionCtrl.GetSession)
	r.POST("/sessions/:id/questions", exchangeCtrl.SubmitQuestion)
	r.GET("/sessions/:id/questions", exchangeCtrl.ListQuestions)

	// Run server
	appLog.Info("starting server", "port", config.GlobalConfig.Server.Port)
	if err := r.Run(fmt.Sprintf(":%d", config.GlobalConfig.Server.Port)); err != nil {
		appLog.Fatal("Failed to run server", "error", err)
	}
}
