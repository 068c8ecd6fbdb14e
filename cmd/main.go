package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	v1 "wanderlog/api/v1"
	"wanderlog/config"
	"wanderlog/dao"
	"wanderlog/internal/media"
	myvalidator "wanderlog/internal/validator"
	"wanderlog/middleware"
	"wanderlog/model"
	"wanderlog/service"
)

func main() {
	// 初始化配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "../"
	}
	config.InitConfig(configPath)
	config.InitRedis()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// 初始化数据库
	db, err := gorm.Open(mysql.Open(config.GlobalConfig.MySQL.DSN), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	// 自动迁移
	if err := db.AutoMigrate(&model.User{}, &model.Note{}, &model.NoteMedia{}); err != nil {
		panic(err)
	}

	// 本地媒体存储
	store, err := media.NewLocalStore(config.GlobalConfig.Upload.Dir, config.GlobalConfig.Upload.BaseURL, logger)
	if err != nil {
		panic(err)
	}

	// 初始化 DAO 和 Service
	userDAO := dao.NewUserDAO(db)
	noteDAO := dao.NewNoteDAO(db)
	queryDAO := dao.NewQueryDAO(db)

	userService := service.NewUserService(userDAO, config.RedisClient)
	noteService := service.NewNoteService(noteDAO)
	moderationService := service.NewModerationService(noteDAO)
	queryService := service.NewQueryService(queryDAO, config.RedisClient)

	userAPI := v1.NewUserAPI(userService)
	noteAPI := v1.NewNoteAPI(noteService, queryService)
	reviewAPI := v1.NewReviewAPI(moderationService, queryService)
	mediaAPI := v1.NewMediaAPI(store)

	// 初始化路由
	r := gin.Default()
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static(config.GlobalConfig.Upload.BaseURL, config.GlobalConfig.Upload.Dir)

	// 注册自定义校验器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("mobile", myvalidator.IsMobile); err != nil {
			panic(err)
		}
		if err := v.RegisterValidation("mediakind", myvalidator.IsMediaKind); err != nil {
			panic(err)
		}
	}

	// 公共路由
	public := r.Group("/api/v1")
	{
		public.POST("/users/register", userAPI.Register)
		loginLimiter := middleware.LoginRateLimiter(config.RedisClient, 5, time.Minute)
		public.POST("/users/login", loginLimiter, userAPI.Login)
		public.POST("/users/refresh", userAPI.RefreshToken)

		public.GET("/notes", noteAPI.ListPublished)
		public.GET("/destinations", noteAPI.PopularDestinations)
		// 单篇详情允许匿名访问，但带 token 时按作者/管理员放宽可见性
		public.GET("/notes/:id", middleware.OptionalAuthMiddleware(userService.Session), noteAPI.Get)
	}

	// 私有路由
	private := r.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(userService.Session))
	{
		private.POST("/users/logout", userAPI.Logout)
		private.GET("/users/profile", userAPI.Profile)
		private.PUT("/users/profile", userAPI.UpdateProfile)
		private.GET("/users/notes", noteAPI.ListMine)

		private.POST("/notes", noteAPI.Create)
		private.PUT("/notes/:id", noteAPI.Update)
		private.DELETE("/notes/:id", noteAPI.Delete)

		private.POST("/media", mediaAPI.Upload)

		// 审核员/管理员（角色检查在 service 层）
		private.GET("/review/notes", reviewAPI.Queue)
		private.PUT("/review/notes/:id/status", reviewAPI.SetStatus)
		private.DELETE("/review/notes/:id", reviewAPI.Delete)
	}

	// 启动服务
	if err := r.Run(config.GlobalConfig.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
