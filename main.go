package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"moneybook/config"
	"moneybook/database"
	"moneybook/logger"
	"moneybook/middleware"
	"moneybook/repository"
	"moneybook/router"
	"moneybook/service"
)

// @title 个人记账 API
// @version 1.0
// @description 账户、流水、周期记账、预算与报表接口。令牌由外部认证服务签发
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	showVersion bool
	generate    bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
	flag.BoolVar(&generate, "generate", false, "为所有用户补齐到期的周期流水后退出，供外部定时任务调用")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("moneybook v1.0.0")
		return
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		// 自动添加冒号前缀
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("命令行指定端口: %s", port)
	}

	// 打印配置信息
	config.PrintConfig()

	logr := logger.New(cfg.Log)

	// 初始化数据库
	if err := database.Init(cfg, logr); err != nil {
		logr.WithError(err).Fatal("数据库初始化失败")
	}

	if generate {
		gen := service.NewGenerator(repository.NewGormStore(database.DB), cfg.Recurring, logr)
		res := gen.Run(context.Background(), service.RunOptions{})
		if res.Err != nil {
			os.Exit(1)
		}
		logr.WithField("created", res.Created).WithField("rules", res.Rules).Info("周期流水补齐完成")
		return
	}

	// 初始化 JWT
	middleware.InitJWT(cfg)

	// 设置路由
	r := router.SetupRouter(cfg, logr)

	// 启动服务器
	log.Printf("==========================================")
	log.Printf("  moneybook 已启动")
	log.Printf("==========================================")
	log.Printf("  API接口:  http://localhost%s/api/v1/", cfg.Server.Port)
	log.Printf("  健康检查: http://localhost%s/health", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		logr.WithError(err).Fatal("服务器启动失败")
	}
}
