package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talent-match-go/internal/api/handler"
	"talent-match-go/internal/api/router"
	"talent-match-go/internal/catalog"
	"talent-match-go/internal/config"
	"talent-match-go/internal/embedding"
	"talent-match-go/internal/matcher"
	"talent-match-go/internal/storage"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	appCoreLogger "talent-match-go/internal/logger" // aliased to avoid conflict with hertz log

	einoembedding "github.com/cloudwego/eino/components/embedding"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
)

var (
	version     = "1.0.0"           //nolint:gochecknoglobals
	serviceName = "talent-match-go" //nolint:gochecknoglobals
)

// @title Talent Match API
// @version 1.0
// @description 候选人-职位匹配服务的API文档。
// @BasePath /api/v1
func main() {
	// .env 仅用于本地开发注入敏感项（如 ALIYUN_API_KEY），不存在时静默跳过
	_ = godotenv.Load()

	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "internal/config/config.yaml", "Path to config file")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		glog.Fatalf("加载配置失败: %v", err)
	}

	initLogger(cfg)
	glog.Infof("配置加载成功, 服务: %s v%s", serviceName, version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()
	glog.Info("存储服务初始化成功")

	qwenEmbedder, err := embedding.NewQwenEmbedder(cfg.Aliyun.APIKey, cfg.Aliyun.Embedding)
	if err != nil {
		glog.Fatalf("初始化向量模型客户端失败: %v", err)
	}

	// Redis可用时在向量模型前挂缓存层，冻结模型下缓存结果恒定
	var embedder einoembedding.Embedder = qwenEmbedder
	if storageManager.Redis != nil {
		embedder = embedding.NewCachedEmbedder(qwenEmbedder, storageManager.Redis, cfg.Aliyun.Embedding.Model)
		glog.Info("向量缓存已启用")
	}
	glog.Info("向量模型客户端初始化成功")

	jobCatalog, err := buildCatalog(ctx, cfg, storageManager, embedder)
	if err != nil {
		glog.Fatalf("构建职位目录失败: %v", err)
	}
	glog.Infof("职位目录构建成功, 条目数: %d, 标题字段: %s", jobCatalog.Len(), jobCatalog.TitleField())

	jobMatcher := matcher.NewCandidateJobMatcher(embedder)
	finder := catalog.NewFinder(jobCatalog, embedder)

	matchHandler := handler.NewMatchHandler(cfg, storageManager, jobMatcher, jobCatalog, finder)
	glog.Info("MatchHandler初始化成功")

	// 异步打分消费者：每个worker各持一路消费循环
	if storageManager.RabbitMQ != nil {
		workers := cfg.RabbitMQ.ConsumerWorkers
		glog.Infof("启动打分消费者，工作线程数: %d", workers)
		for i := 0; i < workers; i++ {
			go func(worker int) {
				if err := matchHandler.StartMatchRequestConsumer(ctx); err != nil {
					glog.Errorf("打分消费者 #%d 退出: %v", worker, err)
				}
			}(i)
		}
	}

	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	)
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		glog.CtxInfof(c, "Request: %s %s", string(ctx.Method()), string(ctx.Path()))
		ctx.Next(c)
		glog.CtxInfof(c, "Response: status %d", ctx.Response.StatusCode())
	})

	router.RegisterRoutes(h, matchHandler)
	glog.Info("HTTP路由注册成功")

	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)

	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	cancel() // 先停消费者，再关HTTP

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Fatalf("服务器关闭失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

// initLogger 初始化应用日志并把Hertz的hlog接到同一个zerolog实例上。
func initLogger(cfg *config.Config) {
	appCoreLogger.Init(appCoreLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})

	glog.SetLogger(hertzadapter.From(appCoreLogger.Logger))
	glog.SetLevel(hertzLogLevel(cfg.Logger.Level))
}

func hertzLogLevel(level string) glog.Level {
	switch level {
	case "debug":
		return glog.LevelDebug
	case "warn":
		return glog.LevelWarn
	case "error":
		return glog.LevelError
	default:
		return glog.LevelInfo
	}
}

// buildCatalog 按配置的目录来源加载职位目录。
// 目录在启动时构建一次，之后全程只读。
func buildCatalog(ctx context.Context, cfg *config.Config, storageManager *storage.Storage, embedder einoembedding.Embedder) (*catalog.JobCatalog, error) {
	loader := catalog.NewLoader(embedder)

	var records []catalog.RawRecord
	var err error
	switch cfg.Catalog.Source {
	case "minio":
		if storageManager.MinIO == nil {
			glog.Fatalf("目录来源配置为minio但MinIO未初始化")
		}
		records, err = loader.LoadFromCSVObject(ctx, storageManager.MinIO, cfg.MinIO.JobsObject)
	default:
		if storageManager.MySQL == nil {
			glog.Fatalf("目录来源配置为mysql但MySQL未初始化")
		}
		records, err = loader.LoadFromMySQL(ctx, storageManager.MySQL)
	}
	if err != nil {
		return nil, err
	}

	return catalog.New(records, catalog.WithFuzzyThreshold(cfg.Catalog.FuzzyThreshold))
}
