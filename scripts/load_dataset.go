// 手动导入足球数据集与题库
//
// 从 storage 配置指向的位置（本地目录、MinIO 或 OSS）读取 teams.csv、players.csv、matches.csv，
// 整体替换 SQL 沙箱使用的数据集表。可选地从 YAML 文件追加题库。
//
// 用法: go run scripts/load_dataset.go [-questions data/questions.yaml] [-skip-dataset]

package main

import (
	"context"
	"flag"
	"football_iq_backend/internal/config"
	"football_iq_backend/internal/repository"
	"football_iq_backend/internal/service"
	"football_iq_backend/pkg/database"
	"football_iq_backend/pkg/logger"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	questionsFile := flag.String("questions", "", "题库 YAML 文件路径，留空则不导入")
	skipDataset := flag.Bool("skip-dataset", false, "跳过 CSV 数据集导入")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.Open(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if !*skipDataset {
		storage, err := service.NewStorageService(&cfg.Storage)
		if err != nil {
			log.Fatalf("初始化存储失败: %v", err)
		}

		loader := service.NewDatasetLoader(storage, repository.NewDatasetRepository(db))
		summary, err := loader.Load(ctx)
		if err != nil {
			log.Fatalf("导入数据集失败: %v", err)
		}
		log.Printf("数据集导入完成: %d 支球队, %d 名球员, %d 场比赛", summary.Teams, summary.Players, summary.Matches)
	}

	if *questionsFile != "" {
		f, err := os.Open(*questionsFile)
		if err != nil {
			log.Fatalf("无法打开题库文件: %v", err)
		}
		defer f.Close()

		n, err := service.ImportQuestions(ctx, repository.NewQuestionRepository(db), f)
		if err != nil {
			log.Fatalf("导入题库失败: %v", err)
		}
		log.Printf("题库导入完成: %d 道题", n)
	}
}
