package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/guardia-dev/roster-manager/backend/internal/config"
	"github.com/guardia-dev/roster-manager/backend/internal/repository"
	"github.com/guardia-dev/roster-manager/backend/internal/seed"
	"github.com/guardia-dev/roster-manager/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var siteID int64

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 给站点插入随机员工, 3: 给站点插入每周人力需求规则, 4: 插入完整演示数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&siteID, "site-id", 0, "要插入员工或规则的站点 ID")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
			return
		}

		companyID, err := seed.EnsureInitialCompany(cfg, repo)
		if err != nil {
			slog.Error("无法确保初始公司存在", slog.String("error", err.Error()))
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			user, err := utils.GenerateRandomUser(companyID, cfg.Seed.User.Password, cfg.Email.UserDomain)
			if err != nil {
				slog.Error("无法生成随机用户", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateUser(user); err != nil {
				slog.Error("无法插入用户", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入用户成功", slog.Int("count", n-cnt))
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
			return
		}
		if siteID <= 0 {
			slog.Error("请输入合法的站点 ID")
			return
		}

		site, err := repo.GetSiteByID(siteID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				slog.Error("指定的站点不存在", slog.Int64("site_id", siteID))
			default:
				slog.Error("无法获取站点", slog.String("error", err.Error()))
			}
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			employee := utils.GenerateRandomEmployee(site.CompanyID, site.ID, cfg.Email.UserDomain)
			if err := repo.CreateEmployee(employee); err != nil {
				slog.Error("无法插入员工", slog.String("error", err.Error()))
				continue
			}

			if err := repo.UpsertPreference(utils.GenerateRandomPreference(employee.ID)); err != nil {
				slog.Error("无法插入员工偏好", slog.String("error", err.Error()))
				continue
			}

			if windows := utils.GenerateRandomAvailability(employee.ID); len(windows) > 0 {
				if err := repo.ReplaceAvailability(employee.ID, windows); err != nil {
					slog.Error("无法插入员工可用时间", slog.String("error", err.Error()))
					continue
				}
			}

			cnt--
		}

		slog.Info("插入员工成功", slog.Int("count", n-cnt))
	case 3:
		if siteID <= 0 {
			slog.Error("请输入合法的站点 ID")
			return
		}

		if _, err := repo.GetSiteByID(siteID); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				slog.Error("指定的站点不存在", slog.Int64("site_id", siteID))
			default:
				slog.Error("无法获取站点", slog.String("error", err.Error()))
			}
			return
		}

		cnt := 0
		for weekday := int32(1); weekday <= 7; weekday++ {
			rule := utils.GenerateRandomWeeklyRule(siteID, weekday)
			if err := repo.UpsertWeeklyRule(rule); err != nil {
				slog.Error("无法插入每周人力需求规则", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入每周人力需求规则成功", slog.Int("count", cnt))
	case 4:
		seed.SeedDemoData(cfg, repo)
	default:
		slog.Error("指定的操作非法")
	}
}
