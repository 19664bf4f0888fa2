package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"maintenance-tracker/internal/dto"
	"maintenance-tracker/internal/listeners"
	"maintenance-tracker/internal/repositories"
	"maintenance-tracker/internal/services"
	"maintenance-tracker/pkg/config"
	"maintenance-tracker/pkg/database/postgresql"
	"maintenance-tracker/pkg/eventbus"
	applogger "maintenance-tracker/pkg/logger"
	"maintenance-tracker/pkg/utils"
	"maintenance-tracker/seeders"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env - общие для всех команд конфиг, логгер и пул.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *pgxpool.Pool
}

func connect(ctx context.Context) (*env, error) {
	cfg := config.New()
	logger := applogger.NewLogger()
	db, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, db: db}, nil
}

func (e *env) Close() {
	e.db.Close()
	_ = e.logger.Sync()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Обслуживание БД трекера: миграции, демо-данные, закрепление оборудования",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newMigrateCommand())
	cmd.AddCommand(newSeedCommand())
	cmd.AddCommand(newAssignDepartmentsCommand())
	cmd.AddCommand(newCheckDepartmentsCommand())
	return cmd
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить SQL-миграции",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			e, err := connect(ctx)
			if err != nil {
				return err
			}
			defer e.Close()
			return postgresql.Migrate(ctx, e.db, e.logger)
		},
	}
}

func newSeedCommand() *cobra.Command {
	var (
		reset   bool
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Наполнить БД демонстрационными отделами, оборудованием и обслуживанием",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			e, err := connect(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if migrate {
				if err := postgresql.Migrate(ctx, e.db, e.logger); err != nil {
					return err
				}
			}
			return seeders.SeedDemoData(ctx, e.db, seeders.Options{Reset: reset}, e.logger)
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Очистить таблицы перед наполнением")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "Применить миграции перед наполнением")
	return cmd
}

// parseIDs разбирает "1,2, 3"; пустые элементы пропускаются.
func parseIDs(raw string) ([]dto.FlexID, error) {
	parsed, err := utils.ParseUint64Slice(strings.Split(raw, ","))
	if err != nil {
		return nil, fmt.Errorf("некорректный список id оборудования %q: %w", raw, err)
	}
	ids := make([]dto.FlexID, 0, len(parsed))
	for _, id := range parsed {
		ids = append(ids, dto.FlexID(id))
	}
	return ids, nil
}

func newAssignDepartmentsCommand() *cobra.Command {
	var (
		departmentID uint64
		rawIDs       string
	)

	cmd := &cobra.Command{
		Use:   "assign-departments",
		Short: "Закрепить оборудование за отделом (без --ids - все оборудование без отдела)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			ids, err := parseIDs(rawIDs)
			if err != nil {
				return err
			}

			e, err := connect(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if departmentID == 0 {
				id, name, err := seeders.FirstDepartmentID(ctx, e.db)
				if err != nil {
					return err
				}
				e.logger.Info("Отдел не указан, используется первый", zap.Uint64("department_id", id), zap.String("name", name))
				departmentID = id
			}

			// Кеш отчетов API сбрасывается так же, как при вызове через HTTP.
			bus := eventbus.New(e.logger)
			var cache repositories.CacheRepositoryInterface
			redisClient := redis.NewClient(&redis.Options{
				Addr:     e.cfg.Redis.Address,
				Password: e.cfg.Redis.Password,
				DB:       e.cfg.Redis.DB,
			})
			defer redisClient.Close()
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			if err := redisClient.Ping(pingCtx).Err(); err != nil {
				e.logger.Warn("Redis недоступен, кеш отчетов не сбрасывается", zap.Error(err))
			} else {
				cache = repositories.NewRedisCacheRepository(redisClient)
			}
			cancel()

			reports := services.NewReportService(repositories.NewReportRepository(e.db, e.logger), cache, e.cfg.Reports, nil, e.logger)
			listeners.NewReportCacheListener(reports, e.logger).Register(bus)

			equipment := services.NewEquipmentService(
				repositories.NewTxManager(e.db),
				repositories.NewEquipmentRepository(e.db, e.logger),
				repositories.NewDepartmentRepository(e.db, e.logger),
				repositories.NewActivityRepository(e.db, e.logger),
				bus,
				e.cfg.Dashboard,
				nil,
				e.logger,
			)

			result, err := equipment.AssignDepartment(ctx, dto.BulkAssignDepartmentDTO{
				DepartmentID: dto.FlexID(departmentID),
				EquipmentIDs: ids,
			})
			bus.Wait()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&departmentID, "department-id", 0, "ID отдела (по умолчанию первый отдел)")
	cmd.Flags().StringVar(&rawIDs, "ids", "", "ID оборудования через запятую")
	return cmd
}

func newCheckDepartmentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check-departments",
		Short: "Показать отделы с числом оборудования и количество оборудования без отдела",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			e, err := connect(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			summary, err := repositories.NewReportRepository(e.db, e.logger).GetDepartmentSummary(ctx, nil)
			if err != nil {
				return err
			}
			unassigned, err := seeders.CountUnassignedEquipment(ctx, e.db)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Отделов: %d\n", len(summary))
			for _, d := range summary {
				fmt.Fprintf(out, "  #%d %s: оборудования %d\n", d.ID, d.Name, d.EquipmentCount)
			}
			fmt.Fprintf(out, "Оборудование без отдела: %d\n", unassigned)
			return nil
		},
	}
}
