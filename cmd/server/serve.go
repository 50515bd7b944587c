package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vivek290100/CodeMaster/internal/api"
	"github.com/Vivek290100/CodeMaster/internal/app/service"
	"github.com/Vivek290100/CodeMaster/internal/app/worker"
	"github.com/Vivek290100/CodeMaster/internal/common/security"
	"github.com/Vivek290100/CodeMaster/internal/domain/repository"
	"github.com/Vivek290100/CodeMaster/internal/platform/config"
	"github.com/Vivek290100/CodeMaster/internal/platform/database"
	"github.com/Vivek290100/CodeMaster/internal/platform/executor"
	"github.com/Vivek290100/CodeMaster/internal/platform/logger"
	"github.com/Vivek290100/CodeMaster/internal/platform/metrics"
	"github.com/Vivek290100/CodeMaster/internal/platform/queue"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveArgs struct {
	inMemory bool
	migrate  bool
	noWorker bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the execution worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveArgs.inMemory, "in-memory", false, "keep problems and users in memory; disables PostgreSQL, Redis and async executions")
	serveCmd.Flags().BoolVar(&serveArgs.migrate, "migrate", false, "apply the database schema before serving")
	serveCmd.Flags().BoolVar(&serveArgs.noWorker, "no-worker", false, "accept async executions without processing them in this process")
}

func serve(ctx context.Context) error {
	cfg := config.Load()
	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	security.InitJWT(cfg.JWTKey, cfg.JWTExp)

	runtimes, err := config.LoadRuntimes(cfg.RuntimesFile)
	if err != nil {
		return err
	}

	m := metrics.New()
	exec := executor.NewPistonClient(cfg.PistonURL, cfg.PistonTimeout)

	var (
		problemRepo repository.ProblemRepository
		userRepo    repository.UserRepository
		db          *sql.DB
		rdb         *redis.Client
	)
	if serveArgs.inMemory {
		log.Warn("running with in-memory storage, data is lost on exit")
		problemRepo = repository.NewMemoryProblemRepository()
		userRepo = repository.NewMemoryUserRepository()
	} else {
		if db, err = database.Connect(ctx, cfg.DBConnStr, log); err != nil {
			return err
		}
		defer database.Close(db, log)
		if serveArgs.migrate {
			if err := database.Migrate(ctx, db); err != nil {
				return err
			}
			log.Info("database schema applied")
		}
		problemRepo = repository.NewPgProblemRepository(db)
		userRepo = repository.NewPgUserRepository(db)

		rdb, err = queue.ConnectRedis(ctx, queue.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}, log)
		if err != nil {
			return err
		}
		defer queue.CloseRedis(rdb, log)
	}

	executionService := service.NewExecutionService(problemRepo, exec, m, log, service.ExecutionOptions{
		InterCallDelay:   cfg.InterCallDelay,
		CompileTimeoutMs: cfg.CompileTimeoutMs,
	})
	services := api.Services{
		Auth:      service.NewAuthService(userRepo, log),
		Problem:   service.NewProblemService(problemRepo, runtimes, log),
		Execution: executionService,
		Runtimes:  runtimes,
		Executor:  exec,
	}

	var executionWorker *worker.ExecutionWorker
	if rdb != nil {
		jobRepo := repository.NewRedisExecutionJobRepository(rdb, cfg.ExecutionJobTTL)
		jobQueue := queue.NewQueue(rdb, cfg.ExecutionQueueName)
		services.Jobs = service.NewExecutionJobService(jobRepo, jobQueue, log)

		if !serveArgs.noWorker {
			lock := queue.NewLock(rdb, cfg.ExecutionLockKey, time.Duration(cfg.ExecutionLockTTLSeconds)*time.Second)
			executionWorker = worker.NewExecutionWorker(jobQueue, lock, jobRepo, executionService, m, log, worker.Options{
				PollTimeout: cfg.WorkerPollTimeout,
			})
		}
	}

	server := &http.Server{
		Addr: ":" + cfg.APIPort,
		Handler: api.NewRouter(services, m, log, api.Options{
			CORSOrigins:    cfg.CORSOrigins,
			RequestTimeout: cfg.HTTPWriteTimeout,
		}),
		ReadTimeout: 10 * time.Second,
		// Synchronous executions answer only after every test case ran.
		WriteTimeout: cfg.HTTPWriteTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", zap.String("addr", server.Addr), zap.String("piston", cfg.PistonURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", server.Addr, err)
		}
		return nil
	})
	if executionWorker != nil {
		g.Go(func() error {
			return executionWorker.Start(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server and worker stopped gracefully")
	return nil
}
