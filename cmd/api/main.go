package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/fatih-calik/dersdagitim-sub001/api/swagger"
	"github.com/fatih-calik/dersdagitim-sub001/internal/handler"
	internalmw "github.com/fatih-calik/dersdagitim-sub001/internal/middleware"
	"github.com/fatih-calik/dersdagitim-sub001/internal/repository"
	"github.com/fatih-calik/dersdagitim-sub001/internal/service"
	"github.com/fatih-calik/dersdagitim-sub001/pkg/cache"
	"github.com/fatih-calik/dersdagitim-sub001/pkg/config"
	"github.com/fatih-calik/dersdagitim-sub001/pkg/database"
	"github.com/fatih-calik/dersdagitim-sub001/pkg/logger"
	corsmiddleware "github.com/fatih-calik/dersdagitim-sub001/pkg/middleware/cors"
	reqidmiddleware "github.com/fatih-calik/dersdagitim-sub001/pkg/middleware/requestid"
)

// @title Ders Dagitim API
// @version 1.0.0
// @description Lesson distribution core: blocks, placements, validator and solvers
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient := cache.MaybeRedis(cfg.Redis, logr)
	if redisClient != nil {
		defer redisClient.Close()
	}

	validate := validator.New()

	lessonRepo := repository.NewLessonRepository(db)
	classRepo := repository.NewClassRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	constraintRepo := repository.NewConstraintRepository(db)
	cacheRepo := repository.NewScheduleCacheRepository(db)
	reportRepo := repository.NewReportRepository(db)
	solverRepo := repository.NewSolverRepository(db)

	metricsSvc := service.NewMetricsService()
	timetableSvc := service.NewTimetableService(cacheRepo, redisClient, cfg.Timetable.CacheTTL, metricsSvc, logr)
	placementSvc := service.NewPlacementService(blockRepo, constraintRepo, timetableSvc, validate, logr)
	blockSvc := service.NewBlockService(blockRepo, assignmentRepo, lessonRepo, roomRepo, placementSvc, timetableSvc, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, blockRepo, classRepo, lessonRepo, blockSvc, placementSvc, timetableSvc, validate, logr)
	catalogSvc := service.NewCatalogService(lessonRepo, classRepo, teacherRepo, roomRepo, validate, logr)
	constraintSvc := service.NewConstraintService(constraintRepo, placementSvc, validate, logr)
	validatorSvc := service.NewValidatorService(assignmentRepo, blockRepo, lessonRepo, classRepo, teacherRepo, cacheRepo, reportRepo, blockSvc, placementSvc, timetableSvc, metricsSvc, logr)
	solverSvc := service.NewSolverService(solverRepo, blockRepo, placementSvc, lessonRepo, placementSvc, timetableSvc, metricsSvc, cfg.Solver, validate, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	solverSvc.Start(ctx)
	defer solverSvc.Stop()

	if cfg.Validator.AutoRun {
		go runValidatorLoop(ctx, validatorSvc, cfg.Validator.Interval, logr)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmw.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r.Group(cfg.APIPrefix),
		handler.NewCatalogHandler(catalogSvc),
		handler.NewAssignmentHandler(assignmentSvc),
		handler.NewBlockHandler(blockSvc),
		handler.NewPlacementHandler(placementSvc),
		handler.NewConstraintHandler(constraintSvc),
		handler.NewValidatorHandler(validatorSvc),
		handler.NewSolverHandler(solverSvc),
		handler.NewTimetableHandler(timetableSvc),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}

func registerRoutes(api *gin.RouterGroup,
	catalog *handler.CatalogHandler,
	assignments *handler.AssignmentHandler,
	blocks *handler.BlockHandler,
	placements *handler.PlacementHandler,
	constraints *handler.ConstraintHandler,
	validatorH *handler.ValidatorHandler,
	solver *handler.SolverHandler,
	timetable *handler.TimetableHandler,
) {
	api.GET("/lessons", catalog.ListLessons)
	api.POST("/lessons", catalog.CreateLesson)
	api.GET("/lessons/:id", catalog.GetLesson)
	api.PUT("/lessons/:id", catalog.UpdateLesson)
	api.DELETE("/lessons/:id", catalog.DeleteLesson)

	api.GET("/classes", catalog.ListClasses)
	api.POST("/classes", catalog.CreateClass)
	api.GET("/classes/:id", catalog.GetClass)
	api.PUT("/classes/:id", catalog.UpdateClass)
	api.DELETE("/classes/:id", catalog.DeleteClass)

	api.GET("/teachers", catalog.ListTeachers)
	api.POST("/teachers", catalog.CreateTeacher)
	api.GET("/teachers/:id", catalog.GetTeacher)
	api.PUT("/teachers/:id", catalog.UpdateTeacher)
	api.DELETE("/teachers/:id", catalog.DeleteTeacher)

	api.GET("/rooms", catalog.ListRooms)
	api.POST("/rooms", catalog.CreateRoom)
	api.GET("/rooms/:id", catalog.GetRoom)
	api.PUT("/rooms/:id", catalog.UpdateRoom)
	api.DELETE("/rooms/:id", catalog.DeleteRoom)

	api.GET("/assignments", assignments.List)
	api.POST("/assignments", assignments.Create)
	api.GET("/assignments/:id", assignments.Get)
	api.PUT("/assignments/:id", assignments.Update)
	api.DELETE("/assignments/:id", assignments.Delete)
	api.POST("/assignments/:id/blocks/regenerate", blocks.Regenerate)

	api.GET("/blocks", blocks.List)
	api.GET("/blocks/:id", blocks.Get)
	api.PUT("/blocks/:id/room", blocks.PairRoom)
	api.POST("/blocks/:id/pick", placements.Pick)
	api.POST("/blocks/:id/unplace", placements.Unplace)

	api.POST("/placements/:id/preview", placements.Preview)
	api.POST("/placements/:id/commit", placements.Commit)
	api.DELETE("/placements/:id", placements.Cancel)

	api.GET("/constraints/:ownerType/:id", constraints.List)
	api.PUT("/constraints/:ownerType/:id", constraints.Set)

	api.POST("/validator/run", validatorH.Run)
	api.GET("/validator/reports", validatorH.ListReports)
	api.GET("/validator/reports/:id", validatorH.GetReport)

	api.GET("/solver/engines", solver.Engines)
	api.GET("/solver/params", solver.GetParams)
	api.PUT("/solver/params", solver.UpdateParams)
	api.POST("/solver/runs", solver.StartRun)
	api.GET("/solver/runs/:id", solver.GetRun)

	api.GET("/timetable/:ownerType/:id", timetable.Grid)
}

func runValidatorLoop(ctx context.Context, svc *service.ValidatorService, interval time.Duration, logr *zap.Logger) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.Run(ctx); err != nil {
				logr.Sugar().Errorw("scheduled validation failed", "error", err)
			}
		}
	}
}
