package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"syscall"
	"time"

	"storefront/app/admin"
	"storefront/infra/grpc"
	"storefront/infra/postgres"
	"storefront/infra/rabbitmq"
	"storefront/pkg/auth"
	"storefront/pkg/aws"
	"storefront/pkg/config"
	"storefront/pkg/events"
	"storefront/pkg/httperror"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Request any
type Response any

type HandlerInterface[R Request, Res Response] interface {
	Handle(ctx context.Context, req *R) (*Res, error)
}

func handle[R Request, Res Response](handler HandlerInterface[R, Res]) fiber.Handler {
	sources := requestSourcesOf(reflect.TypeOf((*R)(nil)).Elem())

	return func(c *fiber.Ctx) error {
		var req R

		// Bodyless POSTs (click tracking) may still carry a JSON content type.
		if sources.body && len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
				return writeError(c, httperror.BadRequest(
					"request.invalid_body",
					"Invalid body",
					fiber.Map{"error": err.Error()},
				))
			}
		}

		if sources.params {
			if err := c.ParamsParser(&req); err != nil {
				return writeError(c, httperror.BadRequest(
					"request.invalid_path_params",
					"Invalid path params",
					fiber.Map{"error": err.Error()},
				))
			}
		}

		if sources.query {
			if err := c.QueryParser(&req); err != nil {
				return writeError(c, httperror.BadRequest(
					"request.invalid_query_params",
					"Invalid query params",
					fiber.Map{"error": err.Error()},
				))
			}
		}

		if sources.headers {
			if err := c.ReqHeaderParser(&req); err != nil {
				return writeError(c, httperror.BadRequest(
					"request.invalid_headers",
					"Invalid headers",
					fiber.Map{"error": err.Error()},
				))
			}
		}

		ctx := c.UserContext()

		res, err := handler.Handle(ctx, &req)
		if err != nil {
			return writeError(c, err)
		}

		return c.JSON(res)
	}
}

// requestSources records which parts of the HTTP request a request type
// binds. Fiber's query and header parsers fall back to field names for
// untagged fields, so a parser only runs when the type opts in with a tag.
type requestSources struct {
	body    bool
	params  bool
	query   bool
	headers bool
}

func requestSourcesOf(t reflect.Type) requestSources {
	var sources requestSources
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return sources
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			embedded := requestSourcesOf(field.Type)
			sources.body = sources.body || embedded.body
			sources.params = sources.params || embedded.params
			sources.query = sources.query || embedded.query
			sources.headers = sources.headers || embedded.headers
			continue
		}
		if !field.IsExported() {
			continue
		}
		sources.body = sources.body || tagged(field, "json") || tagged(field, "form")
		sources.params = sources.params || tagged(field, "params")
		sources.query = sources.query || tagged(field, "query")
		sources.headers = sources.headers || tagged(field, "reqHeader")
	}

	return sources
}

func tagged(field reflect.StructField, key string) bool {
	name, ok := field.Tag.Lookup(key)
	return ok && name != "-"
}

func main() {
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, _ := zapConfig.Build()
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	appConfig := config.Read()
	zap.L().Info("app starting...",
		zap.String("serviceName", appConfig.ServiceName),
		zap.String("port", appConfig.Port),
		zap.Bool("storageEnabled", appConfig.StorageEnabled()),
		zap.Bool("eventsEnabled", appConfig.RabbitMQURL != ""),
	)

	tokens, err := auth.NewSigner(
		appConfig.AuthTokenSecret,
		appConfig.AdminEmail,
		auth.WithTTL(appConfig.AuthTokenTTL),
		auth.WithIssuer(appConfig.ServiceName),
	)
	if err != nil {
		zap.L().Fatal("Invalid admin token configuration", zap.Error(err))
	}

	pgRepository := postgres.NewPgRepository(
		appConfig.PostgresHost,
		appConfig.PostgresDatabase,
		appConfig.PostgresUsername,
		appConfig.PostgresPassword,
		appConfig.PostgresPort,
		appConfig.PostgresSSLMode,
	)
	defer pgRepository.Close()

	var publisher events.Publisher
	var broker brokerHealth
	if appConfig.RabbitMQURL != "" {
		rabbitPublisher, err := rabbitmq.NewPublisher(appConfig.RabbitMQURL, appConfig.ServiceName)
		if err != nil {
			zap.L().Warn("Product events disabled, RabbitMQ unavailable", zap.Error(err))
		} else {
			publisher = rabbitPublisher
			broker = rabbitPublisher
			defer rabbitPublisher.Close()
		}
	}

	var images admin.ImageStore
	if appConfig.StorageEnabled() {
		bucket := aws.NewS3Bucket(appConfig)
		images = bucket
		defer bucket.Close()
	}

	app := newApp(dependencies{
		catalog:       pgRepository,
		admin:         pgRepository,
		store:         pgRepository,
		tokens:        tokens,
		publisher:     publisher,
		broker:        broker,
		images:        images,
		serviceName:   appConfig.ServiceName,
		whatsAppPhone: appConfig.WhatsAppPhone,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var grpcServer *grpc.Server
	if appConfig.GRPCPort != "" {
		grpcServer, err = grpc.NewServer(appConfig.GRPCPort, appConfig.ServiceName)
		if err != nil {
			zap.L().Fatal("failed to create grpc server", zap.Error(err))
		}

		go grpcServer.WatchStore(ctx, pgRepository, 15*time.Second)
		go func() {
			if err := grpcServer.Start(); err != nil {
				zap.L().Error("failed to start grpc server", zap.Error(err))
			}
		}()
	}

	go func() {
		if err := app.Listen(fmt.Sprintf("0.0.0.0:%s", appConfig.Port)); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", appConfig.Port))

	gracefulShutdown(app, grpcServer)
}

func newApp(deps dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Concurrency:  256 * 1024,
		BodyLimit:    admin.MaxImageSize + 1<<20,
		ErrorHandler: writeError,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))

	registerRoutes(app, deps)

	return app
}

func gracefulShutdown(app *fiber.App, grpcServer *grpc.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}

// writeError renders every failure as {error, code, details?}.
func writeError(c *fiber.Ctx, err error) error {
	var httpErr *httperror.Error
	if errors.As(err, &httpErr) {
		payload := fiber.Map{
			"error": httpErr.Message,
			"code":  httpErr.Code,
		}

		if httpErr.Details != nil {
			payload["details"] = httpErr.Details
		}

		if httpErr.Status >= fiber.StatusInternalServerError {
			zap.L().Error("Handler returned server error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		} else {
			zap.L().Warn("Handler returned client error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		}

		return c.Status(httpErr.Status).JSON(payload)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		zap.L().Warn("Fiber request error", zap.Int("status", fiberErr.Code), zap.String("message", fiberErr.Message))
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiberErr.Message,
			"code":  "request.invalid",
		})
	}

	zap.L().Error("Unhandled error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
		"code":  "internal_server_error",
	})
}
