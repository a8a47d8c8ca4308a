package main

import (
	"context"
	"io"

	"storefront/app/admin"
	"storefront/app/catalog"
	"storefront/app/checkout"
	"storefront/internal/middleware"
	"storefront/pkg/auth"
	"storefront/pkg/events"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type brokerHealth interface {
	IsHealthy() bool
}

type dependencies struct {
	catalog       catalog.Repository
	admin         admin.Repository
	store         pinger
	tokens        auth.TokenIssuer
	publisher     events.Publisher
	broker        brokerHealth
	images        admin.ImageStore
	serviceName   string
	whatsAppPhone string
}

func registerRoutes(app *fiber.App, deps dependencies) {
	getCategoriesHandler := catalog.NewGetCategoriesHandler(deps.catalog)
	getCategoryHandler := catalog.NewGetCategoryHandler(deps.catalog)
	getProductsHandler := catalog.NewGetProductsHandler(deps.catalog)
	getProductHandler := catalog.NewGetProductHandler(deps.catalog)
	trackClickHandler := catalog.NewTrackClickHandler(deps.catalog)
	getBrandsHandler := catalog.NewGetBrandsHandler(deps.catalog)

	whatsAppCheckoutHandler := checkout.NewWhatsAppCheckoutHandler(deps.catalog, deps.whatsAppPhone)
	productLinkHandler := checkout.NewProductLinkHandler(deps.catalog, deps.whatsAppPhone)

	loginHandler := admin.NewLoginHandler(deps.admin, deps.tokens)
	adminProductsHandler := admin.NewGetProductsHandler(deps.admin)
	createProductHandler := admin.NewCreateProductHandler(deps.admin, deps.publisher, deps.serviceName)
	updateProductHandler := admin.NewUpdateProductHandler(deps.admin, deps.publisher, deps.serviceName)
	deleteProductHandler := admin.NewDeleteProductHandler(deps.admin, deps.publisher, deps.serviceName)
	analyticsHandler := admin.NewGetAnalyticsHandler(deps.admin)
	activityHandler := admin.NewGetActivityHandler(deps.admin)
	uploadImageHandler := admin.NewUploadImageHandler(deps.images)

	publicRoutes := app.Group("/api")
	publicRoutes.Get("/health", healthCheck(deps.store, deps.broker))
	publicRoutes.Get("/categories", handle[catalog.GetCategoriesRequest, catalog.GetCategoriesResponse](getCategoriesHandler))
	publicRoutes.Get("/categories/:slug", handle[catalog.GetCategoryRequest, catalog.GetCategoryResponse](getCategoryHandler))
	publicRoutes.Get("/products", handle[catalog.GetProductsRequest, catalog.GetProductsResponse](getProductsHandler))
	publicRoutes.Get("/products/:id", handle[catalog.GetProductRequest, catalog.GetProductResponse](getProductHandler))
	publicRoutes.Post("/products/:id/click", handle[catalog.TrackClickRequest, catalog.TrackClickResponse](trackClickHandler))
	publicRoutes.Get("/products/:id/whatsapp", handle[checkout.ProductLinkRequest, checkout.ProductLinkResponse](productLinkHandler))
	publicRoutes.Get("/brands", handle[catalog.GetBrandsRequest, catalog.GetBrandsResponse](getBrandsHandler))
	publicRoutes.Post("/checkout/whatsapp", handle[checkout.WhatsAppCheckoutRequest, checkout.WhatsAppCheckoutResponse](whatsAppCheckoutHandler))

	// Login must be registered before the authenticated group.
	publicRoutes.Post("/admin/login", handle[admin.LoginRequest, admin.LoginResponse](loginHandler))

	adminRoutes := publicRoutes.Group("/admin", middleware.NewAdminAuthMiddleware(deps.tokens))
	adminRoutes.Get("/products", handle[admin.GetProductsRequest, admin.GetProductsResponse](adminProductsHandler))
	adminRoutes.Post("/products", handle[admin.CreateProductRequest, admin.CreateProductResponse](createProductHandler))
	adminRoutes.Put("/products/:id", handle[admin.UpdateProductRequest, admin.SuccessResponse](updateProductHandler))
	adminRoutes.Delete("/products/:id", handle[admin.DeleteProductRequest, admin.SuccessResponse](deleteProductHandler))
	adminRoutes.Get("/analytics", handle[admin.GetAnalyticsRequest, admin.GetAnalyticsResponse](analyticsHandler))
	adminRoutes.Get("/activity", handle[admin.GetActivityRequest, admin.GetActivityResponse](activityHandler))
	adminRoutes.Post("/uploads", handleUpload(uploadImageHandler))
}

// handleUpload adapts the multipart "image" field; a missing file reaches
// the handler as an empty request so it can answer consistently.
func handleUpload(handler *admin.UploadImageHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req admin.UploadImageRequest

		if header, err := c.FormFile("image"); err == nil {
			file, err := header.Open()
			if err != nil {
				return writeError(c, err)
			}
			defer file.Close()

			data, err := io.ReadAll(io.LimitReader(file, admin.MaxImageSize+1))
			if err != nil {
				return writeError(c, err)
			}

			req = admin.UploadImageRequest{
				Filename: header.Filename,
				Size:     header.Size,
				Data:     data,
			}
		}

		res, err := handler.Handle(c.UserContext(), &req)
		if err != nil {
			return writeError(c, err)
		}

		return c.JSON(res)
	}
}

// healthCheck fails only on the store; a degraded broker is reported but
// does not make the API unhealthy.
func healthCheck(store pinger, broker brokerHealth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.Ping(c.UserContext()); err != nil {
			zap.L().Warn("Health check failed", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
				"error":  "Database unavailable",
				"code":   "health.store_unavailable",
			})
		}

		res := fiber.Map{"status": "ok"}
		if broker != nil {
			res["events"] = "ok"
			if !broker.IsHealthy() {
				res["events"] = "degraded"
			}
		}

		return c.JSON(res)
	}
}
