package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "github.com/pustakalaya/bookstore-service/docs"
	"github.com/pustakalaya/bookstore-service/internal/errs"
	"github.com/pustakalaya/bookstore-service/pkg/auth"
	md "github.com/pustakalaya/bookstore-service/pkg/middleware"
	"github.com/pustakalaya/bookstore-service/pkg/validate"
)

type Handler struct {
	accountSvc      AccountService
	catalogSvc      CatalogService
	cartSvc         CartService
	orderSvc        OrderService
	reviewSvc       ReviewService
	bookmarkSvc     BookmarkService
	announcementSvc AnnouncementService
	jwtKey          []byte
	uploadDir       string
	log             *zap.Logger
}

// Services bundles the interfaces the router dispatches to.
type Services struct {
	Account      AccountService
	Catalog      CatalogService
	Cart         CartService
	Order        OrderService
	Review       ReviewService
	Bookmark     BookmarkService
	Announcement AnnouncementService
}

func New(svc Services, jwtKey []byte, uploadDir string, log *zap.Logger) *Handler {
	return &Handler{
		accountSvc:      svc.Account,
		catalogSvc:      svc.Catalog,
		cartSvc:         svc.Cart,
		orderSvc:        svc.Order,
		reviewSvc:       svc.Review,
		bookmarkSvc:     svc.Bookmark,
		announcementSvc: svc.Announcement,
		jwtKey:          jwtKey,
		uploadDir:       uploadDir,
		log:             log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)
	base.Static("/uploads", h.uploadDir)

	e.Validator = validate.NewCustomValidator()

	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/auth/signup", h.Signup)
	api.POST("/auth/admin/register", h.RegisterAdmin)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/forgot-password", h.ForgotPassword)

	api.GET("/books", h.ListBooks)
	api.GET("/books/filter", h.FilterBooks)
	api.GET("/books/:id", h.GetBook)
	api.GET("/books/:id/reviews", h.ListBookReviews)
	api.GET("/reviews/:id", h.GetReview)
	api.GET("/genres", h.ListGenres)
	api.GET("/genres/:id", h.GetGenre)

	authed := api.Group("", md.JwtAuthentication(h.jwtKey))
	authed.GET("/me", h.Profile)

	member := authed.Group("", md.RequireRole(auth.RoleMember))
	member.PUT("/me", h.UpdateProfile)
	member.GET("/announcements", h.ListAnnouncements)

	member.GET("/cart", h.GetCart)
	member.POST("/cart/items", h.AddToCart)
	member.PUT("/cart/items/:bookId", h.UpdateCartItem)
	member.DELETE("/cart/items/:bookId", h.RemoveCartItem)
	member.DELETE("/cart", h.ClearCart)

	member.POST("/orders", h.PlaceOrder)
	member.GET("/orders/my", h.ListMyOrders)
	member.POST("/orders/:id/cancel", h.CancelOrder)

	authed.GET("/orders/:id", h.GetOrder)

	member.POST("/reviews", h.CreateReview)
	member.PUT("/reviews/:id", h.UpdateReview)
	member.DELETE("/reviews/:id", h.DeleteReview)
	member.GET("/reviews/my", h.ListMyReviews)

	member.GET("/bookmarks", h.ListBookmarks)
	member.POST("/bookmarks/:bookId", h.AddBookmark)
	member.DELETE("/bookmarks/:bookId", h.RemoveBookmark)

	admin := authed.Group("/admin", md.RequireRole(auth.RoleAdmin, auth.RoleStaff))

	books := admin.Group("/books", middleware.BodyLimit("10M"))
	books.POST("", h.CreateBook)
	books.PUT("/:id", h.UpdateBook)
	books.DELETE("/:id", h.DeleteBook)

	admin.POST("/genres", h.CreateGenre)
	admin.PUT("/genres/:id", h.UpdateGenre)
	admin.DELETE("/genres/:id", h.DeleteGenre)

	admin.GET("/orders", h.ListOrders)
	admin.PATCH("/orders/:id/status", h.UpdateOrderStatus)
	admin.POST("/orders/claim/:code", h.ClaimOrder)
	admin.DELETE("/orders/:id", h.DeleteOrder)

	admin.GET("/announcements", h.ListAllAnnouncements)
	admin.GET("/announcements/public", h.ListPublicAnnouncements)
	admin.GET("/announcements/:id", h.GetAnnouncement)
	admin.POST("/announcements", h.CreateAnnouncement)
	admin.PUT("/announcements/:id", h.UpdateAnnouncement)
	admin.DELETE("/announcements/:id", h.DeleteAnnouncement)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps service errors onto HTTP statuses.
func httpError(err error) error {
	var stockErr *errs.InsufficientStockError
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrEmptyCart),
		errors.Is(err, errs.ErrInvalidTransition),
		errors.As(err, &stockErr):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func identityFrom(c echo.Context) (auth.Identity, error) {
	identity, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return auth.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "no identity in request")
	}
	return identity, nil
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" is invalid")
	}
	return id, nil
}
