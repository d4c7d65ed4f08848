package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pustakalaya/bookstore-service/internal/errs"
	"github.com/pustakalaya/bookstore-service/internal/handler"
	service_mocks "github.com/pustakalaya/bookstore-service/internal/handler/mocks"
	"github.com/pustakalaya/bookstore-service/internal/model"
	"github.com/pustakalaya/bookstore-service/pkg/auth"
	"github.com/pustakalaya/bookstore-service/pkg/validate"
)

// withIdentity stands in for JwtAuthentication: the parsed principal goes
// straight into the request context.
func withIdentity(identity auth.Identity) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := auth.SetAuthContext(c.Request().Context(), identity)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func newTestRouter() *echo.Echo {
	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	return e
}

func TestHandler_GetBook(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockCatalogService)

	var tests = []struct {
		name         string
		bookID       string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:   "ok",
			bookID: "1",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					GetBook(gomock.Any(), int64(1)).
					Return(model.Book{ID: 1, Title: "Dune", Author: "Frank Herbert", Price: 9.99, Stock: 3}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `"title":"Dune"`,
			},
		},
		{
			name:   "not found",
			bookID: "99",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					GetBook(gomock.Any(), int64(99)).
					Return(model.Book{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
		{
			name:         "bad id",
			bookID:       "abc",
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"id is invalid"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			catalogSvc := service_mocks.NewMockCatalogService(c)
			tt.mockBehavior(catalogSvc)

			h := handler.New(handler.Services{Catalog: catalogSvc}, nil, "", zap.NewExample().Named("test"))
			e := newTestRouter()
			e.GET("/books/:id", h.GetBook)

			r := httptest.NewRequest(http.MethodGet, "/books/"+tt.bookID, http.NoBody)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Contains(t, strings.Trim(w.Body.String(), "\n"), tt.response.expectedBody)
		})
	}
}

func TestHandler_PlaceOrder(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockOrderService)

	identity := auth.Identity{ID: 7, Email: "reader@example.com", Role: auth.RoleMember}

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockOrderService) {
				r.EXPECT().
					PlaceOrder(gomock.Any(), int64(7)).
					Return(model.Order{
						ID:          12,
						MemberID:    7,
						TotalPrice:  38.00,
						OrderStatus: model.OrderStatusPending,
						ClaimCode:   "042137",
					}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `"claimCode":"042137"`,
			},
		},
		{
			name: "empty cart",
			mockBehavior: func(r *service_mocks.MockOrderService) {
				r.EXPECT().
					PlaceOrder(gomock.Any(), int64(7)).
					Return(model.Order{}, errs.ErrEmptyCart)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"your cart is empty"}`,
			},
		},
		{
			name: "insufficient stock",
			mockBehavior: func(r *service_mocks.MockOrderService) {
				r.EXPECT().
					PlaceOrder(gomock.Any(), int64(7)).
					Return(model.Order{}, &errs.InsufficientStockError{
						BookTitle: "Dune",
						Available: 1,
						Requested: 3,
					})
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"not enough stock for \"Dune\": available 1, requested 3"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			orderSvc := service_mocks.NewMockOrderService(c)
			tt.mockBehavior(orderSvc)

			h := handler.New(handler.Services{Order: orderSvc}, nil, "", zap.NewExample().Named("test"))
			e := newTestRouter()
			e.POST("/orders", h.PlaceOrder, withIdentity(identity))

			r := httptest.NewRequest(http.MethodPost, "/orders", http.NoBody)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Contains(t, strings.Trim(w.Body.String(), "\n"), tt.response.expectedBody)
		})
	}
}

func TestHandler_AddToCart(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockCartService)

	identity := auth.Identity{ID: 7, Role: auth.RoleMember}

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"bookId":1,"quantity":2}`,
			mockBehavior: func(r *service_mocks.MockCartService) {
				r.EXPECT().
					AddToCart(gomock.Any(), int64(7), model.AddToCartRequest{BookID: 1, Quantity: 2}).
					Return([]model.CartLine{
						{BookID: 1, Title: "Dune", Price: 9.99, Stock: 5, Quantity: 2},
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `[{"bookId":1,"title":"Dune","price":9.99,"stock":5,"quantity":2}]`,
			},
		},
		{
			name:         "zero quantity rejected",
			body:         `{"bookId":1,"quantity":0}`,
			mockBehavior: func(r *service_mocks.MockCartService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `Quantity`,
			},
		},
		{
			name: "over stock",
			body: `{"bookId":1,"quantity":9}`,
			mockBehavior: func(r *service_mocks.MockCartService) {
				r.EXPECT().
					AddToCart(gomock.Any(), int64(7), model.AddToCartRequest{BookID: 1, Quantity: 9}).
					Return(nil, &errs.InsufficientStockError{BookTitle: "Dune", Available: 5, Requested: 9})
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `not enough stock`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			cartSvc := service_mocks.NewMockCartService(c)
			tt.mockBehavior(cartSvc)

			h := handler.New(handler.Services{Cart: cartSvc}, nil, "", zap.NewExample().Named("test"))
			e := newTestRouter()
			e.POST("/cart/items", h.AddToCart, withIdentity(identity))

			r := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Contains(t, strings.Trim(w.Body.String(), "\n"), tt.response.expectedBody)
		})
	}
}

func TestHandler_UpdateOrderStatus(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockOrderService)

	identity := auth.Identity{ID: 1, Role: auth.RoleAdmin}

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "pending to completed",
			body: `{"orderStatus":"completed"}`,
			mockBehavior: func(r *service_mocks.MockOrderService) {
				r.EXPECT().
					UpdateStatus(gomock.Any(), int64(5), model.OrderStatusUpdateRequest{OrderStatus: model.OrderStatusCompleted}).
					Return(model.Order{ID: 5, OrderStatus: model.OrderStatusCompleted}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `"orderStatus":"completed"`,
			},
		},
		{
			name: "terminal order rejected",
			body: `{"orderStatus":"cancelled"}`,
			mockBehavior: func(r *service_mocks.MockOrderService) {
				r.EXPECT().
					UpdateStatus(gomock.Any(), int64(5), model.OrderStatusUpdateRequest{OrderStatus: model.OrderStatusCancelled}).
					Return(model.Order{}, errs.ErrInvalidTransition)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"invalid order status transition"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			orderSvc := service_mocks.NewMockOrderService(c)
			tt.mockBehavior(orderSvc)

			h := handler.New(handler.Services{Order: orderSvc}, nil, "", zap.NewExample().Named("test"))
			e := newTestRouter()
			e.PATCH("/admin/orders/:id/status", h.UpdateOrderStatus, withIdentity(identity))

			r := httptest.NewRequest(http.MethodPatch, "/admin/orders/5/status", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Contains(t, strings.Trim(w.Body.String(), "\n"), tt.response.expectedBody)
		})
	}
}

func TestHandler_CancelOrder(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockOrderService)

	identity := auth.Identity{ID: 7, Role: auth.RoleMember}

	var tests = []struct {
		name         string
		orderID      string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:    "pending order cancelled",
			orderID: "5",
			mockBehavior: func(r *service_mocks.MockOrderService) {
				r.EXPECT().
					CancelOrder(gomock.Any(), int64(5), int64(7)).
					Return(model.Order{ID: 5, MemberID: 7, OrderStatus: model.OrderStatusCancelled}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `"orderStatus":"cancelled"`,
			},
		},
		{
			name:    "unknown order",
			orderID: "99",
			mockBehavior: func(r *service_mocks.MockOrderService) {
				r.EXPECT().
					CancelOrder(gomock.Any(), int64(99), int64(7)).
					Return(model.Order{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
		{
			name:    "already cancelled",
			orderID: "5",
			mockBehavior: func(r *service_mocks.MockOrderService) {
				r.EXPECT().
					CancelOrder(gomock.Any(), int64(5), int64(7)).
					Return(model.Order{}, errs.ErrInvalidTransition)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"invalid order status transition"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			orderSvc := service_mocks.NewMockOrderService(c)
			tt.mockBehavior(orderSvc)

			h := handler.New(handler.Services{Order: orderSvc}, nil, "", zap.NewExample().Named("test"))
			e := newTestRouter()
			e.POST("/orders/:id/cancel", h.CancelOrder, withIdentity(identity))

			r := httptest.NewRequest(http.MethodPost, "/orders/"+tt.orderID+"/cancel", http.NoBody)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Contains(t, strings.Trim(w.Body.String(), "\n"), tt.response.expectedBody)
		})
	}
}

func TestHandler_ClaimOrder(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockOrderService)

	identity := auth.Identity{ID: 1, Role: auth.RoleStaff}

	var tests = []struct {
		name         string
		code         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "pending order claimed and paid",
			code: "042137",
			mockBehavior: func(r *service_mocks.MockOrderService) {
				r.EXPECT().
					ClaimOrder(gomock.Any(), "042137").
					Return(model.Order{ID: 5, OrderStatus: model.OrderStatusClaimed, IsPaid: true}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `"orderStatus":"claimed"`,
			},
		},
		{
			name: "unknown code",
			code: "000000",
			mockBehavior: func(r *service_mocks.MockOrderService) {
				r.EXPECT().
					ClaimOrder(gomock.Any(), "000000").
					Return(model.Order{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
		{
			name: "claimed twice",
			code: "042137",
			mockBehavior: func(r *service_mocks.MockOrderService) {
				r.EXPECT().
					ClaimOrder(gomock.Any(), "042137").
					Return(model.Order{}, errs.ErrInvalidTransition)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"invalid order status transition"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			orderSvc := service_mocks.NewMockOrderService(c)
			tt.mockBehavior(orderSvc)

			h := handler.New(handler.Services{Order: orderSvc}, nil, "", zap.NewExample().Named("test"))
			e := newTestRouter()
			e.POST("/admin/orders/claim/:code", h.ClaimOrder, withIdentity(identity))

			r := httptest.NewRequest(http.MethodPost, "/admin/orders/claim/"+tt.code, http.NoBody)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Contains(t, strings.Trim(w.Body.String(), "\n"), tt.response.expectedBody)
		})
	}
}

func TestHandler_GetReview(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockReviewService)

	var tests = []struct {
		name         string
		reviewID     string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:     "ok",
			reviewID: "3",
			mockBehavior: func(r *service_mocks.MockReviewService) {
				r.EXPECT().
					Get(gomock.Any(), int64(3)).
					Return(model.Review{ID: 3, BookID: 1, MemberID: 7, Rating: 5, Comment: "great read"}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `"comment":"great read"`,
			},
		},
		{
			name:     "not found",
			reviewID: "99",
			mockBehavior: func(r *service_mocks.MockReviewService) {
				r.EXPECT().
					Get(gomock.Any(), int64(99)).
					Return(model.Review{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			reviewSvc := service_mocks.NewMockReviewService(c)
			tt.mockBehavior(reviewSvc)

			h := handler.New(handler.Services{Review: reviewSvc}, nil, "", zap.NewExample().Named("test"))
			e := newTestRouter()
			e.GET("/reviews/:id", h.GetReview)

			r := httptest.NewRequest(http.MethodGet, "/reviews/"+tt.reviewID, http.NoBody)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Contains(t, strings.Trim(w.Body.String(), "\n"), tt.response.expectedBody)
		})
	}
}

func TestHandler_CreateReview_Duplicate(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()
	reviewSvc := service_mocks.NewMockReviewService(c)
	reviewSvc.EXPECT().
		CreateReview(gomock.Any(), int64(7), model.ReviewCreateRequest{BookID: 1, Rating: 4, Comment: "again"}).
		Return(model.Review{}, errs.ErrConflict)

	h := handler.New(handler.Services{Review: reviewSvc}, nil, "", zap.NewExample().Named("test"))
	e := newTestRouter()
	e.POST("/reviews", h.CreateReview, withIdentity(auth.Identity{ID: 7, Role: auth.RoleMember}))

	r := httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader(`{"bookId":1,"rating":4,"comment":"again"}`))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "already exists")
}

func TestHandler_GetOrder_MemberIsolation(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()
	orderSvc := service_mocks.NewMockOrderService(c)
	orderSvc.EXPECT().
		GetOrder(gomock.Any(), int64(3)).
		Return(model.Order{ID: 3, MemberID: 99}, nil)

	h := handler.New(handler.Services{Order: orderSvc}, nil, "", zap.NewExample().Named("test"))
	e := newTestRouter()
	e.GET("/orders/:id", h.GetOrder, withIdentity(auth.Identity{ID: 7, Role: auth.RoleMember}))

	r := httptest.NewRequest(http.MethodGet, "/orders/3", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_Login(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockAccountService)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"email":"reader@example.com","password":"secret1","role":"member"}`,
			mockBehavior: func(r *service_mocks.MockAccountService) {
				r.EXPECT().
					Login(gomock.Any(), model.LoginRequest{Email: "reader@example.com", Password: "secret1", Role: "member"}).
					Return(model.AuthResponse{Token: "tok"}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `"token":"tok"`,
			},
		},
		{
			name: "wrong password",
			body: `{"email":"reader@example.com","password":"nope12","role":"member"}`,
			mockBehavior: func(r *service_mocks.MockAccountService) {
				r.EXPECT().
					Login(gomock.Any(), gomock.Any()).
					Return(model.AuthResponse{}, errs.ErrUnauthorized)
			},
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"message":"unauthorized"}`,
			},
		},
		{
			name:         "bad role",
			body:         `{"email":"reader@example.com","password":"secret1","role":"root"}`,
			mockBehavior: func(r *service_mocks.MockAccountService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `Role`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			accountSvc := service_mocks.NewMockAccountService(c)
			tt.mockBehavior(accountSvc)

			h := handler.New(handler.Services{Account: accountSvc}, nil, "", zap.NewExample().Named("test"))
			e := newTestRouter()
			e.POST("/auth/login", h.Login)

			r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Contains(t, strings.Trim(w.Body.String(), "\n"), tt.response.expectedBody)
		})
	}
}
