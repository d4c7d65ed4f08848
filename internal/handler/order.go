package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pustakalaya/bookstore-service/internal/model"
	"github.com/pustakalaya/bookstore-service/pkg/auth"
)

func (h *Handler) PlaceOrder(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	order, err := h.orderSvc.PlaceOrder(c.Request().Context(), identity.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, order)
}

// GetOrder serves both sides of the counter: members read their own orders,
// staff read any.
func (h *Handler) GetOrder(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.orderSvc.GetOrder(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	if identity.Role == auth.RoleMember && order.MemberID != identity.ID {
		return echo.NewHTTPError(http.StatusForbidden, "not your order")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) ListOrders(c echo.Context) error {
	orders, err := h.orderSvc.ListOrders(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *Handler) ListMyOrders(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	orders, err := h.orderSvc.ListMyOrders(c.Request().Context(), identity.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req model.OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	order, err := h.orderSvc.UpdateStatus(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) CancelOrder(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.orderSvc.CancelOrder(c.Request().Context(), id, identity.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) ClaimOrder(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "code is required")
	}
	order, err := h.orderSvc.ClaimOrder(c.Request().Context(), code)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) DeleteOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.orderSvc.DeleteOrder(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}
