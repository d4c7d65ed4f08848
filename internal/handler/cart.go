package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pustakalaya/bookstore-service/internal/model"
)

func (h *Handler) GetCart(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	lines, err := h.cartSvc.GetCart(c.Request().Context(), identity.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, lines)
}

func (h *Handler) AddToCart(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req model.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	lines, err := h.cartSvc.AddToCart(c.Request().Context(), identity.ID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, lines)
}

func (h *Handler) UpdateCartItem(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	bookID, err := pathID(c, "bookId")
	if err != nil {
		return err
	}
	var req model.UpdateCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	lines, err := h.cartSvc.UpdateQuantity(c.Request().Context(), identity.ID, bookID, req.Quantity)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, lines)
}

func (h *Handler) RemoveCartItem(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	bookID, err := pathID(c, "bookId")
	if err != nil {
		return err
	}
	lines, err := h.cartSvc.RemoveItem(c.Request().Context(), identity.ID, bookID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, lines)
}

func (h *Handler) ClearCart(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	if err := h.cartSvc.ClearCart(c.Request().Context(), identity.ID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
