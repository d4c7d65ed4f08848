package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pustakalaya/bookstore-service/internal/model"
)

func (h *Handler) CreateReview(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req model.ReviewCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	review, err := h.reviewSvc.CreateReview(c.Request().Context(), identity.ID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, review)
}

// GetReview is public, like the per-book listing: review content is part of
// the storefront catalog page.
func (h *Handler) GetReview(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	review, err := h.reviewSvc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, review)
}

func (h *Handler) UpdateReview(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req model.ReviewUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	review, err := h.reviewSvc.UpdateReview(c.Request().Context(), id, identity.ID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, review)
}

func (h *Handler) DeleteReview(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.reviewSvc.DeleteReview(c.Request().Context(), id, identity.ID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListBookReviews(c echo.Context) error {
	bookID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	reviews, err := h.reviewSvc.ListByBook(c.Request().Context(), bookID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *Handler) ListMyReviews(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	reviews, err := h.reviewSvc.ListMine(c.Request().Context(), identity.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reviews)
}
