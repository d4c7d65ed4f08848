package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *Handler) ListBookmarks(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	bookmarks, err := h.bookmarkSvc.List(c.Request().Context(), identity.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, bookmarks)
}

func (h *Handler) AddBookmark(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	bookID, err := pathID(c, "bookId")
	if err != nil {
		return err
	}
	if err := h.bookmarkSvc.Add(c.Request().Context(), identity.ID, bookID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusCreated)
}

func (h *Handler) RemoveBookmark(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	bookID, err := pathID(c, "bookId")
	if err != nil {
		return err
	}
	if err := h.bookmarkSvc.Remove(c.Request().Context(), identity.ID, bookID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
