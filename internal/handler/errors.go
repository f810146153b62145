package handler

import (
	"errors"
	"net/http"

	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// usecaseのエラー種別をHTTPステータスに変換する
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repo.ErrNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}

	if ue, ok := usecase.AsError(err); ok {
		switch ue.Kind {
		case usecase.KindValidation:
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: ue.Err.Error()})
		case usecase.KindForbidden:
			return c.JSON(http.StatusForbidden, ErrorResponse{Error: ue.Err.Error()})
		case usecase.KindSubmissionFailed:
			return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "submission failed"})
		case usecase.KindNetwork:
			return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "upstream unavailable"})
		case usecase.KindPersistence:
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "storage error"})
		}
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
