package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

//カートと注文はcustomerだけ。seller/adminは拒否します。

func CustomerOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, ok := SessionFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if !sess.IsCustomer() {
				return c.JSON(http.StatusForbidden, errorJSON("customers only"))
			}

			return next(c)
		}
	}
}
