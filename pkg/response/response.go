package response

import "github.com/labstack/echo/v4"

// APIResponse is the uniform success envelope for every JSON endpoint.
type APIResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// JSON writes a success envelope with the given status code.
func JSON(c echo.Context, code int, data any, message string) error {
	return c.JSON(code, APIResponse{
		StatusCode: code,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}
