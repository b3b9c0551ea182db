package graphql

import (
	"net/http"
	"strings"

	"github.com/frahmantamala/ontology-client/internal"
)

const (
	msgCannotConnect = "Cannot connect to server. Please check your internet connection or try again later."
	msgDatabase      = "Server database error. Please contact the administrator to fix the database schema."
	msgGraphQLFailed = "GraphQL request failed"
)

// backend error text that must never reach the user verbatim
var databaseMarkers = []string{"psycopg2.errors", "does not exist"}

func cannotConnect(cause error) *internal.AppError {
	return internal.NewNetworkError(msgCannotConnect, cause)
}

func statusError(status int) *internal.AppError {
	var msg string
	switch {
	case status == http.StatusInternalServerError:
		msg = "Server error. Please try again later or contact support."
	case status == http.StatusServiceUnavailable:
		msg = "Service unavailable. The server may be down for maintenance."
	case status == http.StatusNotFound:
		msg = "API endpoint not found. Please check your configuration."
	case status == http.StatusUnauthorized:
		msg = "Authentication failed. Please check your credentials."
	case status == http.StatusForbidden:
		msg = "Access denied. You do not have permission to perform this action."
	case status >= 500:
		msg = "Server error occurred. Please try again later."
	default:
		msg = "Request error: " + http.StatusText(status)
	}
	return internal.NewHTTPStatusError(status, msg)
}

func payloadError(errs []Error) *internal.AppError {
	first := errs[0]

	msg := first.Message
	if strings.TrimSpace(msg) == "" {
		msg = msgGraphQLFailed
	}

	for _, marker := range databaseMarkers {
		if strings.Contains(msg, marker) {
			return internal.NewServerError(msgDatabase, internal.ErrCodeDatabase).WithDetails(errs)
		}
	}

	var appErr *internal.AppError
	switch code, _ := first.Extensions["code"].(string); code {
	case "UNAUTHENTICATED":
		appErr = internal.NewAuthenticationError(msg, internal.ErrCodeGraphQL)
	case "FORBIDDEN":
		appErr = internal.NewAuthorizationError(msg, internal.ErrCodeGraphQL)
	case "BAD_USER_INPUT":
		appErr = internal.NewValidationError(msg, internal.ErrCodeGraphQL)
	default:
		appErr = internal.NewServerError(msg, internal.ErrCodeGraphQL)
	}
	return appErr.WithDetails(errs)
}
