package internal_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/frahmantamala/ontology-client/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AppError", func() {
	It("shows the message and keeps the cause reachable", func() {
		cause := errors.New("dial tcp: connection refused")
		err := internal.NewNetworkError("Cannot connect", cause)

		Expect(err.Error()).To(Equal("Cannot connect"))
		Expect(errors.Is(err, cause)).To(BeTrue())
	})

	It("is found through wrapping", func() {
		wrapped := fmt.Errorf("loading: %w", internal.NewNotFoundError("missing", internal.ErrCodeConceptNotFound))

		appErr, ok := internal.IsAppError(wrapped)

		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
	})

	It("leaves cause and status out of JSON", func() {
		err := internal.NewHTTPStatusError(http.StatusBadGateway, "Server error").WithCause(errors.New("secret"))

		raw, marshalErr := json.Marshal(err)

		Expect(marshalErr).NotTo(HaveOccurred())
		Expect(string(raw)).NotTo(ContainSubstring("secret"))
		Expect(string(raw)).To(ContainSubstring(`"severity":"critical"`))
	})

	DescribeTable("classifies HTTP statuses",
		func(status int, errType internal.ErrorType, severity internal.Severity) {
			err := internal.NewHTTPStatusError(status, "x")
			Expect(err.Type).To(Equal(errType))
			Expect(err.Severity).To(Equal(severity))
			Expect(err.StatusCode).To(Equal(status))
		},
		Entry("401", http.StatusUnauthorized, internal.ErrorTypeAuthentication, internal.SeverityError),
		Entry("403", http.StatusForbidden, internal.ErrorTypeAuthorization, internal.SeverityError),
		Entry("404", http.StatusNotFound, internal.ErrorTypeNotFound, internal.SeverityError),
		Entry("422", http.StatusUnprocessableEntity, internal.ErrorTypeValidation, internal.SeverityError),
		Entry("503", http.StatusServiceUnavailable, internal.ErrorTypeServer, internal.SeverityCritical),
	)

	It("uses generic wording for user-facing server errors", func() {
		err := internal.NewServerError("pq: relation does not exist", internal.ErrCodeDatabase)

		Expect(err.UserMessage()).To(Equal("A server error occurred. Please try again later."))
	})

	It("attaches field details to validation errors", func() {
		err := internal.NewValidationFieldError("email", "email is required", internal.ErrCodeRequiredField)

		Expect(err.Details).To(Equal(internal.ValidationErrors{Errors: []internal.ValidationError{
			{Field: "email", Message: "email is required", Code: "REQUIRED_FIELD"},
		}}))
	})
})
