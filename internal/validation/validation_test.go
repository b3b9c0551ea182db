package validation_test

import (
	"regexp"

	"github.com/frahmantamala/ontology-client/internal"
	"github.com/frahmantamala/ontology-client/internal/validation"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ValidationBuilder", func() {
	It("passes when every rule holds", func() {
		v := validation.NewValidator()
		v.Field("username", "alice").Required().MaxLength(10)

		Expect(v.Validate()).To(BeNil())
		Expect(v.Err()).NotTo(HaveOccurred())
	})

	It("treats whitespace as missing", func() {
		v := validation.NewValidator()
		v.Field("password", "   ").Required()

		err := v.Validate()

		Expect(err).NotTo(BeNil())
		Expect(err.Message).To(Equal("password is required"))
		Expect(err.Code).To(Equal(internal.ErrCodeRequiredField))
	})

	It("reports the first failure and keeps all of them in details", func() {
		v := validation.NewValidator()
		v.Field("username", "").Required()
		v.Field("email", "").Required()

		err := v.Validate()

		Expect(err.Message).To(Equal("username is required"))
		Expect(err.Details.(internal.ValidationErrors).Errors).To(HaveLen(2))
	})

	It("bounds integers", func() {
		parent := int64(-1)
		v := validation.NewValidator()
		v.Field("depth", 11).MaxInt(10, internal.ErrCodeInvalidDepth)
		v.Field("parentId", &parent).MinInt(1, internal.ErrCodeValidationFailed)

		err := v.Validate()

		Expect(err.Message).To(Equal("depth must not exceed 10"))
		Expect(err.Details.(internal.ValidationErrors).Errors[1].Message).To(Equal("parentId must be at least 1"))
	})

	It("skips nil integer pointers", func() {
		var parent *int64
		v := validation.NewValidator()
		v.Field("parentId", parent).MinInt(1, internal.ErrCodeValidationFailed)

		Expect(v.Err()).NotTo(HaveOccurred())
	})

	It("matches patterns on non-empty values", func() {
		digits := regexp.MustCompile(`^[0-9]+$`)
		v := validation.NewValidator()
		v.Field("a", "").Matches(digits, "a must be digits", internal.ErrCodeValidationFailed)
		v.Field("b", "x1").Matches(digits, "b must be digits", internal.ErrCodeValidationFailed)

		Expect(v.Validate().Message).To(Equal("b must be digits"))
	})
})
