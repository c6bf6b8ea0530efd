package models

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestSignupRequestValidation(t *testing.T) {
	RegisterValidators()
	age := 30
	negative := -1

	valid := SignupRequest{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Password: "s3cret!!", Age: &age}
	assert.NoError(t, binding.Validator.ValidateStruct(&valid))

	testCases := []struct {
		name   string
		mutate func(r *SignupRequest)
	}{
		{"blank first name", func(r *SignupRequest) { r.FirstName = "   " }},
		{"bad email", func(r *SignupRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *SignupRequest) { r.Password = "abc" }},
		{"password containing password", func(r *SignupRequest) { r.Password = "myPassWord1" }},
		{"negative age", func(r *SignupRequest) { r.Age = &negative }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			assert.Error(t, binding.Validator.ValidateStruct(&req))
		})
	}

	noAge := valid
	noAge.Age = nil
	assert.NoError(t, binding.Validator.ValidateStruct(&noAge), "age is optional")
}

func TestPatchRequestValidation(t *testing.T) {
	RegisterValidators()

	assert.NoError(t, binding.Validator.ValidateStruct(&UpdateUserRequest{}))
	assert.NoError(t, binding.Validator.ValidateStruct(&UpdateUserRequest{Email: strPtr("new@example.com")}))
	assert.Error(t, binding.Validator.ValidateStruct(&UpdateUserRequest{Password: strPtr("")}))
	assert.Error(t, binding.Validator.ValidateStruct(&UpdateUserRequest{FirstName: strPtr(" ")}))

	assert.NoError(t, binding.Validator.ValidateStruct(&UpdateRecipeRequest{Title: strPtr("Soup")}))
	assert.Error(t, binding.Validator.ValidateStruct(&UpdateRecipeRequest{Title: strPtr("")}))
}
