package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(nil, nil)

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{
			name:  "missing username",
			input: RegisterInput{Email: "a@b.com", Password: "longenough"},
		},
		{
			name:  "missing email",
			input: RegisterInput{Username: "gopher", Password: "longenough"},
		},
		{
			name:  "missing password",
			input: RegisterInput{Username: "gopher", Email: "a@b.com"},
		},
		{
			name:  "malformed email",
			input: RegisterInput{Username: "gopher", Email: "not-an-email", Password: "longenough"},
		},
		{
			name:  "short password",
			input: RegisterInput{Username: "gopher", Email: "a@b.com", Password: "short"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.input)
			assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))
		})
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	svc := NewAuthService(nil, nil)

	_, err := svc.Login(context.Background(), "", "password")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))

	_, err = svc.Login(context.Background(), "a@b.com", "")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))
}
