package util

import (
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
)

type signupForm struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Level    string `json:"level" binding:"omitempty,oneof=easy hard"`
}

func TestBindingErrorMessages(t *testing.T) {
	RegisterValidatorTagNames()

	err := binding.Validator.ValidateStruct(&signupForm{Username: "al", Email: "nope", Level: "mixed"})
	if err == nil {
		t.Fatalf("expected validation errors")
	}

	appErr := BindingError(err)
	if appErr.Status != 400 {
		t.Fatalf("status = %d", appErr.Status)
	}
	for _, want := range []string{
		"username must be at least 3 characters",
		"email must be a valid email",
		"level must be one of easy, hard",
	} {
		if !strings.Contains(appErr.Message, want) {
			t.Errorf("message %q missing %q", appErr.Message, want)
		}
	}
}

func TestClampInt(t *testing.T) {
	cases := []struct{ v, want int }{{1, 5}, {5, 5}, {12, 12}, {20, 20}, {500, 20}}
	for _, c := range cases {
		if got := ClampInt(c.v, 5, 20); got != c.want {
			t.Errorf("ClampInt(%d) = %d, want %d", c.v, got, c.want)
		}
	}
}
