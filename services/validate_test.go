package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	type form struct {
		Code  string `json:"code" validate:"required,len=4"`
		Count int    `json:"count" validate:"gte=1"`
	}
	messages := fieldMessages{
		"code.required": "Code is required",
		"count":         "Count must be positive",
	}

	t.Run("valid", func(t *testing.T) {
		fields, err := check(form{Code: "ABCD", Count: 1}, messages)
		require.NoError(t, err)
		assert.NoError(t, fields.err())
	})

	t.Run("tag message then field message", func(t *testing.T) {
		fields, err := check(form{}, messages)
		require.NoError(t, err)
		assert.Equal(t, fieldMessages{
			"code":  "Code is required",
			"count": "Count must be positive",
		}, fieldMessages(fields))
	})

	t.Run("rule without a message keeps the validator text", func(t *testing.T) {
		fields, err := check(form{Code: "AB", Count: 1}, messages)
		require.NoError(t, err)
		assert.Contains(t, fields["code"], "len")
	})

	t.Run("not a struct", func(t *testing.T) {
		_, err := check(42, messages)
		assert.Error(t, err)
	})
}

func TestStrongPassword(t *testing.T) {
	for pw, want := range map[string]bool{
		"Secret123": true,
		"secret123": false,
		"SECRET123": false,
		"SecretXYZ": false,
		"Se1":       false,
		"Ünïcode1a": true,
	} {
		assert.Equal(t, want, strongPassword(pw), pw)
	}
}
