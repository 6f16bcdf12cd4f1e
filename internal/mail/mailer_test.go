package mail

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/smtp"
	"strings"
	"testing"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		msg     Message
		wantErr bool
	}{
		{"valid", Message{Subject: "s", Body: "b", From: "a@b.c", To: []string{"x@y.z"}}, false},
		{"no sender", Message{To: []string{"x@y.z"}}, true},
		{"no recipients", Message{From: "a@b.c"}, true},
		{"header injection in recipient", Message{From: "a@b.c", To: []string{"x@y.z\r\nBcc: e@f.g"}}, true},
		{"multiline subject", Message{From: "a@b.c", To: []string{"x@y.z"}, Subject: "a\nb"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.msg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMessage)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSMTPMailerSend(t *testing.T) {
	t.Parallel()

	cfg := config.MailConfig{
		Enabled:  true,
		Host:     "smtp.example.com",
		Port:     587,
		Username: "user",
		Password: "secret",
		From:     "shop@example.com",
	}

	t.Run("delivers with configured sender", func(t *testing.T) {
		t.Parallel()
		m := NewSMTPMailer(cfg, nil)

		var gotAddr, gotFrom string
		var gotTo []string
		var gotRaw []byte
		m.send = func(addr string, _ smtp.Auth, from string, to []string, raw []byte) error {
			gotAddr, gotFrom, gotTo, gotRaw = addr, from, to, raw
			return nil
		}

		err := m.Send(context.Background(), Message{
			Subject: "Password reset",
			Body:    "Your code: AB12CD",
			To:      []string{"user@mail.ru"},
		})
		require.NoError(t, err)
		assert.Equal(t, "smtp.example.com:587", gotAddr)
		assert.Equal(t, "shop@example.com", gotFrom)
		assert.Equal(t, []string{"user@mail.ru"}, gotTo)
		assert.Contains(t, string(gotRaw), "Subject: Password reset\r\n")
		assert.True(t, strings.HasSuffix(string(gotRaw), "\r\n\r\nYour code: AB12CD"))
	})

	t.Run("relay failure is fatal", func(t *testing.T) {
		t.Parallel()
		m := NewSMTPMailer(cfg, nil)
		m.send = func(string, smtp.Auth, string, []string, []byte) error {
			return errors.New("550 mailbox unavailable")
		}

		err := m.Send(context.Background(), Message{To: []string{"user@mail.ru"}})
		assert.ErrorIs(t, err, ErrSendFailed)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		m := NewSMTPMailer(cfg, nil)
		m.send = func(string, smtp.Auth, string, []string, []byte) error {
			t.Fatal("send should not be called")
			return nil
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := m.Send(ctx, Message{To: []string{"user@mail.ru"}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLogMailer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	m := NewLogMailer(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := m.Send(context.Background(), Message{
		Subject: "Password reset",
		Body:    "Your code: AB12CD",
		From:    "shop@example.com",
		To:      []string{"user@mail.ru"},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Password reset")
	assert.Contains(t, buf.String(), "user@mail.ru")

	assert.ErrorIs(t, m.Send(context.Background(), Message{}), ErrInvalidMessage)
}

func TestLogMailerAcceptsEmptySender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	m := NewLogMailer(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := m.Send(context.Background(), Message{
		Subject: "Password reset",
		Body:    "Your code: AB12CD",
		To:      []string{"user@mail.ru"},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "user@mail.ru")
}
