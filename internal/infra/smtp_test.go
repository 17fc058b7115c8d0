package infra

import (
	"testing"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestMailer_DisabledWithoutHost(t *testing.T) {
	m := &Mailer{}
	assert.False(t, m.Enabled())
	assert.Error(t, m.Send([]string{"a@b.c"}, "s", "b"))

	var nilMailer *Mailer
	assert.False(t, nilMailer.Enabled())
}

func TestNewMailer_FromConfig(t *testing.T) {
	m := NewMailer(&config.Config{SMTPHost: "smtp.example.com", SMTPPort: 2525})
	assert.True(t, m.Enabled())
	assert.Equal(t, "smtp.example.com:2525", m.addr)
}
