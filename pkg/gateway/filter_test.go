package gateway

import (
	"testing"

	"bot-marmita/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Accept(t *testing.T) {
	filter := NewFilter("5511999990000")

	tests := []struct {
		name string
		msg  models.InboundMessage
		want bool
	}{
		{name: "direct text", msg: models.InboundMessage{From: "5511988887777@c.us", Type: "chat", Body: "Relatório"}, want: true},
		{name: "webhook event", msg: models.InboundMessage{Event: "onmessage", From: "5511988887777@c.us", Type: "chat"}, want: true},
		{name: "other event", msg: models.InboundMessage{Event: "onack", From: "5511988887777@c.us", Type: "chat"}, want: false},
		{name: "group", msg: models.InboundMessage{From: "123-456@g.us", IsGroupMsg: true, Type: "chat"}, want: false},
		{name: "audio", msg: models.InboundMessage{From: "5511988887777@c.us", Type: "ptt"}, want: false},
		{name: "image", msg: models.InboundMessage{From: "5511988887777@c.us", Type: "image"}, want: false},
		{name: "owner", msg: models.InboundMessage{From: "5511999990000@c.us", Type: "chat"}, want: false},
		{name: "empty sender", msg: models.InboundMessage{Type: "chat"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filter.Accept(tt.msg))
		})
	}
}

func TestFilter_NoOwner(t *testing.T) {
	filter := NewFilter("")
	assert.True(t, filter.Accept(models.InboundMessage{From: "5511999990000@c.us", Type: "chat"}))
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "5511999990000", normalizeID("5511999990000@c.us"))
	assert.Equal(t, "5511999990000", normalizeID(" +5511999990000 "))
	assert.Equal(t, "5511999990000", normalizeID("5511999990000"))
}
