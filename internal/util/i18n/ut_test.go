package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNegotiate(t *testing.T) {
	cases := map[string]string{
		"":                           "en",
		"ja-JP,ja;q=0.9":             "ja",
		"zh-TW,zh;q=0.9":             "zh_Hant_TW",
		"fr-FR,zh-CN;q=0.8,en;q=0.5": "zh",
		"de":                         "en",
	}
	for header, want := range cases {
		t.Run(header, func(t *testing.T) {
			assert.Equal(t, want, Negotiate(header).Locale())
		})
	}
}
