package i18n

import (
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/ja"
	"github.com/go-playground/locales/zh"
	"github.com/go-playground/locales/zh_Hant_TW"
	ut "github.com/go-playground/universal-translator"
	"golang.org/x/text/language"
)

// UT holds the locales validation messages are translated into. English is the fallback.
var UT = ut.New(en.New(), en.New(), zh.New(), zh_Hant_TW.New(), ja.New())

// traditional chinese tags all resolve to the one locale we carry
var aliases = map[string]string{
	"zh_tw":   "zh_hant_tw",
	"zh_hk":   "zh_hant_tw",
	"zh_hant": "zh_hant_tw",
}

// Negotiate picks the translator for an Accept-Language header value, in the client's
// order of preference.
func Negotiate(acceptLanguage string) ut.Translator {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return UT.GetFallback()
	}

	locales := make([]string, 0, len(tags)*2)
	for _, tag := range tags {
		locale := strings.ReplaceAll(strings.ToLower(tag.String()), "-", "_")
		if alias, ok := aliases[locale]; ok {
			locale = alias
		}
		locales = append(locales, locale)
		// zh-CN still matches zh
		if base, conf := tag.Base(); conf != language.No {
			locales = append(locales, base.String())
		}
	}

	trans, _ := UT.FindTranslator(locales...)
	return trans
}
