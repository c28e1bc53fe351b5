package rekuest

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	jaTranslations "github.com/go-playground/validator/v10/translations/ja"
	zhTranslations "github.com/go-playground/validator/v10/translations/zh"
	zhTwTranslations "github.com/go-playground/validator/v10/translations/zh_tw"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"exusiai.dev/posecoach/internal/constant"
	"exusiai.dev/posecoach/internal/pkg/pcerr"
	"exusiai.dev/posecoach/internal/util"
	"exusiai.dev/posecoach/internal/util/i18n"
)

var Validate = util.NewValidator()

// customTags are rendered with the message of the builtin tag they stand in for.
var customTags = map[string]string{
	"poseschema": "oneof",
}

func init() {
	var err error
	entr, _ := i18n.UT.GetTranslator("en")
	err = enTranslations.RegisterDefaultTranslations(Validate, entr)
	if err != nil {
		log.Warn().Err(err).Str("locale", "en").Msg("could not register translation")
	}

	zhtr, _ := i18n.UT.GetTranslator("zh")
	err = zhTranslations.RegisterDefaultTranslations(Validate, zhtr)
	if err != nil {
		log.Warn().Err(err).Str("locale", "zh").Msg("could not register translation")
	}

	zhtwtr, _ := i18n.UT.GetTranslator("zh_Hant_TW")
	err = zhTwTranslations.RegisterDefaultTranslations(Validate, zhtwtr)
	if err != nil {
		log.Warn().Err(err).Str("locale", "zh_Hant_TW").Msg("could not register translation")
	}

	jatr, _ := i18n.UT.GetTranslator("ja")
	err = jaTranslations.RegisterDefaultTranslations(Validate, jatr)
	if err != nil {
		log.Warn().Err(err).Str("locale", "ja").Msg("could not register translation")
	}

	translators := map[string]ut.Translator{
		"en":         entr,
		"zh":         zhtr,
		"zh_Hant_TW": zhtwtr,
		"ja":         jatr,
	}

	for l, t := range translators {
		for tag, builtin := range customTags {
			builtin := builtin
			err = Validate.RegisterTranslation(tag, t, func(ut ut.Translator) error {
				return nil
			}, func(ut ut.Translator, fe validator.FieldError) string {
				t, _ := ut.T(builtin, fe.Field(), fe.Param())
				return t
			})

			if err != nil {
				log.Warn().Err(err).Str("locale", l).Str("tag", tag).Msg("could not register translation for custom tag")
			}
		}
	}
}

type ErrorResponse struct {
	Field     string `json:"field,omitempty"`
	Violation string `json:"violation"`
	Message   string `json:"message"`
}

// TranslatorFromCtx returns the translator chosen by the i18n middleware, falling back to
// the default locale when the middleware did not run.
func TranslatorFromCtx(ctx *fiber.Ctx) ut.Translator {
	if t, ok := ctx.Locals(constant.ContextKeyTranslator).(ut.Translator); ok {
		return t
	}
	return i18n.UT.GetFallback()
}

func translate(utt ut.Translator, ve validator.ValidationErrors) []*ErrorResponse {
	trans := []*ErrorResponse{}

	for _, fe := range ve {
		trans = append(trans, &ErrorResponse{
			Field:     fe.Namespace(),
			Violation: fe.Tag(),
			Message:   util.AddSpace(fe.Translate(utt)),
		})
	}

	return trans
}

func validateVar(ctx *fiber.Ctx, s any, tag string) []*ErrorResponse {
	err := Validate.Var(s, tag)
	if err != nil {
		errs := err.(validator.ValidationErrors)
		return translate(TranslatorFromCtx(ctx), errs)
	}
	return nil
}

func validateStruct(ctx *fiber.Ctx, s any) []*ErrorResponse {
	err := Validate.Struct(s)
	if err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			panic(err)
		}
		return translate(TranslatorFromCtx(ctx), errs)
	}
	return nil
}

// ValidBody will get the body from *fiber.Ctx using fiber#BodyParser(),
// and validate it using the validator singleton. If the validation passed it will write the unmarshalled body
// to dest and return a nil, otherwise it will return an error. Notice that dest shall
// always be a pointer.
func ValidBody(ctx *fiber.Ctx, dest any) error {
	if err := ctx.BodyParser(dest); err != nil {
		return pcerr.ErrMalformedInput.Msg("malformed input: %s", err)
	}

	return ValidStruct(ctx, dest)
}

func ValidStruct(ctx *fiber.Ctx, dest any) error {
	if err := validateStruct(ctx, dest); err != nil {
		return pcerr.NewInvalidViolations(err)
	}

	return nil
}

func ValidVar(ctx *fiber.Ctx, field any, tag string) error {
	if err := validateVar(ctx, field, tag); err != nil {
		return pcerr.NewInvalidViolations(err)
	}

	return nil
}
