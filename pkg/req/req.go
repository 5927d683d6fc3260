package req

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"regexp"
	"strings"

	"github.com/Dhoini/accounts-service/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// MobileNumberParam имя параметра запроса с номером телефона
const MobileNumberParam = "mobileNumber"

var mobileNumberRegex = regexp.MustCompile(`^$|^[0-9]{10}$`)

// messages сообщения об ошибках по ключу "поле.тег"
var messages = map[string]string{
	"name.required":        "Name cannot be a null or empty",
	"name.min":             "Name must be between 3 and 50 characters",
	"name.max":             "Name must be between 3 and 50 characters",
	"email.required":       "Email cannot be a null or empty",
	"email.email":          "Email must be a valid email address",
	"email.max":            "Email must be at most 254 characters",
	"mobileNumber.mobile":  "Mobile number must be 10 digits",
	"mobileNumber.missing": "Required request parameter 'mobileNumber' is not present",
	"body.malformed":       "Malformed JSON request",
}

// Validator проверяет входящие DTO и переводит ошибки в domain.ValidationErrors
type Validator struct {
	validate *validator.Validate
}

// NewValidator создает валидатор с тегом mobile и JSON-именами полей
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Ошибка возможна только при пустом теге или nil-функции
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobileNumberRegex.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Struct валидирует структуру. Возвращает nil или domain.ValidationErrors.
func (v *Validator) Struct(payload any) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var out domain.ValidationErrors
	for _, fe := range fieldErrs {
		out.Add(fe.Field(), messageFor(fe.Field(), fe.Tag()))
	}
	if !out.HasErrors() {
		return nil
	}
	return out
}

func messageFor(field, tag string) string {
	if msg, ok := messages[field+"."+tag]; ok {
		return msg
	}
	return field + " is invalid"
}

// Decode декодирует JSON из io.Reader в структуру типа T.
func Decode[T any](body io.Reader) (T, error) {
	var payload T
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return payload, err
	}
	return payload, nil
}

// HandleBody декодирует и валидирует тело запроса.
// Любая ошибка возвращается как domain.ValidationErrors.
func HandleBody[T any](c *gin.Context, v *Validator) (T, error) {
	body, err := Decode[T](c.Request.Body)
	if err != nil {
		var out domain.ValidationErrors
		out.Add("body", messages["body.malformed"])
		return body, out
	}

	if err := v.Struct(body); err != nil {
		return body, err
	}
	return body, nil
}

// HandleMobileQuery достает и валидирует параметр mobileNumber
func HandleMobileQuery(c *gin.Context, v *Validator) (string, error) {
	mobile, ok := c.GetQuery(MobileNumberParam)
	if !ok {
		var out domain.ValidationErrors
		out.Add(MobileNumberParam, messages["mobileNumber.missing"])
		return "", out
	}

	if err := v.Struct(domain.MobileQuery{MobileNumber: mobile}); err != nil {
		return "", err
	}
	return mobile, nil
}
