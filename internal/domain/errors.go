package domain

import (
	"errors"
	"fmt"
)

// Application errors
var (
	// ErrNotFound запись не найдена
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate дубликат записи
	ErrDuplicate = errors.New("duplicate record")

	// ErrInvalidInput неверные входные данные
	ErrInvalidInput = errors.New("invalid input data")

	// ErrUpdateNotApplied обновление не было применено
	ErrUpdateNotApplied = errors.New("update not applied")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("internal error")
)

// ErrorKind вид ошибки, по которому граница запроса выбирает ответ
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindDuplicate
	KindNotFound
	KindUpdateNotApplied
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDuplicate:
		return "duplicate"
	case KindNotFound:
		return "not_found"
	case KindUpdateNotApplied:
		return "update_not_applied"
	default:
		return "internal"
	}
}

// KindOf классифицирует ошибку. Всё, что не распознано, считается внутренней ошибкой.
func KindOf(err error) ErrorKind {
	var (
		validationErrs ValidationErrors
		notFound       *NotFoundError
		duplicate      *CustomerAlreadyExistsError
	)
	switch {
	case errors.As(err, &validationErrs):
		return KindValidation
	case errors.As(err, &duplicate):
		return KindDuplicate
	case errors.As(err, &notFound):
		return KindNotFound
	case errors.Is(err, ErrUpdateNotApplied):
		return KindUpdateNotApplied
	default:
		return KindInternal
	}
}

// NotFoundError представляет ошибку "не найдено"
type NotFoundError struct {
	Resource string
	Field    string
	Value    string
}

// Error реализует интерфейс error
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with the given input data %s : '%s'", e.Resource, e.Field, e.Value)
}

// Is проверяет, является ли ошибка ошибкой типа "не найдено"
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError создает новую ошибку "не найдено"
func NewNotFoundError(resource, field, value string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Field:    field,
		Value:    value,
	}
}

// CustomerAlreadyExistsError клиент с таким номером телефона уже зарегистрирован
type CustomerAlreadyExistsError struct {
	MobileNumber string
}

// Error реализует интерфейс error
func (e *CustomerAlreadyExistsError) Error() string {
	return fmt.Sprintf("Customer already registered with given mobileNumber %s", e.MobileNumber)
}

// Is проверяет, является ли ошибка ошибкой дубликата
func (e *CustomerAlreadyExistsError) Is(target error) bool {
	return target == ErrDuplicate
}

// NewCustomerAlreadyExistsError создает новую ошибку дубликата
func NewCustomerAlreadyExistsError(mobileNumber string) *CustomerAlreadyExistsError {
	return &CustomerAlreadyExistsError{MobileNumber: mobileNumber}
}

// ValidationError представляет ошибку валидации
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors представляет набор ошибок валидации
type ValidationErrors []ValidationError

// Error реализует интерфейс error
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	if len(e) == 1 {
		return fmt.Sprintf("validation failed: %s - %s", e[0].Field, e[0].Message)
	}

	return fmt.Sprintf("validation failed: %d errors", len(e))
}

// Is позволяет сравнивать с ErrInvalidInput
func (e ValidationErrors) Is(target error) bool {
	return target == ErrInvalidInput
}

// Add добавляет ошибку валидации
func (e *ValidationErrors) Add(field, message string) {
	*e = append(*e, ValidationError{Field: field, Message: message})
}

// HasErrors проверяет наличие ошибок
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// AsMap возвращает ошибки в виде "поле -> сообщение".
// Если для поля несколько нарушений, остаётся первое.
func (e ValidationErrors) AsMap() map[string]string {
	out := make(map[string]string, len(e))
	for _, err := range e {
		if _, exists := out[err.Field]; !exists {
			out[err.Field] = err.Message
		}
	}
	return out
}

// GetByField возвращает сообщение об ошибке для указанного поля
func (e ValidationErrors) GetByField(field string) string {
	for _, err := range e {
		if err.Field == field {
			return err.Message
		}
	}
	return ""
}
