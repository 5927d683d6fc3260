package service

import (
	"crypto/rand"
	"math/big"
)

// Диапазон номеров счетов: десять цифр, [1_000_000_000, 1_999_999_999)
const (
	accountNumberBase  int64 = 1_000_000_000
	accountNumberSpan  int64 = 999_999_999
	accountNumberTries       = 5
)

// NumberSource выдает кандидата в номера счетов
type NumberSource func() (int64, error)

// RandomAccountNumber случайный номер счета из допустимого диапазона
func RandomAccountNumber() (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(accountNumberSpan))
	if err != nil {
		return 0, err
	}
	return accountNumberBase + n.Int64(), nil
}
