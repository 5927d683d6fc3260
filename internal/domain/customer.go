package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit аудиторские поля, общие для всех сущностей.
// Created* заполняются один раз при вставке, Updated* только при обновлении.
type Audit struct {
	CreatedAt time.Time  `json:"createdAt"`
	CreatedBy string     `json:"createdBy"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	UpdatedBy string     `json:"updatedBy,omitempty"`
}

// Customer представляет собой модель клиента банка
type Customer struct {
	CustomerID   uuid.UUID `json:"customerId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	MobileNumber string    `json:"mobileNumber"`
	Audit
}

// IsNew возвращает true, если клиент ещё не сохранён
func (c *Customer) IsNew() bool {
	return c.CustomerID == uuid.Nil
}

// Account представляет собой банковский счёт клиента
type Account struct {
	AccountNumber int64     `json:"accountNumber"`
	CustomerID    uuid.UUID `json:"customerId"`
	AccountType   string    `json:"accountType"`
	BranchAddress string    `json:"branchAddress"`
	Audit
}
