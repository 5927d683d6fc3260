// Package mapper переводит DTO запросов в сущности хранилища и обратно.
package mapper

import "github.com/Dhoini/accounts-service/internal/domain"

// ToCustomerDto копирует поля клиента в DTO. AccountsDto не заполняется.
func ToCustomerDto(customer *domain.Customer) domain.CustomerDto {
	return domain.CustomerDto{
		Name:         customer.Name,
		Email:        customer.Email,
		MobileNumber: customer.MobileNumber,
	}
}

// ToCustomer переносит изменяемые поля DTO в клиента
func ToCustomer(dto domain.CustomerDto, customer *domain.Customer) *domain.Customer {
	customer.Name = dto.Name
	customer.Email = dto.Email
	customer.MobileNumber = dto.MobileNumber
	return customer
}

// ToAccountsDto копирует поля счета в DTO
func ToAccountsDto(account *domain.Account) domain.AccountsDto {
	return domain.AccountsDto{
		AccountNumber: account.AccountNumber,
		AccountType:   account.AccountType,
		BranchAddress: account.BranchAddress,
	}
}

// ToAccount переносит поля DTO в счет.
// Номер счета тоже копируется, поэтому вызывать только для счета, найденного по этому номеру.
func ToAccount(dto domain.AccountsDto, account *domain.Account) *domain.Account {
	account.AccountNumber = dto.AccountNumber
	account.AccountType = dto.AccountType
	account.BranchAddress = dto.BranchAddress
	return account
}
