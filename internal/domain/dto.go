package domain

// Значения по умолчанию для новых счетов
const (
	AccountTypeSavings   = "Savings"
	DefaultBranchAddress = "123 Main Street, New York"
	DefaultAuditActor    = "ACCOUNTS_MS"
)

// Коды и сообщения ответов
const (
	Status201  = "201"
	Message201 = "Account created successfully"

	Status200  = "200"
	Message200 = "Request processed successfully"

	Status417        = "417"
	Message417Update = "Update operation failed. Please try again or contact Dev team"
	Message417Delete = "Delete operation failed. Please try again or contact Dev team"
)

// CustomerDto представление клиента на проводе (запрос/ответ).
// AccountsDto заполняется при fetch и обязателен для update.
type CustomerDto struct {
	Name         string       `json:"name" validate:"required,min=3,max=50"`
	Email        string       `json:"email" validate:"required,max=254,email"`
	MobileNumber string       `json:"mobileNumber" validate:"mobile"`
	AccountsDto  *AccountsDto `json:"accountsDto,omitempty"`
}

// AccountsDto представление счёта на проводе
type AccountsDto struct {
	AccountNumber int64  `json:"accountNumber"`
	AccountType   string `json:"accountType"`
	BranchAddress string `json:"branchAddress"`
}

// MobileQuery параметр запроса с номером телефона (fetch/delete)
type MobileQuery struct {
	MobileNumber string `json:"mobileNumber" validate:"mobile"`
}
