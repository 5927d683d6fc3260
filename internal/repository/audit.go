package repository

import (
	"github.com/Dhoini/accounts-service/internal/audit"
	"github.com/Dhoini/accounts-service/internal/domain"
)

// stampCreated заполняет поля создания и очищает поля изменения
func stampCreated(a *domain.Audit, stamp audit.Stamp) {
	a.CreatedAt = stamp.At
	a.CreatedBy = stamp.Actor
	a.UpdatedAt = nil
	a.UpdatedBy = ""
}

// stampUpdated сохраняет поля создания из existing и выставляет поля изменения
func stampUpdated(a *domain.Audit, existing domain.Audit, stamp audit.Stamp) {
	at := stamp.At
	a.CreatedAt = existing.CreatedAt
	a.CreatedBy = existing.CreatedBy
	a.UpdatedAt = &at
	a.UpdatedBy = stamp.Actor
}
