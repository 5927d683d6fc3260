// Package audit carries the acting principal and write time of a request
// down to the persistence layer as explicit values.
package audit

import (
	"context"
	"time"
)

type actorKey struct{}

// Stamp кто и когда выполняет запись
type Stamp struct {
	Actor string
	At    time.Time
}

// WithActor кладет исполнителя в контекст запроса
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom достает исполнителя из контекста
func ActorFrom(ctx context.Context) (string, bool) {
	actor, ok := ctx.Value(actorKey{}).(string)
	return actor, ok && actor != ""
}

// Clock источник текущего времени
type Clock func() time.Time

// Stamper строит Stamp для текущего запроса
type Stamper struct {
	defaultActor string
	now          Clock
}

// NewStamper создает Stamper. Если now == nil, используется time.Now в UTC.
func NewStamper(defaultActor string, now Clock) *Stamper {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Stamper{defaultActor: defaultActor, now: now}
}

// Stamp возвращает отметку для ctx; без исполнителя в контексте берется исполнитель по умолчанию
func (s *Stamper) Stamp(ctx context.Context) Stamp {
	actor, ok := ActorFrom(ctx)
	if !ok {
		actor = s.defaultActor
	}
	return Stamp{Actor: actor, At: s.now()}
}
