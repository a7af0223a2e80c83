package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/jsamuelsen/quotevault/internal/domain"
	"github.com/jsamuelsen/quotevault/internal/ports"
)

var _ ports.HealthChecker = (*Pinger)(nil)

// Pinger reports database reachability to the health registry.
type Pinger struct {
	db *gorm.DB
}

// NewPinger creates a database health checker.
func NewPinger(db *gorm.DB) *Pinger {
	return &Pinger{db: db}
}

// Name implements ports.HealthChecker.
func (p *Pinger) Name() string {
	return "database"
}

// Check pings the connection pool.
func (p *Pinger) Check(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return domain.NewUnavailableError(p.Name(), err.Error())
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return domain.NewUnavailableError(p.Name(), err.Error())
	}

	return nil
}
