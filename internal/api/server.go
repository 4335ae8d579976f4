package api

import (
	"context"

	"github.com/sousa16/chesslab/internal/services"
)

// Pinger reports whether the backing store answers.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	Users       services.UserService
	Repertoires services.RepertoireService
	Reviews     services.ReviewService
	Stats       services.StatsService
	Imports     services.ImportService
	DB          Pinger

	// PracticeBatchSize caps the practice queue when the request sets no limit.
	PracticeBatchSize int
}
