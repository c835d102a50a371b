package seeds

import (
	"context"
	"time"

	"go.uber.org/zap"

	"schemetrack_backend/internals/features/schemes/schemes/service"
	"schemetrack_backend/internals/seeds/schemes"
)

func RunAllSeeds(ctx context.Context, svc *service.SchemeService, today time.Time, log *zap.Logger) {
	//* Schemes
	if err := schemes.SeedSchemesFromJSON(ctx, svc, "internals/seeds/schemes/data_schemes.json", today, log); err != nil {
		log.Error("seed schemes", zap.Error(err))
	}
}
