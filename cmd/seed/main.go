package main

import (
	"context"
	"log"
	"time"

	"fitmarket/internal/config"
	"fitmarket/internal/database"
	"fitmarket/internal/domain"
	"fitmarket/internal/logging"
	"fitmarket/internal/store/remote"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if cfg.LocalOnly() {
		logger.Fatal("DATABASE_URL is empty, nothing to seed")
	}

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}
	logger.Info("running AutoMigrate")
	if err := remote.Migrate(db); err != nil {
		logger.Fatal("AutoMigrate failed", zap.Error(err))
	}

	gw := remote.NewGateway(db, remote.WithTimeout(cfg.RemoteTimeout), remote.WithLogger(logger))
	ctx := context.Background()
	now := time.Now().UTC()

	for _, p := range plans(now) {
		if err := gw.Plans.Upsert(ctx, p); err != nil {
			logger.Fatal("seed plan failed", zap.String("plan", p.Name), zap.Error(err))
		}
	}
	for _, c := range categories(now) {
		if err := gw.Categories.Upsert(ctx, c); err != nil {
			logger.Fatal("seed category failed", zap.String("category", c.Name), zap.Error(err))
		}
	}
	logger.Info("seed complete")
}

// Fixed ids keep the seed idempotent.
func plans(now time.Time) []domain.Plan {
	promo := 79.0
	return []domain.Plan{
		{
			ID:                      "plan-gratis",
			Name:                    "Gratis",
			DurationDays:            30,
			MaxPhotos:               1,
			MaxReservationsPerMonth: 10,
			DisplayOrder:            1,
			Features:                []string{"Perfil básico", "10 reservas al mes"},
			IsActive:                true,
			CreatedAt:               now,
		},
		{
			ID:                "plan-profesional",
			Name:              "Profesional",
			DurationMonths:    3,
			Price:             99,
			PromoPrice:        &promo,
			MaxPhotos:         10,
			DisplayOrder:      2,
			Features:          []string{"Reservas ilimitadas", "Perfil destacado", "Estadísticas"},
			IsActive:          true,
			IsFeatured:        true,
			IncludesAnalytics: true,
			CreatedAt:         now,
		},
		{
			ID:                "plan-anual",
			Name:              "Anual",
			DurationMonths:    12,
			Price:             299,
			MaxPhotos:         20,
			DisplayOrder:      3,
			Features:          []string{"Todo lo del plan Profesional", "Soporte prioritario"},
			IsActive:          true,
			IncludesAnalytics: true,
			PrioritySupport:   true,
			CreatedAt:         now,
		},
	}
}

func categories(now time.Time) []domain.Category {
	names := []struct{ id, name, icon string }{
		{"cat-yoga", "Yoga", "yoga"},
		{"cat-pilates", "Pilates", "pilates"},
		{"cat-crossfit", "CrossFit", "dumbbell"},
		{"cat-running", "Running", "running"},
		{"cat-boxeo", "Boxeo", "boxing"},
		{"cat-nutricion", "Nutrición", "apple"},
	}
	out := make([]domain.Category, 0, len(names))
	for i, n := range names {
		out = append(out, domain.Category{
			ID:           n.id,
			Name:         n.name,
			Icon:         n.icon,
			DisplayOrder: i + 1,
			IsActive:     true,
			CreatedAt:    now,
		})
	}
	return out
}
