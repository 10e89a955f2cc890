package seed

import (
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/salon-natuerelle/salon-api/internal/config"
	"github.com/salon-natuerelle/salon-api/internal/domain/role"
	"github.com/salon-natuerelle/salon-api/internal/models"
)

// Run bootstraps a fresh database with staff accounts and a starter
// catalog. It is a no-op once any user exists.
func Run(db *gorm.DB, cfg *config.Config, log zerolog.Logger) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if _, err := seedUser(db, cfg, "Admin User", "admin@salonnatuerelle.com", "Admin@123", role.Admin); err != nil {
		return err
	}

	manager, err := seedUser(db, cfg, "Manager User", "manager@salonnatuerelle.com", "Manager@123", role.Manager)
	if err != nil {
		return err
	}

	services := []models.Service{
		{Name: "Haircut", Description: "Professional haircut with styling", Price: 30, DurationMin: 45},
		{Name: "Hair Coloring", Description: "Full hair coloring service", Price: 80, DurationMin: 120},
		{Name: "Manicure", Description: "Complete nail care and polish", Price: 25, DurationMin: 30},
		{Name: "Pedicure", Description: "Foot care and nail treatment", Price: 35, DurationMin: 45},
		{Name: "Facial Treatment", Description: "Deep cleansing facial", Price: 60, DurationMin: 60},
	}
	for i := range services {
		services[i].IsActive = true
		services[i].CreatedBy = manager.ID
	}
	if err := db.Create(&services).Error; err != nil {
		return err
	}

	log.Info().
		Str("admin", "admin@salonnatuerelle.com").
		Str("manager", "manager@salonnatuerelle.com").
		Msg("seeded empty database with default staff accounts")

	return nil
}

func seedUser(db *gorm.DB, cfg *config.Config, name, email, password string, r role.Role) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         r.String(),
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
