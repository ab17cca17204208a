package controllers

import (
	"github.com/restaurante-kishimoto/kishimoto-web/config"
	"github.com/restaurante-kishimoto/kishimoto-web/services"
	"gorm.io/gorm"
)

// Controller holds everything the route handlers need. It replaces
// package-level database and config handles.
type Controller struct {
	db       *gorm.DB
	cfg      *config.Config
	sessions *services.SessionService
	resets   *services.ResetTokenService
	mailer   services.Mailer
	images   services.ImageService
}

// New wires the handlers to their dependencies
func New(
	db *gorm.DB,
	cfg *config.Config,
	sessions *services.SessionService,
	resets *services.ResetTokenService,
	mailer services.Mailer,
	images services.ImageService,
) *Controller {
	return &Controller{
		db:       db,
		cfg:      cfg,
		sessions: sessions,
		resets:   resets,
		mailer:   mailer,
		images:   images,
	}
}
