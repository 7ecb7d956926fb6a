package handlers

import (
	"time"

	"click-collect/events"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler carries the dependencies shared by every endpoint.
type Handler struct {
	DB        *gorm.DB
	Log       *zap.SugaredLogger
	Events    events.Publisher
	JWTSecret []byte
	Now       func() time.Time
}

func New(db *gorm.DB, log *zap.SugaredLogger, pub events.Publisher, jwtSecret []byte) *Handler {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Handler{
		DB:        db,
		Log:       log,
		Events:    pub,
		JWTSecret: jwtSecret,
		Now:       time.Now,
	}
}
