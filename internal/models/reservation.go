package models

import "time"

type Reservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID   uint `gorm:"not null;index" json:"userId"`
	Customer User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"customer"`

	ServiceID uint    `gorm:"not null;index" json:"serviceId"`
	Service   Service `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"service"`

	ScheduledAt time.Time `gorm:"not null" json:"reservationDate"`
	Status      string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	Notes       string    `gorm:"size:500" json:"notes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
