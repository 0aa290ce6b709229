// File: models/profile.go
package models

import "strings"

// UserProfile is stored at users/{uid}.
type UserProfile struct {
	UID           string `json:"-"`
	FullName      string `json:"fullName,omitempty"`
	ContactNumber string `json:"contactNumber,omitempty"`
	Email         string `json:"email,omitempty"`
	ProfileImage  string `json:"profileImage,omitempty"`
	VehicleType   string `json:"vehicleType,omitempty"`
	VehicleColor  string `json:"vehicleColor,omitempty"`
	PlateNumber   string `json:"plateNumber,omitempty"`
	FCMToken      string `json:"fcmToken,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

// VehicleInfo is the vehicle descriptor copied into every new parking event.
type VehicleInfo struct {
	VehicleType  string `json:"vehicleType" binding:"required,oneof=Sedan Coupes Pickup Van SUV"`
	VehicleColor string `json:"vehicleColor" binding:"required,oneof=Black White Blue Red Grey Silver"`
	PlateNumber  string `json:"plateNumber" binding:"required,max=16"`
}

// DriverInfo is the personal part of the profile edited on the driver info screen.
type DriverInfo struct {
	FullName      string `json:"fullName" binding:"required,max=120"`
	ContactNumber string `json:"contactNumber" binding:"required,max=32"`
	ProfileImage  string `json:"profileImage" binding:"omitempty,max=2048"`
}

// Vehicle returns the vehicle descriptor held by the profile.
func (p UserProfile) Vehicle() VehicleInfo {
	return VehicleInfo{
		VehicleType:  p.VehicleType,
		VehicleColor: p.VehicleColor,
		PlateNumber:  p.PlateNumber,
	}
}

// HasVehicle reports whether a vehicle was registered.
func (p UserProfile) HasVehicle() bool {
	return p.VehicleType != "" && p.PlateNumber != ""
}

// NormalizePlate makes plate numbers comparable regardless of case and spacing.
func NormalizePlate(plate string) string {
	return strings.ToLower(strings.Join(strings.Fields(plate), ""))
}
