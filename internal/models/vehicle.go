package models

import "fmt"

// Vehicle identifies one of the nine vehicle classes in the reference tables
type Vehicle string

// Vehicle classes
const (
	VehicleCar     Vehicle = "Car"
	VehicleSport   Vehicle = "Sport"
	VehicleSuper   Vehicle = "Super"
	VehicleBigbike Vehicle = "Bigbike"
	VehicleMoto    Vehicle = "Moto"
	VehicleORV     Vehicle = "ORV"
	VehicleSUV     Vehicle = "SUV"
	VehicleTruck   Vehicle = "Truck"
	VehicleATV     Vehicle = "ATV"
)

// Vehicles lists all vehicle classes in their canonical order
var Vehicles = []Vehicle{
	VehicleCar, VehicleSport, VehicleSuper, VehicleBigbike, VehicleMoto,
	VehicleORV, VehicleSUV, VehicleTruck, VehicleATV,
}

// IsValid reports whether the vehicle is one of the known classes
func (v Vehicle) IsValid() bool {
	for _, known := range Vehicles {
		if v == known {
			return true
		}
	}
	return false
}

// ParseVehicle converts a string identifier to a Vehicle
func ParseVehicle(s string) (Vehicle, error) {
	v := Vehicle(s)
	if !v.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownVehicle, s)
	}
	return v, nil
}

// VehicleProfile holds the per-vehicle multipliers applied on top of the
// base speed table. The baseline vehicle carries 1.0 for every multiplier.
type VehicleProfile struct {
	Vehicle  Vehicle `json:"vehicle" validate:"required"`
	Power    float64 `json:"power" validate:"required,gt=0"`
	Handling float64 `json:"handling" validate:"required,gt=0"`
	Weight   float64 `json:"weight" validate:"required,gt=0"`
}
