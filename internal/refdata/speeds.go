// Package refdata holds the static reference tables the prediction engine
// runs on: base speeds per vehicle and surface, the hidden-road prior,
// segment share blends, and the position weighting factors. All tables are
// fixed at process start and never mutated.
package refdata

import (
	"github.com/yourusername/racing-predictor/internal/models"
)

// speedTable maps vehicle class to base speed per road surface, km/h-equivalent.
var speedTable = map[models.Vehicle]map[models.RoadType]float64{
	models.VehicleCar: {
		models.RoadExpressway: 264, models.RoadHighway: 290.4, models.RoadDirt: 153.6,
		models.RoadPotholes: 67.2, models.RoadBumpy: 98.4, models.RoadDesert: 132,
	},
	models.VehicleSport: {
		models.RoadExpressway: 432, models.RoadHighway: 480, models.RoadDirt: 360,
		models.RoadPotholes: 57.6, models.RoadBumpy: 168, models.RoadDesert: 96,
	},
	models.VehicleSuper: {
		models.RoadExpressway: 480, models.RoadHighway: 528, models.RoadDirt: 264,
		models.RoadPotholes: 52.8, models.RoadBumpy: 151.2, models.RoadDesert: 62.4,
	},
	models.VehicleBigbike: {
		models.RoadExpressway: 264, models.RoadHighway: 230.4, models.RoadDirt: 165.6,
		models.RoadPotholes: 187.2, models.RoadBumpy: 259.2, models.RoadDesert: 132,
	},
	models.VehicleMoto: {
		models.RoadExpressway: 220.8, models.RoadHighway: 225.6, models.RoadDirt: 144,
		models.RoadPotholes: 96, models.RoadBumpy: 108, models.RoadDesert: 72,
	},
	models.VehicleORV: {
		models.RoadExpressway: 286, models.RoadHighway: 240, models.RoadDirt: 220.8,
		models.RoadPotholes: 134.4, models.RoadBumpy: 218.4, models.RoadDesert: 58.08,
	},
	models.VehicleSUV: {
		models.RoadExpressway: 348, models.RoadHighway: 360, models.RoadDirt: 336,
		models.RoadPotholes: 110.4, models.RoadBumpy: 213.6, models.RoadDesert: 139.2,
	},
	models.VehicleTruck: {
		models.RoadExpressway: 240, models.RoadHighway: 276, models.RoadDirt: 87.6,
		models.RoadPotholes: 108, models.RoadBumpy: 216, models.RoadDesert: 98.28,
	},
	models.VehicleATV: {
		models.RoadExpressway: 115.2, models.RoadHighway: 115.2, models.RoadDirt: 187.2,
		models.RoadPotholes: 144, models.RoadBumpy: 187.2, models.RoadDesert: 168,
	},
}

// Speed returns the base table speed for the vehicle on the given surface.
// The second return is false when either key is outside the closed sets.
func Speed(v models.Vehicle, r models.RoadType) (float64, bool) {
	row, ok := speedTable[v]
	if !ok {
		return 0, false
	}
	speed, ok := row[r]
	return speed, ok
}

// vehicleProfiles carries the power/handling/weight multipliers. Car is the
// baseline at 1.0 across the board.
var vehicleProfiles = map[models.Vehicle]models.VehicleProfile{
	models.VehicleCar:     {Vehicle: models.VehicleCar, Power: 1.0, Handling: 1.0, Weight: 1.0},
	models.VehicleSport:   {Vehicle: models.VehicleSport, Power: 1.3, Handling: 1.1, Weight: 0.95},
	models.VehicleSuper:   {Vehicle: models.VehicleSuper, Power: 1.5, Handling: 0.9, Weight: 0.9},
	models.VehicleBigbike: {Vehicle: models.VehicleBigbike, Power: 1.1, Handling: 1.2, Weight: 0.8},
	models.VehicleMoto:    {Vehicle: models.VehicleMoto, Power: 0.9, Handling: 1.3, Weight: 0.7},
	models.VehicleORV:     {Vehicle: models.VehicleORV, Power: 0.95, Handling: 1.4, Weight: 1.1},
	models.VehicleSUV:     {Vehicle: models.VehicleSUV, Power: 1.1, Handling: 1.0, Weight: 1.2},
	models.VehicleTruck:   {Vehicle: models.VehicleTruck, Power: 1.2, Handling: 0.7, Weight: 1.5},
	models.VehicleATV:     {Vehicle: models.VehicleATV, Power: 0.8, Handling: 1.5, Weight: 0.75},
}

// Profile returns the multiplier profile for a vehicle class
func Profile(v models.Vehicle) (models.VehicleProfile, bool) {
	p, ok := vehicleProfiles[v]
	return p, ok
}
