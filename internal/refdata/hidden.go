package refdata

import "github.com/yourusername/racing-predictor/internal/models"

// hiddenRoadMap is the static prior for the two unseen segments correlated
// with a given visible surface. Every entry maps to two distinct other
// surfaces, never to itself.
var hiddenRoadMap = map[models.RoadType][2]models.RoadType{
	models.RoadExpressway: {models.RoadHighway, models.RoadBumpy},
	models.RoadHighway:    {models.RoadExpressway, models.RoadDirt},
	models.RoadDirt:       {models.RoadPotholes, models.RoadDesert},
	models.RoadPotholes:   {models.RoadDirt, models.RoadBumpy},
	models.RoadBumpy:      {models.RoadHighway, models.RoadPotholes},
	models.RoadDesert:     {models.RoadDirt, models.RoadPotholes},
}

// HiddenRoads returns the statically likely unseen surfaces for a visible
// surface. Unknown input falls back to the dirt/potholes pair, matching the
// legacy-import defaults.
func HiddenRoads(visible models.RoadType) [2]models.RoadType {
	if pair, ok := hiddenRoadMap[visible]; ok {
		return pair
	}
	return [2]models.RoadType{models.DefaultHiddenRoad1, models.DefaultHiddenRoad2}
}
